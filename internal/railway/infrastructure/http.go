package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/railbook/railbook/internal/railway/application"
	"github.com/railbook/railbook/internal/railway/domain"
	pkgApp "github.com/railbook/railbook/pkg/application"
	pkgDomain "github.com/railbook/railbook/pkg/domain"
)

const requestTimeout = 10 * time.Second

// RailwayHTTPHandler exposes the booking slice over REST. Writes go
// through the command buses, reads through the query buses; the two
// login endpoints hit the inventory directly because credentials never
// travel the bus.
type RailwayHTTPHandler struct {
	purchaseBus pkgApp.CommandBus[pkgDomain.Command[application.PurchaseTicketData], application.PurchaseTicketData]
	cancelBus   pkgApp.CommandBus[pkgDomain.Command[application.CancelTicketData], application.CancelTicketData]
	serviceBus  pkgApp.CommandBus[pkgDomain.Command[application.TrainServiceData], application.TrainServiceData]
	registerBus pkgApp.CommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData]
	rechargeBus pkgApp.CommandBus[pkgDomain.Command[application.RechargeBalanceData], application.RechargeBalanceData]

	fareBus    pkgApp.QueryBus[pkgDomain.Query[application.SearchFaresData], application.SearchFaresData, []domain.FareResult]
	accountBus pkgApp.QueryBus[pkgDomain.Query[application.GetAccountData], application.GetAccountData, domain.User]
	statusBus  pkgApp.QueryBus[pkgDomain.Query[application.TrainStatusData], application.TrainStatusData, []domain.TrainStatus]

	inventory *domain.Inventory
}

func NewRailwayHTTPHandler(
	purchaseBus pkgApp.CommandBus[pkgDomain.Command[application.PurchaseTicketData], application.PurchaseTicketData],
	cancelBus pkgApp.CommandBus[pkgDomain.Command[application.CancelTicketData], application.CancelTicketData],
	serviceBus pkgApp.CommandBus[pkgDomain.Command[application.TrainServiceData], application.TrainServiceData],
	registerBus pkgApp.CommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData],
	rechargeBus pkgApp.CommandBus[pkgDomain.Command[application.RechargeBalanceData], application.RechargeBalanceData],
	fareBus pkgApp.QueryBus[pkgDomain.Query[application.SearchFaresData], application.SearchFaresData, []domain.FareResult],
	accountBus pkgApp.QueryBus[pkgDomain.Query[application.GetAccountData], application.GetAccountData, domain.User],
	statusBus pkgApp.QueryBus[pkgDomain.Query[application.TrainStatusData], application.TrainStatusData, []domain.TrainStatus],
	inventory *domain.Inventory,
) *RailwayHTTPHandler {
	return &RailwayHTTPHandler{
		purchaseBus: purchaseBus,
		cancelBus:   cancelBus,
		serviceBus:  serviceBus,
		registerBus: registerBus,
		rechargeBus: rechargeBus,
		fareBus:     fareBus,
		accountBus:  accountBus,
		statusBus:   statusBus,
		inventory:   inventory,
	}
}

func (h *RailwayHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/users", h.HandleRegisterUser)
	router.Post("/users/login", h.HandleLogin)
	router.Get("/users/{phone}", h.HandleGetAccount)
	router.Post("/users/{phone}/recharge", h.HandleRecharge)

	router.Get("/fares", h.HandleSearchFares)
	router.Post("/tickets", h.HandlePurchaseTicket)
	router.Post("/tickets/cancel", h.HandleCancelTicket)

	router.Post("/admins/login", h.HandleAdminLogin)
	router.Get("/trains", h.HandleTrainStatuses)
	router.Post("/trains/{trainNumber}/suspend", h.HandleSuspendTrain)
	router.Post("/trains/{trainNumber}/resume", h.HandleResumeTrain)
}

func (h *RailwayHTTPHandler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var data application.RegisterUserData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.registerBus.Dispatch(ctx, application.NewRegisterUserCommand(data)); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "user registered",
		"phone":   data.Phone,
	})
}

func (h *RailwayHTTPHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.inventory.Authenticate(credentials.Phone, credentials.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *RailwayHTTPHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	query := application.NewGetAccountQuery(application.GetAccountData{
		Phone: chi.URLParam(r, "phone"),
	})

	ctx, cancel := requestContext(r)
	defer cancel()

	account, err := h.accountBus.Dispatch(ctx, query)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *RailwayHTTPHandler) HandleRecharge(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}

	data := application.RechargeBalanceData{
		Phone:  chi.URLParam(r, "phone"),
		Amount: body.Amount,
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.rechargeBus.Dispatch(ctx, application.NewRechargeBalanceCommand(data)); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "balance recharged",
		"phone":   data.Phone,
		"amount":  data.Amount,
	})
}

func (h *RailwayHTTPHandler) HandleSearchFares(w http.ResponseWriter, r *http.Request) {
	query := application.NewSearchFaresQuery(application.SearchFaresData{
		StartStation: r.URL.Query().Get("from"),
		EndStation:   r.URL.Query().Get("to"),
		DepartAfter:  r.URL.Query().Get("after"),
	})

	ctx, cancel := requestContext(r)
	defer cancel()

	fares, err := h.fareBus.Dispatch(ctx, query)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fares)
}

func (h *RailwayHTTPHandler) HandlePurchaseTicket(w http.ResponseWriter, r *http.Request) {
	var data application.PurchaseTicketData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.purchaseBus.Dispatch(ctx, application.NewPurchaseTicketCommand(data)); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "ticket purchased",
		"data":    data,
	})
}

func (h *RailwayHTTPHandler) HandleCancelTicket(w http.ResponseWriter, r *http.Request) {
	var data application.CancelTicketData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.cancelBus.Dispatch(ctx, application.NewCancelTicketCommand(data)); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "ticket cancelled",
		"data":    data,
	})
}

func (h *RailwayHTTPHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		handleError(w, "invalid request", http.StatusBadRequest)
		return
	}

	admin, err := h.inventory.AuthenticateAdmin(credentials.Username, credentials.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, admin)
}

func (h *RailwayHTTPHandler) HandleTrainStatuses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	statuses, err := h.statusBus.Dispatch(ctx, application.NewTrainStatusQuery(application.TrainStatusData{}))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statuses)
}

func (h *RailwayHTTPHandler) HandleSuspendTrain(w http.ResponseWriter, r *http.Request) {
	h.dispatchServiceChange(w, r, application.NewSuspendTrainCommand, "train suspended")
}

func (h *RailwayHTTPHandler) HandleResumeTrain(w http.ResponseWriter, r *http.Request) {
	h.dispatchServiceChange(w, r, application.NewResumeTrainCommand, "train resumed")
}

func (h *RailwayHTTPHandler) dispatchServiceChange(
	w http.ResponseWriter,
	r *http.Request,
	newCommand func(application.TrainServiceData) pkgDomain.Command[application.TrainServiceData],
	message string,
) {
	data := application.TrainServiceData{
		TrainNumber: chi.URLParam(r, "trainNumber"),
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.serviceBus.Dispatch(ctx, newCommand(data)); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"train":   data.TrainNumber,
	})
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeDomainError maps booking errors onto HTTP statuses. An
// insufficient balance carries its shortfall so clients can prompt for
// the exact recharge.
func writeDomainError(w http.ResponseWriter, err error) {
	var balanceErr *domain.InsufficientBalanceError
	if errors.As(err, &balanceErr) {
		writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error":     "insufficient balance",
			"price":     balanceErr.Price,
			"balance":   balanceErr.Balance,
			"shortfall": balanceErr.Shortfall(),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrTrainNotFound),
		errors.Is(err, domain.ErrStationNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTripNotFound):
		handleError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrWrongCredentials):
		handleError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, domain.ErrSegmentUnavailable),
		errors.Is(err, domain.ErrTrainSuspended),
		errors.Is(err, domain.ErrTrainNotSuspended),
		errors.Is(err, domain.ErrDuplicatePhone),
		errors.Is(err, domain.ErrDuplicateUsername):
		handleError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrInvalidIDNumber),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooHigh):
		handleError(w, err.Error(), http.StatusBadRequest)
	default:
		handleError(w, err.Error(), http.StatusInternalServerError)
	}
}

func handleError(w http.ResponseWriter, message string, statusCode int) {
	http.Error(w, message, statusCode)
}
