package application

import (
	"context"
	"fmt"

	"github.com/railbook/railbook/internal/railway/domain"
	pkgApp "github.com/railbook/railbook/pkg/application"
	pkgDomain "github.com/railbook/railbook/pkg/domain"
)

type purchaseTicketHandler struct {
	eventBus    pkgApp.EventBus[pkgDomain.Event[string], string]
	inventory   *domain.Inventory
	idGenerator pkgDomain.IDGenerator[string]
	logger      pkgApp.AppLogger
}

func (h *purchaseTicketHandler) Handle(ctx context.Context, command pkgDomain.Command[PurchaseTicketData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	receipt, err := h.inventory.Purchase(ctx, data.Phone, data.TrainNumber, data.StartStation, data.EndStation, h.idGenerator())
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "purchase failed", err, map[string]interface{}{
			"phone": data.Phone,
			"train": data.TrainNumber,
			"from":  data.StartStation,
			"to":    data.EndStation,
		})
		return err
	}

	event := NewTicketPurchasedEvent(fmt.Sprintf("ticket %s purchased on train %s (%s -> %s), price %d, balance %.2f",
		receipt.Trip.ID, data.TrainNumber, data.StartStation, data.EndStation, receipt.Price, receipt.NewBalance))
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "error publishing event", err, nil)
		return err
	}

	pkgApp.LogInfo(ctx, h.logger, "ticket purchased", map[string]interface{}{
		"trip_id":     receipt.Trip.ID,
		"train":       data.TrainNumber,
		"price":       receipt.Price,
		"new_balance": receipt.NewBalance,
	})
	return nil
}

func NewPurchaseTicketHandler(eventBus pkgApp.EventBus[pkgDomain.Event[string], string], inventory *domain.Inventory, idGenerator pkgDomain.IDGenerator[string], logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[PurchaseTicketData], PurchaseTicketData] {
	return &purchaseTicketHandler{
		eventBus:    eventBus,
		inventory:   inventory,
		idGenerator: idGenerator,
		logger:      logger,
	}
}

type cancelTicketHandler struct {
	eventBus  pkgApp.EventBus[pkgDomain.Event[string], string]
	inventory *domain.Inventory
	logger    pkgApp.AppLogger
}

func (h *cancelTicketHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelTicketData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	receipt, err := h.inventory.Cancel(ctx, data.Phone, data.TrainNumber)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "cancellation failed", err, map[string]interface{}{
			"phone": data.Phone,
			"train": data.TrainNumber,
		})
		return err
	}

	event := NewTicketCancelledEvent(fmt.Sprintf("ticket on train %s cancelled, refund %d of %d, balance %.2f",
		data.TrainNumber, receipt.Refund, receipt.OriginalPrice, receipt.NewBalance))
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "error publishing event", err, nil)
		return err
	}

	pkgApp.LogInfo(ctx, h.logger, "ticket cancelled", map[string]interface{}{
		"train":       data.TrainNumber,
		"refund":      receipt.Refund,
		"new_balance": receipt.NewBalance,
	})
	return nil
}

func NewCancelTicketHandler(eventBus pkgApp.EventBus[pkgDomain.Event[string], string], inventory *domain.Inventory, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[CancelTicketData], CancelTicketData] {
	return &cancelTicketHandler{
		eventBus:  eventBus,
		inventory: inventory,
		logger:    logger,
	}
}

type suspendTrainHandler struct {
	eventBus  pkgApp.EventBus[pkgDomain.Event[string], string]
	inventory *domain.Inventory
	logger    pkgApp.AppLogger
}

func (h *suspendTrainHandler) Handle(ctx context.Context, command pkgDomain.Command[TrainServiceData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	if err := h.inventory.Suspend(ctx, data.TrainNumber); err != nil {
		pkgApp.LogError(ctx, h.logger, "suspend failed", err, map[string]interface{}{
			"train": data.TrainNumber,
		})
		return err
	}

	event := NewTrainServiceChangedEvent("train " + data.TrainNumber + " suspended")
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "error publishing event", err, nil)
		return err
	}

	pkgApp.LogInfo(ctx, h.logger, "train suspended", map[string]interface{}{
		"train": data.TrainNumber,
	})
	return nil
}

func NewSuspendTrainHandler(eventBus pkgApp.EventBus[pkgDomain.Event[string], string], inventory *domain.Inventory, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[TrainServiceData], TrainServiceData] {
	return &suspendTrainHandler{
		eventBus:  eventBus,
		inventory: inventory,
		logger:    logger,
	}
}

type resumeTrainHandler struct {
	eventBus  pkgApp.EventBus[pkgDomain.Event[string], string]
	inventory *domain.Inventory
	logger    pkgApp.AppLogger
}

func (h *resumeTrainHandler) Handle(ctx context.Context, command pkgDomain.Command[TrainServiceData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	if err := h.inventory.Resume(ctx, data.TrainNumber); err != nil {
		pkgApp.LogError(ctx, h.logger, "resume failed", err, map[string]interface{}{
			"train": data.TrainNumber,
		})
		return err
	}

	event := NewTrainServiceChangedEvent("train " + data.TrainNumber + " back in service")
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "error publishing event", err, nil)
		return err
	}

	pkgApp.LogInfo(ctx, h.logger, "train resumed", map[string]interface{}{
		"train": data.TrainNumber,
	})
	return nil
}

func NewResumeTrainHandler(eventBus pkgApp.EventBus[pkgDomain.Event[string], string], inventory *domain.Inventory, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[TrainServiceData], TrainServiceData] {
	return &resumeTrainHandler{
		eventBus:  eventBus,
		inventory: inventory,
		logger:    logger,
	}
}

type registerUserHandler struct {
	eventBus  pkgApp.EventBus[pkgDomain.Event[string], string]
	inventory *domain.Inventory
	logger    pkgApp.AppLogger
}

func (h *registerUserHandler) Handle(ctx context.Context, command pkgDomain.Command[RegisterUserData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	if err := h.inventory.RegisterUser(ctx, data.Phone, data.Password, data.Name, data.IDNumber); err != nil {
		pkgApp.LogError(ctx, h.logger, "registration failed", err, map[string]interface{}{
			"phone": data.Phone,
		})
		return err
	}

	event := NewUserRegisteredEvent("user registered with phone " + data.Phone)
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "error publishing event", err, nil)
		return err
	}

	pkgApp.LogInfo(ctx, h.logger, "user registered", map[string]interface{}{
		"phone": data.Phone,
	})
	return nil
}

func NewRegisterUserHandler(eventBus pkgApp.EventBus[pkgDomain.Event[string], string], inventory *domain.Inventory, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[RegisterUserData], RegisterUserData] {
	return &registerUserHandler{
		eventBus:  eventBus,
		inventory: inventory,
		logger:    logger,
	}
}

type rechargeBalanceHandler struct {
	inventory *domain.Inventory
	logger    pkgApp.AppLogger
}

func (h *rechargeBalanceHandler) Handle(ctx context.Context, command pkgDomain.Command[RechargeBalanceData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	newBalance, err := h.inventory.Recharge(ctx, data.Phone, data.Amount)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "recharge failed", err, map[string]interface{}{
			"phone":  data.Phone,
			"amount": data.Amount,
		})
		return err
	}

	pkgApp.LogInfo(ctx, h.logger, "balance recharged", map[string]interface{}{
		"phone":       data.Phone,
		"amount":      data.Amount,
		"new_balance": newBalance,
	})
	return nil
}

func NewRechargeBalanceHandler(inventory *domain.Inventory, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[RechargeBalanceData], RechargeBalanceData] {
	return &rechargeBalanceHandler{
		inventory: inventory,
		logger:    logger,
	}
}

type searchFaresHandler struct {
	inventory *domain.Inventory
	logger    pkgApp.AppLogger
}

func (h *searchFaresHandler) Handle(ctx context.Context, query pkgDomain.Query[SearchFaresData]) ([]domain.FareResult, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	data := query.Payload()
	results := h.inventory.SearchFares(data.StartStation, data.EndStation, data.DepartAfter)

	pkgApp.LogInfo(ctx, h.logger, "fares searched", map[string]interface{}{
		"from":    data.StartStation,
		"to":      data.EndStation,
		"after":   data.DepartAfter,
		"results": len(results),
	})
	return results, nil
}

func NewSearchFaresHandler(inventory *domain.Inventory, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[SearchFaresData], SearchFaresData, []domain.FareResult] {
	return &searchFaresHandler{
		inventory: inventory,
		logger:    logger,
	}
}

type getAccountHandler struct {
	inventory *domain.Inventory
	logger    pkgApp.AppLogger
}

func (h *getAccountHandler) Handle(ctx context.Context, query pkgDomain.Query[GetAccountData]) (domain.User, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return domain.User{}, ctx.Err()
	}

	data := query.Payload()
	account, err := h.inventory.Account(data.Phone)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "account lookup failed", err, map[string]interface{}{
			"phone": data.Phone,
		})
		return domain.User{}, err
	}

	return account, nil
}

func NewGetAccountHandler(inventory *domain.Inventory, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[GetAccountData], GetAccountData, domain.User] {
	return &getAccountHandler{
		inventory: inventory,
		logger:    logger,
	}
}

type trainStatusHandler struct {
	inventory *domain.Inventory
	logger    pkgApp.AppLogger
}

func (h *trainStatusHandler) Handle(ctx context.Context, query pkgDomain.Query[TrainStatusData]) ([]domain.TrainStatus, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	return h.inventory.TrainStatuses(), nil
}

func NewTrainStatusHandler(inventory *domain.Inventory, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[TrainStatusData], TrainStatusData, []domain.TrainStatus] {
	return &trainStatusHandler{
		inventory: inventory,
		logger:    logger,
	}
}

type bookingActivityEventHandler struct {
	logger pkgApp.AppLogger
}

func (h *bookingActivityEventHandler) Handle(ctx context.Context, event pkgDomain.Event[string]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	pkgApp.LogInfo(ctx, h.logger, "booking activity", map[string]interface{}{
		"event":   event.EventName(),
		"payload": event.Payload(),
	})
	return nil
}

// NewBookingActivityEventHandler logs every booking domain event; it is
// registered for all event names on the bus.
func NewBookingActivityEventHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[string], string] {
	return &bookingActivityEventHandler{
		logger: logger,
	}
}
