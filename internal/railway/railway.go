package railway

import (
	"github.com/go-chi/chi/v5"

	"github.com/railbook/railbook/internal/railway/application"
	"github.com/railbook/railbook/internal/railway/domain"
	"github.com/railbook/railbook/internal/railway/infrastructure"
	pkgApp "github.com/railbook/railbook/pkg/application"
	pkgDomain "github.com/railbook/railbook/pkg/domain"
)

// Buses groups every bus the booking slice dispatches on. One command
// bus per payload type, one query bus per result type; the event bus is
// shared.
type Buses struct {
	Purchase pkgApp.CommandBus[pkgDomain.Command[application.PurchaseTicketData], application.PurchaseTicketData]
	Cancel   pkgApp.CommandBus[pkgDomain.Command[application.CancelTicketData], application.CancelTicketData]
	Service  pkgApp.CommandBus[pkgDomain.Command[application.TrainServiceData], application.TrainServiceData]
	Register pkgApp.CommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData]
	Recharge pkgApp.CommandBus[pkgDomain.Command[application.RechargeBalanceData], application.RechargeBalanceData]

	Fares    pkgApp.QueryBus[pkgDomain.Query[application.SearchFaresData], application.SearchFaresData, []domain.FareResult]
	Account  pkgApp.QueryBus[pkgDomain.Query[application.GetAccountData], application.GetAccountData, domain.User]
	Statuses pkgApp.QueryBus[pkgDomain.Query[application.TrainStatusData], application.TrainStatusData, []domain.TrainStatus]

	Events pkgApp.EventBus[pkgDomain.Event[string], string]
}

type RailwaySlice struct {
	httpHandler *infrastructure.RailwayHTTPHandler
}

// NewRailwaySlice registers every handler on its bus and builds the
// HTTP facade.
func NewRailwaySlice(
	buses Buses,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
	inventory *domain.Inventory,
) *RailwaySlice {
	buses.Purchase.RegisterHandler("PurchaseTicket", application.NewPurchaseTicketHandler(buses.Events, inventory, idGenerator, logger))
	buses.Cancel.RegisterHandler("CancelTicket", application.NewCancelTicketHandler(buses.Events, inventory, logger))
	buses.Service.RegisterHandler("SuspendTrain", application.NewSuspendTrainHandler(buses.Events, inventory, logger))
	buses.Service.RegisterHandler("ResumeTrain", application.NewResumeTrainHandler(buses.Events, inventory, logger))
	buses.Register.RegisterHandler("RegisterUser", application.NewRegisterUserHandler(buses.Events, inventory, logger))
	buses.Recharge.RegisterHandler("RechargeBalance", application.NewRechargeBalanceHandler(inventory, logger))

	buses.Fares.RegisterHandler("SearchFares", application.NewSearchFaresHandler(inventory, logger))
	buses.Account.RegisterHandler("GetAccount", application.NewGetAccountHandler(inventory, logger))
	buses.Statuses.RegisterHandler("TrainStatuses", application.NewTrainStatusHandler(inventory, logger))

	activityHandler := application.NewBookingActivityEventHandler(logger)
	for _, eventName := range []string{"TicketPurchased", "TicketCancelled", "TrainServiceChanged", "UserRegistered"} {
		buses.Events.RegisterHandler(eventName, activityHandler)
	}

	httpHandler := infrastructure.NewRailwayHTTPHandler(
		buses.Purchase,
		buses.Cancel,
		buses.Service,
		buses.Register,
		buses.Recharge,
		buses.Fares,
		buses.Account,
		buses.Statuses,
		inventory,
	)

	return &RailwaySlice{
		httpHandler: httpHandler,
	}
}

func (s *RailwaySlice) RegisterRoutes(router *chi.Mux) {
	s.httpHandler.RegisterRoutes(router)
}
