package main

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/railbook/railbook/internal/railway/application"
	"github.com/railbook/railbook/internal/railway/domain"
	"github.com/railbook/railbook/internal/railway/infrastructure"
	pkgDomain "github.com/railbook/railbook/pkg/domain"
	"github.com/railbook/railbook/pkg/infrastructure/channels/adapter"
	watermillLogAdapter "github.com/railbook/railbook/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/railbook/railbook/pkg/infrastructure/zaplogger/adapter"
)

// Demo wiring: the booking slice running over in-process Watermill
// channels. Seeds one train and one passenger, buys a ticket through
// the command bus and reads the fares back through the query bus.
func main() {
	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	logger := watermillLogAdapter.NewWatermillLoggerAdapter(appLogger)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := infrastructure.NewInMemoryInventoryStore(appLogger)
	inventory := domain.NewInventory(store)

	if err := inventory.AddTrain(ctx, sampleTrain()); err != nil {
		appLogger.Error(ctx, "failed to seed train", map[string]interface{}{"error": err})
		return
	}
	if err := inventory.RegisterUser(ctx, "13800138000", "Secret123", "Alice Zhang", "110101199003071234"); err != nil {
		appLogger.Error(ctx, "failed to seed user", map[string]interface{}{"error": err})
		return
	}

	idGenerator := func() string {
		return uuid.New().String()
	}

	commandBus := adapter.NewWatermillCommandBus[pkgDomain.Command[application.PurchaseTicketData], application.PurchaseTicketData](pubSub, pubSub, appLogger)
	queryBus := adapter.NewWatermillQueryBus[pkgDomain.Query[application.SearchFaresData], application.SearchFaresData, []domain.FareResult](pubSub, pubSub, appLogger)
	eventBus := adapter.NewWatermillEventBus[pkgDomain.Event[string], string](pubSub, pubSub, appLogger)

	commandBus.RegisterHandler("PurchaseTicket", application.NewPurchaseTicketHandler(eventBus, inventory, idGenerator, appLogger))
	queryBus.RegisterHandler("SearchFares", application.NewSearchFaresHandler(inventory, appLogger))
	eventBus.RegisterHandler("TicketPurchased", application.NewBookingActivityEventHandler(appLogger))

	command := application.NewPurchaseTicketCommand(application.PurchaseTicketData{
		Phone:        "13800138000",
		TrainNumber:  "G101",
		StartStation: "Central",
		EndStation:   "Harbor",
	})
	if err := commandBus.Dispatch(ctx, command); err != nil {
		appLogger.Error(ctx, "failed to dispatch purchase", map[string]interface{}{"error": err})
		return
	}

	// Give the subscriber a moment to consume the command.
	time.Sleep(1 * time.Second)

	query := application.NewSearchFaresQuery(application.SearchFaresData{
		StartStation: "Central",
		EndStation:   "Harbor",
	})
	fares, err := queryBus.Dispatch(ctx, query)
	if err != nil {
		appLogger.Error(ctx, "failed to dispatch fare search", map[string]interface{}{"error": err})
		return
	}

	appLogger.Info(ctx, "fares after purchase", map[string]interface{}{
		"fares": fares,
	})
}

func sampleTrain() *domain.Train {
	return domain.NewTrain(
		"G101",
		[]string{"Central", "Riverside", "Harbor"},
		[]string{"08:30", "09:15", "10:05", "18:00", "18:50", "19:40"},
		[][]int{
			{0, 5, 3},
			{0, 0, 2},
			{0, 0, 0},
		},
		[][]int{
			{0, 100, 250},
			{0, 0, 150},
			{0, 0, 0},
		},
	)
}
