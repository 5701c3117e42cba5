package main

import (
	"context"
	"net/http"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/railbook/railbook/internal/railway"
	"github.com/railbook/railbook/internal/railway/application"
	"github.com/railbook/railbook/internal/railway/domain"
	"github.com/railbook/railbook/internal/railway/infrastructure"
	pkgDomain "github.com/railbook/railbook/pkg/domain"
	"github.com/railbook/railbook/pkg/infrastructure/redis/adapter"
	watermillLogAdapter "github.com/railbook/railbook/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/railbook/railbook/pkg/infrastructure/zaplogger/adapter"
)

// Demo wiring: the booking slice served over HTTP with every bus backed
// by Redis streams.
func main() {
	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	logger := watermillLogAdapter.NewWatermillLoggerAdapter(appLogger)

	redisClient := adapter.NewRedisClient()
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: redisClient,
	}, logger)
	if err != nil {
		appLogger.Error(ctx, "failed to create publisher", map[string]interface{}{"error": err})
		return
	}
	defer publisher.Close()

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        redisClient,
		ConsumerGroup: "railbook",
		Consumer:      "railbook_api",
	}, logger)
	if err != nil {
		appLogger.Error(ctx, "failed to create subscriber", map[string]interface{}{"error": err})
		return
	}
	defer subscriber.Close()

	store := infrastructure.NewInMemoryInventoryStore(appLogger)
	inventory := domain.NewInventory(store)
	if err := inventory.Load(ctx); err != nil {
		appLogger.Error(ctx, "failed to load inventory", map[string]interface{}{"error": err})
		return
	}

	idGenerator := func() string {
		return uuid.New().String()
	}

	buses := railway.Buses{
		Purchase: adapter.NewRedisCommandBus[pkgDomain.Command[application.PurchaseTicketData], application.PurchaseTicketData](publisher, subscriber, appLogger),
		Cancel:   adapter.NewRedisCommandBus[pkgDomain.Command[application.CancelTicketData], application.CancelTicketData](publisher, subscriber, appLogger),
		Service:  adapter.NewRedisCommandBus[pkgDomain.Command[application.TrainServiceData], application.TrainServiceData](publisher, subscriber, appLogger),
		Register: adapter.NewRedisCommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData](publisher, subscriber, appLogger),
		Recharge: adapter.NewRedisCommandBus[pkgDomain.Command[application.RechargeBalanceData], application.RechargeBalanceData](publisher, subscriber, appLogger),
		Fares:    adapter.NewRedisQueryBus[pkgDomain.Query[application.SearchFaresData], application.SearchFaresData, []domain.FareResult](publisher, subscriber, appLogger),
		Account:  adapter.NewRedisQueryBus[pkgDomain.Query[application.GetAccountData], application.GetAccountData, domain.User](publisher, subscriber, appLogger),
		Statuses: adapter.NewRedisQueryBus[pkgDomain.Query[application.TrainStatusData], application.TrainStatusData, []domain.TrainStatus](publisher, subscriber, appLogger),
		Events:   adapter.NewRedisEventBus[pkgDomain.Event[string], string](publisher, subscriber, appLogger),
	}

	slice := railway.NewRailwaySlice(buses, idGenerator, appLogger, inventory)

	router := chi.NewRouter()
	slice.RegisterRoutes(router)

	serverAddress := ":8080"
	appLogger.Info(ctx, "starting HTTP server", map[string]interface{}{
		"address": serverAddress,
	})
	if err := http.ListenAndServe(serverAddress, router); err != nil {
		appLogger.Error(ctx, "failed to start HTTP server", map[string]interface{}{
			"error": err,
		})
	}
}
