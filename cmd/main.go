package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/railbook/railbook/internal/railway"
	"github.com/railbook/railbook/internal/railway/application"
	"github.com/railbook/railbook/internal/railway/domain"
	"github.com/railbook/railbook/internal/railway/infrastructure"
	pkgDomain "github.com/railbook/railbook/pkg/domain"
	pkgInfra "github.com/railbook/railbook/pkg/infrastructure"
	zapAdapter "github.com/railbook/railbook/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	idGenerator := func() string {
		return uuid.New().String()
	}

	dsn := os.Getenv("RAILBOOK_DSN")
	if dsn == "" {
		dsn = "host=localhost user=railbook password=railbook dbname=railbook port=5432 sslmode=disable TimeZone=UTC"
	}

	store, err := infrastructure.NewGormInventoryStore(dsn, appLogger)
	if err != nil {
		appLogger.Error(ctx, "failed to open inventory store", map[string]interface{}{
			"error": err,
		})
		panic(err)
	}

	inventory := domain.NewInventory(store)
	if err := inventory.Load(ctx); err != nil {
		appLogger.Error(ctx, "failed to load inventory", map[string]interface{}{
			"error": err,
		})
		panic(err)
	}

	buses := railway.Buses{
		Purchase: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.PurchaseTicketData], application.PurchaseTicketData](),
		Cancel:   pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelTicketData], application.CancelTicketData](),
		Service:  pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.TrainServiceData], application.TrainServiceData](),
		Register: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData](),
		Recharge: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.RechargeBalanceData], application.RechargeBalanceData](),
		Fares:    pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.SearchFaresData], application.SearchFaresData, []domain.FareResult](),
		Account:  pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.GetAccountData], application.GetAccountData, domain.User](),
		Statuses: pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.TrainStatusData], application.TrainStatusData, []domain.TrainStatus](),
		Events:   pkgInfra.NewSimpleEventBus[pkgDomain.Event[string], string](appLogger),
	}

	slice := railway.NewRailwaySlice(buses, idGenerator, appLogger, inventory)

	router := chi.NewRouter()
	slice.RegisterRoutes(router)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		appLogger.Info(ctx, "signal received", map[string]interface{}{"signal": sig})
		cancel()
	}()

	serverAddress := ":8080"
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	go func() {
		appLogger.Info(ctx, "server starting on "+serverAddress, nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(ctx, "server failed", map[string]interface{}{
				"error": err,
			})
		}
	}()

	<-ctx.Done()
	appLogger.Info(ctx, "shutting down server", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(context.Background(), "server shutdown failed", map[string]interface{}{
			"error": err,
		})
	}

	appLogger.Info(context.Background(), "server stopped", nil)
}
