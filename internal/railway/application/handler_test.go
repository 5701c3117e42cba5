package application

import (
	"context"
	"errors"
	"testing"

	"github.com/railbook/railbook/internal/railway/domain"
	pkgApp "github.com/railbook/railbook/pkg/application"
	pkgDomain "github.com/railbook/railbook/pkg/domain"
)

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, fields map[string]interface{})  {}
func (nopLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {}
func (nopLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {}
func (nopLogger) Trace(ctx context.Context, msg string, fields map[string]interface{}) {}

type nopStore struct{}

func (nopStore) LoadTrains(ctx context.Context) ([]*domain.Train, error) { return nil, nil }
func (nopStore) SaveTrains(ctx context.Context, t []*domain.Train) error { return nil }
func (nopStore) LoadUsers(ctx context.Context) ([]*domain.User, error)   { return nil, nil }
func (nopStore) SaveUsers(ctx context.Context, u []*domain.User) error   { return nil }
func (nopStore) LoadAdmins(ctx context.Context) ([]*domain.Admin, error) { return nil, nil }
func (nopStore) SaveAdmins(ctx context.Context, a []*domain.Admin) error { return nil }
func (nopStore) LoadSuspended(ctx context.Context) ([]string, error)     { return nil, nil }
func (nopStore) SaveSuspended(ctx context.Context, numbers []string) error { return nil }

// recordingEventBus captures published events for assertions.
type recordingEventBus struct {
	published []pkgDomain.Event[string]
}

func (b *recordingEventBus) RegisterHandler(eventName string, handler pkgApp.EventHandler[pkgDomain.Event[string], string]) {
}

func (b *recordingEventBus) Publish(ctx context.Context, event pkgDomain.Event[string]) error {
	b.published = append(b.published, event)
	return nil
}

func newHandlerFixture(t *testing.T) (*domain.Inventory, *recordingEventBus) {
	t.Helper()
	inventory := domain.NewInventory(nopStore{})
	ctx := context.Background()

	train := domain.NewTrain(
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
	if err := inventory.AddTrain(ctx, train); err != nil {
		t.Fatalf("AddTrain: %v", err)
	}
	if err := inventory.RegisterUser(ctx, "13800138000", "Secret123", "Alice Zhang", "110101199003071234"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	return inventory, &recordingEventBus{}
}

func TestPurchaseTicketHandlerPublishesEvent(t *testing.T) {
	inventory, eventBus := newHandlerFixture(t)
	idGenerator := func() string { return "trip-1" }

	handler := NewPurchaseTicketHandler(eventBus, inventory, idGenerator, nopLogger{})
	command := NewPurchaseTicketCommand(PurchaseTicketData{
		Phone:        "13800138000",
		TrainNumber:  "G101",
		StartStation: "Central",
		EndStation:   "Harbor",
	})

	if err := handler.Handle(context.Background(), command); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(eventBus.published) != 1 || eventBus.published[0].EventName() != "TicketPurchased" {
		t.Fatalf("published = %+v", eventBus.published)
	}

	trips, err := inventory.ListTrips("13800138000")
	if err != nil || len(trips) != 1 || trips[0].ID != "trip-1" {
		t.Fatalf("trips = %+v, %v", trips, err)
	}
}

func TestPurchaseTicketHandlerPropagatesFailure(t *testing.T) {
	inventory, eventBus := newHandlerFixture(t)
	idGenerator := func() string { return "trip-1" }

	handler := NewPurchaseTicketHandler(eventBus, inventory, idGenerator, nopLogger{})
	command := NewPurchaseTicketCommand(PurchaseTicketData{
		Phone:        "13800138000",
		TrainNumber:  "X1",
		StartStation: "Central",
		EndStation:   "Harbor",
	})

	if err := handler.Handle(context.Background(), command); !errors.Is(err, domain.ErrTrainNotFound) {
		t.Fatalf("got %v, want ErrTrainNotFound", err)
	}
	if len(eventBus.published) != 0 {
		t.Fatalf("failure still published %+v", eventBus.published)
	}
}

func TestCancelTicketHandler(t *testing.T) {
	inventory, eventBus := newHandlerFixture(t)
	ctx := context.Background()

	if _, err := inventory.Purchase(ctx, "13800138000", "G101", "Central", "Harbor", "trip-1"); err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	handler := NewCancelTicketHandler(eventBus, inventory, nopLogger{})
	command := NewCancelTicketCommand(CancelTicketData{
		Phone:       "13800138000",
		TrainNumber: "G101",
	})

	if err := handler.Handle(ctx, command); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(eventBus.published) != 1 || eventBus.published[0].EventName() != "TicketCancelled" {
		t.Fatalf("published = %+v", eventBus.published)
	}
}

func TestServiceHandlers(t *testing.T) {
	inventory, eventBus := newHandlerFixture(t)
	ctx := context.Background()

	suspend := NewSuspendTrainHandler(eventBus, inventory, nopLogger{})
	resume := NewResumeTrainHandler(eventBus, inventory, nopLogger{})
	data := TrainServiceData{TrainNumber: "G101"}

	if err := suspend.Handle(ctx, NewSuspendTrainCommand(data)); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if err := resume.Handle(ctx, NewResumeTrainCommand(data)); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if len(eventBus.published) != 2 {
		t.Fatalf("published = %+v", eventBus.published)
	}
	for _, event := range eventBus.published {
		if event.EventName() != "TrainServiceChanged" {
			t.Errorf("event name = %s", event.EventName())
		}
	}
}

func TestSearchFaresHandler(t *testing.T) {
	inventory, _ := newHandlerFixture(t)

	handler := NewSearchFaresHandler(inventory, nopLogger{})
	query := NewSearchFaresQuery(SearchFaresData{
		StartStation: "Central",
		EndStation:   "Riverside",
	})

	fares, err := handler.Handle(context.Background(), query)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(fares) != 1 || fares[0].Price != 100 {
		t.Fatalf("fares = %+v", fares)
	}
}

func TestHandlersRespectCancelledContext(t *testing.T) {
	inventory, eventBus := newHandlerFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := NewSearchFaresHandler(inventory, nopLogger{})
	if _, err := handler.Handle(ctx, NewSearchFaresQuery(SearchFaresData{})); !errors.Is(err, context.Canceled) {
		t.Fatalf("query on cancelled context: got %v", err)
	}

	purchase := NewPurchaseTicketHandler(eventBus, inventory, func() string { return "t" }, nopLogger{})
	err := purchase.Handle(ctx, NewPurchaseTicketCommand(PurchaseTicketData{}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("command on cancelled context: got %v", err)
	}
}
