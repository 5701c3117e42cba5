package infrastructure

import (
	"context"
	"reflect"
	"testing"

	"github.com/railbook/railbook/internal/railway/domain"
)

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, fields map[string]interface{})  {}
func (nopLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {}
func (nopLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {}
func (nopLogger) Trace(ctx context.Context, msg string, fields map[string]interface{}) {}

func storeTrain() *domain.Train {
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

func TestMemoryStoreTrainRoundTrip(t *testing.T) {
	store := NewInMemoryInventoryStore(nopLogger{})
	ctx := context.Background()
	train := storeTrain()

	if err := store.SaveTrains(ctx, []*domain.Train{train}); err != nil {
		t.Fatalf("SaveTrains: %v", err)
	}

	loaded, err := store.LoadTrains(ctx)
	if err != nil {
		t.Fatalf("LoadTrains: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("got %d trains", len(loaded))
	}

	got := loaded[0]
	if got.Number != train.Number ||
		!reflect.DeepEqual(got.Stations, train.Stations) ||
		!reflect.DeepEqual(got.Times, train.Times) ||
		!reflect.DeepEqual(got.Seats, train.Seats) ||
		!reflect.DeepEqual(got.Prices, train.Prices) {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// Loaded trains are copies; mutating one must not leak back.
	got.TakeSeat(0, 2)
	reloaded, _ := store.LoadTrains(ctx)
	if reloaded[0].Seats[0][2] != 3 {
		t.Error("loaded train aliases the stored state")
	}
}

func TestMemoryStoreUserRoundTrip(t *testing.T) {
	store := NewInMemoryInventoryStore(nopLogger{})
	ctx := context.Background()

	trip := domain.NewTrip("trip-1", "G101", "Central", "Harbor", "08:30", "10:05", 3, 250)
	user := &domain.User{
		Phone:    "13800138000",
		Password: "Secret123",
		Name:     "Alice Zhang",
		IDNumber: "110101199003071234",
		Balance:  2750,
		Trips:    []domain.Trip{trip},
	}

	if err := store.SaveUsers(ctx, []*domain.User{user}); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}

	loaded, err := store.LoadUsers(ctx)
	if err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("got %d users", len(loaded))
	}

	got := loaded[0]
	if got.Phone != user.Phone || got.Balance != user.Balance || got.Password != user.Password {
		t.Errorf("user mismatch: %+v", got)
	}
	if len(got.Trips) != 1 || !reflect.DeepEqual(got.Trips[0], trip) {
		t.Errorf("trips mismatch: %+v", got.Trips)
	}
}

func TestMemoryStoreFullReplace(t *testing.T) {
	store := NewInMemoryInventoryStore(nopLogger{})
	ctx := context.Background()

	if err := store.SaveSuspended(ctx, []string{"G101", "G202"}); err != nil {
		t.Fatalf("SaveSuspended: %v", err)
	}
	if err := store.SaveSuspended(ctx, []string{"K11"}); err != nil {
		t.Fatalf("SaveSuspended: %v", err)
	}

	suspended, err := store.LoadSuspended(ctx)
	if err != nil {
		t.Fatalf("LoadSuspended: %v", err)
	}
	if !reflect.DeepEqual(suspended, []string{"K11"}) {
		t.Errorf("suspended = %v, want full replacement", suspended)
	}
}

func TestMemoryStoreAdmins(t *testing.T) {
	store := NewInMemoryInventoryStore(nopLogger{})
	ctx := context.Background()

	admin := &domain.Admin{Username: "ops", Password: "Control1", Name: "Operations"}
	if err := store.SaveAdmins(ctx, []*domain.Admin{admin}); err != nil {
		t.Fatalf("SaveAdmins: %v", err)
	}

	loaded, err := store.LoadAdmins(ctx)
	if err != nil {
		t.Fatalf("LoadAdmins: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Username != "ops" || loaded[0].Password != "Control1" {
		t.Errorf("admins = %+v", loaded)
	}
}
