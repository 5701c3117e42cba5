package railway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/railbook/railbook/internal/railway/application"
	"github.com/railbook/railbook/internal/railway/domain"
	"github.com/railbook/railbook/internal/railway/infrastructure"
	pkgDomain "github.com/railbook/railbook/pkg/domain"
	pkgInfra "github.com/railbook/railbook/pkg/infrastructure"
)

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, fields map[string]interface{})  {}
func (nopLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {}
func (nopLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {}
func (nopLogger) Trace(ctx context.Context, msg string, fields map[string]interface{}) {}

func newTestServer(t *testing.T) (*httptest.Server, *domain.Inventory) {
	t.Helper()

	logger := nopLogger{}
	store := infrastructure.NewInMemoryInventoryStore(logger)
	inventory := domain.NewInventory(store)

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
	if err := inventory.AddTrain(context.Background(), train); err != nil {
		t.Fatalf("AddTrain: %v", err)
	}

	tripCounter := 0
	idGenerator := func() string {
		tripCounter++
		return fmt.Sprintf("trip-%d", tripCounter)
	}

	buses := Buses{
		Purchase: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.PurchaseTicketData], application.PurchaseTicketData](),
		Cancel:   pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelTicketData], application.CancelTicketData](),
		Service:  pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.TrainServiceData], application.TrainServiceData](),
		Register: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData](),
		Recharge: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.RechargeBalanceData], application.RechargeBalanceData](),
		Fares:    pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.SearchFaresData], application.SearchFaresData, []domain.FareResult](),
		Account:  pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.GetAccountData], application.GetAccountData, domain.User](),
		Statuses: pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.TrainStatusData], application.TrainStatusData, []domain.TrainStatus](),
		Events:   pkgInfra.NewSimpleEventBus[pkgDomain.Event[string], string](logger),
	}

	slice := NewRailwaySlice(buses, idGenerator, logger, inventory)

	router := chi.NewRouter()
	slice.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, inventory
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestBookingFlowOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	// Register a passenger.
	resp := postJSON(t, server.URL+"/users", map[string]string{
		"phone":    "13800138000",
		"password": "Secret123",
		"name":     "Alice Zhang",
		"idNumber": "110101199003071234",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Log in.
	resp = postJSON(t, server.URL+"/users/login", map[string]string{
		"phone":    "13800138000",
		"password": "Secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Search fares.
	resp, err := http.Get(server.URL + "/fares?from=Central&to=Harbor")
	if err != nil {
		t.Fatalf("GET fares: %v", err)
	}
	var fares []domain.FareResult
	if err := json.NewDecoder(resp.Body).Decode(&fares); err != nil {
		t.Fatalf("decode fares: %v", err)
	}
	resp.Body.Close()
	if len(fares) != 1 || fares[0].Price != 250 {
		t.Fatalf("fares = %+v", fares)
	}

	// Purchase.
	resp = postJSON(t, server.URL+"/tickets", map[string]string{
		"phone":        "13800138000",
		"trainNumber":  "G101",
		"startStation": "Central",
		"endStation":   "Harbor",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("purchase status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The account reflects the debit and the trip.
	resp, err = http.Get(server.URL + "/users/13800138000")
	if err != nil {
		t.Fatalf("GET account: %v", err)
	}
	var account domain.User
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		t.Fatalf("decode account: %v", err)
	}
	resp.Body.Close()
	if account.Balance != 2750 || len(account.Trips) != 1 {
		t.Fatalf("account = %+v", account)
	}

	// Cancel and verify the partial refund.
	resp = postJSON(t, server.URL+"/tickets/cancel", map[string]string{
		"phone":       "13800138000",
		"trainNumber": "G101",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/users/13800138000")
	account = domain.User{}
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		t.Fatalf("decode account: %v", err)
	}
	resp.Body.Close()
	if account.Balance != 2950 || len(account.Trips) != 0 {
		t.Fatalf("account after cancel = %+v", account)
	}
}

func TestSuspendResumeOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/trains/G101/suspend", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("suspend status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Suspended trains disappear from search.
	resp, err := http.Get(server.URL + "/fares?from=Central&to=Harbor")
	if err != nil {
		t.Fatalf("GET fares: %v", err)
	}
	var fares []domain.FareResult
	if err := json.NewDecoder(resp.Body).Decode(&fares); err != nil {
		t.Fatalf("decode fares: %v", err)
	}
	resp.Body.Close()
	if len(fares) != 0 {
		t.Fatalf("suspended train still listed: %+v", fares)
	}

	// Double suspend conflicts.
	resp = postJSON(t, server.URL+"/trains/G101/suspend", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double suspend status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The status listing still shows the train, flagged.
	resp, _ = http.Get(server.URL + "/trains")
	var statuses []domain.TrainStatus
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		t.Fatalf("decode statuses: %v", err)
	}
	resp.Body.Close()
	if len(statuses) != 1 || !statuses[0].Suspended {
		t.Fatalf("statuses = %+v", statuses)
	}

	resp = postJSON(t, server.URL+"/trains/G101/resume", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resume status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPurchaseFailuresOverHTTP(t *testing.T) {
	server, inventory := newTestServer(t)

	if err := inventory.RegisterUser(context.Background(), "13800138000", "Secret123", "Alice Zhang", "110101199003071234"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	// Unknown train.
	resp := postJSON(t, server.URL+"/tickets", map[string]string{
		"phone":        "13800138000",
		"trainNumber":  "X1",
		"startStation": "Central",
		"endStation":   "Harbor",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown train status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Insufficient balance reports the shortfall.
	expensive := domain.NewTrain("Z99",
		[]string{"Central", "Harbor"},
		[]string{"07:00", "12:00", "15:00", "20:00"},
		[][]int{{0, 2}, {0, 0}},
		[][]int{{0, 5000}, {0, 0}},
	)
	if err := inventory.AddTrain(context.Background(), expensive); err != nil {
		t.Fatalf("AddTrain: %v", err)
	}

	resp = postJSON(t, server.URL+"/tickets", map[string]string{
		"phone":        "13800138000",
		"trainNumber":  "Z99",
		"startStation": "Central",
		"endStation":   "Harbor",
	})
	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("insufficient balance status = %d", resp.StatusCode)
	}
	var body struct {
		Shortfall float64 `json:"shortfall"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode shortfall: %v", err)
	}
	resp.Body.Close()
	if body.Shortfall != 2000 {
		t.Fatalf("shortfall = %.2f, want 2000", body.Shortfall)
	}
}

func TestRegisterValidationOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/users", map[string]string{
		"phone":    "123",
		"password": "Secret123",
		"name":     "Bob",
		"idNumber": "110101199003071234",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid phone status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}
