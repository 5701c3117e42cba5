package domain

import (
	"context"
	"sort"
	"sync"
)

// MaxRechargeAmount caps a single balance top-up.
const MaxRechargeAmount = 10000.0

// refundRate is the fraction of the fare returned on cancellation. The
// refund is truncated to a whole currency unit, never rounded up.
const refundRate = 0.8

// PurchaseReceipt is returned by a successful purchase.
type PurchaseReceipt struct {
	Trip       Trip    `json:"trip"`
	Price      int     `json:"price"`
	NewBalance float64 `json:"newBalance"`
}

// CancelReceipt is returned by a successful cancellation.
type CancelReceipt struct {
	OriginalPrice int     `json:"originalPrice"`
	Refund        int     `json:"refund"`
	NewBalance    float64 `json:"newBalance"`
}

// Inventory owns the process-wide booking state: trains, the suspended
// set, users and admins. One RWMutex guards the whole aggregate;
// searches take the read lock, every mutating transaction holds the
// write lock from first precondition check to final persistence call,
// so a search can never observe a half-updated seat matrix.
//
// Persistence failures abort the reported success of a transaction but
// do not roll back the in-memory mutation; the returned *PersistError
// lets callers tell the two apart.
type Inventory struct {
	mu        sync.RWMutex
	trains    []*Train
	suspended []string
	users     []*User
	admins    []*Admin

	store InventoryStore
}

func NewInventory(store InventoryStore) *Inventory {
	return &Inventory{store: store}
}

// Load replaces the in-memory state with the store's contents.
func (inv *Inventory) Load(ctx context.Context) error {
	trains, err := inv.store.LoadTrains(ctx)
	if err != nil {
		return err
	}
	users, err := inv.store.LoadUsers(ctx)
	if err != nil {
		return err
	}
	admins, err := inv.store.LoadAdmins(ctx)
	if err != nil {
		return err
	}
	suspended, err := inv.store.LoadSuspended(ctx)
	if err != nil {
		return err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.trains = trains
	inv.users = users
	inv.admins = admins
	inv.suspended = suspended
	return nil
}

// AddTrain registers a new service. Administrative load path; trains
// are otherwise immutable in identity for the life of the process.
func (inv *Inventory) AddTrain(ctx context.Context, train *Train) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.trains = append(inv.trains, train)
	if err := inv.store.SaveTrains(ctx, inv.trains); err != nil {
		return &PersistError{Err: err}
	}
	return nil
}

// SearchFares scans every running train for a priced segment between
// the two named stations. departAfter, when non-empty, drops trains
// leaving strictly before that wall-clock time. Results come back
// sorted by ascending price; ties keep train registration order. An
// empty result means no route, not an error.
func (inv *Inventory) SearchFares(startStation, endStation, departAfter string) []FareResult {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var results []FareResult
	for _, train := range inv.trains {
		if inv.isSuspendedLocked(train.Number) {
			continue
		}

		startIdx, okStart := train.StationIndex(startStation)
		endIdx, okEnd := train.StationIndex(endStation)
		if !okStart || !okEnd || startIdx == endIdx {
			continue
		}

		schedule := train.DirectionalSchedule(startIdx, endIdx)
		if startIdx >= len(schedule) || endIdx >= len(schedule) {
			continue
		}
		departure := schedule[startIdx]
		arrival := schedule[endIdx]

		if departAfter != "" && ParseClock(departure) < ParseClock(departAfter) {
			continue
		}

		seats, price, err := train.Segment(startIdx, endIdx)
		if err != nil {
			// Malformed matrices: the segment is unavailable, the
			// search stays up.
			continue
		}

		results = append(results, FareResult{
			TrainNumber:    train.Number,
			StartStation:   train.Stations[startIdx],
			EndStation:     train.Stations[endIdx],
			DepartureTime:  departure,
			ArrivalTime:    arrival,
			AvailableSeats: seats,
			Price:          price,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Price < results[j].Price
	})

	return results
}

// Purchase executes the booking transaction for one seat on the named
// segment. Station indices are re-resolved by name against the live
// train, not a cached search row. All preconditions are checked before
// any mutation, so a failed purchase leaves no observable effect.
func (inv *Inventory) Purchase(ctx context.Context, phone, trainNumber, startStation, endStation, tripID string) (PurchaseReceipt, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	user, err := inv.findUserLocked(phone)
	if err != nil {
		return PurchaseReceipt{}, err
	}
	train, err := inv.findTrainLocked(trainNumber)
	if err != nil {
		return PurchaseReceipt{}, err
	}
	if inv.isSuspendedLocked(trainNumber) {
		return PurchaseReceipt{}, ErrTrainSuspended
	}

	startIdx, okStart := train.StationIndex(startStation)
	endIdx, okEnd := train.StationIndex(endStation)
	if !okStart || !okEnd {
		return PurchaseReceipt{}, ErrStationNotFound
	}
	if startIdx == endIdx {
		return PurchaseReceipt{}, ErrSegmentUnavailable
	}

	seats, price, err := train.Segment(startIdx, endIdx)
	if err != nil || seats <= 0 {
		return PurchaseReceipt{}, ErrSegmentUnavailable
	}

	if user.Balance < float64(price) {
		return PurchaseReceipt{}, &InsufficientBalanceError{Price: price, Balance: user.Balance}
	}

	user.Balance -= float64(price)

	schedule := train.DirectionalSchedule(startIdx, endIdx)
	trip := NewTrip(tripID, train.Number,
		train.Stations[startIdx], train.Stations[endIdx],
		schedule[startIdx], schedule[endIdx],
		seats, price)
	user.Trips = append(user.Trips, trip)

	train.TakeSeat(startIdx, endIdx)

	receipt := PurchaseReceipt{Trip: trip, Price: price, NewBalance: user.Balance}

	if err := inv.persistUsersAndTrains(ctx); err != nil {
		return PurchaseReceipt{}, err
	}
	return receipt, nil
}

// Cancel refunds the user's first trip on the given train. The refund
// is 80% of the original fare, truncated. Seat restoration is best
// effort: when the live train no longer carries both stations the
// refund still applies.
func (inv *Inventory) Cancel(ctx context.Context, phone, trainNumber string) (CancelReceipt, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	user, err := inv.findUserLocked(phone)
	if err != nil {
		return CancelReceipt{}, err
	}

	tripIdx := -1
	for i, trip := range user.Trips {
		if trip.TrainNumber == trainNumber {
			tripIdx = i
			break
		}
	}
	if tripIdx < 0 {
		return CancelReceipt{}, ErrTripNotFound
	}
	trip := user.Trips[tripIdx]

	originalPrice := trip.Price()
	refund := int(float64(originalPrice) * refundRate)

	user.Balance += float64(refund)

	if train, err := inv.findTrainLocked(trainNumber); err == nil {
		startIdx, okStart := train.StationIndex(trip.StartStation())
		endIdx, okEnd := train.StationIndex(trip.EndStation())
		if okStart && okEnd {
			train.ReleaseSeat(startIdx, endIdx)
		}
	}

	user.Trips = append(user.Trips[:tripIdx], user.Trips[tripIdx+1:]...)

	receipt := CancelReceipt{
		OriginalPrice: originalPrice,
		Refund:        refund,
		NewBalance:    user.Balance,
	}

	if err := inv.persistUsersAndTrains(ctx); err != nil {
		return CancelReceipt{}, err
	}
	return receipt, nil
}

// Suspend withdraws a train from search and purchase. Seat and price
// data stay untouched.
func (inv *Inventory) Suspend(ctx context.Context, trainNumber string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if _, err := inv.findTrainLocked(trainNumber); err != nil {
		return err
	}
	if inv.isSuspendedLocked(trainNumber) {
		return ErrTrainSuspended
	}

	inv.suspended = append(inv.suspended, trainNumber)
	if err := inv.store.SaveSuspended(ctx, inv.suspended); err != nil {
		return &PersistError{Err: err}
	}
	return nil
}

// Resume returns a suspended train to service.
func (inv *Inventory) Resume(ctx context.Context, trainNumber string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for i, number := range inv.suspended {
		if number == trainNumber {
			inv.suspended = append(inv.suspended[:i], inv.suspended[i+1:]...)
			if err := inv.store.SaveSuspended(ctx, inv.suspended); err != nil {
				return &PersistError{Err: err}
			}
			return nil
		}
	}
	return ErrTrainNotSuspended
}

// RegisterUser creates a passenger account with the default opening
// balance after the precondition checks on the credentials.
func (inv *Inventory) RegisterUser(ctx context.Context, phone, password, name, idNumber string) error {
	switch {
	case !ValidPhone(phone):
		return ErrInvalidPhone
	case !ValidPassword(password):
		return ErrInvalidPassword
	case !ValidIDNumber(idNumber):
		return ErrInvalidIDNumber
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	for _, user := range inv.users {
		if user.Phone == phone {
			return ErrDuplicatePhone
		}
	}

	inv.users = append(inv.users, &User{
		Phone:    phone,
		Password: password,
		Name:     name,
		IDNumber: idNumber,
		Balance:  DefaultOpeningBalance,
	})

	if err := inv.store.SaveUsers(ctx, inv.users); err != nil {
		return &PersistError{Err: err}
	}
	return nil
}

// RegisterAdmin creates an operator account.
func (inv *Inventory) RegisterAdmin(ctx context.Context, username, password, name string) error {
	if username == "" || password == "" {
		return ErrWrongCredentials
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	for _, admin := range inv.admins {
		if admin.Username == username {
			return ErrDuplicateUsername
		}
	}

	inv.admins = append(inv.admins, &Admin{Username: username, Password: password, Name: name})

	if err := inv.store.SaveAdmins(ctx, inv.admins); err != nil {
		return &PersistError{Err: err}
	}
	return nil
}

// Recharge credits the user's balance.
func (inv *Inventory) Recharge(ctx context.Context, phone string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if amount > MaxRechargeAmount {
		return 0, ErrAmountTooHigh
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	user, err := inv.findUserLocked(phone)
	if err != nil {
		return 0, err
	}

	user.Balance += amount
	if err := inv.store.SaveUsers(ctx, inv.users); err != nil {
		return 0, &PersistError{Err: err}
	}
	return user.Balance, nil
}

// Authenticate compares the stored credentials. Passwords are opaque
// strings; no hashing is performed here.
func (inv *Inventory) Authenticate(phone, password string) (User, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	user, err := inv.findUserLocked(phone)
	if err != nil {
		return User{}, err
	}
	if user.Password != password {
		return User{}, ErrWrongCredentials
	}

	out := *user
	out.Trips = append([]Trip(nil), user.Trips...)
	return out, nil
}

// AuthenticateAdmin compares operator credentials.
func (inv *Inventory) AuthenticateAdmin(username, password string) (Admin, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	for _, admin := range inv.admins {
		if admin.Username == username && admin.Password == password {
			return *admin, nil
		}
	}
	return Admin{}, ErrWrongCredentials
}

// Account returns a copy of the user's account, trips included.
func (inv *Inventory) Account(phone string) (User, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	user, err := inv.findUserLocked(phone)
	if err != nil {
		return User{}, err
	}

	out := *user
	out.Trips = append([]Trip(nil), user.Trips...)
	return out, nil
}

// ListTrips returns a copy of the user's trip records.
func (inv *Inventory) ListTrips(phone string) ([]Trip, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	user, err := inv.findUserLocked(phone)
	if err != nil {
		return nil, err
	}
	return append([]Trip(nil), user.Trips...), nil
}

// TrainStatuses is the administrative listing of every train and its
// suspension state.
func (inv *Inventory) TrainStatuses() []TrainStatus {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	statuses := make([]TrainStatus, 0, len(inv.trains))
	for _, train := range inv.trains {
		route := ""
		if len(train.Stations) > 0 {
			route = train.Stations[0] + " -> " + train.Stations[len(train.Stations)-1]
		}
		statuses = append(statuses, TrainStatus{
			TrainNumber: train.Number,
			Route:       route,
			Suspended:   inv.isSuspendedLocked(train.Number),
		})
	}
	return statuses
}

func (inv *Inventory) findUserLocked(phone string) (*User, error) {
	for _, user := range inv.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (inv *Inventory) findTrainLocked(number string) (*Train, error) {
	for _, train := range inv.trains {
		if train.Number == number {
			return train, nil
		}
	}
	return nil, ErrTrainNotFound
}

func (inv *Inventory) isSuspendedLocked(number string) bool {
	for _, suspended := range inv.suspended {
		if suspended == number {
			return true
		}
	}
	return false
}

func (inv *Inventory) persistUsersAndTrains(ctx context.Context) error {
	if err := inv.store.SaveUsers(ctx, inv.users); err != nil {
		return &PersistError{Err: err}
	}
	if err := inv.store.SaveTrains(ctx, inv.trains); err != nil {
		return &PersistError{Err: err}
	}
	return nil
}
