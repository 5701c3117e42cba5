package infrastructure

import (
	"context"
	"sync"

	"github.com/railbook/railbook/internal/railway/domain"
	"github.com/railbook/railbook/pkg/application"
)

// InMemoryInventoryStore keeps the inventory in process memory, in the
// same flat-text rows the Postgres store writes. Loads decode fresh
// copies, so callers never alias the stored state. Suited to tests and
// the transport demos.
type InMemoryInventoryStore struct {
	mu        sync.RWMutex
	trains    []trainRecord
	users     []userRecord
	trips     []tripRecord
	admins    []adminRecord
	suspended []string
	logger    application.AppLogger
}

func NewInMemoryInventoryStore(logger application.AppLogger) *InMemoryInventoryStore {
	return &InMemoryInventoryStore{
		logger: logger,
	}
}

func (s *InMemoryInventoryStore) LoadTrains(ctx context.Context) ([]*domain.Train, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trains := make([]*domain.Train, 0, len(s.trains))
	for _, record := range s.trains {
		trains = append(trains, domain.NewTrain(
			record.Number,
			decodeList(record.Stations),
			decodeList(record.Times),
			decodeMatrix(record.Seats),
			decodeMatrix(record.Prices),
		))
	}
	return trains, nil
}

func (s *InMemoryInventoryStore) SaveTrains(ctx context.Context, trains []*domain.Train) error {
	records := make([]trainRecord, 0, len(trains))
	for _, train := range trains {
		records = append(records, trainRecord{
			Number:   train.Number,
			Stations: encodeList(train.Stations),
			Times:    encodeList(train.Times),
			Seats:    encodeMatrix(train.Seats),
			Prices:   encodeMatrix(train.Prices),
		})
	}

	s.mu.Lock()
	s.trains = records
	s.mu.Unlock()

	application.LogDebug(ctx, s.logger, "trains saved", map[string]interface{}{
		"count": len(records),
	})
	return nil
}

func (s *InMemoryInventoryStore) LoadUsers(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tripsByPhone := make(map[string][]domain.Trip, len(s.users))
	for _, row := range s.trips {
		tripsByPhone[row.UserPhone] = append(tripsByPhone[row.UserPhone], domain.Trip{
			ID:          row.ID,
			TrainNumber: row.TrainNumber,
			Stations:    decodeList(row.Stations),
			Times:       decodeList(row.Times),
			Seats:       decodeMatrix(row.Seats),
			Prices:      decodeMatrix(row.Prices),
		})
	}

	users := make([]*domain.User, 0, len(s.users))
	for _, row := range s.users {
		users = append(users, &domain.User{
			Phone:    row.Phone,
			Password: row.Password,
			Name:     row.Name,
			IDNumber: row.IDNumber,
			Balance:  row.Balance,
			Trips:    tripsByPhone[row.Phone],
		})
	}
	return users, nil
}

func (s *InMemoryInventoryStore) SaveUsers(ctx context.Context, users []*domain.User) error {
	userRows := make([]userRecord, 0, len(users))
	var tripRows []tripRecord
	for _, user := range users {
		userRows = append(userRows, userRecord{
			Phone:    user.Phone,
			Password: user.Password,
			Name:     user.Name,
			IDNumber: user.IDNumber,
			Balance:  user.Balance,
		})
		for _, trip := range user.Trips {
			tripRows = append(tripRows, tripRecord{
				ID:          trip.ID,
				UserPhone:   user.Phone,
				TrainNumber: trip.TrainNumber,
				Stations:    encodeList(trip.Stations),
				Times:       encodeList(trip.Times),
				Seats:       encodeMatrix(trip.Seats),
				Prices:      encodeMatrix(trip.Prices),
			})
		}
	}

	s.mu.Lock()
	s.users = userRows
	s.trips = tripRows
	s.mu.Unlock()

	application.LogDebug(ctx, s.logger, "users saved", map[string]interface{}{
		"count": len(userRows),
		"trips": len(tripRows),
	})
	return nil
}

func (s *InMemoryInventoryStore) LoadAdmins(ctx context.Context) ([]*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	admins := make([]*domain.Admin, 0, len(s.admins))
	for _, record := range s.admins {
		admins = append(admins, &domain.Admin{
			Username: record.Username,
			Password: record.Password,
			Name:     record.Name,
		})
	}
	return admins, nil
}

func (s *InMemoryInventoryStore) SaveAdmins(ctx context.Context, admins []*domain.Admin) error {
	records := make([]adminRecord, 0, len(admins))
	for _, admin := range admins {
		records = append(records, adminRecord{
			Username: admin.Username,
			Password: admin.Password,
			Name:     admin.Name,
		})
	}

	s.mu.Lock()
	s.admins = records
	s.mu.Unlock()
	return nil
}

func (s *InMemoryInventoryStore) LoadSuspended(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.suspended...), nil
}

func (s *InMemoryInventoryStore) SaveSuspended(ctx context.Context, trainNumbers []string) error {
	s.mu.Lock()
	s.suspended = append([]string(nil), trainNumbers...)
	s.mu.Unlock()
	return nil
}
