package infrastructure

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/railbook/railbook/internal/railway/domain"
	"github.com/railbook/railbook/pkg/application"
)

// Persistence rows. Matrices and string lists travel through the
// flat-text codec so the schema stays five plain tables.

type trainRecord struct {
	Number   string `gorm:"primaryKey"`
	Stations string
	Times    string
	Seats    string
	Prices   string
}

func (trainRecord) TableName() string { return "trains" }

type userRecord struct {
	Phone    string `gorm:"primaryKey"`
	Password string
	Name     string
	IDNumber string
	Balance  float64
}

func (userRecord) TableName() string { return "users" }

type tripRecord struct {
	ID          string `gorm:"primaryKey"`
	UserPhone   string `gorm:"index"`
	TrainNumber string
	Stations    string
	Times       string
	Seats       string
	Prices      string
}

func (tripRecord) TableName() string { return "user_trips" }

type adminRecord struct {
	Username string `gorm:"primaryKey"`
	Password string
	Name     string
}

func (adminRecord) TableName() string { return "admins" }

type suspendedRecord struct {
	TrainNumber string `gorm:"primaryKey"`
}

func (suspendedRecord) TableName() string { return "suspended_trains" }

// GormInventoryStore keeps the booking inventory in Postgres. Saves are
// full-replace inside one transaction: delete the table, reinsert the
// slice.
type GormInventoryStore struct {
	db     *gorm.DB
	logger application.AppLogger
}

func NewGormInventoryStore(dsn string, logger application.AppLogger) (*GormInventoryStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(&trainRecord{}, &userRecord{}, &tripRecord{}, &adminRecord{}, &suspendedRecord{}); err != nil {
		return nil, err
	}

	return &GormInventoryStore{
		db:     db,
		logger: logger,
	}, nil
}

func (s *GormInventoryStore) LoadTrains(ctx context.Context) ([]*domain.Train, error) {
	var records []trainRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		application.LogError(ctx, s.logger, "failed to load trains", err, nil)
		return nil, err
	}

	trains := make([]*domain.Train, 0, len(records))
	for _, record := range records {
		trains = append(trains, domain.NewTrain(
			record.Number,
			decodeList(record.Stations),
			decodeList(record.Times),
			decodeMatrix(record.Seats),
			decodeMatrix(record.Prices),
		))
	}

	application.LogInfo(ctx, s.logger, "trains loaded", map[string]interface{}{
		"count": len(trains),
	})
	return trains, nil
}

func (s *GormInventoryStore) SaveTrains(ctx context.Context, trains []*domain.Train) error {
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

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&trainRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		application.LogError(ctx, s.logger, "failed to save trains", err, nil)
		return err
	}

	return nil
}

func (s *GormInventoryStore) LoadUsers(ctx context.Context) ([]*domain.User, error) {
	var userRows []userRecord
	if err := s.db.WithContext(ctx).Find(&userRows).Error; err != nil {
		application.LogError(ctx, s.logger, "failed to load users", err, nil)
		return nil, err
	}

	var tripRows []tripRecord
	if err := s.db.WithContext(ctx).Find(&tripRows).Error; err != nil {
		application.LogError(ctx, s.logger, "failed to load trips", err, nil)
		return nil, err
	}

	tripsByPhone := make(map[string][]domain.Trip, len(userRows))
	for _, row := range tripRows {
		tripsByPhone[row.UserPhone] = append(tripsByPhone[row.UserPhone], domain.Trip{
			ID:          row.ID,
			TrainNumber: row.TrainNumber,
			Stations:    decodeList(row.Stations),
			Times:       decodeList(row.Times),
			Seats:       decodeMatrix(row.Seats),
			Prices:      decodeMatrix(row.Prices),
		})
	}

	users := make([]*domain.User, 0, len(userRows))
	for _, row := range userRows {
		users = append(users, &domain.User{
			Phone:    row.Phone,
			Password: row.Password,
			Name:     row.Name,
			IDNumber: row.IDNumber,
			Balance:  row.Balance,
			Trips:    tripsByPhone[row.Phone],
		})
	}

	application.LogInfo(ctx, s.logger, "users loaded", map[string]interface{}{
		"count": len(users),
		"trips": len(tripRows),
	})
	return users, nil
}

func (s *GormInventoryStore) SaveUsers(ctx context.Context, users []*domain.User) error {
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

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&tripRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&userRecord{}).Error; err != nil {
			return err
		}
		if len(userRows) > 0 {
			if err := tx.Create(&userRows).Error; err != nil {
				return err
			}
		}
		if len(tripRows) > 0 {
			if err := tx.Create(&tripRows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		application.LogError(ctx, s.logger, "failed to save users", err, nil)
		return err
	}

	return nil
}

func (s *GormInventoryStore) LoadAdmins(ctx context.Context) ([]*domain.Admin, error) {
	var records []adminRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		application.LogError(ctx, s.logger, "failed to load admins", err, nil)
		return nil, err
	}

	admins := make([]*domain.Admin, 0, len(records))
	for _, record := range records {
		admins = append(admins, &domain.Admin{
			Username: record.Username,
			Password: record.Password,
			Name:     record.Name,
		})
	}
	return admins, nil
}

func (s *GormInventoryStore) SaveAdmins(ctx context.Context, admins []*domain.Admin) error {
	records := make([]adminRecord, 0, len(admins))
	for _, admin := range admins {
		records = append(records, adminRecord{
			Username: admin.Username,
			Password: admin.Password,
			Name:     admin.Name,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&adminRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		application.LogError(ctx, s.logger, "failed to save admins", err, nil)
		return err
	}

	return nil
}

func (s *GormInventoryStore) LoadSuspended(ctx context.Context) ([]string, error) {
	var records []suspendedRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		application.LogError(ctx, s.logger, "failed to load suspended trains", err, nil)
		return nil, err
	}

	numbers := make([]string, 0, len(records))
	for _, record := range records {
		numbers = append(numbers, record.TrainNumber)
	}
	return numbers, nil
}

func (s *GormInventoryStore) SaveSuspended(ctx context.Context, trainNumbers []string) error {
	records := make([]suspendedRecord, 0, len(trainNumbers))
	for _, number := range trainNumbers {
		records = append(records, suspendedRecord{TrainNumber: number})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&suspendedRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		application.LogError(ctx, s.logger, "failed to save suspended trains", err, nil)
		return err
	}

	return nil
}
