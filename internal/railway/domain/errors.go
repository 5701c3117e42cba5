package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSegmentUnavailable covers sold-out segments and station pairs
	// the train does not serve.
	ErrSegmentUnavailable = errors.New("segment unavailable")

	// ErrMalformedRecord marks a train whose matrices do not cover the
	// requested segment. Callers degrade it to "unavailable" rather
	// than failing the whole operation.
	ErrMalformedRecord = errors.New("malformed inventory record")

	ErrTrainNotFound    = errors.New("train not found")
	ErrStationNotFound  = errors.New("station not found")
	ErrTripNotFound     = errors.New("trip not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongCredentials = errors.New("wrong credentials")

	ErrTrainSuspended    = errors.New("train already suspended")
	ErrTrainNotSuspended = errors.New("train is not suspended")

	ErrDuplicatePhone    = errors.New("phone number already registered")
	ErrDuplicateUsername = errors.New("username already registered")

	ErrInvalidPhone    = errors.New("phone number must be 11 digits")
	ErrInvalidPassword = errors.New("password must be at least 8 characters with upper, lower and digit")
	ErrInvalidIDNumber = errors.New("id number must be 18 characters")

	ErrInvalidAmount = errors.New("recharge amount must be positive")
	ErrAmountTooHigh = errors.New("recharge amount exceeds the per-transaction limit")
)

// PersistError reports that a transaction mutated the in-memory
// inventory but the store rejected the write. There is no rollback;
// the caller must not report the transaction as successful.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("inventory persisted state is behind memory: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// InsufficientBalanceError reports a purchase the account cannot cover,
// including how much is missing.
type InsufficientBalanceError struct {
	Price   int
	Balance float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: price %d, balance %.2f, short %.2f",
		e.Price, e.Balance, e.Shortfall())
}

// Shortfall is the amount the user must add before the purchase can
// succeed.
func (e *InsufficientBalanceError) Shortfall() float64 {
	return float64(e.Price) - e.Balance
}
