package domain

import "unicode"

// DefaultOpeningBalance is credited to every newly registered account.
const DefaultOpeningBalance = 3000.0

// Trip is a purchased segment: a reduced two-station slice of a train.
// Stations and Times hold exactly the boarding and alighting points;
// Seats and Prices are 2×2 matrices whose only populated cell [0][1]
// carries the seat count and the price at the time of purchase.
type Trip struct {
	ID          string   `json:"id"`
	TrainNumber string   `json:"trainNumber"`
	Stations    []string `json:"stations"`
	Times       []string `json:"times"`
	Seats       [][]int  `json:"seats"`
	Prices      [][]int  `json:"prices"`
}

// NewTrip assembles a trip record for a purchased segment.
func NewTrip(id, trainNumber, startStation, endStation, departure, arrival string, seats, price int) Trip {
	tripSeats := [][]int{{0, 0}, {0, 0}}
	tripPrices := [][]int{{0, 0}, {0, 0}}
	tripSeats[0][1] = seats
	tripPrices[0][1] = price

	return Trip{
		ID:          id,
		TrainNumber: trainNumber,
		Stations:    []string{startStation, endStation},
		Times:       []string{departure, arrival},
		Seats:       tripSeats,
		Prices:      tripPrices,
	}
}

// Price returns the fare paid for the trip, read from the stored
// price matrix.
func (t Trip) Price() int {
	if len(t.Prices) == 0 || len(t.Prices[0]) == 0 {
		return 0
	}
	return t.Prices[0][len(t.Prices[0])-1]
}

// StartStation returns the boarding point of the trip.
func (t Trip) StartStation() string {
	if len(t.Stations) == 0 {
		return ""
	}
	return t.Stations[0]
}

// EndStation returns the alighting point of the trip.
func (t Trip) EndStation() string {
	if len(t.Stations) == 0 {
		return ""
	}
	return t.Stations[len(t.Stations)-1]
}

// User is a passenger account. Passwords are stored and compared as
// opaque strings; credential hardening is outside the booking core.
type User struct {
	Phone    string  `json:"phone"`
	Password string  `json:"-"`
	Name     string  `json:"name"`
	IDNumber string  `json:"idNumber"`
	Balance  float64 `json:"balance"`
	Trips    []Trip  `json:"trips"`
}

// Admin is an operator account. Symmetric to User without balance or
// trips.
type Admin struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
}

// ValidPhone reports whether s is an 11-digit phone number.
func ValidPhone(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidPassword requires at least 8 characters with an upper-case
// letter, a lower-case letter and a digit.
func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasUpper && hasLower && hasDigit
}

// ValidIDNumber requires the 18-character national id format.
func ValidIDNumber(s string) bool {
	return len(s) == 18
}
