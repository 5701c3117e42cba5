package application

import (
	"github.com/railbook/railbook/pkg/domain"
)

type ticketPurchasedEvent struct {
	data string
}

func (e ticketPurchasedEvent) EventName() string {
	return "TicketPurchased"
}

func (e ticketPurchasedEvent) Payload() string {
	return e.data
}

// NewTicketPurchasedEvent announces a completed booking transaction.
func NewTicketPurchasedEvent(data string) domain.Event[string] {
	return ticketPurchasedEvent{data: data}
}

type ticketCancelledEvent struct {
	data string
}

func (e ticketCancelledEvent) EventName() string {
	return "TicketCancelled"
}

func (e ticketCancelledEvent) Payload() string {
	return e.data
}

// NewTicketCancelledEvent announces a completed cancellation.
func NewTicketCancelledEvent(data string) domain.Event[string] {
	return ticketCancelledEvent{data: data}
}

type trainServiceChangedEvent struct {
	data string
}

func (e trainServiceChangedEvent) EventName() string {
	return "TrainServiceChanged"
}

func (e trainServiceChangedEvent) Payload() string {
	return e.data
}

// NewTrainServiceChangedEvent announces a suspend or resume.
func NewTrainServiceChangedEvent(data string) domain.Event[string] {
	return trainServiceChangedEvent{data: data}
}

type userRegisteredEvent struct {
	data string
}

func (e userRegisteredEvent) EventName() string {
	return "UserRegistered"
}

func (e userRegisteredEvent) Payload() string {
	return e.data
}

// NewUserRegisteredEvent announces a new passenger account.
func NewUserRegisteredEvent(data string) domain.Event[string] {
	return userRegisteredEvent{data: data}
}
