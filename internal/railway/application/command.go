package application

import (
	"github.com/railbook/railbook/pkg/domain"
)

// PurchaseTicketData carries everything needed to book one seat on a
// segment. Stations travel by name; indices are re-resolved against
// the live train inside the transaction.
type PurchaseTicketData struct {
	Phone        string `json:"phone"`
	TrainNumber  string `json:"trainNumber"`
	StartStation string `json:"startStation"`
	EndStation   string `json:"endStation"`
}

type purchaseTicketCommand struct {
	data PurchaseTicketData
}

func (c purchaseTicketCommand) CommandName() string {
	return "PurchaseTicket"
}

func (c purchaseTicketCommand) Payload() PurchaseTicketData {
	return c.data
}

func NewPurchaseTicketCommand(data PurchaseTicketData) domain.Command[PurchaseTicketData] {
	return purchaseTicketCommand{data: data}
}

// CancelTicketData identifies the trip to refund: the user's first
// trip on the named train.
type CancelTicketData struct {
	Phone       string `json:"phone"`
	TrainNumber string `json:"trainNumber"`
}

type cancelTicketCommand struct {
	data CancelTicketData
}

func (c cancelTicketCommand) CommandName() string {
	return "CancelTicket"
}

func (c cancelTicketCommand) Payload() CancelTicketData {
	return c.data
}

func NewCancelTicketCommand(data CancelTicketData) domain.Command[CancelTicketData] {
	return cancelTicketCommand{data: data}
}

// TrainServiceData names the train whose service state changes. The
// same payload serves the suspend and the resume command.
type TrainServiceData struct {
	TrainNumber string `json:"trainNumber"`
}

type suspendTrainCommand struct {
	data TrainServiceData
}

func (c suspendTrainCommand) CommandName() string {
	return "SuspendTrain"
}

func (c suspendTrainCommand) Payload() TrainServiceData {
	return c.data
}

func NewSuspendTrainCommand(data TrainServiceData) domain.Command[TrainServiceData] {
	return suspendTrainCommand{data: data}
}

type resumeTrainCommand struct {
	data TrainServiceData
}

func (c resumeTrainCommand) CommandName() string {
	return "ResumeTrain"
}

func (c resumeTrainCommand) Payload() TrainServiceData {
	return c.data
}

func NewResumeTrainCommand(data TrainServiceData) domain.Command[TrainServiceData] {
	return resumeTrainCommand{data: data}
}

// RegisterUserData carries a new passenger registration.
type RegisterUserData struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Name     string `json:"name"`
	IDNumber string `json:"idNumber"`
}

type registerUserCommand struct {
	data RegisterUserData
}

func (c registerUserCommand) CommandName() string {
	return "RegisterUser"
}

func (c registerUserCommand) Payload() RegisterUserData {
	return c.data
}

func NewRegisterUserCommand(data RegisterUserData) domain.Command[RegisterUserData] {
	return registerUserCommand{data: data}
}

// RechargeBalanceData tops up a passenger account.
type RechargeBalanceData struct {
	Phone  string  `json:"phone"`
	Amount float64 `json:"amount"`
}

type rechargeBalanceCommand struct {
	data RechargeBalanceData
}

func (c rechargeBalanceCommand) CommandName() string {
	return "RechargeBalance"
}

func (c rechargeBalanceCommand) Payload() RechargeBalanceData {
	return c.data
}

func NewRechargeBalanceCommand(data RechargeBalanceData) domain.Command[RechargeBalanceData] {
	return rechargeBalanceCommand{data: data}
}
