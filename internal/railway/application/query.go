package application

import (
	"github.com/railbook/railbook/pkg/domain"
)

// SearchFaresData is a point-to-point fare search. DepartAfter is an
// optional "HH:MM" lower bound on the departure time; empty means no
// time filter.
type SearchFaresData struct {
	StartStation string `json:"startStation"`
	EndStation   string `json:"endStation"`
	DepartAfter  string `json:"departAfter,omitempty"`
}

type searchFaresQuery struct {
	data SearchFaresData
}

func (q searchFaresQuery) QueryName() string {
	return "SearchFares"
}

func (q searchFaresQuery) Payload() SearchFaresData {
	return q.data
}

func NewSearchFaresQuery(data SearchFaresData) domain.Query[SearchFaresData] {
	return searchFaresQuery{data: data}
}

// GetAccountData looks up a passenger account with its trips.
type GetAccountData struct {
	Phone string `json:"phone"`
}

type getAccountQuery struct {
	data GetAccountData
}

func (q getAccountQuery) QueryName() string {
	return "GetAccount"
}

func (q getAccountQuery) Payload() GetAccountData {
	return q.data
}

func NewGetAccountQuery(data GetAccountData) domain.Query[GetAccountData] {
	return getAccountQuery{data: data}
}

// TrainStatusData requests the administrative train listing. There are
// no parameters; the listing always covers the whole inventory.
type TrainStatusData struct{}

type trainStatusQuery struct {
	data TrainStatusData
}

func (q trainStatusQuery) QueryName() string {
	return "TrainStatuses"
}

func (q trainStatusQuery) Payload() TrainStatusData {
	return q.data
}

func NewTrainStatusQuery(data TrainStatusData) domain.Query[TrainStatusData] {
	return trainStatusQuery{data: data}
}
