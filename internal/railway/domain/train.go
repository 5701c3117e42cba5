package domain

// Train is a scheduled service over an ordered list of stations.
//
// Times holds 2N entries for N stations: the first N are the
// forward-direction times aligned to Stations[0..N-1], the second N are
// the reverse-direction times aligned to the same stations. Seats and
// Prices are N×N matrices where only cells [i][j] with i < j carry
// data; a segment is always addressed with (min(i,j), max(i,j)).
type Train struct {
	Number   string
	Stations []string
	Times    []string
	Seats    [][]int
	Prices   [][]int

	stationIndex map[string]int
}

// NewTrain builds a train and its station lookup index. The index is
// built once here so that concurrent read-only searches never mutate
// the train.
func NewTrain(number string, stations, times []string, seats, prices [][]int) *Train {
	t := &Train{
		Number:   number,
		Stations: stations,
		Times:    times,
		Seats:    seats,
		Prices:   prices,
	}
	t.reindex()
	return t
}

func (t *Train) reindex() {
	t.stationIndex = make(map[string]int, len(t.Stations))
	for i, name := range t.Stations {
		// First occurrence wins, matching a linear scan.
		if _, ok := t.stationIndex[name]; !ok {
			t.stationIndex[name] = i
		}
	}
}

// StationIndex resolves a station name to its position on the route.
func (t *Train) StationIndex(name string) (int, bool) {
	if t.stationIndex == nil {
		t.reindex()
	}
	idx, ok := t.stationIndex[name]
	return idx, ok
}

// DirectionalSchedule returns the timetable half to use for a journey
// between two station indices. Forward journeys (start < end) use the
// first half of Times, reverse journeys the second half. Out-of-range
// indices fall back to the forward half. Equal indices are a caller
// error and must be rejected before calling.
func (t *Train) DirectionalSchedule(startIdx, endIdx int) []string {
	if len(t.Times) == 0 {
		return t.Times
	}

	n := len(t.Times) / 2
	if startIdx < 0 || endIdx < 0 || startIdx >= n || endIdx >= n {
		return t.Times[:n]
	}
	if startIdx < endIdx {
		return t.Times[:n]
	}
	return t.Times[n:]
}

// Segment reads the seat count and price for the station pair. The pair
// is normalised to (min, max) before the lookup. A pair outside the
// matrices means the record is malformed and the segment is reported
// unavailable instead of panicking.
func (t *Train) Segment(i, j int) (seats, price int, err error) {
	from, to := i, j
	if from > to {
		from, to = to, from
	}

	if from < 0 ||
		from >= len(t.Seats) || from >= len(t.Prices) ||
		to >= len(t.Seats[from]) || to >= len(t.Prices[from]) {
		return 0, 0, ErrMalformedRecord
	}

	return t.Seats[from][to], t.Prices[from][to], nil
}

// TakeSeat decrements the segment's availability. The caller must have
// verified the seat count under the inventory lock.
func (t *Train) TakeSeat(i, j int) {
	from, to := i, j
	if from > to {
		from, to = to, from
	}
	t.Seats[from][to]--
}

// ReleaseSeat restores one seat on the segment. Out-of-range pairs are
// ignored: cancellation seat restore is best effort.
func (t *Train) ReleaseSeat(i, j int) {
	from, to := i, j
	if from > to {
		from, to = to, from
	}
	if from < 0 || from >= len(t.Seats) || to >= len(t.Seats[from]) {
		return
	}
	t.Seats[from][to]++
}

// FareResult is one row of a fare search, priced for a concrete
// station pair on a concrete train.
type FareResult struct {
	TrainNumber    string `json:"trainNumber"`
	StartStation   string `json:"startStation"`
	EndStation     string `json:"endStation"`
	DepartureTime  string `json:"departureTime"`
	ArrivalTime    string `json:"arrivalTime"`
	AvailableSeats int    `json:"availableSeats"`
	Price          int    `json:"price"`
}

// TrainStatus is the administrative view of one train.
type TrainStatus struct {
	TrainNumber string `json:"trainNumber"`
	Route       string `json:"route"`
	Suspended   bool   `json:"suspended"`
}
