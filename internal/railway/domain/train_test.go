package domain

import "testing"

func testTrain() *Train {
	return NewTrain(
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
}

func TestStationIndex(t *testing.T) {
	train := testTrain()

	idx, ok := train.StationIndex("Riverside")
	if !ok || idx != 1 {
		t.Fatalf("StationIndex(Riverside) = %d, %v; want 1, true", idx, ok)
	}

	if _, ok := train.StationIndex("Nowhere"); ok {
		t.Fatal("expected unknown station to miss")
	}
}

func TestStationIndexFirstOccurrenceWins(t *testing.T) {
	train := NewTrain("L1",
		[]string{"Loop", "Midtown", "Loop"},
		nil,
		[][]int{{0, 1, 1}, {0, 0, 1}, {0, 0, 0}},
		[][]int{{0, 1, 1}, {0, 0, 1}, {0, 0, 0}},
	)

	idx, ok := train.StationIndex("Loop")
	if !ok || idx != 0 {
		t.Fatalf("StationIndex(Loop) = %d, %v; want 0, true", idx, ok)
	}
}

func TestDirectionalSchedule(t *testing.T) {
	train := testTrain()

	forward := train.DirectionalSchedule(0, 2)
	if forward[0] != "08:30" || forward[2] != "10:05" {
		t.Errorf("forward schedule = %v", forward)
	}

	reverse := train.DirectionalSchedule(2, 0)
	if reverse[2] != "19:40" || reverse[0] != "18:00" {
		t.Errorf("reverse schedule = %v", reverse)
	}

	// Out-of-range indices fall back to the forward half.
	fallback := train.DirectionalSchedule(0, 7)
	if fallback[0] != "08:30" {
		t.Errorf("fallback schedule = %v", fallback)
	}
}

func TestSegmentNormalisesPair(t *testing.T) {
	train := testTrain()

	seats, price, err := train.Segment(2, 0)
	if err != nil {
		t.Fatalf("Segment(2, 0) returned %v", err)
	}
	if seats != 3 || price != 250 {
		t.Errorf("Segment(2, 0) = %d seats, %d price; want 3, 250", seats, price)
	}
}

func TestSegmentMalformedMatrix(t *testing.T) {
	train := NewTrain("B7",
		[]string{"A", "B", "C"},
		nil,
		[][]int{{0, 1}},
		[][]int{{0, 1}},
	)

	if _, _, err := train.Segment(0, 2); err != ErrMalformedRecord {
		t.Fatalf("Segment on truncated matrix returned %v, want ErrMalformedRecord", err)
	}
}

func TestTakeAndReleaseSeat(t *testing.T) {
	train := testTrain()

	train.TakeSeat(0, 2)
	if seats, _, _ := train.Segment(0, 2); seats != 2 {
		t.Errorf("after TakeSeat, seats = %d, want 2", seats)
	}

	train.ReleaseSeat(2, 0)
	if seats, _, _ := train.Segment(0, 2); seats != 3 {
		t.Errorf("after ReleaseSeat, seats = %d, want 3", seats)
	}

	// Out of range is a no-op, not a panic.
	train.ReleaseSeat(0, 9)
}
