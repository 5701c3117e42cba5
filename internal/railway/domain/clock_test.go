package domain

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"08:30", 510},
		{"8:30", 510},
		{"830", 510},
		{"0830", 510},
		{"00:00", 0},
		{"23:59", 1439},
		{"", 0},
		{"morning", 0},
		{"8:3", 0},
		{"ab:cd", 0},
		{"12345", 0},
	}

	for _, tc := range cases {
		if got := ParseClock(tc.in); got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{510, "08:30"},
		{1439, "23:59"},
		{1440, "00:00"},
		{1500, "01:00"},
		{-60, "23:00"},
	}

	for _, tc := range cases {
		if got := FormatClock(tc.in); got != tc.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "06:05", "12:30", "23:59"} {
		if got := FormatClock(ParseClock(s)); got != s {
			t.Errorf("round trip of %q produced %q", s, got)
		}
	}
}
