package dateutil

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDayIndex(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2025-06-02", 0}, // Monday
		{"2025-06-04", 2}, // Wednesday
		{"2025-06-06", 4}, // Friday
		{"2025-06-07", 5}, // Saturday
		{"2025-06-08", 6}, // Sunday
	}

	for _, tc := range tests {
		if got := DayIndex(day(tc.date)); got != tc.want {
			t.Errorf("DayIndex(%s) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestWeekBoundaries(t *testing.T) {
	tests := []struct {
		date      string
		wantStart string
		wantEnd   string
		wantFri   string
	}{
		{"2025-06-02", "2025-06-02", "2025-06-08", "2025-06-06"}, // Monday maps to itself
		{"2025-06-05", "2025-06-02", "2025-06-08", "2025-06-06"},
		{"2025-06-08", "2025-06-02", "2025-06-08", "2025-06-06"}, // Sunday still belongs to the Monday week
		{"2025-12-31", "2025-12-29", "2026-01-04", "2026-01-02"}, // year boundary
	}

	for _, tc := range tests {
		d := day(tc.date)
		if got := FormatDay(WeekStart(d)); got != tc.wantStart {
			t.Errorf("WeekStart(%s) = %s, want %s", tc.date, got, tc.wantStart)
		}
		if got := FormatDay(WeekEnd(d)); got != tc.wantEnd {
			t.Errorf("WeekEnd(%s) = %s, want %s", tc.date, got, tc.wantEnd)
		}
		if got := FormatDay(WorkWeekEnd(d)); got != tc.wantFri {
			t.Errorf("WorkWeekEnd(%s) = %s, want %s", tc.date, got, tc.wantFri)
		}
	}
}

func TestWeekStartKeepsMidnight(t *testing.T) {
	d := time.Date(2025, 6, 5, 17, 42, 3, 0, time.UTC)
	got := WeekStart(d)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("WeekStart(%v) = %v, want midnight", d, got)
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2025-06-02", false},
		{"2025-6-2", true},
		{"2025-02-30", true}, // would normalise to March
		{"02-06-2025", true},
		{"2025-06-02T00:00:00Z", true},
		{"", true},
	}

	for _, tc := range tests {
		got, err := ParseDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDay(%q) expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDay(%q) unexpected error: %v", tc.in, err)
		} else if FormatDay(got) != tc.in {
			t.Errorf("ParseDay(%q) = %s", tc.in, FormatDay(got))
		}
	}
}

func TestFixedClock(t *testing.T) {
	d := day("2025-06-02")
	c := Fixed{Day: d}
	if !c.Today().Equal(d) {
		t.Errorf("Fixed.Today() = %v, want %v", c.Today(), d)
	}
}
