package rules

import (
	"testing"
	"time"
)

func TestDayKeyUsesTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	utc := time.Date(2026, 3, 9, 2, 30, 0, 0, time.UTC)
	got := DayKey(utc, loc)
	want := "2026-03-08"
	if got != want {
		t.Fatalf("unexpected day key: got %s want %s", got, want)
	}
}

func TestDayKeyDefaultsToUTC(t *testing.T) {
	utc := time.Date(2026, 3, 8, 23, 59, 59, 0, time.UTC)
	got := DayKey(utc, nil)
	want := "2026-03-08"
	if got != want {
		t.Fatalf("unexpected day key: got %s want %s", got, want)
	}
}

func TestNextResetAt(t *testing.T) {
	now := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	got := NextResetAt(now, nil)
	want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected reset_at: got %s want %s", got.Format(time.RFC3339), want.Format(time.RFC3339))
	}
}

func TestMonthStart(t *testing.T) {
	now := time.Date(2026, 3, 17, 15, 4, 5, 0, time.UTC)
	got := MonthStart(now, nil)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected month start: got %s want %s", got.Format(time.RFC3339), want.Format(time.RFC3339))
	}
}
