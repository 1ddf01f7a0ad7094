package interval

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHourly(t *testing.T) {
	ref := time.Date(2020, time.March, 14, 15, 9, 26, 535, time.UTC)
	want := time.Date(2020, time.March, 14, 15, 0, 0, 0, time.UTC)
	if got := Hourly(ref); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDaily(t *testing.T) {
	ref := time.Date(2020, time.March, 14, 15, 9, 26, 535, time.UTC)
	if got := Daily(ref); !got.Equal(date(2020, time.March, 14)) {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestWeekly_MostRecentMonday(t *testing.T) {
	tests := []struct {
		ref  time.Time
		want time.Time
	}{
		{date(2014, time.March, 17), date(2014, time.March, 17)}, // a Monday maps to itself
		{date(2014, time.March, 19), date(2014, time.March, 17)}, // Wednesday
		{date(2014, time.March, 23), date(2014, time.March, 17)}, // Sunday
		{date(2014, time.March, 24), date(2014, time.March, 24)}, // next Monday
	}
	for _, tt := range tests {
		if got := Weekly(tt.ref); !got.Equal(tt.want) {
			t.Errorf("Weekly(%v): expected %v, got %v", tt.ref, tt.want, got)
		}
	}
}

func TestWeekly_SamePeriodConverges(t *testing.T) {
	// Any two instants within the same week yield the same boundary, which is
	// what makes re-runs within a period idempotent no-ops.
	a := Weekly(date(2014, time.March, 18))
	b := Weekly(date(2014, time.March, 22))
	if !a.Equal(b) {
		t.Fatalf("expected same boundary, got %v and %v", a, b)
	}
}

func TestBiweekly(t *testing.T) {
	if got := Biweekly(date(2020, time.May, 3)); !got.Equal(date(2020, time.May, 1)) {
		t.Fatalf("expected 1st, got %v", got)
	}
	if got := Biweekly(date(2020, time.May, 15)); !got.Equal(date(2020, time.May, 15)) {
		t.Fatalf("expected 15th, got %v", got)
	}
	if got := Biweekly(date(2020, time.May, 30)); !got.Equal(date(2020, time.May, 15)) {
		t.Fatalf("expected 15th, got %v", got)
	}
}

func TestMonthly(t *testing.T) {
	if got := Monthly(date(2020, time.February, 29)); !got.Equal(date(2020, time.February, 1)) {
		t.Fatalf("expected first of month, got %v", got)
	}
}

func TestQuarterly(t *testing.T) {
	tests := []struct {
		ref  time.Time
		want time.Time
	}{
		{date(2020, time.January, 15), date(2020, time.January, 1)},
		{date(2020, time.March, 31), date(2020, time.January, 1)},
		{date(2020, time.April, 1), date(2020, time.April, 1)},
		{date(2020, time.November, 20), date(2020, time.October, 1)},
	}
	for _, tt := range tests {
		if got := Quarterly(tt.ref); !got.Equal(tt.want) {
			t.Errorf("Quarterly(%v): expected %v, got %v", tt.ref, tt.want, got)
		}
	}
}

func TestSemiyearly(t *testing.T) {
	if got := Semiyearly(date(2020, time.June, 30)); !got.Equal(date(2020, time.January, 1)) {
		t.Fatalf("expected Jan 1, got %v", got)
	}
	if got := Semiyearly(date(2020, time.July, 1)); !got.Equal(date(2020, time.July, 1)) {
		t.Fatalf("expected Jul 1, got %v", got)
	}
}

func TestYearly(t *testing.T) {
	if got := Yearly(date(2020, time.December, 31)); !got.Equal(date(2020, time.January, 1)) {
		t.Fatalf("expected Jan 1, got %v", got)
	}
}
