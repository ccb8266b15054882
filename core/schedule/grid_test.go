package schedule

import (
	"testing"
	"time"
)

func TestBuildMonthGrid_invalidMonth(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		if _, err := BuildMonthGrid(2024, month, time.Now(), nil); err != ErrMonthOutOfRange {
			t.Errorf("BuildMonthGrid(month=%d) error = %v, want %v", month, err, ErrMonthOutOfRange)
		}
	}
}

func TestBuildMonthGrid_completeness(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantWeeks int
		wantDays  int
	}{
		{name: "feb leap year starting thursday", year: 2024, month: 2, wantWeeks: 5, wantDays: 29},
		{name: "feb non-leap", year: 2023, month: 2, wantWeeks: 5, wantDays: 28},
		{name: "jan 2024 starting monday", year: 2024, month: 1, wantWeeks: 5, wantDays: 31},
		{name: "sep 2024 starting sunday", year: 2024, month: 9, wantWeeks: 6, wantDays: 30},
		{name: "dec", year: 2025, month: 12, wantWeeks: 5, wantDays: 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weeks, err := BuildMonthGrid(tt.year, tt.month, time.Now(), nil)
			if err != nil {
				t.Fatalf("BuildMonthGrid() error = %v", err)
			}
			if len(weeks) != tt.wantWeeks {
				t.Errorf("weeks = %d, want %d", len(weeks), tt.wantWeeks)
			}

			// in-month cells must be exactly the month's days, in order
			var days int
			want := Date(tt.year, time.Month(tt.month), 1)
			for _, week := range weeks {
				for _, cell := range week {
					if cell == nil {
						continue
					}
					days++
					if !cell.Date.Equal(want) {
						t.Fatalf("cell date = %s, want %s", cell.Date, want)
					}
					want = want.AddDate(0, 0, 1)
				}
			}
			if days != tt.wantDays {
				t.Errorf("in-month cells = %d, want %d", days, tt.wantDays)
			}
		})
	}
}

func TestBuildMonthGrid_leapFebruaryLayout(t *testing.T) {
	weeks, err := BuildMonthGrid(2024, 2, Date(2024, time.February, 14), nil)
	if err != nil {
		t.Fatalf("BuildMonthGrid() error = %v", err)
	}
	if len(weeks) != 5 {
		t.Fatalf("weeks = %d, want 5", len(weeks))
	}

	// Feb 1 2024 is a Thursday: columns 0-2 of the first week are padding.
	for col := 0; col < 3; col++ {
		if weeks[0][col] != nil {
			t.Errorf("weeks[0][%d] = %v, want padding", col, weeks[0][col])
		}
	}
	if got := weeks[0][3]; got == nil || !got.Date.Equal(Date(2024, time.February, 1)) {
		t.Errorf("weeks[0][3] = %v, want Feb 1", got)
	}
	// Feb 29 lands on the Thursday of the last week; the rest is padding.
	if got := weeks[4][3]; got == nil || !got.Date.Equal(Date(2024, time.February, 29)) {
		t.Errorf("weeks[4][3] = %v, want Feb 29", got)
	}
	for col := 4; col < 7; col++ {
		if weeks[4][col] != nil {
			t.Errorf("weeks[4][%d] = %v, want padding", col, weeks[4][col])
		}
	}
}

func TestBuildMonthGrid_isToday(t *testing.T) {
	today := Date(2024, time.March, 15)
	weeks, err := BuildMonthGrid(2024, 3, today, nil)
	if err != nil {
		t.Fatalf("BuildMonthGrid() error = %v", err)
	}
	var marked int
	for _, week := range weeks {
		for _, cell := range week {
			if cell == nil {
				continue
			}
			if cell.IsToday {
				marked++
				if !cell.Date.Equal(today) {
					t.Errorf("IsToday set on %s", cell.Date)
				}
			}
		}
	}
	if marked != 1 {
		t.Errorf("cells flagged today = %d, want 1", marked)
	}
}

func TestBuildMonthGrid_clipsItemsToMonth(t *testing.T) {
	// an item spanning Dec 30 - Jan 2 is only visible on Jan 1-2
	// in a January grid; its December portion is invisible to that call.
	it := Item{
		ID:    "42",
		Start: Date(2023, time.December, 30),
		End:   Date(2024, time.January, 2),
		Label: "year-end release",
	}
	weeks, err := BuildMonthGrid(2024, 1, Date(2024, time.January, 1), []Item{it})
	if err != nil {
		t.Fatalf("BuildMonthGrid() error = %v", err)
	}

	var got []time.Time
	for _, week := range weeks {
		for _, cell := range week {
			if cell == nil {
				continue
			}
			for _, ci := range cell.Items {
				if ci.ID == it.ID {
					got = append(got, cell.Date)
				}
			}
		}
	}
	want := []time.Time{Date(2024, time.January, 1), Date(2024, time.January, 2)}
	if len(got) != len(want) {
		t.Fatalf("item appears on %d days (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("item day[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBuildMonthGrid_emptyItems(t *testing.T) {
	weeks, err := BuildMonthGrid(2024, 6, time.Now(), []Item{})
	if err != nil {
		t.Fatalf("BuildMonthGrid() error = %v", err)
	}
	for _, week := range weeks {
		for _, cell := range week {
			if cell != nil && len(cell.Items) != 0 {
				t.Errorf("cell %s has %d items, want 0", cell.Date, len(cell.Items))
			}
		}
	}
}
