package schedule

import (
	"testing"
	"time"
)

func TestPositionItems(t *testing.T) {
	winStart := Date(2024, time.March, 1)
	winEnd := Date(2024, time.March, 31)

	tests := []struct {
		name      string
		item      Item
		ppd       int
		wantLeft  int
		wantWidth int
		skip      bool
	}{
		{
			name:      "inside window",
			item:      Item{ID: "a", Start: Date(2024, time.March, 3), End: Date(2024, time.March, 5)},
			ppd:       100,
			wantLeft:  200,
			wantWidth: 300,
		},
		{
			name:      "single day at window start",
			item:      Item{ID: "b", Start: winStart, End: winStart},
			ppd:       40,
			wantLeft:  0,
			wantWidth: 40,
		},
		{
			name:      "clipped at both ends",
			item:      Item{ID: "c", Start: Date(2024, time.February, 1), End: Date(2024, time.April, 30)},
			ppd:       10,
			wantLeft:  0,
			wantWidth: 310,
		},
		{
			name:      "clipped at window end",
			item:      Item{ID: "d", Start: Date(2024, time.March, 30), End: Date(2024, time.April, 10)},
			ppd:       10,
			wantLeft:  290,
			wantWidth: 20,
		},
		{
			name: "outside window is omitted",
			item: Item{ID: "e", Start: Date(2024, time.April, 1), End: Date(2024, time.April, 3)},
			ppd:  10,
			skip: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars, err := PositionItems([]Item{tt.item}, winStart, winEnd, tt.ppd)
			if err != nil {
				t.Fatalf("PositionItems() error = %v", err)
			}
			if tt.skip {
				if len(bars) != 0 {
					t.Fatalf("bars = %+v, want none", bars)
				}
				return
			}
			if len(bars) != 1 {
				t.Fatalf("bars = %d, want 1", len(bars))
			}
			bar := bars[0]
			if bar.Left != tt.wantLeft {
				t.Errorf("Left = %d, want %d", bar.Left, tt.wantLeft)
			}
			if bar.Width != tt.wantWidth {
				t.Errorf("Width = %d, want %d", bar.Width, tt.wantWidth)
			}

			// bars never extend past the window's right edge
			windowDays := daysBetween(winStart, winEnd) + 1
			if bar.Left+bar.Width > windowDays*tt.ppd {
				t.Errorf("bar ends at %d, past window end %d", bar.Left+bar.Width, windowDays*tt.ppd)
			}
		})
	}
}

func TestPositionItems_invalidDensity(t *testing.T) {
	items := []Item{{ID: "a", Start: Date(2024, time.March, 1), End: Date(2024, time.March, 2)}}
	for _, ppd := range []int{0, -5} {
		if _, err := PositionItems(items, Date(2024, time.March, 1), Date(2024, time.March, 31), ppd); err != ErrInvalidDensity {
			t.Errorf("PositionItems(ppd=%d) error = %v, want %v", ppd, err, ErrInvalidDensity)
		}
	}
}

func TestPositionItems_empty(t *testing.T) {
	bars, err := PositionItems(nil, Date(2024, time.March, 1), Date(2024, time.March, 31), 10)
	if err != nil {
		t.Fatalf("PositionItems() error = %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("bars = %+v, want none", bars)
	}
}

func TestItemValidate(t *testing.T) {
	ok := Item{Start: Date(2024, time.March, 1), End: Date(2024, time.March, 1)}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	bad := Item{Start: Date(2024, time.March, 2), End: Date(2024, time.March, 1)}
	if err := bad.Validate(); err != ErrInvalidRange {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidRange)
	}
}
