package schedule

import (
	"reflect"
	"testing"
	"time"
)

// fullWeek returns the 7 days starting at the given Monday.
func fullWeek(monday time.Time) [7]*time.Time {
	var days [7]*time.Time
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		days[i] = &d
	}
	return days
}

func checkLaneInvariants(t *testing.T, lanes []Lane) {
	t.Helper()
	for li, lane := range lanes {
		var total int
		col := 0
		for _, seg := range lane {
			if seg.Span <= 0 {
				t.Errorf("lane %d has segment with span %d", li, seg.Span)
			}
			total += seg.Span
			col += seg.Span
		}
		if total != 7 {
			t.Errorf("lane %d spans sum to %d, want 7", li, total)
		}
	}
}

func TestPackWeek_twoOverlappingItems(t *testing.T) {
	monday := Date(2024, time.March, 4)
	days := fullWeek(monday)
	items := []Item{
		{ID: "a", Label: "A", Color: "#3B82F6", Start: monday, End: monday.AddDate(0, 0, 2)},                   // Mon-Wed
		{ID: "b", Label: "B", Color: "#EF4444", Start: monday.AddDate(0, 0, 1), End: monday.AddDate(0, 0, 3)}, // Tue-Thu
	}

	lanes := PackWeek(days, items)
	if len(lanes) != 2 {
		t.Fatalf("lanes = %d, want 2", len(lanes))
	}
	checkLaneInvariants(t, lanes)

	// A starts at column 0 and sorts first, so it owns lane 0
	want0 := Lane{
		{Kind: SegmentBar, Span: 3, Label: "A", Color: "#3B82F6"},
		{Kind: SegmentEmpty, Span: 4},
	}
	if !reflect.DeepEqual(lanes[0], want0) {
		t.Errorf("lane 0 = %+v, want %+v", lanes[0], want0)
	}
	want1 := Lane{
		{Kind: SegmentEmpty, Span: 1},
		{Kind: SegmentBar, Span: 3, Label: "B", Color: "#EF4444"},
		{Kind: SegmentEmpty, Span: 3},
	}
	if !reflect.DeepEqual(lanes[1], want1) {
		t.Errorf("lane 1 = %+v, want %+v", lanes[1], want1)
	}
}

func TestPackWeek_disjointItemsShareLane(t *testing.T) {
	monday := Date(2024, time.March, 4)
	days := fullWeek(monday)
	items := []Item{
		{ID: "a", Label: "A", Start: monday, End: monday.AddDate(0, 0, 1)},                   // Mon-Tue
		{ID: "b", Label: "B", Start: monday.AddDate(0, 0, 3), End: monday.AddDate(0, 0, 4)}, // Thu-Fri
	}

	lanes := PackWeek(days, items)
	if len(lanes) != 1 {
		t.Fatalf("lanes = %d, want 1", len(lanes))
	}
	checkLaneInvariants(t, lanes)

	want := Lane{
		{Kind: SegmentBar, Span: 2, Label: "A"},
		{Kind: SegmentEmpty, Span: 1},
		{Kind: SegmentBar, Span: 2, Label: "B"},
		{Kind: SegmentEmpty, Span: 2},
	}
	if !reflect.DeepEqual(lanes[0], want) {
		t.Errorf("lane 0 = %+v, want %+v", lanes[0], want)
	}
}

func TestPackWeek_widerItemWinsAtSameStart(t *testing.T) {
	monday := Date(2024, time.March, 4)
	days := fullWeek(monday)
	items := []Item{
		{ID: "short", Label: "short", Start: monday, End: monday},
		{ID: "long", Label: "long", Start: monday, End: monday.AddDate(0, 0, 4)},
	}

	lanes := PackWeek(days, items)
	if len(lanes) != 2 {
		t.Fatalf("lanes = %d, want 2", len(lanes))
	}
	if lanes[0][0].Label != "long" {
		t.Errorf("lane 0 first bar = %s, want long", lanes[0][0].Label)
	}
	if lanes[1][0].Label != "short" {
		t.Errorf("lane 1 first bar = %s, want short", lanes[1][0].Label)
	}
}

func TestPackWeek_clipsToWeek(t *testing.T) {
	monday := Date(2024, time.March, 4)
	days := fullWeek(monday)
	items := []Item{
		// starts before the week, ends on Wednesday
		{ID: "a", Label: "A", Start: monday.AddDate(0, 0, -10), End: monday.AddDate(0, 0, 2)},
		// runs through the whole week and beyond
		{ID: "b", Label: "B", Start: monday.AddDate(0, 0, -3), End: monday.AddDate(0, 0, 20)},
	}

	lanes := PackWeek(days, items)
	if len(lanes) != 2 {
		t.Fatalf("lanes = %d, want 2", len(lanes))
	}
	checkLaneInvariants(t, lanes)

	// the full-week bar is wider and owns lane 0
	if lanes[0][0].Kind != SegmentBar || lanes[0][0].Span != 7 || lanes[0][0].Label != "B" {
		t.Errorf("lane 0 = %+v, want a 7-column B bar", lanes[0])
	}
	if lanes[1][0].Kind != SegmentBar || lanes[1][0].Span != 3 || lanes[1][0].Label != "A" {
		t.Errorf("lane 1 = %+v, want a 3-column A bar first", lanes[1])
	}
}

func TestPackWeek_skipsItemsOutsideWeek(t *testing.T) {
	monday := Date(2024, time.March, 4)
	days := fullWeek(monday)
	items := []Item{
		{ID: "before", Start: monday.AddDate(0, 0, -7), End: monday.AddDate(0, 0, -1)},
		{ID: "after", Start: monday.AddDate(0, 0, 7), End: monday.AddDate(0, 0, 8)},
	}
	if lanes := PackWeek(days, items); len(lanes) != 0 {
		t.Errorf("lanes = %+v, want none", lanes)
	}
}

func TestPackWeek_paddingColumns(t *testing.T) {
	// a month-grid trailing week: Thu Feb 29 2024 is the last real column
	var days [7]*time.Time
	for i := 0; i < 4; i++ {
		d := Date(2024, time.February, 26+i)
		days[i] = &d
	}
	items := []Item{
		{ID: "a", Label: "A", Start: Date(2024, time.February, 28), End: Date(2024, time.March, 3)},
	}

	lanes := PackWeek(days, items)
	if len(lanes) != 1 {
		t.Fatalf("lanes = %d, want 1", len(lanes))
	}
	checkLaneInvariants(t, lanes)

	// clipped to Feb 28-29, columns 2-3
	want := Lane{
		{Kind: SegmentEmpty, Span: 2},
		{Kind: SegmentBar, Span: 2, Label: "A"},
		{Kind: SegmentEmpty, Span: 3},
	}
	if !reflect.DeepEqual(lanes[0], want) {
		t.Errorf("lane 0 = %+v, want %+v", lanes[0], want)
	}
}

func TestPackWeek_allPaddingWeek(t *testing.T) {
	var days [7]*time.Time
	items := []Item{{ID: "a", Start: Date(2024, time.March, 1), End: Date(2024, time.March, 7)}}
	if lanes := PackWeek(days, items); lanes != nil {
		t.Errorf("lanes = %+v, want nil", lanes)
	}
}

func TestPackWeek_noOverlapWithinLane(t *testing.T) {
	monday := Date(2024, time.March, 4)
	days := fullWeek(monday)
	items := []Item{
		{ID: "1", Label: "1", Start: monday, End: monday.AddDate(0, 0, 6)},
		{ID: "2", Label: "2", Start: monday, End: monday.AddDate(0, 0, 1)},
		{ID: "3", Label: "3", Start: monday.AddDate(0, 0, 2), End: monday.AddDate(0, 0, 3)},
		{ID: "4", Label: "4", Start: monday.AddDate(0, 0, 3), End: monday.AddDate(0, 0, 5)},
		{ID: "5", Label: "5", Start: monday.AddDate(0, 0, 5), End: monday.AddDate(0, 0, 6)},
	}

	lanes := PackWeek(days, items)
	checkLaneInvariants(t, lanes)

	// bars within one lane must occupy disjoint column ranges
	for li, lane := range lanes {
		col := 0
		prevEnd := -1
		for _, seg := range lane {
			if seg.Kind == SegmentBar {
				if col <= prevEnd {
					t.Errorf("lane %d has overlapping bars", li)
				}
				prevEnd = col + seg.Span - 1
			}
			col += seg.Span
		}
	}
}

func TestPackWeek_deterministic(t *testing.T) {
	monday := Date(2024, time.March, 4)
	days := fullWeek(monday)
	items := []Item{
		{ID: "a", Label: "a", Start: monday, End: monday.AddDate(0, 0, 2)},
		{ID: "b", Label: "b", Start: monday, End: monday.AddDate(0, 0, 2)},
		{ID: "c", Label: "c", Start: monday.AddDate(0, 0, 1), End: monday.AddDate(0, 0, 4)},
		{ID: "d", Label: "d", Start: monday.AddDate(0, 0, 4), End: monday.AddDate(0, 0, 6)},
	}

	first := PackWeek(days, items)
	for i := 0; i < 10; i++ {
		if got := PackWeek(days, items); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestPackWeek_emptyItems(t *testing.T) {
	days := fullWeek(Date(2024, time.March, 4))
	if lanes := PackWeek(days, nil); len(lanes) != 0 {
		t.Errorf("lanes = %+v, want none", lanes)
	}
}
