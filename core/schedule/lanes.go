package schedule

import (
	"sort"
	"time"
)

type SegmentKind uint8

const (
	SegmentEmpty SegmentKind = iota // a run of unoccupied columns
	SegmentBar                      // an item bar spanning contiguous columns
)

// Segment is one horizontal run within a lane. Label, Link and Color are
// only set for SegmentBar.
type Segment struct {
	Kind  SegmentKind `json:"kind"`
	Span  int         `json:"span"`
	Label string      `json:"label,omitempty"`
	Link  string      `json:"link,omitempty"`
	Color string      `json:"color,omitempty"`
}

// Lane is an ordered run of segments whose spans sum to exactly 7 columns.
type Lane []Segment

type weekSpan struct {
	startCol int
	endCol   int
	item     Item
}

func (s weekSpan) colspan() int { return s.endCol - s.startCol + 1 }

func (s weekSpan) overlaps(o weekSpan) bool {
	return !(s.endCol < o.startCol || s.startCol > o.endCol)
}

// PackWeek lays the items overlapping the week out into non-overlapping
// horizontal lanes. days holds the week's 7 column dates; nil columns
// (suppressed adjacent-month days) are not anchor points but still count
// toward a bar's width when they fall between anchors.
//
// Lane assignment is greedy first-fit over spans sorted by
// (start column asc, colspan desc): wider bars at the same start win
// placement priority, which keeps the result deterministic. The lane count
// is minimal in practice but not guaranteed optimal; at a week's scale
// that is good enough for rendering.
func PackWeek(days [7]*time.Time, items []Item) []Lane {
	var weekStart, weekEnd time.Time
	var haveDays bool
	for _, d := range days {
		if d == nil {
			continue
		}
		if !haveDays {
			weekStart = *d
			haveDays = true
		}
		weekEnd = *d
	}
	if !haveDays {
		return nil
	}

	var spans []weekSpan
	for _, it := range items {
		if it.Start.After(weekEnd) || it.End.Before(weekStart) {
			continue
		}
		spanStart := maxDate(it.Start, weekStart)
		spanEnd := minDate(it.End, weekEnd)

		startCol, endCol := -1, -1
		for idx, d := range days {
			if d == nil {
				continue
			}
			if startCol == -1 && !d.Before(spanStart) {
				startCol = idx
			}
			if !d.After(spanEnd) {
				endCol = idx
			}
		}
		if startCol == -1 || endCol == -1 {
			continue
		}
		spans = append(spans, weekSpan{startCol: startCol, endCol: endCol, item: it})
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].startCol != spans[j].startCol {
			return spans[i].startCol < spans[j].startCol
		}
		return spans[i].colspan() > spans[j].colspan()
	})

	var lanes [][]weekSpan
	for _, sp := range spans {
		placed := false
		for li, lane := range lanes {
			conflict := false
			for _, lp := range lane {
				if sp.overlaps(lp) {
					conflict = true
					break
				}
			}
			if !conflict {
				lanes[li] = append(lane, sp)
				placed = true
				break
			}
		}
		if !placed {
			lanes = append(lanes, []weekSpan{sp})
		}
	}

	out := make([]Lane, 0, len(lanes))
	for _, lane := range lanes {
		sort.Slice(lane, func(i, j int) bool { return lane[i].startCol < lane[j].startCol })
		var segs Lane
		cursor := 0
		for _, sp := range lane {
			if sp.startCol > cursor {
				segs = append(segs, Segment{Kind: SegmentEmpty, Span: sp.startCol - cursor})
			}
			segs = append(segs, Segment{
				Kind:  SegmentBar,
				Span:  sp.colspan(),
				Label: sp.item.Label,
				Link:  sp.item.Link,
				Color: sp.item.Color,
			})
			cursor = sp.endCol + 1
		}
		if cursor < 7 {
			segs = append(segs, Segment{Kind: SegmentEmpty, Span: 7 - cursor})
		}
		out = append(out, segs)
	}
	return out
}
