package schedule

import "time"

// PositionedBar is an item's absolute pixel geometry relative to a window
// start, for the planner and Gantt-style views.
type PositionedBar struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Color string    `json:"color"`
	Link  string    `json:"link,omitempty"`
	Left  int       `json:"left"`
	Width int       `json:"width"`
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// PositionItems converts each item overlapping [windowStart, windowEnd] into
// a PositionedBar, clipped to the window and scaled linearly at pixelsPerDay.
// It makes no layout decisions beyond the scaling; combine with PackWeek when
// a view needs lane separation as well.
func PositionItems(items []Item, windowStart, windowEnd time.Time, pixelsPerDay int) ([]PositionedBar, error) {
	if pixelsPerDay <= 0 {
		return nil, ErrInvalidDensity
	}
	windowStart = DateOf(windowStart)
	windowEnd = DateOf(windowEnd)

	var bars []PositionedBar
	for _, it := range items {
		if it.Start.After(windowEnd) || it.End.Before(windowStart) {
			continue
		}
		start := maxDate(it.Start, windowStart)
		end := minDate(it.End, windowEnd)
		bars = append(bars, PositionedBar{
			ID:    it.ID,
			Label: it.Label,
			Color: it.Color,
			Link:  it.Link,
			Left:  daysBetween(windowStart, start) * pixelsPerDay,
			Width: (daysBetween(start, end) + 1) * pixelsPerDay,
			Start: start,
			End:   end,
		})
	}
	return bars, nil
}
