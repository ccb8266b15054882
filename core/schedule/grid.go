package schedule

import "time"

// Cell is one populated day of a month grid.
type Cell struct {
	Date    time.Time `json:"date"`
	IsToday bool      `json:"is_today"`
	Items   []Item    `json:"items"`
}

// Week is one grid row of 7 day columns, Monday first.
// nil entries are padding for days outside the month.
type Week [7]*Cell

// Days returns the week's column dates, nil for padding columns,
// in the shape PackWeek expects.
func (w Week) Days() [7]*time.Time {
	var days [7]*time.Time
	for i, c := range w {
		if c != nil {
			d := c.Date
			days[i] = &d
		}
	}
	return days
}

// BuildMonthGrid returns the whole-week grid containing the given month,
// oldest week first. Each in-month cell carries its date, an is-today flag
// and the items active on that date; out-of-month columns are nil.
func BuildMonthGrid(year, month int, today time.Time, items []Item) ([]Week, error) {
	if month < 1 || month > 12 {
		return nil, ErrMonthOutOfRange
	}

	first := Date(year, time.Month(month), 1)
	last := first.AddDate(0, 1, -1)
	buckets := MapItemsToDays(items, first, last)
	today = DateOf(today)

	// column index of the 1st, Monday = 0
	col := (int(first.Weekday()) + 6) % 7

	var weeks []Week
	var week Week
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		week[col] = &Cell{
			Date:    d,
			IsToday: d.Equal(today),
			Items:   buckets[d],
		}
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = Week{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks, nil
}
