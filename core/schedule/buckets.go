package schedule

import "time"

// MapItemsToDays maps each calendar date in [windowStart, windowEnd] to the
// items active on that date. An item spanning N clipped days appears in
// exactly N buckets: a multi-day item is listed in every day cell it touches.
// Bucket order follows the input item order, which callers rely on for
// stable rendering.
func MapItemsToDays(items []Item, windowStart, windowEnd time.Time) map[time.Time][]Item {
	windowStart = DateOf(windowStart)
	windowEnd = DateOf(windowEnd)

	buckets := make(map[time.Time][]Item)
	for _, it := range items {
		if it.Start.After(windowEnd) || it.End.Before(windowStart) {
			continue
		}
		start := maxDate(it.Start, windowStart)
		end := minDate(it.End, windowEnd)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			buckets[d] = append(buckets[d], it)
		}
	}
	return buckets
}
