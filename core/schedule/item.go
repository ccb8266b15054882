// Package schedule computes calendar-grid placement and lane-packed bar
// geometry for date-ranged records (projects, phases, events). All functions
// are pure: they derive request-scoped values from their inputs and keep no
// state, so they are safe to call from concurrent request handlers.
package schedule

import (
	"errors"
	"time"
)

var (
	ErrMonthOutOfRange = errors.New("month out of range (1-12)")
	ErrInvalidDensity  = errors.New("pixelsPerDay must be positive")
	ErrInvalidRange    = errors.New("end date precedes start date")
)

// Item is anything rendered as a date-range bar: a project, a phase,
// an event or a personal task. Start and End are inclusive calendar dates
// normalized to UTC midnight.
type Item struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
	Label string    `json:"label"`
	Color string    `json:"color"`
	Link  string    `json:"link,omitempty"`
}

// Validate asserts the Start <= End invariant. Callers must reject or clamp
// violating records before handing them to the layout functions; the
// clipping math is undefined otherwise.
func (it Item) Validate() error {
	if it.End.Before(it.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Date builds a calendar date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// daysBetween returns the whole number of days from a to b.
// Both must be UTC midnights; b >= a yields a non-negative count.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
