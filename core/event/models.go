package event

import (
	"fmt"
	"strconv"
	"time"

	"github.com/parkkwangkil/wbs-project/core"
	"github.com/parkkwangkil/wbs-project/core/schedule"
)

// Event types
const (
	TypeMeeting  = "meeting"
	TypePersonal = "personal"
	TypeDeadline = "deadline"
	TypeReminder = "reminder"
	TypeHoliday  = "holiday"
	TypeOther    = "other"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var priorityColors = map[string]string{
	PriorityHigh:   "#EF4444",
	PriorityMedium: "#F59E0B",
	PriorityLow:    "#10B981",
}

// DefaultColor is used for events with an unknown priority.
const DefaultColor = "#6B7280"

type Event struct {
	ID          int       `json:"id"`
	OwnerID     int       `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Type        string    `json:"event_type"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// PriorityColor resolves the event's priority to its hex color.
func (e Event) PriorityColor() string {
	if hex, ok := priorityColors[e.Priority]; ok {
		return hex
	}
	return DefaultColor
}

// ScheduleItem converts the event into a calendar bar.
func (e Event) ScheduleItem() schedule.Item {
	return schedule.Item{
		ID:    "e" + strconv.Itoa(e.ID),
		Start: schedule.DateOf(e.StartDate),
		End:   schedule.DateOf(e.EndDate),
		Label: e.Title,
		Color: e.PriorityColor(),
		Link:  fmt.Sprintf("/events/%d", e.ID),
	}
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	Type        string    `json:"event_type" validate:"omitempty,oneof=meeting personal deadline reminder holiday other"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low medium high"`
}

func (ne *NewEvent) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	if ne.Type == "" {
		ne.Type = TypeOther
	}
	if ne.Priority == "" {
		ne.Priority = PriorityMedium
	}
	return core.Validate.Struct(ne)
}

// UpdateEvent defines what information may be provided to modify an existing Event.
type UpdateEvent struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Type        string     `json:"event_type" validate:"omitempty,oneof=meeting personal deadline reminder holiday other"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
}

func (ue *UpdateEvent) Validate(orig Event) error {
	ue.Title = core.CleanString(ue.Title)
	if ue.Title == "" {
		ue.Title = orig.Title
	}
	if err := core.Validate.Struct(ue); err != nil {
		return err
	}

	start, end := orig.StartDate, orig.EndDate
	if ue.StartDate != nil {
		start = *ue.StartDate
	}
	if ue.EndDate != nil {
		end = *ue.EndDate
	}
	if end.Before(start) {
		return core.NewValidationError(nil, core.FieldError{Field: "end_date", Error: "end date precedes start date"})
	}
	return nil
}
