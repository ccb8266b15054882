package event

import (
	"errors"
	"time"

	"github.com/parkkwangkil/wbs-project/core/schedule"
)

var ErrNotFound = errors.New("event not found")

type (
	Repository interface {
		CreateEvent(e Event) (Event, error)
		GetEventByID(id int) (Event, error)
		QueryEventsByOwner(ownerID int) ([]Event, error)
		// QueryEventsByMonth returns the owner's events intersecting
		// [first, last], ordered by start date.
		QueryEventsByMonth(ownerID int, first, last time.Time) ([]Event, error)
		UpdateEvent(e Event) (Event, error)
		DeleteEvent(id int) error
	}

	Service interface {
		Create(ownerID int, ne NewEvent) (Event, error)
		GetByID(id int) (Event, error)
		QueryForOwner(ownerID int) ([]Event, error)
		Update(id int, ue UpdateEvent) (Event, error)
		Delete(id int) error

		// MonthItems returns the owner's events intersecting the given month
		// as schedule items, in start-date order.
		MonthItems(ownerID, year, month int) ([]schedule.Item, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ownerID int, ne NewEvent) (Event, error) {
	now := time.Now().UTC()
	e := Event{
		OwnerID:     ownerID,
		Title:       ne.Title,
		Description: ne.Description,
		StartDate:   schedule.DateOf(ne.StartDate),
		EndDate:     schedule.DateOf(ne.EndDate),
		Type:        ne.Type,
		Priority:    ne.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateEvent(e)
}

func (svc *service) GetByID(id int) (Event, error) {
	return svc.repo.GetEventByID(id)
}

func (svc *service) QueryForOwner(ownerID int) ([]Event, error) {
	return svc.repo.QueryEventsByOwner(ownerID)
}

func (svc *service) Update(id int, ue UpdateEvent) (Event, error) {
	e, err := svc.repo.GetEventByID(id)
	if err != nil {
		return Event{}, err
	}
	e.Title = ue.Title
	if ue.Description != nil {
		e.Description = *ue.Description
	}
	if ue.StartDate != nil {
		e.StartDate = schedule.DateOf(*ue.StartDate)
	}
	if ue.EndDate != nil {
		e.EndDate = schedule.DateOf(*ue.EndDate)
	}
	if ue.Type != "" {
		e.Type = ue.Type
	}
	if ue.Priority != "" {
		e.Priority = ue.Priority
	}
	e.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEvent(e)
}

func (svc *service) Delete(id int) error {
	return svc.repo.DeleteEvent(id)
}

func (svc *service) MonthItems(ownerID, year, month int) ([]schedule.Item, error) {
	if month < 1 || month > 12 {
		return nil, schedule.ErrMonthOutOfRange
	}
	first := schedule.Date(year, time.Month(month), 1)
	last := first.AddDate(0, 1, -1)
	events, err := svc.repo.QueryEventsByMonth(ownerID, first, last)
	if err != nil {
		return nil, err
	}
	items := make([]schedule.Item, 0, len(events))
	for _, e := range events {
		items = append(items, e.ScheduleItem())
	}
	return items, nil
}
