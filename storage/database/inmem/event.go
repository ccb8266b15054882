package inmemdb

import (
	"sort"
	"time"

	"github.com/parkkwangkil/wbs-project/core/event"
)

type eventRepository struct {
	db *eventTable
}

var _ event.Repository = (*eventRepository)(nil)

func NewEventRepository(db *DB) *eventRepository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) query() []event.Event {
	events := make([]event.Event, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events
}

func (repo *eventRepository) CreateEvent(e event.Event) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	e.ID = repo.db.pkCount
	repo.db.table[e.ID] = &e
	return e, nil
}

func (repo *eventRepository) GetEventByID(id int) (event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return *e, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) QueryEventsByOwner(ownerID int) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var events []event.Event
	for _, e := range repo.query() {
		if e.OwnerID == ownerID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (repo *eventRepository) QueryEventsByMonth(ownerID int, first, last time.Time) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var events []event.Event
	for _, e := range repo.query() {
		if e.OwnerID == ownerID && !e.StartDate.After(last) && !e.EndDate.Before(first) {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartDate.Before(events[j].StartDate) })
	return events, nil
}

func (repo *eventRepository) UpdateEvent(e event.Event) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[e.ID]; !ok {
		return event.Event{}, event.ErrNotFound
	}
	repo.db.table[e.ID] = &e
	return e, nil
}

func (repo *eventRepository) DeleteEvent(id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return event.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
