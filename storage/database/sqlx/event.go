package sqlxrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/parkkwangkil/wbs-project/core/event"
)

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil)

func NewEventRepository(db *sqlx.DB) *eventRepository {
	return &eventRepository{db: db}
}

type eventRow struct {
	ID          int       `db:"id"`
	OwnerID     int       `db:"owner_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	Type        string    `db:"event_type"`
	Priority    string    `db:"priority"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func toEvents(rows []eventRow) []event.Event {
	events := make([]event.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, event.Event(r))
	}
	return events
}

func (repo *eventRepository) CreateEvent(e event.Event) (event.Event, error) {
	query := `
		INSERT INTO event (owner_id, title, description, start_date, end_date, event_type, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := repo.db.QueryRow(
		query,
		e.OwnerID, e.Title, e.Description, e.StartDate, e.EndDate, e.Type, e.Priority, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return e, nil
}

func (repo *eventRepository) GetEventByID(id int) (event.Event, error) {
	var r eventRow
	if err := repo.db.Get(&r, `SELECT * FROM event WHERE id = $1`, id); err != nil {
		return event.Event{}, trapNoRowsErr(err, event.ErrNotFound, "finding event by ID")
	}
	return event.Event(r), nil
}

func (repo *eventRepository) QueryEventsByOwner(ownerID int) ([]event.Event, error) {
	var rows []eventRow
	if err := repo.db.Select(&rows, `SELECT * FROM event WHERE owner_id = $1 ORDER BY id`, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	return toEvents(rows), nil
}

func (repo *eventRepository) QueryEventsByMonth(ownerID int, first, last time.Time) ([]event.Event, error) {
	var rows []eventRow
	query := `SELECT * FROM event WHERE owner_id = $1 AND start_date <= $2 AND end_date >= $3 ORDER BY start_date, id`
	if err := repo.db.Select(&rows, query, ownerID, last, first); err != nil {
		return nil, errors.Wrap(err, "querying events by month")
	}
	return toEvents(rows), nil
}

func (repo *eventRepository) UpdateEvent(e event.Event) (event.Event, error) {
	query := `
		UPDATE event
		SET title = $1, description = $2, start_date = $3, end_date = $4, event_type = $5, priority = $6, updated_at = $7
		WHERE id = $8`
	res, err := repo.db.Exec(query, e.Title, e.Description, e.StartDate, e.EndDate, e.Type, e.Priority, e.UpdatedAt, e.ID)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return e, nil
}

func (repo *eventRepository) DeleteEvent(id int) error {
	res, err := repo.db.Exec(`DELETE FROM event WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting event")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return event.ErrNotFound
	}
	return nil
}
