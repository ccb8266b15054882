package sqlxrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/parkkwangkil/wbs-project/core/notification"
)

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

type notificationRow struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Type      string    `db:"notification_type"`
	ProjectID null.Int  `db:"project_id"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

func (r notificationRow) toNotification() notification.Notification {
	n := notification.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Message:   r.Message,
		Type:      r.Type,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}
	if r.ProjectID.Valid {
		projectID := r.ProjectID.Int
		n.ProjectID = &projectID
	}
	return n
}

func (repo *notificationRepository) CreateNotification(n notification.Notification) (notification.Notification, error) {
	query := `
		INSERT INTO notification (user_id, title, message, notification_type, project_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := repo.db.QueryRow(
		query,
		n.UserID, n.Title, n.Message, n.Type, null.IntFromPtr(n.ProjectID), n.IsRead, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo *notificationRepository) GetNotificationByID(id int) (notification.Notification, error) {
	var r notificationRow
	if err := repo.db.Get(&r, `SELECT * FROM notification WHERE id = $1`, id); err != nil {
		return notification.Notification{}, trapNoRowsErr(err, notification.ErrNotFound, "finding notification by ID")
	}
	return r.toNotification(), nil
}

func (repo *notificationRepository) QueryNotificationsByUser(userID int) ([]notification.Notification, error) {
	var rows []notificationRow
	query := `SELECT * FROM notification WHERE user_id = $1 ORDER BY id DESC`
	if err := repo.db.Select(&rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	notifs := make([]notification.Notification, 0, len(rows))
	for _, r := range rows {
		notifs = append(notifs, r.toNotification())
	}
	return notifs, nil
}

func (repo *notificationRepository) CountUnread(userID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notification WHERE user_id = $1 AND is_read = FALSE`
	if err := repo.db.Get(&count, query, userID); err != nil {
		return 0, errors.Wrap(err, "counting unread notifications")
	}
	return count, nil
}

func (repo *notificationRepository) MarkRead(userID int, ids ...int) error {
	arr := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, int64(id))
	}
	query := `UPDATE notification SET is_read = TRUE WHERE user_id = $1 AND id = ANY($2)`
	if _, err := repo.db.Exec(query, userID, arr); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return nil
}

func (repo *notificationRepository) MarkAllRead(userID int) error {
	if _, err := repo.db.Exec(`UPDATE notification SET is_read = TRUE WHERE user_id = $1`, userID); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return nil
}
