package notification

import (
	"errors"
	"net/mail"
	"time"

	"github.com/parkkwangkil/wbs-project/core"
	"github.com/parkkwangkil/wbs-project/core/user"
)

var ErrNotFound = errors.New("notification not found")

type (
	Repository interface {
		CreateNotification(n Notification) (Notification, error)
		GetNotificationByID(id int) (Notification, error)
		// QueryNotificationsByUser returns the user's notifications,
		// newest first.
		QueryNotificationsByUser(userID int) ([]Notification, error)
		CountUnread(userID int) (int, error)
		MarkRead(userID int, ids ...int) error
		MarkAllRead(userID int) error
	}

	Service interface {
		// Notify stores a notification and mails the user a copy.
		// The mail is sent asynchronously and failures are dropped.
		Notify(userID int, title, message, notifType string, projectID int)
		QueryForUser(userID int) ([]Notification, error)
		UnreadCount(userID int) (int, error)
		MarkRead(userID int, ids ...int) error
		MarkAllRead(userID int) error
	}

	service struct {
		repo    Repository
		userSvc user.Service
		mailSvc core.EmailService
		logger  core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, userSvc user.Service, mailSvc core.EmailService, logger core.Logger) Service {
	return &service{
		repo:    repo,
		userSvc: userSvc,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

func (svc *service) Notify(userID int, title, message, notifType string, projectID int) {
	n := Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		CreatedAt: time.Now().UTC(),
	}
	if projectID > 0 {
		n.ProjectID = &projectID
	}
	if _, err := svc.repo.CreateNotification(n); err != nil {
		svc.logger.Error("failed to store notification", err)
		return
	}
	go svc.sendNotificationMail(userID, title, message)
}

func (svc *service) sendNotificationMail(userID int, title, message string) {
	usr, err := svc.userSvc.GetByID(userID)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: title,
		BodyStr: message,
	})
}

func (svc *service) QueryForUser(userID int) ([]Notification, error) {
	return svc.repo.QueryNotificationsByUser(userID)
}

func (svc *service) UnreadCount(userID int) (int, error) {
	return svc.repo.CountUnread(userID)
}

func (svc *service) MarkRead(userID int, ids ...int) error {
	return svc.repo.MarkRead(userID, ids...)
}

func (svc *service) MarkAllRead(userID int) error {
	return svc.repo.MarkAllRead(userID)
}
