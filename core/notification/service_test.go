package notification_test

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkkwangkil/wbs-project/core"
	"github.com/parkkwangkil/wbs-project/core/notification"
	"github.com/parkkwangkil/wbs-project/core/user"
	emailsvc "github.com/parkkwangkil/wbs-project/services/email"
	logsvc "github.com/parkkwangkil/wbs-project/services/logger"
	inmemdb "github.com/parkkwangkil/wbs-project/storage/database/inmem"
)

func newTestService(t *testing.T) (notification.Service, user.User) {
	t.Helper()

	conf := &core.Config{TestMode: true, AppName: "WBS", SecretKey: []byte("test-secret-key")}
	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)

	now := time.Now().UTC()
	usr, err := usrRepo.CreateUser(user.User{
		Name: "Hero", Username: "heroic", Email: "hero@test.cd",
		IsActive: true, Roles: user.MemberRoles,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewServiceMock(usrRepo, mailSvc, conf)
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	svc := notification.NewService(inmemdb.NewNotificationRepository(db), usrSvc, mailSvc, logger)
	return svc, usr
}

func Test_service_Notify(t *testing.T) {
	svc, usr := newTestService(t)

	svc.Notify(usr.ID, "Approval requested", "Project \"Launch\" is waiting.", notification.TypeApprovalRequest, 3)
	svc.Notify(usr.ID, "System notice", "Maintenance tonight.", notification.TypeSystem, 0)

	notifs, err := svc.QueryForUser(usr.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 2)

	// newest first
	assert.Equal(t, "System notice", notifs[0].Title)
	assert.Nil(t, notifs[0].ProjectID) // zero project ID is dropped
	assert.Equal(t, "Approval requested", notifs[1].Title)
	require.NotNil(t, notifs[1].ProjectID)
	assert.Equal(t, 3, *notifs[1].ProjectID)
	assert.False(t, notifs[0].IsRead)
}

func Test_service_readTracking(t *testing.T) {
	svc, usr := newTestService(t)

	svc.Notify(usr.ID, "One", "first", notification.TypeSystem, 0)
	svc.Notify(usr.ID, "Two", "second", notification.TypeSystem, 0)
	svc.Notify(usr.ID, "Three", "third", notification.TypeSystem, 0)

	count, err := svc.UnreadCount(usr.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	notifs, err := svc.QueryForUser(usr.ID)
	require.NoError(t, err)
	require.NoError(t, svc.MarkRead(usr.ID, notifs[0].ID))

	count, err = svc.UnreadCount(usr.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.MarkAllRead(usr.ID))
	count, err = svc.UnreadCount(usr.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
