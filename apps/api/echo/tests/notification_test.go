package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	echoapi "github.com/parkkwangkil/wbs-project/apps/api/echo"
	"github.com/parkkwangkil/wbs-project/core/notification"
	"github.com/parkkwangkil/wbs-project/core/user"
)

func createNotification(t *testing.T, userID int, title, notifType string) notification.Notification {
	t.Helper()

	n, err := notifRepo.CreateNotification(notification.Notification{
		UserID:    userID,
		Title:     title,
		Message:   title + " message",
		Type:      notifType,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateNotification(): %v", err)
	}
	return n
}

func Test_notificationApi(t *testing.T) {
	resetDB(t)

	member := createUser(t, "Hero", "heroic", "hero@test.cd", "", user.MemberRoles, true)
	other := createUser(t, "Other", "otherone", "other@test.cd", "", user.MemberRoles, true)

	first := createNotification(t, member.ID, "Approval requested", notification.TypeApprovalRequest)
	second := createNotification(t, member.ID, "Comment added", notification.TypeCommentAdded)
	createNotification(t, other.ID, "Not yours", notification.TypeSystem)

	token := getToken(t, member)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/notifications")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken),
		}, rec)
	})

	t.Run("list newest first", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK, wantData: marshallList(t, second, first),
		}, rec)
	})

	t.Run("unread count", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications/unread-count", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK, wantData: marshallObj(t, echoapi.UnreadCountResponse{Count: 2}),
		}, rec)
	})

	t.Run("mark read ignores empty and foreign IDs", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/mark-read", token, marshallObj(t, echoapi.MarkReadRequest{}))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		// another user's notification stays untouched
		body := marshallObj(t, echoapi.MarkReadRequest{IDs: []int{first.ID, 3}})
		req, rec = newAuthRequest(http.MethodPost, "/v1/notifications/mark-read", token, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		req, rec = newAuthRequest(http.MethodGet, "/v1/notifications/unread-count", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK, wantData: marshallObj(t, echoapi.UnreadCountResponse{Count: 1}),
		}, rec)

		count, err := notifRepo.CountUnread(other.ID)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("mark all read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/notifications/mark-all-read", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		req, rec = newAuthRequest(http.MethodGet, "/v1/notifications/unread-count", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK, wantData: marshallObj(t, echoapi.UnreadCountResponse{Count: 0}),
		}, rec)
	})
}
