package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	. "github.com/parkkwangkil/wbs-project/apps/api/echo"
	"github.com/parkkwangkil/wbs-project/core"
	"github.com/parkkwangkil/wbs-project/core/ads"
	"github.com/parkkwangkil/wbs-project/core/billing"
	"github.com/parkkwangkil/wbs-project/core/event"
	"github.com/parkkwangkil/wbs-project/core/notification"
	"github.com/parkkwangkil/wbs-project/core/project"
	"github.com/parkkwangkil/wbs-project/core/user"
	emailsvc "github.com/parkkwangkil/wbs-project/services/email"
	logsvc "github.com/parkkwangkil/wbs-project/services/logger"
	inmemdb "github.com/parkkwangkil/wbs-project/storage/database/inmem"
)

var (
	conf *core.Config
	db   *inmemdb.DB
	app  Server

	usrRepo   user.Repository
	projRepo  project.Repository
	eventRepo event.Repository
	notifRepo notification.Repository
	adsRepo   ads.Repository

	billingRepo interface {
		billing.Repository
		AddPlan(billing.SubscriptionPlan) billing.SubscriptionPlan
	}

	usrSvc user.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	conf = &core.Config{
		TestMode:                  true,
		Env:                       "TEST",
		AppName:                   "WBS",
		SecretKey:                 []byte("test-secret-key"),
		FrontendBaseURL:           "http://localhost:3000",
		DefaultFromEmailAddr:      "noreply@test.local",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        7 * 24 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	// set up DB & repos
	db = inmemdb.NewDB()
	usrRepo = inmemdb.NewUserRepository(db)
	projRepo = inmemdb.NewProjectRepository(db)
	eventRepo = inmemdb.NewEventRepository(db)
	notifRepo = inmemdb.NewNotificationRepository(db)
	billingRepo = inmemdb.NewBillingRepository(db)
	adsRepo = inmemdb.NewAdsRepository(db)

	// set up services
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc = user.NewServiceMock(usrRepo, mailSvc, conf)
	notifSvc := notification.NewService(notifRepo, usrSvc, mailSvc, logger)
	projSvc := project.NewService(projRepo, notifSvc)
	eventSvc := event.NewService(eventRepo)
	billingSvc := billing.NewService(billingRepo, projSvc)
	adsSvc := ads.NewService(adsRepo)

	// set up server
	app = NewServer(
		ServerDeps{
			Conf:           conf,
			Logger:         logger,
			UserSvc:        usrSvc,
			ProjectSvc:     projSvc,
			EventSvc:       eventSvc,
			NotifSvc:       notifSvc,
			BillingSvc:     billingSvc,
			AdsSvc:         adsSvc,
			DisableReqLogs: true,
		},
	)

	os.Exit(m.Run())
}

func resetDB(t *testing.T) {
	t.Helper()
	db.Reset()
}

func defaultPlan(t *testing.T) billing.SubscriptionPlan {
	t.Helper()
	return billingRepo.AddPlan(billing.SubscriptionPlan{
		Name: "Free", Slug: "free", MaxProjects: 3, IsDefault: true,
	})
}

func createUser(t *testing.T, name, uname, email, pwd string, roles []string, isActive bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("SetPassword(): %v", err)
		}
	}
	usr, err := usrRepo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func createProject(t *testing.T, managerID int, title string, start, end time.Time, members ...int) project.Project {
	t.Helper()

	now := time.Now().UTC()
	proj, err := projRepo.CreateProject(project.Project{
		Title:         title,
		ManagerID:     managerID,
		TeamMemberIDs: members,
		StartDate:     start,
		EndDate:       end,
		Status:        project.StatusInProgress,
		Priority:      project.PriorityMedium,
		ColorTheme:    "blue",
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateProject(): %v", err)
	}
	return proj
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
