package inmemdb

import (
	"sync"

	"github.com/parkkwangkil/wbs-project/core/ads"
	"github.com/parkkwangkil/wbs-project/core/billing"
	"github.com/parkkwangkil/wbs-project/core/event"
	"github.com/parkkwangkil/wbs-project/core/notification"
	"github.com/parkkwangkil/wbs-project/core/project"
	"github.com/parkkwangkil/wbs-project/core/user"
)

// DB is an in-memory database used in tests and local development.
type DB struct {
	user         *userTable
	project      *projectTable
	event        *eventTable
	notification *notificationTable
	billing      *billingTable
	ads          *adsTable
}

func NewDB() *DB {
	return &DB{
		user: &userTable{table: make(map[int]*user.User)},
		project: &projectTable{
			projects:  make(map[int]*project.Project),
			phases:    make(map[int]*project.Phase),
			approvals: make(map[int]*project.ApprovalLine),
			comments:  make(map[int]*project.Comment),
			documents: make(map[int]*project.Document),
			progress:  make(map[int]*project.DailyProgress),
			checklist: make(map[int]*project.ChecklistItem),
		},
		event:        &eventTable{table: make(map[int]*event.Event)},
		notification: &notificationTable{table: make(map[int]*notification.Notification)},
		billing: &billingTable{
			plans:         make(map[int]*billing.SubscriptionPlan),
			subscriptions: make(map[int]*billing.UserSubscription),
		},
		ads: &adsTable{table: make(map[int]*ads.Campaign)},
	}
}

// Reset drops all rows; used between tests.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.table = make(map[int]*user.User)
	db.user.pkCount = 0
	db.user.mutex.Unlock()

	db.project.mutex.Lock()
	db.project.projects = make(map[int]*project.Project)
	db.project.phases = make(map[int]*project.Phase)
	db.project.approvals = make(map[int]*project.ApprovalLine)
	db.project.comments = make(map[int]*project.Comment)
	db.project.documents = make(map[int]*project.Document)
	db.project.progress = make(map[int]*project.DailyProgress)
	db.project.checklist = make(map[int]*project.ChecklistItem)
	db.project.pkCount = 0
	db.project.mutex.Unlock()

	db.event.mutex.Lock()
	db.event.table = make(map[int]*event.Event)
	db.event.pkCount = 0
	db.event.mutex.Unlock()

	db.notification.mutex.Lock()
	db.notification.table = make(map[int]*notification.Notification)
	db.notification.pkCount = 0
	db.notification.mutex.Unlock()

	db.billing.mutex.Lock()
	db.billing.plans = make(map[int]*billing.SubscriptionPlan)
	db.billing.subscriptions = make(map[int]*billing.UserSubscription)
	db.billing.pkCount = 0
	db.billing.mutex.Unlock()

	db.ads.mutex.Lock()
	db.ads.table = make(map[int]*ads.Campaign)
	db.ads.pkCount = 0
	db.ads.mutex.Unlock()
}

type userTable struct {
	mutex   sync.RWMutex
	table   map[int]*user.User
	pkCount int
}

type projectTable struct {
	mutex     sync.RWMutex
	projects  map[int]*project.Project
	phases    map[int]*project.Phase
	approvals map[int]*project.ApprovalLine
	comments  map[int]*project.Comment
	documents map[int]*project.Document
	progress  map[int]*project.DailyProgress
	checklist map[int]*project.ChecklistItem
	pkCount   int
}

func (t *projectTable) nextPK() int {
	t.pkCount++
	return t.pkCount
}

type eventTable struct {
	mutex   sync.RWMutex
	table   map[int]*event.Event
	pkCount int
}

type notificationTable struct {
	mutex   sync.RWMutex
	table   map[int]*notification.Notification
	pkCount int
}

type billingTable struct {
	mutex         sync.RWMutex
	plans         map[int]*billing.SubscriptionPlan
	subscriptions map[int]*billing.UserSubscription
	pkCount       int
}

type adsTable struct {
	mutex   sync.RWMutex
	table   map[int]*ads.Campaign
	pkCount int
}
