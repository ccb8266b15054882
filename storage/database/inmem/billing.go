package inmemdb

import (
	"sort"

	"github.com/parkkwangkil/wbs-project/core/billing"
)

type billingRepository struct {
	db *billingTable
}

var _ billing.Repository = (*billingRepository)(nil)

func NewBillingRepository(db *DB) *billingRepository {
	return &billingRepository{db: db.billing}
}

// AddPlan registers a plan; used to seed tests and local runs.
func (repo *billingRepository) AddPlan(plan billing.SubscriptionPlan) billing.SubscriptionPlan {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	plan.ID = repo.db.pkCount
	repo.db.plans[plan.ID] = &plan
	return plan
}

func (repo *billingRepository) QueryPlans() ([]billing.SubscriptionPlan, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	plans := make([]billing.SubscriptionPlan, 0, len(repo.db.plans))
	for _, p := range repo.db.plans {
		plans = append(plans, *p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans, nil
}

func (repo *billingRepository) GetPlanByID(id int) (billing.SubscriptionPlan, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.plans[id]; ok {
		return *p, nil
	}
	return billing.SubscriptionPlan{}, billing.ErrPlanNotFound
}

func (repo *billingRepository) GetDefaultPlan() (billing.SubscriptionPlan, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.plans {
		if p.IsDefault {
			return *p, nil
		}
	}
	return billing.SubscriptionPlan{}, billing.ErrPlanNotFound
}

func (repo *billingRepository) CreateSubscription(s billing.UserSubscription) (billing.UserSubscription, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	s.ID = repo.db.pkCount
	repo.db.subscriptions[s.ID] = &s
	return s, nil
}

func (repo *billingRepository) GetSubscriptionByUser(userID int) (billing.UserSubscription, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var latest *billing.UserSubscription
	for _, s := range repo.db.subscriptions {
		if s.UserID != userID {
			continue
		}
		if latest == nil || s.ID > latest.ID {
			latest = s
		}
	}
	if latest == nil {
		return billing.UserSubscription{}, billing.ErrSubscriptionNotFound
	}
	return *latest, nil
}

func (repo *billingRepository) UpdateSubscription(s billing.UserSubscription) (billing.UserSubscription, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subscriptions[s.ID]; !ok {
		return billing.UserSubscription{}, billing.ErrSubscriptionNotFound
	}
	repo.db.subscriptions[s.ID] = &s
	return s, nil
}
