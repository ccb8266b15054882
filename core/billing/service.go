package billing

import (
	"errors"
	"time"
)

var (
	// errors
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("user already has an active subscription")
)

// NowFunc facilitates testing.
var NowFunc = time.Now

type (
	// ProjectCounter reports how many projects a user currently manages.
	ProjectCounter interface {
		CountForManager(managerID int) (int, error)
	}

	Repository interface {
		QueryPlans() ([]SubscriptionPlan, error)
		GetPlanByID(id int) (SubscriptionPlan, error)
		GetDefaultPlan() (SubscriptionPlan, error)
		CreateSubscription(s UserSubscription) (UserSubscription, error)
		// GetSubscriptionByUser returns the user's most recent subscription.
		GetSubscriptionByUser(userID int) (UserSubscription, error)
		UpdateSubscription(s UserSubscription) (UserSubscription, error)
	}

	Service interface {
		Plans() ([]SubscriptionPlan, error)
		// Subscribe puts the user on the plan for 30 days (monthly) or
		// 365 days (yearly) starting now.
		Subscribe(userID int, ns NewSubscription) (UserSubscription, error)
		Current(userID int) (UserSubscription, error)
		Cancel(userID int) error
		// CanCreateProject checks the user's plan cap against their
		// current project count. Users without an active subscription
		// fall back to the default plan's cap.
		CanCreateProject(userID int) (bool, error)
	}

	service struct {
		repo     Repository
		projects ProjectCounter
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, projects ProjectCounter) Service {
	return &service{repo: repo, projects: projects}
}

func (svc *service) Plans() ([]SubscriptionPlan, error) {
	return svc.repo.QueryPlans()
}

func (svc *service) Subscribe(userID int, ns NewSubscription) (UserSubscription, error) {
	if _, err := svc.repo.GetPlanByID(ns.PlanID); err != nil {
		return UserSubscription{}, err
	}
	now := NowFunc().UTC()
	if cur, err := svc.repo.GetSubscriptionByUser(userID); err == nil && cur.IsActive(now) {
		return UserSubscription{}, ErrAlreadySubscribed
	}

	days := 30
	if ns.Period == PeriodYearly {
		days = 365
	}
	return svc.repo.CreateSubscription(UserSubscription{
		UserID:    userID,
		PlanID:    ns.PlanID,
		Period:    ns.Period,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, days),
		CreatedAt: now,
	})
}

func (svc *service) Current(userID int) (UserSubscription, error) {
	return svc.repo.GetSubscriptionByUser(userID)
}

func (svc *service) Cancel(userID int) error {
	sub, err := svc.repo.GetSubscriptionByUser(userID)
	if err != nil {
		return err
	}
	sub.Cancelled = true
	_, err = svc.repo.UpdateSubscription(sub)
	return err
}

func (svc *service) CanCreateProject(userID int) (bool, error) {
	plan, err := svc.activePlan(userID)
	if err != nil {
		return false, err
	}
	if plan.MaxProjects == UnlimitedProjects {
		return true, nil
	}
	count, err := svc.projects.CountForManager(userID)
	if err != nil {
		return false, err
	}
	return count < plan.MaxProjects, nil
}

func (svc *service) activePlan(userID int) (SubscriptionPlan, error) {
	sub, err := svc.repo.GetSubscriptionByUser(userID)
	if err == nil && sub.IsActive(NowFunc().UTC()) {
		return svc.repo.GetPlanByID(sub.PlanID)
	}
	if err != nil && err != ErrSubscriptionNotFound {
		return SubscriptionPlan{}, err
	}
	return svc.repo.GetDefaultPlan()
}
