package billing

import (
	"time"

	"github.com/parkkwangkil/wbs-project/core"
)

// Billing periods
const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// UnlimitedProjects marks a plan with no project cap.
const UnlimitedProjects = -1

type SubscriptionPlan struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	PriceMonthly float64  `json:"price_monthly"`
	PriceYearly  float64  `json:"price_yearly"`
	MaxProjects  int      `json:"max_projects"`
	Features     []string `json:"features"`
	IsDefault    bool     `json:"is_default"`
}

type UserSubscription struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PlanID    int       `json:"plan_id"`
	Period    string    `json:"period"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Cancelled bool      `json:"cancelled"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// IsActive reports whether the subscription covers the given instant.
func (s UserSubscription) IsActive(now time.Time) bool {
	if s.Cancelled {
		return false
	}
	return !now.Before(s.StartDate) && now.Before(s.EndDate)
}

// NewSubscription contains information needed to subscribe a user to a plan.
type NewSubscription struct {
	PlanID int    `json:"plan_id" validate:"required"`
	Period string `json:"period" validate:"required,oneof=monthly yearly"`
}

func (ns *NewSubscription) Validate() error {
	return core.Validate.Struct(ns)
}
