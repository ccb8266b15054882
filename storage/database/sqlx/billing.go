package sqlxrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/parkkwangkil/wbs-project/core/billing"
)

type billingRepository struct {
	db *sqlx.DB
}

var _ billing.Repository = (*billingRepository)(nil)

func NewBillingRepository(db *sqlx.DB) *billingRepository {
	return &billingRepository{db: db}
}

type planRow struct {
	ID           int            `db:"id"`
	Name         string         `db:"name"`
	Slug         string         `db:"slug"`
	PriceMonthly float64        `db:"price_monthly"`
	PriceYearly  float64        `db:"price_yearly"`
	MaxProjects  int            `db:"max_projects"`
	Features     pq.StringArray `db:"features"`
	IsDefault    bool           `db:"is_default"`
}

func (r planRow) toPlan() billing.SubscriptionPlan {
	return billing.SubscriptionPlan{
		ID:           r.ID,
		Name:         r.Name,
		Slug:         r.Slug,
		PriceMonthly: r.PriceMonthly,
		PriceYearly:  r.PriceYearly,
		MaxProjects:  r.MaxProjects,
		Features:     r.Features,
		IsDefault:    r.IsDefault,
	}
}

type subscriptionRow struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	PlanID    int       `db:"plan_id"`
	Period    string    `db:"period"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Cancelled bool      `db:"cancelled"`
	CreatedAt time.Time `db:"created_at"`
}

func (repo *billingRepository) QueryPlans() ([]billing.SubscriptionPlan, error) {
	var rows []planRow
	if err := repo.db.Select(&rows, `SELECT * FROM subscription_plan ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying plans")
	}
	plans := make([]billing.SubscriptionPlan, 0, len(rows))
	for _, r := range rows {
		plans = append(plans, r.toPlan())
	}
	return plans, nil
}

func (repo *billingRepository) GetPlanByID(id int) (billing.SubscriptionPlan, error) {
	var r planRow
	if err := repo.db.Get(&r, `SELECT * FROM subscription_plan WHERE id = $1`, id); err != nil {
		return billing.SubscriptionPlan{}, trapNoRowsErr(err, billing.ErrPlanNotFound, "finding plan by ID")
	}
	return r.toPlan(), nil
}

func (repo *billingRepository) GetDefaultPlan() (billing.SubscriptionPlan, error) {
	var r planRow
	if err := repo.db.Get(&r, `SELECT * FROM subscription_plan WHERE is_default = TRUE LIMIT 1`); err != nil {
		return billing.SubscriptionPlan{}, trapNoRowsErr(err, billing.ErrPlanNotFound, "finding default plan")
	}
	return r.toPlan(), nil
}

func (repo *billingRepository) CreateSubscription(s billing.UserSubscription) (billing.UserSubscription, error) {
	query := `
		INSERT INTO user_subscription (user_id, plan_id, period, start_date, end_date, cancelled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := repo.db.QueryRow(
		query,
		s.UserID, s.PlanID, s.Period, s.StartDate, s.EndDate, s.Cancelled, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return billing.UserSubscription{}, errors.Wrap(err, "inserting subscription")
	}
	return s, nil
}

func (repo *billingRepository) GetSubscriptionByUser(userID int) (billing.UserSubscription, error) {
	var r subscriptionRow
	query := `SELECT * FROM user_subscription WHERE user_id = $1 ORDER BY id DESC LIMIT 1`
	if err := repo.db.Get(&r, query, userID); err != nil {
		return billing.UserSubscription{}, trapNoRowsErr(err, billing.ErrSubscriptionNotFound, "finding subscription")
	}
	return billing.UserSubscription(r), nil
}

func (repo *billingRepository) UpdateSubscription(s billing.UserSubscription) (billing.UserSubscription, error) {
	query := `UPDATE user_subscription SET plan_id = $1, period = $2, end_date = $3, cancelled = $4 WHERE id = $5`
	res, err := repo.db.Exec(query, s.PlanID, s.Period, s.EndDate, s.Cancelled, s.ID)
	if err != nil {
		return billing.UserSubscription{}, errors.Wrap(err, "updating subscription")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return billing.UserSubscription{}, billing.ErrSubscriptionNotFound
	}
	return s, nil
}
