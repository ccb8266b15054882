package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkkwangkil/wbs-project/core/billing"
	"github.com/parkkwangkil/wbs-project/core/user"
)

func Test_billingApi_plans(t *testing.T) {
	resetDB(t)

	member := createUser(t, "Hero", "heroic", "hero@test.cd", "", user.MemberRoles, true)
	free := defaultPlan(t)
	pro := billingRepo.AddPlan(billing.SubscriptionPlan{
		Name: "Pro", Slug: "pro", PriceMonthly: 9.99, PriceYearly: 99,
		MaxProjects: billing.UnlimitedProjects,
	})

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/billing/plans")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken),
		}, rec)
	})

	t.Run("list plans", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/billing/plans", getToken(t, member))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK, wantData: marshallList(t, free, pro),
		}, rec)
	})
}

func Test_billingApi_subscriptionLifecycle(t *testing.T) {
	resetDB(t)

	member := createUser(t, "Hero", "heroic", "hero@test.cd", "", user.MemberRoles, true)
	defaultPlan(t)
	pro := billingRepo.AddPlan(billing.SubscriptionPlan{
		Name: "Pro", Slug: "pro", PriceMonthly: 9.99, PriceYearly: 99,
		MaxProjects: billing.UnlimitedProjects,
	})
	token := getToken(t, member)

	t.Run("no subscription yet", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/billing/subscription", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		}, rec)
	})

	t.Run("unknown plan", func(t *testing.T) {
		body := marshallObj(t, billing.NewSubscription{PlanID: 999, Period: billing.PeriodMonthly})
		req, rec := newAuthRequest(http.MethodPost, "/v1/billing/subscribe", token, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		}, rec)
	})

	t.Run("invalid period", func(t *testing.T) {
		body := marshallObj(t, billing.NewSubscription{PlanID: pro.ID, Period: "weekly"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/billing/subscribe", token, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "period")
	})

	t.Run("subscribe monthly", func(t *testing.T) {
		body := marshallObj(t, billing.NewSubscription{PlanID: pro.ID, Period: billing.PeriodMonthly})
		req, rec := newAuthRequest(http.MethodPost, "/v1/billing/subscribe", token, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var sub billing.UserSubscription
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.Equal(t, member.ID, sub.UserID)
		assert.Equal(t, pro.ID, sub.PlanID)
		assert.Equal(t, billing.PeriodMonthly, sub.Period)
		assert.Equal(t, 30*24*time.Hour, sub.EndDate.Sub(sub.StartDate))
		assert.False(t, sub.Cancelled)
	})

	t.Run("double subscribe rejected", func(t *testing.T) {
		body := marshallObj(t, billing.NewSubscription{PlanID: pro.ID, Period: billing.PeriodYearly})
		req, rec := newAuthRequest(http.MethodPost, "/v1/billing/subscribe", token, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: "user already has an active subscription"}),
		}, rec)
	})

	t.Run("current subscription", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/billing/subscription", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var sub billing.UserSubscription
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.Equal(t, pro.ID, sub.PlanID)
	})

	t.Run("cancel and resubscribe", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/billing/subscription/cancel", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		req, rec = newAuthRequest(http.MethodGet, "/v1/billing/subscription", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var sub billing.UserSubscription
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.True(t, sub.Cancelled)

		// a cancelled subscription no longer blocks a new one
		body := marshallObj(t, billing.NewSubscription{PlanID: pro.ID, Period: billing.PeriodYearly})
		req, rec = newAuthRequest(http.MethodPost, "/v1/billing/subscribe", token, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.Equal(t, 365*24*time.Hour, sub.EndDate.Sub(sub.StartDate))
	})
}
