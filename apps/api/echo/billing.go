package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/parkkwangkil/wbs-project/core/billing"
)

type billingApi struct {
	svc billing.Service
}

func registerBillingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc billing.Service) {
	api := billingApi{svc: svc}

	bg := g.Group("/billing", jwt)
	bg.GET("/plans", api.queryPlans)
	bg.POST("/subscribe", api.subscribe)
	bg.GET("/subscription", api.currentSubscription)
	bg.POST("/subscription/cancel", api.cancelSubscription)
}

// Handlers

func (api *billingApi) queryPlans(ctx echo.Context) error {
	plans, err := api.svc.Plans()
	if err != nil {
		return errors.Wrap(err, "querying plans")
	}
	if plans == nil {
		plans = []billing.SubscriptionPlan{}
	}
	return ctx.JSON(http.StatusOK, plans)
}

func (api *billingApi) subscribe(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}

	var data billing.NewSubscription
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubscription")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.Subscribe(userID, data)
	if err != nil {
		return errors.Wrap(err, "subscribing")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *billingApi) currentSubscription(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}

	sub, err := api.svc.Current(userID)
	if err != nil {
		return errors.Wrap(err, "finding current subscription")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *billingApi) cancelSubscription(ctx echo.Context) error {
	userID, err := contextUserID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Cancel(userID); err != nil {
		return errors.Wrap(err, "cancelling subscription")
	}
	return ctx.NoContent(http.StatusNoContent)
}
