package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/parkkwangkil/wbs-project/core/ads"
)

type adsApi struct {
	svc ads.Service
}

func registerAdsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc ads.Service) {
	api := adsApi{svc: svc}

	ag := g.Group("/ads", jwt)
	ag.GET("", api.query, adminMiddleware())
	ag.POST("", api.create, adminMiddleware())
	ag.POST("/:id/toggle", api.toggle, adminMiddleware())
	ag.GET("/serve/:position", api.serve)
	ag.POST("/:id/click", api.click)
}

// Handlers

func (api *adsApi) query(ctx echo.Context) error {
	campaigns, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying campaigns")
	}
	if campaigns == nil {
		campaigns = []ads.Campaign{}
	}
	return ctx.JSON(http.StatusOK, campaigns)
}

func (api *adsApi) create(ctx echo.Context) error {
	var data ads.NewCampaign
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCampaign")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	c, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating campaign")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *adsApi) toggle(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	c, err := api.svc.Toggle(id)
	if err != nil {
		return errors.Wrap(err, "toggling campaign")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *adsApi) serve(ctx echo.Context) error {
	campaigns, err := api.svc.ForPosition(ctx.Param("position"))
	if err != nil {
		return errors.Wrap(err, "serving campaigns")
	}
	if campaigns == nil {
		campaigns = []ads.Campaign{}
	}
	return ctx.JSON(http.StatusOK, campaigns)
}

func (api *adsApi) click(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	url, err := api.svc.Click(id)
	if err != nil {
		return errors.Wrap(err, "recording click")
	}
	return ctx.JSON(http.StatusOK, ClickResponse{LinkURL: url})
}

type ClickResponse struct {
	LinkURL string `json:"link_url"`
}
