package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/parkkwangkil/wbs-project/core/event"
)

type eventApi struct {
	svc event.Service
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc event.Service) {
	api := eventApi{svc: svc}

	eg := g.Group("/events", jwt)
	eg.GET("", api.query)
	eg.POST("", api.create)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id", api.update)
	eg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *eventApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	ownerID, err := claims.UserID()
	if err != nil {
		return errors.Wrap(err, "parsing user ID")
	}

	events, err := api.svc.QueryForOwner(ownerID)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	ownerID, err := claims.UserID()
	if err != nil {
		return errors.Wrap(err, "parsing user ID")
	}

	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	evt, err := api.svc.Create(ownerID, data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	evt, err := api.ownedEvent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) update(ctx echo.Context) error {
	evt, err := api.ownedEvent(ctx)
	if err != nil {
		return err
	}

	var data event.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err := data.Validate(evt); err != nil {
		return err
	}

	evt, err = api.svc.Update(evt.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	evt, err := api.ownedEvent(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(evt.ID); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ownedEvent loads the event and hides it from anyone but its owner or an admin.
func (api *eventApi) ownedEvent(ctx echo.Context) (event.Event, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "getting context claims")
	}
	userID, err := claims.UserID()
	if err != nil {
		return event.Event{}, errors.Wrap(err, "parsing user ID")
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return event.Event{}, errHttpNotFound
	}
	evt, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return event.Event{}, errHttpNotFound
		}
		return event.Event{}, errors.Wrap(err, "finding event by ID")
	}
	if evt.OwnerID != userID && !claims.IsAdmin {
		return event.Event{}, errHttpNotFound
	}
	return evt, nil
}
