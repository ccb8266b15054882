package echoapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/parkkwangkil/wbs-project/core"
	"github.com/parkkwangkil/wbs-project/core/event"
	"github.com/parkkwangkil/wbs-project/core/project"
	"github.com/parkkwangkil/wbs-project/core/schedule"
)

// Planner densities per mode.
const (
	plannerWeekPPD  = 96
	plannerMonthPPD = 32
)

type calendarApi struct {
	conf       *core.Config
	projectSvc project.Service
	eventSvc   event.Service
}

func registerCalendarAPI(g *echo.Group, jwt echo.MiddlewareFunc, conf *core.Config, projectSvc project.Service, eventSvc event.Service) {
	api := calendarApi{conf: conf, projectSvc: projectSvc, eventSvc: eventSvc}

	cg := g.Group("/calendar", jwt)
	cg.GET("", api.month)
	cg.GET("/export.ics", api.exportICS)

	g.GET("/planner", api.planner, jwt)
}

type (
	// WeekLayout pairs a grid row with its packed item lanes.
	WeekLayout struct {
		Days  schedule.Week   `json:"days"`
		Lanes []schedule.Lane `json:"lanes"`
	}

	MonthResponse struct {
		Year  int          `json:"year"`
		Month int          `json:"month"`
		Weeks []WeekLayout `json:"weeks"`
	}

	PlannerResponse struct {
		Start        time.Time                `json:"start"`
		End          time.Time                `json:"end"`
		Mode         string                   `json:"mode"`
		PixelsPerDay int                      `json:"pixels_per_day"`
		Bars         []schedule.PositionedBar `json:"bars"`
	}
)

// Handlers

func (api *calendarApi) month(ctx echo.Context) error {
	now := time.Now()
	year, month, err := yearMonthParams(ctx, now)
	if err != nil {
		return err
	}

	items, err := api.monthItems(ctx, year, month)
	if err != nil {
		return err
	}

	weeks, err := schedule.BuildMonthGrid(year, month, now, items)
	if err != nil {
		return err
	}

	layouts := make([]WeekLayout, 0, len(weeks))
	for _, week := range weeks {
		layouts = append(layouts, WeekLayout{
			Days:  week,
			Lanes: schedule.PackWeek(week.Days(), items),
		})
	}
	return ctx.JSON(http.StatusOK, MonthResponse{Year: year, Month: month, Weeks: layouts})
}

func (api *calendarApi) exportICS(ctx echo.Context) error {
	year, month, err := yearMonthParams(ctx, time.Now())
	if err != nil {
		return err
	}

	items, err := api.monthItems(ctx, year, month)
	if err != nil {
		return err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + api.conf.AppName + "//EN")
	cal.SetXWRCalName(fmt.Sprintf("%s %04d-%02d", api.conf.AppName, year, month))

	now := time.Now()
	for _, it := range items {
		evt := cal.AddEvent(fmt.Sprintf("%s@%s", it.ID, api.conf.Server.Host))
		evt.SetDtStampTime(now)
		evt.SetStartAt(it.Start)
		// DTEND is exclusive in iCalendar
		evt.SetEndAt(it.End.AddDate(0, 0, 1))
		evt.SetSummary(it.Label)
		if it.Link != "" {
			evt.SetURL(api.conf.FrontendBaseURL + it.Link)
		}
	}

	return ctx.Blob(http.StatusOK, "text/calendar", []byte(cal.Serialize()))
}

func (api *calendarApi) planner(ctx echo.Context) error {
	now := time.Now()
	start := schedule.DateOf(now)
	if param := ctx.QueryParam("start"); param != "" {
		var err error
		if start, err = time.Parse(dateLayout, param); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "start", Error: "invalid date"})
		}
	}

	mode := ctx.QueryParam("mode")
	if mode == "" {
		mode = "week"
	}
	var end time.Time
	var ppd int
	switch mode {
	case "week":
		end = start.AddDate(0, 0, 6)
		ppd = plannerWeekPPD
	case "month":
		end = start.AddDate(0, 1, -1)
		ppd = plannerMonthPPD
	default:
		return core.NewValidationError(nil, core.FieldError{Field: "mode", Error: "must be one of: week, month"})
	}

	// the window may straddle a month boundary
	var items []schedule.Item
	seen := make(map[string]struct{})
	for first := schedule.Date(start.Year(), start.Month(), 1); !first.After(end); first = first.AddDate(0, 1, 0) {
		monthItems, err := api.monthItems(ctx, first.Year(), int(first.Month()))
		if err != nil {
			return err
		}
		for _, it := range monthItems {
			if _, ok := seen[it.ID]; ok {
				continue
			}
			seen[it.ID] = struct{}{}
			items = append(items, it)
		}
	}

	bars, err := schedule.PositionItems(items, start, end, ppd)
	if err != nil {
		return err
	}
	if bars == nil {
		bars = []schedule.PositionedBar{}
	}
	return ctx.JSON(http.StatusOK, PlannerResponse{
		Start:        schedule.DateOf(start),
		End:          end,
		Mode:         mode,
		PixelsPerDay: ppd,
		Bars:         bars,
	})
}

// monthItems merges the month's project bars with the caller's event bars.
func (api *calendarApi) monthItems(ctx echo.Context, year, month int) ([]schedule.Item, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, errors.Wrap(err, "parsing user ID")
	}

	items, err := api.projectSvc.MonthItems(year, month)
	if err != nil {
		return nil, errors.Wrap(err, "querying project items")
	}
	eventItems, err := api.eventSvc.MonthItems(userID, year, month)
	if err != nil {
		return nil, errors.Wrap(err, "querying event items")
	}
	return append(items, eventItems...), nil
}

func yearMonthParams(ctx echo.Context, now time.Time) (year, month int, err error) {
	year, month = now.Year(), int(now.Month())
	if param := ctx.QueryParam("year"); param != "" {
		if year, err = strconv.Atoi(param); err != nil {
			return 0, 0, core.NewValidationError(nil, core.FieldError{Field: "year", Error: "invalid year"})
		}
	}
	if param := ctx.QueryParam("month"); param != "" {
		if month, err = strconv.Atoi(param); err != nil {
			return 0, 0, core.NewValidationError(nil, core.FieldError{Field: "month", Error: "invalid month"})
		}
	}
	return year, month, nil
}
