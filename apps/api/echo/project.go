package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/parkkwangkil/wbs-project/core"
	"github.com/parkkwangkil/wbs-project/core/billing"
	"github.com/parkkwangkil/wbs-project/core/project"
	"github.com/parkkwangkil/wbs-project/core/schedule"
	"github.com/parkkwangkil/wbs-project/core/user"
)

var (
	errProjNotFoundInCtx = errors.New("project object not found in echo.Context")
	errProjectCapReached = "project limit reached for the current plan; upgrade to create more projects"
)

const (
	contextProjectKey = "project"

	// defaultPixelsPerDay is the timeline density used when the request
	// does not provide one.
	defaultPixelsPerDay = 20

	dateLayout = "2006-01-02"
)

type projectApi struct {
	svc        project.Service
	billingSvc billing.Service
	userSvc    user.Service
}

func registerProjectAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc project.Service, billingSvc billing.Service, userSvc user.Service) {
	api := projectApi{svc: svc, billingSvc: billingSvc, userSvc: userSvc}

	pg := g.Group("/projects", jwt)
	pg.GET("", api.query)
	pg.POST("", api.create, managerMiddleware())
	pg.GET("/pending-approvals", api.pendingApprovals, managerMiddleware())

	dg := pg.Group("/:id", api.projectAccessMiddleware())
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/timeline", api.timeline)

	dg.GET("/phases", api.queryPhases)
	dg.POST("/phases", api.addPhase)
	dg.PUT("/phases/:phaseID", api.updatePhase)
	dg.POST("/phases/:phaseID/toggle", api.togglePhase)
	dg.DELETE("/phases/:phaseID", api.destroyPhase)

	dg.GET("/approvals", api.queryApprovals)
	dg.POST("/approvals", api.requestApproval)
	dg.POST("/approvals/:approvalID/approve", api.approve, managerMiddleware())
	dg.POST("/approvals/:approvalID/reject", api.reject, managerMiddleware())

	dg.GET("/comments", api.queryComments)
	dg.POST("/comments", api.addComment)
	dg.DELETE("/comments/:commentID", api.destroyComment)

	dg.GET("/documents", api.queryDocuments)
	dg.POST("/documents", api.addDocument)

	dg.GET("/progress", api.queryDailyProgress)
	dg.POST("/progress", api.saveDailyProgress)

	dg.GET("/checklist", api.queryChecklist)
	dg.POST("/checklist", api.addChecklistItem)
	dg.PUT("/checklist/:itemID", api.toggleChecklistItem)
	dg.DELETE("/checklist/:itemID", api.destroyChecklistItem)
}

// projectAccessMiddleware loads the project and ensures the caller is
// an admin or one of its members.
func (api *projectApi) projectAccessMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxUsr, err := getContextUser(ctx, api.userSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			id, err := strconv.Atoi(ctx.Param("id"))
			if err != nil {
				return errHttpNotFound
			}
			proj, err := api.svc.GetByID(id)
			if err != nil {
				if errors.Cause(err) == project.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding project by ID")
			}
			if !(ctxUsr.IsAdmin() || proj.HasMember(ctxUsr.ID)) {
				return errHttpNotFound
			}
			ctx.Set(contextProjectKey, proj)
			return next(ctx)
		}
	}
}

func getContextProject(ctx echo.Context) (project.Project, error) {
	if proj, ok := ctx.Get(contextProjectKey).(project.Project); ok {
		return proj, nil
	}
	return project.Project{}, errors.Wrap(errProjNotFoundInCtx, "retrieving object from context")
}

// Handlers

func (api *projectApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var projects []project.Project
	if ctxUsr.IsAdmin() {
		projects, err = api.svc.QueryAll()
	} else {
		projects, err = api.svc.QueryForUser(ctxUsr.ID)
	}
	if err != nil {
		return errors.Wrap(err, "querying projects")
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return ctx.JSON(http.StatusOK, projects)
}

func (api *projectApi) create(ctx echo.Context) error {
	var data project.NewProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProject")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	ok, err := api.billingSvc.CanCreateProject(ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "checking project cap")
	}
	if !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "plan", Error: errProjectCapReached})
	}

	proj, err := api.svc.Create(ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating project")
	}
	return ctx.JSON(http.StatusCreated, proj)
}

func (api *projectApi) retrieve(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, proj)
}

func (api *projectApi) update(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}

	var data project.UpdateProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProject")
	}
	if err := data.Validate(proj); err != nil {
		return err
	}

	proj, err = api.svc.Update(proj.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating project")
	}
	return ctx.JSON(http.StatusOK, proj)
}

func (api *projectApi) destroy(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}

	// only the manager or an admin may delete
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !(ctxUsr.IsAdmin() || proj.ManagerID == ctxUsr.ID) {
		return errHttpForbidden
	}

	if err := api.svc.Delete(proj.ID); err != nil {
		return errors.Wrap(err, "deleting project")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *projectApi) timeline(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}

	start, end := proj.StartDate, proj.EndDate
	if param := ctx.QueryParam("start"); param != "" {
		if start, err = time.Parse(dateLayout, param); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "start", Error: "invalid date"})
		}
	}
	if param := ctx.QueryParam("end"); param != "" {
		if end, err = time.Parse(dateLayout, param); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "end", Error: "invalid date"})
		}
	}
	if end.Before(start) {
		return core.NewValidationError(nil, core.FieldError{Field: "end", Error: "end date precedes start date"})
	}
	ppd := defaultPixelsPerDay
	if param := ctx.QueryParam("ppd"); param != "" {
		if ppd, err = strconv.Atoi(param); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "ppd", Error: "invalid density"})
		}
	}

	items, err := api.svc.PhaseItems(proj.ID)
	if err != nil {
		return errors.Wrap(err, "querying phase items")
	}
	bars, err := schedule.PositionItems(items, start, end, ppd)
	if err != nil {
		return err
	}
	if bars == nil {
		bars = []schedule.PositionedBar{}
	}
	return ctx.JSON(http.StatusOK, TimelineResponse{
		Start:        schedule.DateOf(start),
		End:          schedule.DateOf(end),
		PixelsPerDay: ppd,
		Bars:         bars,
	})
}

// phases

func (api *projectApi) queryPhases(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	phases, err := api.svc.Phases(proj.ID)
	if err != nil {
		return errors.Wrap(err, "querying phases")
	}
	if phases == nil {
		phases = []project.Phase{}
	}
	return ctx.JSON(http.StatusOK, phases)
}

func (api *projectApi) addPhase(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}

	var data project.NewPhase
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPhase")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ph, err := api.svc.AddPhase(proj.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding phase")
	}
	return ctx.JSON(http.StatusCreated, ph)
}

func (api *projectApi) updatePhase(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	phaseID, err := strconv.Atoi(ctx.Param("phaseID"))
	if err != nil {
		return errHttpNotFound
	}

	var data project.NewPhase
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPhase")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ph, err := api.svc.UpdatePhase(proj.ID, phaseID, data)
	if err != nil {
		return errors.Wrap(err, "updating phase")
	}
	return ctx.JSON(http.StatusOK, ph)
}

func (api *projectApi) togglePhase(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	phaseID, err := strconv.Atoi(ctx.Param("phaseID"))
	if err != nil {
		return errHttpNotFound
	}

	ph, err := api.svc.TogglePhase(proj.ID, phaseID)
	if err != nil {
		return errors.Wrap(err, "toggling phase")
	}
	return ctx.JSON(http.StatusOK, ph)
}

func (api *projectApi) destroyPhase(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	phaseID, err := strconv.Atoi(ctx.Param("phaseID"))
	if err != nil {
		return errHttpNotFound
	}

	if err := api.svc.DeletePhase(proj.ID, phaseID); err != nil {
		return errors.Wrap(err, "deleting phase")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// approvals

func (api *projectApi) queryApprovals(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	approvals, err := api.svc.Approvals(proj.ID)
	if err != nil {
		return errors.Wrap(err, "querying approvals")
	}
	if approvals == nil {
		approvals = []project.ApprovalLine{}
	}
	return ctx.JSON(http.StatusOK, approvals)
}

func (api *projectApi) pendingApprovals(ctx echo.Context) error {
	approvals, err := api.svc.PendingApprovals()
	if err != nil {
		return errors.Wrap(err, "querying pending approvals")
	}
	if approvals == nil {
		approvals = []project.ApprovalLine{}
	}
	return ctx.JSON(http.StatusOK, approvals)
}

func (api *projectApi) requestApproval(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}

	var data ApprovalRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ApprovalRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	al, err := api.svc.RequestApproval(proj.ID, data.ApproverID)
	if err != nil {
		return errors.Wrap(err, "requesting approval")
	}
	return ctx.JSON(http.StatusCreated, al)
}

func (api *projectApi) approve(ctx echo.Context) error {
	return api.decideApproval(ctx, api.svc.Approve)
}

func (api *projectApi) reject(ctx echo.Context) error {
	return api.decideApproval(ctx, api.svc.Reject)
}

func (api *projectApi) decideApproval(
	ctx echo.Context,
	decide func(approvalID, approverID int, comment string) (project.ApprovalLine, error),
) error {
	approvalID, err := strconv.Atoi(ctx.Param("approvalID"))
	if err != nil {
		return errHttpNotFound
	}
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data ApprovalDecision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ApprovalDecision")
	}
	data.Comment = core.CleanString(data.Comment)

	al, err := decide(approvalID, ctxUsr.ID, data.Comment)
	if err != nil {
		return errors.Wrap(err, "deciding approval")
	}
	return ctx.JSON(http.StatusOK, al)
}

// comments

func (api *projectApi) queryComments(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	comments, err := api.svc.Comments(proj.ID)
	if err != nil {
		return errors.Wrap(err, "querying comments")
	}
	if comments == nil {
		comments = []project.Comment{}
	}
	return ctx.JSON(http.StatusOK, comments)
}

func (api *projectApi) addComment(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data project.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	c, err := api.svc.AddComment(proj.ID, ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding comment")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *projectApi) destroyComment(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	commentID, err := strconv.Atoi(ctx.Param("commentID"))
	if err != nil {
		return errHttpNotFound
	}

	if err := api.svc.DeleteComment(proj.ID, commentID); err != nil {
		return errors.Wrap(err, "deleting comment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// documents

func (api *projectApi) queryDocuments(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	docs, err := api.svc.Documents(proj.ID)
	if err != nil {
		return errors.Wrap(err, "querying documents")
	}
	if docs == nil {
		docs = []project.Document{}
	}
	return ctx.JSON(http.StatusOK, docs)
}

func (api *projectApi) addDocument(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data project.NewDocument
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDocument")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	doc, err := api.svc.AddDocument(proj.ID, ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding document")
	}
	return ctx.JSON(http.StatusCreated, doc)
}

// daily progress

func (api *projectApi) queryDailyProgress(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	entries, err := api.svc.DailyProgress(proj.ID)
	if err != nil {
		return errors.Wrap(err, "querying daily progress")
	}
	if entries == nil {
		entries = []project.DailyProgress{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *projectApi) saveDailyProgress(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}

	var data project.SaveDailyProgress
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveDailyProgress")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	dp, err := api.svc.SaveDailyProgress(proj.ID, data)
	if err != nil {
		return errors.Wrap(err, "saving daily progress")
	}
	return ctx.JSON(http.StatusOK, dp)
}

// checklist

func (api *projectApi) queryChecklist(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	items, err := api.svc.Checklist(proj.ID)
	if err != nil {
		return errors.Wrap(err, "querying checklist")
	}
	if items == nil {
		items = []project.ChecklistItem{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *projectApi) addChecklistItem(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}

	var data project.NewChecklistItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChecklistItem")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ci, err := api.svc.AddChecklistItem(proj.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding checklist item")
	}
	return ctx.JSON(http.StatusCreated, ci)
}

func (api *projectApi) toggleChecklistItem(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	itemID, err := strconv.Atoi(ctx.Param("itemID"))
	if err != nil {
		return errHttpNotFound
	}

	var data ChecklistToggleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChecklistToggleRequest")
	}

	ci, err := api.svc.ToggleChecklistItem(proj.ID, itemID, data.IsCompleted)
	if err != nil {
		return errors.Wrap(err, "toggling checklist item")
	}
	return ctx.JSON(http.StatusOK, ci)
}

func (api *projectApi) destroyChecklistItem(ctx echo.Context) error {
	proj, err := getContextProject(ctx)
	if err != nil {
		return err
	}
	itemID, err := strconv.Atoi(ctx.Param("itemID"))
	if err != nil {
		return errHttpNotFound
	}

	if err := api.svc.DeleteChecklistItem(proj.ID, itemID); err != nil {
		return errors.Wrap(err, "deleting checklist item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	ApprovalRequest struct {
		ApproverID int `json:"approver_id" validate:"required"`
	}

	ApprovalDecision struct {
		Comment string `json:"comment"`
	}

	ChecklistToggleRequest struct {
		IsCompleted bool `json:"is_completed"`
	}

	TimelineResponse struct {
		Start        time.Time                `json:"start"`
		End          time.Time                `json:"end"`
		PixelsPerDay int                      `json:"pixels_per_day"`
		Bars         []schedule.PositionedBar `json:"bars"`
	}
)

func (ar *ApprovalRequest) Validate() error {
	return core.Validate.Struct(ar)
}
