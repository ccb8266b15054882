package project

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parkkwangkil/wbs-project/core/schedule"
)

var (
	// errors
	ErrNotFound         = errors.New("project not found")
	ErrPhaseNotFound    = errors.New("project phase not found")
	ErrApprovalNotFound = errors.New("approval line not found")
	ErrItemNotFound     = errors.New("checklist item not found")
	ErrApprovalDecided  = errors.New("approval line already decided")
)

type (
	Repository interface {
		CreateProject(p Project) (Project, error)
		GetProjectByID(id int) (Project, error)
		QueryAllProjects() ([]Project, error)
		// QueryProjectsByMonth returns projects whose date range intersects
		// [first, last], ordered by start date.
		QueryProjectsByMonth(first, last time.Time) ([]Project, error)
		QueryProjectsForUser(userID int) ([]Project, error)
		CountProjectsByManager(managerID int) (int, error)
		UpdateProject(p Project) (Project, error)
		DeleteProject(id int) error

		CreatePhase(ph Phase) (Phase, error)
		GetPhaseByID(projectID, phaseID int) (Phase, error)
		QueryPhases(projectID int) ([]Phase, error)
		UpdatePhase(ph Phase) (Phase, error)
		DeletePhase(projectID, phaseID int) error

		CreateApproval(al ApprovalLine) (ApprovalLine, error)
		GetApprovalByID(id int) (ApprovalLine, error)
		QueryApprovals(projectID int) ([]ApprovalLine, error)
		QueryPendingApprovals() ([]ApprovalLine, error)
		UpdateApproval(al ApprovalLine) (ApprovalLine, error)

		CreateComment(c Comment) (Comment, error)
		QueryComments(projectID int) ([]Comment, error)
		DeleteComment(projectID, commentID int) error

		CreateDocument(d Document) (Document, error)
		QueryDocuments(projectID int) ([]Document, error)

		UpsertDailyProgress(dp DailyProgress) (DailyProgress, error)
		QueryDailyProgress(projectID int) ([]DailyProgress, error)

		CreateChecklistItem(ci ChecklistItem) (ChecklistItem, error)
		GetChecklistItemByID(projectID, itemID int) (ChecklistItem, error)
		QueryChecklist(projectID int) ([]ChecklistItem, error)
		UpdateChecklistItem(ci ChecklistItem) (ChecklistItem, error)
		DeleteChecklistItem(projectID, itemID int) error
	}

	// Notifier fans project activity out to the notification service.
	// Kept narrow to avoid coupling the domain packages.
	Notifier interface {
		Notify(userID int, title, message, notifType string, projectID int)
	}

	Service interface {
		Create(managerID int, np NewProject) (Project, error)
		GetByID(id int) (Project, error)
		QueryAll() ([]Project, error)
		QueryForUser(userID int) ([]Project, error)
		CountForManager(managerID int) (int, error)
		Update(id int, up UpdateProject) (Project, error)
		Delete(id int) error

		// MonthItems returns the schedule items of all projects intersecting
		// the given month, in start-date order.
		MonthItems(year, month int) ([]schedule.Item, error)
		// PhaseItems returns the project's phases as schedule items carrying
		// the project's theme color, in phase order.
		PhaseItems(projectID int) ([]schedule.Item, error)

		AddPhase(projectID int, np NewPhase) (Phase, error)
		Phases(projectID int) ([]Phase, error)
		UpdatePhase(projectID, phaseID int, np NewPhase) (Phase, error)
		TogglePhase(projectID, phaseID int) (Phase, error)
		DeletePhase(projectID, phaseID int) error

		RequestApproval(projectID, approverID int) (ApprovalLine, error)
		Approvals(projectID int) ([]ApprovalLine, error)
		PendingApprovals() ([]ApprovalLine, error)
		Approve(approvalID, approverID int, comment string) (ApprovalLine, error)
		Reject(approvalID, approverID int, comment string) (ApprovalLine, error)

		AddComment(projectID, authorID int, nc NewComment) (Comment, error)
		Comments(projectID int) ([]Comment, error)
		DeleteComment(projectID, commentID int) error

		AddDocument(projectID, uploaderID int, nd NewDocument) (Document, error)
		Documents(projectID int) ([]Document, error)

		SaveDailyProgress(projectID int, sp SaveDailyProgress) (DailyProgress, error)
		DailyProgress(projectID int) ([]DailyProgress, error)

		AddChecklistItem(projectID int, ni NewChecklistItem) (ChecklistItem, error)
		Checklist(projectID int) ([]ChecklistItem, error)
		ToggleChecklistItem(projectID, itemID int, completed bool) (ChecklistItem, error)
		DeleteChecklistItem(projectID, itemID int) error
	}

	service struct {
		repo     Repository
		notifier Notifier
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (svc *service) Create(managerID int, np NewProject) (Project, error) {
	now := time.Now().UTC()
	p := Project{
		Title:         np.Title,
		Description:   np.Description,
		ManagerID:     managerID,
		LeadID:        np.LeadID,
		TeamMemberIDs: np.TeamMemberIDs,
		StartDate:     schedule.DateOf(np.StartDate),
		EndDate:       schedule.DateOf(np.EndDate),
		Status:        np.Status,
		Priority:      np.Priority,
		Budget:        np.Budget,
		ColorTheme:    np.ColorTheme,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateProject(p)
}

func (svc *service) GetByID(id int) (Project, error) {
	return svc.repo.GetProjectByID(id)
}

func (svc *service) QueryAll() ([]Project, error) {
	return svc.repo.QueryAllProjects()
}

func (svc *service) QueryForUser(userID int) ([]Project, error) {
	return svc.repo.QueryProjectsForUser(userID)
}

func (svc *service) CountForManager(managerID int) (int, error) {
	return svc.repo.CountProjectsByManager(managerID)
}

func (svc *service) Update(id int, up UpdateProject) (Project, error) {
	p, err := svc.repo.GetProjectByID(id)
	if err != nil {
		return Project{}, err
	}

	p.Title = up.Title
	if up.Description != nil {
		p.Description = *up.Description
	}
	if up.LeadID != nil {
		p.LeadID = up.LeadID
	}
	if up.TeamMemberIDs != nil {
		p.TeamMemberIDs = up.TeamMemberIDs
	}
	if up.StartDate != nil {
		p.StartDate = schedule.DateOf(*up.StartDate)
	}
	if up.EndDate != nil {
		p.EndDate = schedule.DateOf(*up.EndDate)
	}
	if up.Status != "" {
		p.Status = up.Status
	}
	if up.Priority != "" {
		p.Priority = up.Priority
	}
	if up.Budget != nil {
		p.Budget = up.Budget
	}
	if up.ColorTheme != "" {
		p.ColorTheme = up.ColorTheme
	}
	if up.Progress != nil {
		p.Progress = *up.Progress
	}
	p.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProject(p)
}

func (svc *service) Delete(id int) error {
	return svc.repo.DeleteProject(id)
}

func (svc *service) MonthItems(year, month int) ([]schedule.Item, error) {
	if month < 1 || month > 12 {
		return nil, schedule.ErrMonthOutOfRange
	}
	first := schedule.Date(year, time.Month(month), 1)
	last := first.AddDate(0, 1, -1)
	projects, err := svc.repo.QueryProjectsByMonth(first, last)
	if err != nil {
		return nil, err
	}
	items := make([]schedule.Item, 0, len(projects))
	for _, p := range projects {
		items = append(items, p.ScheduleItem())
	}
	return items, nil
}

func (svc *service) PhaseItems(projectID int) ([]schedule.Item, error) {
	p, err := svc.repo.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	phases, err := svc.repo.QueryPhases(projectID)
	if err != nil {
		return nil, err
	}
	items := make([]schedule.Item, 0, len(phases))
	for _, ph := range phases {
		items = append(items, ph.ScheduleItem(p.ThemeColor()))
	}
	return items, nil
}

func (svc *service) AddPhase(projectID int, np NewPhase) (Phase, error) {
	if _, err := svc.repo.GetProjectByID(projectID); err != nil {
		return Phase{}, err
	}
	ph := Phase{
		ProjectID:   projectID,
		Title:       np.Title,
		Description: np.Description,
		StartDate:   schedule.DateOf(np.StartDate),
		EndDate:     schedule.DateOf(np.EndDate),
		Order:       np.Order,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreatePhase(ph)
}

func (svc *service) Phases(projectID int) ([]Phase, error) {
	return svc.repo.QueryPhases(projectID)
}

func (svc *service) UpdatePhase(projectID, phaseID int, np NewPhase) (Phase, error) {
	ph, err := svc.repo.GetPhaseByID(projectID, phaseID)
	if err != nil {
		return Phase{}, err
	}
	ph.Title = np.Title
	ph.Description = np.Description
	ph.StartDate = schedule.DateOf(np.StartDate)
	ph.EndDate = schedule.DateOf(np.EndDate)
	ph.Order = np.Order
	return svc.repo.UpdatePhase(ph)
}

func (svc *service) TogglePhase(projectID, phaseID int) (Phase, error) {
	ph, err := svc.repo.GetPhaseByID(projectID, phaseID)
	if err != nil {
		return Phase{}, err
	}
	ph.IsCompleted = !ph.IsCompleted
	return svc.repo.UpdatePhase(ph)
}

func (svc *service) DeletePhase(projectID, phaseID int) error {
	return svc.repo.DeletePhase(projectID, phaseID)
}

func (svc *service) RequestApproval(projectID, approverID int) (ApprovalLine, error) {
	p, err := svc.repo.GetProjectByID(projectID)
	if err != nil {
		return ApprovalLine{}, err
	}
	al, err := svc.repo.CreateApproval(ApprovalLine{
		ProjectID:  projectID,
		ApproverID: approverID,
		Status:     ApprovalPending,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return ApprovalLine{}, err
	}
	if svc.notifier != nil {
		svc.notifier.Notify(approverID, "Approval requested",
			fmt.Sprintf("Project %q is waiting for your approval.", p.Title),
			"approval_request", projectID)
	}
	return al, nil
}

func (svc *service) Approvals(projectID int) ([]ApprovalLine, error) {
	return svc.repo.QueryApprovals(projectID)
}

func (svc *service) PendingApprovals() ([]ApprovalLine, error) {
	return svc.repo.QueryPendingApprovals()
}

func (svc *service) Approve(approvalID, approverID int, comment string) (ApprovalLine, error) {
	return svc.decide(approvalID, approverID, comment, ApprovalApproved, "approval_approved", "approved")
}

func (svc *service) Reject(approvalID, approverID int, comment string) (ApprovalLine, error) {
	return svc.decide(approvalID, approverID, comment, ApprovalRejected, "approval_rejected", "rejected")
}

func (svc *service) decide(approvalID, approverID int, comment, status, notifType, verb string) (ApprovalLine, error) {
	al, err := svc.repo.GetApprovalByID(approvalID)
	if err != nil {
		return ApprovalLine{}, err
	}
	if al.Status == ApprovalApproved || al.Status == ApprovalRejected {
		return ApprovalLine{}, ErrApprovalDecided
	}
	now := time.Now().UTC()
	al.Status = status
	al.ApproverID = approverID
	al.Comment = comment
	al.ApprovedAt = &now
	al, err = svc.repo.UpdateApproval(al)
	if err != nil {
		return ApprovalLine{}, err
	}

	if svc.notifier != nil {
		if p, pErr := svc.repo.GetProjectByID(al.ProjectID); pErr == nil {
			svc.notifier.Notify(p.ManagerID, "Approval "+verb,
				fmt.Sprintf("Project %q has been %s.", p.Title, verb),
				notifType, al.ProjectID)
		}
	}
	return al, nil
}

func (svc *service) AddComment(projectID, authorID int, nc NewComment) (Comment, error) {
	p, err := svc.repo.GetProjectByID(projectID)
	if err != nil {
		return Comment{}, err
	}
	now := time.Now().UTC()
	c, err := svc.repo.CreateComment(Comment{
		ProjectID: projectID,
		AuthorID:  authorID,
		Content:   nc.Content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Comment{}, err
	}
	if svc.notifier != nil && p.ManagerID != authorID {
		svc.notifier.Notify(p.ManagerID, "New comment",
			fmt.Sprintf("Project %q has a new comment.", p.Title),
			"comment_added", projectID)
	}
	return c, nil
}

func (svc *service) Comments(projectID int) ([]Comment, error) {
	return svc.repo.QueryComments(projectID)
}

func (svc *service) DeleteComment(projectID, commentID int) error {
	return svc.repo.DeleteComment(projectID, commentID)
}

func (svc *service) AddDocument(projectID, uploaderID int, nd NewDocument) (Document, error) {
	if _, err := svc.repo.GetProjectByID(projectID); err != nil {
		return Document{}, err
	}
	return svc.repo.CreateDocument(Document{
		ProjectID:    projectID,
		Title:        nd.Title,
		FileKey:      uuid.NewString(),
		Description:  nd.Description,
		UploadedByID: uploaderID,
		CreatedAt:    time.Now().UTC(),
	})
}

func (svc *service) Documents(projectID int) ([]Document, error) {
	return svc.repo.QueryDocuments(projectID)
}

func (svc *service) SaveDailyProgress(projectID int, sp SaveDailyProgress) (DailyProgress, error) {
	if _, err := svc.repo.GetProjectByID(projectID); err != nil {
		return DailyProgress{}, err
	}
	now := time.Now().UTC()
	return svc.repo.UpsertDailyProgress(DailyProgress{
		ProjectID: projectID,
		Date:      schedule.DateOf(sp.Date),
		Progress:  sp.Progress,
		Notes:     sp.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) DailyProgress(projectID int) ([]DailyProgress, error) {
	return svc.repo.QueryDailyProgress(projectID)
}

func (svc *service) AddChecklistItem(projectID int, ni NewChecklistItem) (ChecklistItem, error) {
	if _, err := svc.repo.GetProjectByID(projectID); err != nil {
		return ChecklistItem{}, err
	}
	return svc.repo.CreateChecklistItem(ChecklistItem{
		ProjectID:   projectID,
		Title:       ni.Title,
		Description: ni.Description,
		Order:       ni.Order,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *service) Checklist(projectID int) ([]ChecklistItem, error) {
	return svc.repo.QueryChecklist(projectID)
}

func (svc *service) ToggleChecklistItem(projectID, itemID int, completed bool) (ChecklistItem, error) {
	ci, err := svc.repo.GetChecklistItemByID(projectID, itemID)
	if err != nil {
		return ChecklistItem{}, err
	}
	ci.IsCompleted = completed
	return svc.repo.UpdateChecklistItem(ci)
}

func (svc *service) DeleteChecklistItem(projectID, itemID int) error {
	return svc.repo.DeleteChecklistItem(projectID, itemID)
}
