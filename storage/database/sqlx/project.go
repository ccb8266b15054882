package sqlxrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/parkkwangkil/wbs-project/core/project"
)

type projectRepository struct {
	db *sqlx.DB
}

var _ project.Repository = (*projectRepository)(nil)

func NewProjectRepository(db *sqlx.DB) *projectRepository {
	return &projectRepository{db: db}
}

type projectRow struct {
	ID            int           `db:"id"`
	Title         string        `db:"title"`
	Description   string        `db:"description"`
	ManagerID     int           `db:"manager_id"`
	LeadID        null.Int      `db:"lead_id"`
	TeamMemberIDs pq.Int64Array `db:"team_member_ids"`
	StartDate     time.Time     `db:"start_date"`
	EndDate       time.Time     `db:"end_date"`
	Status        string        `db:"status"`
	Priority      string        `db:"priority"`
	Budget        null.Float64  `db:"budget"`
	ColorTheme    string        `db:"color_theme"`
	Progress      int           `db:"progress"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

func (r projectRow) toProject() project.Project {
	p := project.Project{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ManagerID:   r.ManagerID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Status:      r.Status,
		Priority:    r.Priority,
		ColorTheme:  r.ColorTheme,
		Progress:    r.Progress,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.LeadID.Valid {
		leadID := r.LeadID.Int
		p.LeadID = &leadID
	}
	if r.Budget.Valid {
		budget := r.Budget.Float64
		p.Budget = &budget
	}
	p.TeamMemberIDs = make([]int, 0, len(r.TeamMemberIDs))
	for _, id := range r.TeamMemberIDs {
		p.TeamMemberIDs = append(p.TeamMemberIDs, int(id))
	}
	return p
}

func toProjects(rows []projectRow) []project.Project {
	projects := make([]project.Project, 0, len(rows))
	for _, r := range rows {
		projects = append(projects, r.toProject())
	}
	return projects
}

func teamMemberArray(ids []int) pq.Int64Array {
	arr := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, int64(id))
	}
	return arr
}

func (repo *projectRepository) CreateProject(p project.Project) (project.Project, error) {
	query := `
		INSERT INTO project (title, description, manager_id, lead_id, team_member_ids, start_date, end_date,
		                     status, priority, budget, color_theme, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	err := repo.db.QueryRow(
		query,
		p.Title, p.Description, p.ManagerID, null.IntFromPtr(p.LeadID), teamMemberArray(p.TeamMemberIDs),
		p.StartDate, p.EndDate, p.Status, p.Priority, null.Float64FromPtr(p.Budget),
		p.ColorTheme, p.Progress, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "inserting project")
	}
	return p, nil
}

func (repo *projectRepository) GetProjectByID(id int) (project.Project, error) {
	var r projectRow
	if err := repo.db.Get(&r, `SELECT * FROM project WHERE id = $1`, id); err != nil {
		return project.Project{}, trapNoRowsErr(err, project.ErrNotFound, "finding project by ID")
	}
	return r.toProject(), nil
}

func (repo *projectRepository) QueryAllProjects() ([]project.Project, error) {
	var rows []projectRow
	if err := repo.db.Select(&rows, `SELECT * FROM project ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}
	return toProjects(rows), nil
}

func (repo *projectRepository) QueryProjectsByMonth(first, last time.Time) ([]project.Project, error) {
	var rows []projectRow
	query := `SELECT * FROM project WHERE start_date <= $1 AND end_date >= $2 ORDER BY start_date, id`
	if err := repo.db.Select(&rows, query, last, first); err != nil {
		return nil, errors.Wrap(err, "querying projects by month")
	}
	return toProjects(rows), nil
}

func (repo *projectRepository) QueryProjectsForUser(userID int) ([]project.Project, error) {
	var rows []projectRow
	query := `
		SELECT * FROM project
		WHERE manager_id = $1 OR lead_id = $1 OR $1 = ANY(team_member_ids)
		ORDER BY id`
	if err := repo.db.Select(&rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying user projects")
	}
	return toProjects(rows), nil
}

func (repo *projectRepository) CountProjectsByManager(managerID int) (int, error) {
	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM project WHERE manager_id = $1`, managerID); err != nil {
		return 0, errors.Wrap(err, "counting projects")
	}
	return count, nil
}

func (repo *projectRepository) UpdateProject(p project.Project) (project.Project, error) {
	query := `
		UPDATE project
		SET title = $1, description = $2, lead_id = $3, team_member_ids = $4, start_date = $5, end_date = $6,
		    status = $7, priority = $8, budget = $9, color_theme = $10, progress = $11, updated_at = $12
		WHERE id = $13`
	res, err := repo.db.Exec(
		query,
		p.Title, p.Description, null.IntFromPtr(p.LeadID), teamMemberArray(p.TeamMemberIDs),
		p.StartDate, p.EndDate, p.Status, p.Priority, null.Float64FromPtr(p.Budget),
		p.ColorTheme, p.Progress, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "updating project")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.Project{}, project.ErrNotFound
	}
	return p, nil
}

func (repo *projectRepository) DeleteProject(id int) error {
	res, err := repo.db.Exec(`DELETE FROM project WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting project")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.ErrNotFound
	}
	return nil
}

// phases

type phaseRow struct {
	ID          int       `db:"id"`
	ProjectID   int       `db:"project_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	Order       int       `db:"order"`
	IsCompleted bool      `db:"is_completed"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r phaseRow) toPhase() project.Phase {
	return project.Phase(r)
}

func (repo *projectRepository) CreatePhase(ph project.Phase) (project.Phase, error) {
	query := `
		INSERT INTO project_phase (project_id, title, description, start_date, end_date, "order", is_completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := repo.db.QueryRow(
		query,
		ph.ProjectID, ph.Title, ph.Description, ph.StartDate, ph.EndDate, ph.Order, ph.IsCompleted, ph.CreatedAt,
	).Scan(&ph.ID)
	if err != nil {
		return project.Phase{}, errors.Wrap(err, "inserting phase")
	}
	return ph, nil
}

func (repo *projectRepository) GetPhaseByID(projectID, phaseID int) (project.Phase, error) {
	var r phaseRow
	query := `SELECT * FROM project_phase WHERE id = $1 AND project_id = $2`
	if err := repo.db.Get(&r, query, phaseID, projectID); err != nil {
		return project.Phase{}, trapNoRowsErr(err, project.ErrPhaseNotFound, "finding phase by ID")
	}
	return r.toPhase(), nil
}

func (repo *projectRepository) QueryPhases(projectID int) ([]project.Phase, error) {
	var rows []phaseRow
	query := `SELECT * FROM project_phase WHERE project_id = $1 ORDER BY "order", id`
	if err := repo.db.Select(&rows, query, projectID); err != nil {
		return nil, errors.Wrap(err, "querying phases")
	}
	phases := make([]project.Phase, 0, len(rows))
	for _, r := range rows {
		phases = append(phases, r.toPhase())
	}
	return phases, nil
}

func (repo *projectRepository) UpdatePhase(ph project.Phase) (project.Phase, error) {
	query := `
		UPDATE project_phase
		SET title = $1, description = $2, start_date = $3, end_date = $4, "order" = $5, is_completed = $6
		WHERE id = $7`
	res, err := repo.db.Exec(query, ph.Title, ph.Description, ph.StartDate, ph.EndDate, ph.Order, ph.IsCompleted, ph.ID)
	if err != nil {
		return project.Phase{}, errors.Wrap(err, "updating phase")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.Phase{}, project.ErrPhaseNotFound
	}
	return ph, nil
}

func (repo *projectRepository) DeletePhase(projectID, phaseID int) error {
	res, err := repo.db.Exec(`DELETE FROM project_phase WHERE id = $1 AND project_id = $2`, phaseID, projectID)
	if err != nil {
		return errors.Wrap(err, "deleting phase")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.ErrPhaseNotFound
	}
	return nil
}

// approvals

type approvalRow struct {
	ID         int       `db:"id"`
	ProjectID  int       `db:"project_id"`
	ApproverID int       `db:"approver_id"`
	Status     string    `db:"status"`
	Comment    string    `db:"comment"`
	ApprovedAt null.Time `db:"approved_at"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r approvalRow) toApproval() project.ApprovalLine {
	al := project.ApprovalLine{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		ApproverID: r.ApproverID,
		Status:     r.Status,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
	if r.ApprovedAt.Valid {
		t := r.ApprovedAt.Time
		al.ApprovedAt = &t
	}
	return al
}

func toApprovals(rows []approvalRow) []project.ApprovalLine {
	approvals := make([]project.ApprovalLine, 0, len(rows))
	for _, r := range rows {
		approvals = append(approvals, r.toApproval())
	}
	return approvals
}

func (repo *projectRepository) CreateApproval(al project.ApprovalLine) (project.ApprovalLine, error) {
	query := `
		INSERT INTO approval_line (project_id, approver_id, status, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := repo.db.QueryRow(query, al.ProjectID, al.ApproverID, al.Status, al.Comment, al.CreatedAt).Scan(&al.ID)
	if err != nil {
		return project.ApprovalLine{}, errors.Wrap(err, "inserting approval line")
	}
	return al, nil
}

func (repo *projectRepository) GetApprovalByID(id int) (project.ApprovalLine, error) {
	var r approvalRow
	if err := repo.db.Get(&r, `SELECT * FROM approval_line WHERE id = $1`, id); err != nil {
		return project.ApprovalLine{}, trapNoRowsErr(err, project.ErrApprovalNotFound, "finding approval line by ID")
	}
	return r.toApproval(), nil
}

func (repo *projectRepository) QueryApprovals(projectID int) ([]project.ApprovalLine, error) {
	var rows []approvalRow
	query := `SELECT * FROM approval_line WHERE project_id = $1 ORDER BY id`
	if err := repo.db.Select(&rows, query, projectID); err != nil {
		return nil, errors.Wrap(err, "querying approval lines")
	}
	return toApprovals(rows), nil
}

func (repo *projectRepository) QueryPendingApprovals() ([]project.ApprovalLine, error) {
	var rows []approvalRow
	query := `SELECT * FROM approval_line WHERE status IN ('pending', 'in_review') ORDER BY id`
	if err := repo.db.Select(&rows, query); err != nil {
		return nil, errors.Wrap(err, "querying pending approval lines")
	}
	return toApprovals(rows), nil
}

func (repo *projectRepository) UpdateApproval(al project.ApprovalLine) (project.ApprovalLine, error) {
	query := `
		UPDATE approval_line
		SET approver_id = $1, status = $2, comment = $3, approved_at = $4
		WHERE id = $5`
	res, err := repo.db.Exec(query, al.ApproverID, al.Status, al.Comment, null.TimeFromPtr(al.ApprovedAt), al.ID)
	if err != nil {
		return project.ApprovalLine{}, errors.Wrap(err, "updating approval line")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.ApprovalLine{}, project.ErrApprovalNotFound
	}
	return al, nil
}

// comments

func (repo *projectRepository) CreateComment(c project.Comment) (project.Comment, error) {
	query := `
		INSERT INTO project_comment (project_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := repo.db.QueryRow(query, c.ProjectID, c.AuthorID, c.Content, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return project.Comment{}, errors.Wrap(err, "inserting comment")
	}
	return c, nil
}

func (repo *projectRepository) QueryComments(projectID int) ([]project.Comment, error) {
	type commentRow struct {
		ID        int       `db:"id"`
		ProjectID int       `db:"project_id"`
		AuthorID  int       `db:"author_id"`
		Content   string    `db:"content"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	var rows []commentRow
	query := `SELECT * FROM project_comment WHERE project_id = $1 ORDER BY id`
	if err := repo.db.Select(&rows, query, projectID); err != nil {
		return nil, errors.Wrap(err, "querying comments")
	}
	comments := make([]project.Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, project.Comment(r))
	}
	return comments, nil
}

func (repo *projectRepository) DeleteComment(projectID, commentID int) error {
	res, err := repo.db.Exec(`DELETE FROM project_comment WHERE id = $1 AND project_id = $2`, commentID, projectID)
	if err != nil {
		return errors.Wrap(err, "deleting comment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.ErrNotFound
	}
	return nil
}

// documents

func (repo *projectRepository) CreateDocument(d project.Document) (project.Document, error) {
	query := `
		INSERT INTO project_document (project_id, title, file_key, description, uploaded_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := repo.db.QueryRow(query, d.ProjectID, d.Title, d.FileKey, d.Description, d.UploadedByID, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		return project.Document{}, errors.Wrap(err, "inserting document")
	}
	return d, nil
}

func (repo *projectRepository) QueryDocuments(projectID int) ([]project.Document, error) {
	type documentRow struct {
		ID           int       `db:"id"`
		ProjectID    int       `db:"project_id"`
		Title        string    `db:"title"`
		FileKey      string    `db:"file_key"`
		Description  string    `db:"description"`
		UploadedByID int       `db:"uploaded_by_id"`
		CreatedAt    time.Time `db:"created_at"`
	}
	var rows []documentRow
	query := `SELECT * FROM project_document WHERE project_id = $1 ORDER BY id`
	if err := repo.db.Select(&rows, query, projectID); err != nil {
		return nil, errors.Wrap(err, "querying documents")
	}
	docs := make([]project.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, project.Document(r))
	}
	return docs, nil
}

// daily progress

type dailyProgressRow struct {
	ID        int       `db:"id"`
	ProjectID int       `db:"project_id"`
	Date      time.Time `db:"date"`
	Progress  int       `db:"progress"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (repo *projectRepository) UpsertDailyProgress(dp project.DailyProgress) (project.DailyProgress, error) {
	query := `
		INSERT INTO daily_progress (project_id, date, progress, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (project_id, date)
		DO UPDATE SET progress = EXCLUDED.progress, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := repo.db.QueryRow(query, dp.ProjectID, dp.Date, dp.Progress, dp.Notes, dp.CreatedAt, dp.UpdatedAt).Scan(&dp.ID)
	if err != nil {
		return project.DailyProgress{}, errors.Wrap(err, "upserting daily progress")
	}
	return dp, nil
}

func (repo *projectRepository) QueryDailyProgress(projectID int) ([]project.DailyProgress, error) {
	var rows []dailyProgressRow
	query := `SELECT * FROM daily_progress WHERE project_id = $1 ORDER BY date`
	if err := repo.db.Select(&rows, query, projectID); err != nil {
		return nil, errors.Wrap(err, "querying daily progress")
	}
	entries := make([]project.DailyProgress, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, project.DailyProgress(r))
	}
	return entries, nil
}

// checklist

type checklistRow struct {
	ID          int       `db:"id"`
	ProjectID   int       `db:"project_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	IsCompleted bool      `db:"is_completed"`
	Order       int       `db:"order"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r checklistRow) toItem() project.ChecklistItem {
	return project.ChecklistItem{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		IsCompleted: r.IsCompleted,
		Order:       r.Order,
		CreatedAt:   r.CreatedAt,
	}
}

func (repo *projectRepository) CreateChecklistItem(ci project.ChecklistItem) (project.ChecklistItem, error) {
	query := `
		INSERT INTO checklist_item (project_id, title, description, is_completed, "order", created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := repo.db.QueryRow(query, ci.ProjectID, ci.Title, ci.Description, ci.IsCompleted, ci.Order, ci.CreatedAt).Scan(&ci.ID)
	if err != nil {
		return project.ChecklistItem{}, errors.Wrap(err, "inserting checklist item")
	}
	return ci, nil
}

func (repo *projectRepository) GetChecklistItemByID(projectID, itemID int) (project.ChecklistItem, error) {
	var r checklistRow
	query := `SELECT * FROM checklist_item WHERE id = $1 AND project_id = $2`
	if err := repo.db.Get(&r, query, itemID, projectID); err != nil {
		return project.ChecklistItem{}, trapNoRowsErr(err, project.ErrItemNotFound, "finding checklist item by ID")
	}
	return r.toItem(), nil
}

func (repo *projectRepository) QueryChecklist(projectID int) ([]project.ChecklistItem, error) {
	var rows []checklistRow
	query := `SELECT * FROM checklist_item WHERE project_id = $1 ORDER BY "order", id`
	if err := repo.db.Select(&rows, query, projectID); err != nil {
		return nil, errors.Wrap(err, "querying checklist")
	}
	items := make([]project.ChecklistItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toItem())
	}
	return items, nil
}

func (repo *projectRepository) UpdateChecklistItem(ci project.ChecklistItem) (project.ChecklistItem, error) {
	query := `
		UPDATE checklist_item
		SET title = $1, description = $2, is_completed = $3, "order" = $4
		WHERE id = $5`
	res, err := repo.db.Exec(query, ci.Title, ci.Description, ci.IsCompleted, ci.Order, ci.ID)
	if err != nil {
		return project.ChecklistItem{}, errors.Wrap(err, "updating checklist item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.ChecklistItem{}, project.ErrItemNotFound
	}
	return ci, nil
}

func (repo *projectRepository) DeleteChecklistItem(projectID, itemID int) error {
	res, err := repo.db.Exec(`DELETE FROM checklist_item WHERE id = $1 AND project_id = $2`, itemID, projectID)
	if err != nil {
		return errors.Wrap(err, "deleting checklist item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.ErrItemNotFound
	}
	return nil
}
