package inmemdb

import (
	"sort"
	"time"

	"github.com/parkkwangkil/wbs-project/core/project"
)

type projectRepository struct {
	db *projectTable
}

var _ project.Repository = (*projectRepository)(nil)

func NewProjectRepository(db *DB) *projectRepository {
	return &projectRepository{db: db.project}
}

func (repo *projectRepository) query() []project.Project {
	projects := make([]project.Project, 0, len(repo.db.projects))
	for _, p := range repo.db.projects {
		projects = append(projects, *p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects
}

func (repo *projectRepository) CreateProject(p project.Project) (project.Project, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = repo.db.nextPK()
	repo.db.projects[p.ID] = &p
	return p, nil
}

func (repo *projectRepository) GetProjectByID(id int) (project.Project, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.projects[id]; ok {
		return *p, nil
	}
	return project.Project{}, project.ErrNotFound
}

func (repo *projectRepository) QueryAllProjects() ([]project.Project, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *projectRepository) QueryProjectsByMonth(first, last time.Time) ([]project.Project, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var projects []project.Project
	for _, p := range repo.query() {
		if !p.StartDate.After(last) && !p.EndDate.Before(first) {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].StartDate.Before(projects[j].StartDate) })
	return projects, nil
}

func (repo *projectRepository) QueryProjectsForUser(userID int) ([]project.Project, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var projects []project.Project
	for _, p := range repo.query() {
		if p.HasMember(userID) {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (repo *projectRepository) CountProjectsByManager(managerID int) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, p := range repo.db.projects {
		if p.ManagerID == managerID {
			count++
		}
	}
	return count, nil
}

func (repo *projectRepository) UpdateProject(p project.Project) (project.Project, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.projects[p.ID]; !ok {
		return project.Project{}, project.ErrNotFound
	}
	repo.db.projects[p.ID] = &p
	return p, nil
}

func (repo *projectRepository) DeleteProject(id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.projects[id]; !ok {
		return project.ErrNotFound
	}
	delete(repo.db.projects, id)
	for pk, ph := range repo.db.phases {
		if ph.ProjectID == id {
			delete(repo.db.phases, pk)
		}
	}
	for pk, al := range repo.db.approvals {
		if al.ProjectID == id {
			delete(repo.db.approvals, pk)
		}
	}
	for pk, c := range repo.db.comments {
		if c.ProjectID == id {
			delete(repo.db.comments, pk)
		}
	}
	for pk, d := range repo.db.documents {
		if d.ProjectID == id {
			delete(repo.db.documents, pk)
		}
	}
	for pk, dp := range repo.db.progress {
		if dp.ProjectID == id {
			delete(repo.db.progress, pk)
		}
	}
	for pk, ci := range repo.db.checklist {
		if ci.ProjectID == id {
			delete(repo.db.checklist, pk)
		}
	}
	return nil
}

// phases

func (repo *projectRepository) CreatePhase(ph project.Phase) (project.Phase, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ph.ID = repo.db.nextPK()
	repo.db.phases[ph.ID] = &ph
	return ph, nil
}

func (repo *projectRepository) GetPhaseByID(projectID, phaseID int) (project.Phase, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ph, ok := repo.db.phases[phaseID]; ok && ph.ProjectID == projectID {
		return *ph, nil
	}
	return project.Phase{}, project.ErrPhaseNotFound
}

func (repo *projectRepository) QueryPhases(projectID int) ([]project.Phase, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var phases []project.Phase
	for _, ph := range repo.db.phases {
		if ph.ProjectID == projectID {
			phases = append(phases, *ph)
		}
	}
	sort.Slice(phases, func(i, j int) bool {
		if phases[i].Order != phases[j].Order {
			return phases[i].Order < phases[j].Order
		}
		return phases[i].ID < phases[j].ID
	})
	return phases, nil
}

func (repo *projectRepository) UpdatePhase(ph project.Phase) (project.Phase, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.phases[ph.ID]; !ok {
		return project.Phase{}, project.ErrPhaseNotFound
	}
	repo.db.phases[ph.ID] = &ph
	return ph, nil
}

func (repo *projectRepository) DeletePhase(projectID, phaseID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if ph, ok := repo.db.phases[phaseID]; ok && ph.ProjectID == projectID {
		delete(repo.db.phases, phaseID)
		return nil
	}
	return project.ErrPhaseNotFound
}

// approvals

func (repo *projectRepository) CreateApproval(al project.ApprovalLine) (project.ApprovalLine, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	al.ID = repo.db.nextPK()
	repo.db.approvals[al.ID] = &al
	return al, nil
}

func (repo *projectRepository) GetApprovalByID(id int) (project.ApprovalLine, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if al, ok := repo.db.approvals[id]; ok {
		return *al, nil
	}
	return project.ApprovalLine{}, project.ErrApprovalNotFound
}

func (repo *projectRepository) QueryApprovals(projectID int) ([]project.ApprovalLine, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var approvals []project.ApprovalLine
	for _, al := range repo.db.approvals {
		if al.ProjectID == projectID {
			approvals = append(approvals, *al)
		}
	}
	sort.Slice(approvals, func(i, j int) bool { return approvals[i].ID < approvals[j].ID })
	return approvals, nil
}

func (repo *projectRepository) QueryPendingApprovals() ([]project.ApprovalLine, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var approvals []project.ApprovalLine
	for _, al := range repo.db.approvals {
		if al.Status == project.ApprovalPending || al.Status == project.ApprovalInReview {
			approvals = append(approvals, *al)
		}
	}
	sort.Slice(approvals, func(i, j int) bool { return approvals[i].ID < approvals[j].ID })
	return approvals, nil
}

func (repo *projectRepository) UpdateApproval(al project.ApprovalLine) (project.ApprovalLine, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.approvals[al.ID]; !ok {
		return project.ApprovalLine{}, project.ErrApprovalNotFound
	}
	repo.db.approvals[al.ID] = &al
	return al, nil
}

// comments

func (repo *projectRepository) CreateComment(c project.Comment) (project.Comment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c.ID = repo.db.nextPK()
	repo.db.comments[c.ID] = &c
	return c, nil
}

func (repo *projectRepository) QueryComments(projectID int) ([]project.Comment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var comments []project.Comment
	for _, c := range repo.db.comments {
		if c.ProjectID == projectID {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (repo *projectRepository) DeleteComment(projectID, commentID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if c, ok := repo.db.comments[commentID]; ok && c.ProjectID == projectID {
		delete(repo.db.comments, commentID)
		return nil
	}
	return project.ErrNotFound
}

// documents

func (repo *projectRepository) CreateDocument(d project.Document) (project.Document, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	d.ID = repo.db.nextPK()
	repo.db.documents[d.ID] = &d
	return d, nil
}

func (repo *projectRepository) QueryDocuments(projectID int) ([]project.Document, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var docs []project.Document
	for _, d := range repo.db.documents {
		if d.ProjectID == projectID {
			docs = append(docs, *d)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// daily progress

func (repo *projectRepository) UpsertDailyProgress(dp project.DailyProgress) (project.DailyProgress, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, cur := range repo.db.progress {
		if cur.ProjectID == dp.ProjectID && cur.Date.Equal(dp.Date) {
			cur.Progress = dp.Progress
			cur.Notes = dp.Notes
			cur.UpdatedAt = dp.UpdatedAt
			return *cur, nil
		}
	}
	dp.ID = repo.db.nextPK()
	repo.db.progress[dp.ID] = &dp
	return dp, nil
}

func (repo *projectRepository) QueryDailyProgress(projectID int) ([]project.DailyProgress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var entries []project.DailyProgress
	for _, dp := range repo.db.progress {
		if dp.ProjectID == projectID {
			entries = append(entries, *dp)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries, nil
}

// checklist

func (repo *projectRepository) CreateChecklistItem(ci project.ChecklistItem) (project.ChecklistItem, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ci.ID = repo.db.nextPK()
	repo.db.checklist[ci.ID] = &ci
	return ci, nil
}

func (repo *projectRepository) GetChecklistItemByID(projectID, itemID int) (project.ChecklistItem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ci, ok := repo.db.checklist[itemID]; ok && ci.ProjectID == projectID {
		return *ci, nil
	}
	return project.ChecklistItem{}, project.ErrItemNotFound
}

func (repo *projectRepository) QueryChecklist(projectID int) ([]project.ChecklistItem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var items []project.ChecklistItem
	for _, ci := range repo.db.checklist {
		if ci.ProjectID == projectID {
			items = append(items, *ci)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (repo *projectRepository) UpdateChecklistItem(ci project.ChecklistItem) (project.ChecklistItem, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.checklist[ci.ID]; !ok {
		return project.ChecklistItem{}, project.ErrItemNotFound
	}
	repo.db.checklist[ci.ID] = &ci
	return ci, nil
}

func (repo *projectRepository) DeleteChecklistItem(projectID, itemID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if ci, ok := repo.db.checklist[itemID]; ok && ci.ProjectID == projectID {
		delete(repo.db.checklist, itemID)
		return nil
	}
	return project.ErrItemNotFound
}
