package project

import (
	"fmt"
	"strconv"
	"time"

	"github.com/parkkwangkil/wbs-project/core"
	"github.com/parkkwangkil/wbs-project/core/schedule"
)

// Statuses
const (
	StatusPlanning   = "planning"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on_hold"
	StatusCancelled  = "cancelled"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// DefaultThemeColor is used when a project carries an unknown theme.
const DefaultThemeColor = "#3B82F6"

var themeColors = map[string]string{
	"blue":   "#3B82F6",
	"green":  "#10B981",
	"purple": "#8B5CF6",
	"red":    "#EF4444",
	"orange": "#F59E0B",
	"teal":   "#14B8A6",
	"pink":   "#EC4899",
	"indigo": "#6366F1",
	"yellow": "#EAB308",
	"gray":   "#6B7280",
	"cyan":   "#06B6D4",
	"lime":   "#84CC16",
}

// ContrastTextColor picks a readable foreground (#111111 or #ffffff)
// for a #RRGGBB background.
func ContrastTextColor(hexColor string) string {
	if len(hexColor) != 7 || hexColor[0] != '#' {
		return "#ffffff"
	}
	r, errR := strconv.ParseInt(hexColor[1:3], 16, 32)
	g, errG := strconv.ParseInt(hexColor[3:5], 16, 32)
	b, errB := strconv.ParseInt(hexColor[5:7], 16, 32)
	if errR != nil || errG != nil || errB != nil {
		return "#ffffff"
	}
	brightness := (299*r + 587*g + 114*b) / 1000
	if brightness > 186 {
		return "#111111"
	}
	return "#ffffff"
}

type Project struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ManagerID     int       `json:"manager_id"`
	LeadID        *int      `json:"lead_id,omitempty"`
	TeamMemberIDs []int     `json:"team_member_ids"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	Budget        *float64  `json:"budget,omitempty"`
	ColorTheme    string    `json:"color_theme"`
	Progress      int       `json:"progress"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// ThemeColor resolves the project's color theme to its hex value.
func (p Project) ThemeColor() string {
	if hex, ok := themeColors[p.ColorTheme]; ok {
		return hex
	}
	return DefaultThemeColor
}

func (p Project) ContrastTextColor() string {
	return ContrastTextColor(p.ThemeColor())
}

// HasMember reports whether the user manages, leads or participates in the project.
func (p Project) HasMember(userID int) bool {
	if p.ManagerID == userID {
		return true
	}
	if p.LeadID != nil && *p.LeadID == userID {
		return true
	}
	for _, id := range p.TeamMemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ScheduleItem converts the project into a calendar bar.
func (p Project) ScheduleItem() schedule.Item {
	return schedule.Item{
		ID:    strconv.Itoa(p.ID),
		Start: schedule.DateOf(p.StartDate),
		End:   schedule.DateOf(p.EndDate),
		Label: p.Title,
		Color: p.ThemeColor(),
		Link:  fmt.Sprintf("/projects/%d", p.ID),
	}
}

type Phase struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Order       int       `json:"order"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// ScheduleItem converts the phase into a bar carrying its project's color.
func (ph Phase) ScheduleItem(color string) schedule.Item {
	return schedule.Item{
		ID:    strconv.Itoa(ph.ID),
		Start: schedule.DateOf(ph.StartDate),
		End:   schedule.DateOf(ph.EndDate),
		Label: ph.Title,
		Color: color,
		Link:  fmt.Sprintf("/projects/%d", ph.ProjectID),
	}
}

// Approval statuses
const (
	ApprovalPending  = "pending"
	ApprovalInReview = "in_review"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type ApprovalLine struct {
	ID         int        `json:"id"`
	ProjectID  int        `json:"project_id"`
	ApproverID int        `json:"approver_id"`
	Status     string     `json:"status"`
	Comment    string     `json:"comment"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"` // UTC
	CreatedAt  time.Time  `json:"created_at"`            // UTC
}

type Comment struct {
	ID        int       `json:"id"`
	ProjectID int       `json:"project_id"`
	AuthorID  int       `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Document is upload metadata only; blob storage is external.
type Document struct {
	ID           int       `json:"id"`
	ProjectID    int       `json:"project_id"`
	Title        string    `json:"title"`
	FileKey      string    `json:"file_key"`
	Description  string    `json:"description"`
	UploadedByID int       `json:"uploaded_by_id"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// DailyProgress is unique per (project, date); saves upsert.
type DailyProgress struct {
	ID        int       `json:"id"`
	ProjectID int       `json:"project_id"`
	Date      time.Time `json:"date"`
	Progress  int       `json:"progress"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type ChecklistItem struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// NewProject contains information needed to create a new Project.
type NewProject struct {
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description"`
	LeadID        *int      `json:"lead_id"`
	TeamMemberIDs []int     `json:"team_member_ids"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	Status        string    `json:"status" validate:"omitempty,oneof=planning in_progress completed on_hold cancelled"`
	Priority      string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Budget        *float64  `json:"budget" validate:"omitempty,gte=0"`
	ColorTheme    string    `json:"color_theme" validate:"omitempty,colortheme"`
}

func (np *NewProject) Validate() error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	if np.Status == "" {
		np.Status = StatusPlanning
	}
	if np.Priority == "" {
		np.Priority = PriorityMedium
	}
	if np.ColorTheme == "" {
		np.ColorTheme = "blue"
	}
	return core.Validate.Struct(np)
}

// UpdateProject defines what information may be provided to modify an existing Project.
type UpdateProject struct {
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	LeadID        *int       `json:"lead_id"`
	TeamMemberIDs []int      `json:"team_member_ids"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Status        string     `json:"status" validate:"omitempty,oneof=planning in_progress completed on_hold cancelled"`
	Priority      string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Budget        *float64   `json:"budget" validate:"omitempty,gte=0"`
	ColorTheme    string     `json:"color_theme" validate:"omitempty,colortheme"`
	Progress      *int       `json:"progress" validate:"omitempty,gte=0,lte=100"`
}

func (up *UpdateProject) Validate(orig Project) error {
	up.Title = core.CleanString(up.Title)
	if up.Title == "" {
		up.Title = orig.Title
	}
	if err := core.Validate.Struct(up); err != nil {
		return err
	}

	start, end := orig.StartDate, orig.EndDate
	if up.StartDate != nil {
		start = *up.StartDate
	}
	if up.EndDate != nil {
		end = *up.EndDate
	}
	if end.Before(start) {
		return core.NewValidationError(nil, core.FieldError{Field: "end_date", Error: "end date precedes start date"})
	}
	return nil
}

type NewPhase struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	Order       int       `json:"order" validate:"gte=0"`
}

func (np *NewPhase) Validate() error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	return core.Validate.Struct(np)
}

type NewComment struct {
	Content string `json:"content" validate:"required"`
}

func (nc *NewComment) Validate() error {
	nc.Content = core.CleanString(nc.Content)
	return core.Validate.Struct(nc)
}

type NewDocument struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func (nd *NewDocument) Validate() error {
	nd.Title = core.CleanString(nd.Title)
	return core.Validate.Struct(nd)
}

type NewChecklistItem struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"gte=0"`
}

func (ni *NewChecklistItem) Validate() error {
	ni.Title = core.CleanString(ni.Title)
	return core.Validate.Struct(ni)
}

type SaveDailyProgress struct {
	Date     time.Time `json:"date" validate:"required"`
	Progress int       `json:"progress" validate:"gte=0,lte=100"`
	Notes    string    `json:"notes"`
}

func (sp *SaveDailyProgress) Validate() error {
	sp.Notes = core.CleanString(sp.Notes)
	return core.Validate.Struct(sp)
}
