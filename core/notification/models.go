package notification

import "time"

// Notification types
const (
	TypeApprovalRequest  = "approval_request"
	TypeApprovalApproved = "approval_approved"
	TypeApprovalRejected = "approval_rejected"
	TypeCommentAdded     = "comment_added"
	TypeProjectUpdated   = "project_updated"
	TypeSystem           = "system"
)

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"notification_type"`
	ProjectID *int      `json:"project_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
