package ads

import (
	"time"

	"github.com/parkkwangkil/wbs-project/core"
)

// Placement positions
const (
	PositionBanner  = "banner"
	PositionSidebar = "sidebar"
	PositionFooter  = "footer"
)

type Campaign struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	LinkURL     string    `json:"link_url"`
	Position    string    `json:"position"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
	Impressions int       `json:"impressions"`
	Clicks      int       `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// IsRunning reports whether the campaign is active and within its flight dates.
func (c Campaign) IsRunning(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// NewCampaign contains information needed to create a new Campaign.
type NewCampaign struct {
	Name      string    `json:"name" validate:"required"`
	ImageURL  string    `json:"image_url" validate:"required,url"`
	LinkURL   string    `json:"link_url" validate:"required,url"`
	Position  string    `json:"position" validate:"required,oneof=banner sidebar footer"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

func (nc *NewCampaign) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}
