package ads

import (
	"errors"
	"math/rand"
	"time"
)

var ErrNotFound = errors.New("campaign not found")

// maxPerPosition caps how many campaigns a single placement serves.
const maxPerPosition = 3

// NowFunc facilitates testing.
var NowFunc = time.Now

type (
	Repository interface {
		CreateCampaign(c Campaign) (Campaign, error)
		GetCampaignByID(id int) (Campaign, error)
		QueryAllCampaigns() ([]Campaign, error)
		QueryCampaignsByPosition(position string) ([]Campaign, error)
		UpdateCampaign(c Campaign) (Campaign, error)
		// RecordImpressions increments the impression counter of each campaign.
		RecordImpressions(ids ...int) error
		RecordClick(id int) error
	}

	Service interface {
		Create(nc NewCampaign) (Campaign, error)
		QueryAll() ([]Campaign, error)
		// ForPosition picks up to three running campaigns for the placement
		// at random and records an impression for each.
		ForPosition(position string) ([]Campaign, error)
		// Click records a click and returns the campaign's link URL.
		Click(id int) (string, error)
		Toggle(id int) (Campaign, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(nc NewCampaign) (Campaign, error) {
	return svc.repo.CreateCampaign(Campaign{
		Name:      nc.Name,
		ImageURL:  nc.ImageURL,
		LinkURL:   nc.LinkURL,
		Position:  nc.Position,
		StartDate: nc.StartDate,
		EndDate:   nc.EndDate,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *service) QueryAll() ([]Campaign, error) {
	return svc.repo.QueryAllCampaigns()
}

func (svc *service) ForPosition(position string) ([]Campaign, error) {
	campaigns, err := svc.repo.QueryCampaignsByPosition(position)
	if err != nil {
		return nil, err
	}
	now := NowFunc().UTC()
	running := campaigns[:0]
	for _, c := range campaigns {
		if c.IsRunning(now) {
			running = append(running, c)
		}
	}
	// the top-level source is locked, so concurrent serves are safe
	rand.Shuffle(len(running), func(i, j int) {
		running[i], running[j] = running[j], running[i]
	})
	if len(running) > maxPerPosition {
		running = running[:maxPerPosition]
	}

	ids := make([]int, len(running))
	for i, c := range running {
		ids[i] = c.ID
	}
	if len(ids) > 0 {
		if err := svc.repo.RecordImpressions(ids...); err != nil {
			return nil, err
		}
	}
	return running, nil
}

func (svc *service) Click(id int) (string, error) {
	c, err := svc.repo.GetCampaignByID(id)
	if err != nil {
		return "", err
	}
	if err := svc.repo.RecordClick(id); err != nil {
		return "", err
	}
	return c.LinkURL, nil
}

func (svc *service) Toggle(id int) (Campaign, error) {
	c, err := svc.repo.GetCampaignByID(id)
	if err != nil {
		return Campaign{}, err
	}
	c.IsActive = !c.IsActive
	return svc.repo.UpdateCampaign(c)
}
