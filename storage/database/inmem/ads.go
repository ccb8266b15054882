package inmemdb

import (
	"sort"

	"github.com/parkkwangkil/wbs-project/core/ads"
)

type adsRepository struct {
	db *adsTable
}

var _ ads.Repository = (*adsRepository)(nil)

func NewAdsRepository(db *DB) *adsRepository {
	return &adsRepository{db: db.ads}
}

func (repo *adsRepository) query() []ads.Campaign {
	campaigns := make([]ads.Campaign, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		campaigns = append(campaigns, *c)
	}
	sort.Slice(campaigns, func(i, j int) bool { return campaigns[i].ID < campaigns[j].ID })
	return campaigns
}

func (repo *adsRepository) CreateCampaign(c ads.Campaign) (ads.Campaign, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pkCount++
	c.ID = repo.db.pkCount
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *adsRepository) GetCampaignByID(id int) (ads.Campaign, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return ads.Campaign{}, ads.ErrNotFound
}

func (repo *adsRepository) QueryAllCampaigns() ([]ads.Campaign, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *adsRepository) QueryCampaignsByPosition(position string) ([]ads.Campaign, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var campaigns []ads.Campaign
	for _, c := range repo.query() {
		if c.Position == position {
			campaigns = append(campaigns, c)
		}
	}
	return campaigns, nil
}

func (repo *adsRepository) UpdateCampaign(c ads.Campaign) (ads.Campaign, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[c.ID]; !ok {
		return ads.Campaign{}, ads.ErrNotFound
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *adsRepository) RecordImpressions(ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		if c, ok := repo.db.table[id]; ok {
			c.Impressions++
		}
	}
	return nil
}

func (repo *adsRepository) RecordClick(id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c, ok := repo.db.table[id]
	if !ok {
		return ads.ErrNotFound
	}
	c.Clicks++
	return nil
}
