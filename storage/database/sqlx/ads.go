package sqlxrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/parkkwangkil/wbs-project/core/ads"
)

type adsRepository struct {
	db *sqlx.DB
}

var _ ads.Repository = (*adsRepository)(nil)

func NewAdsRepository(db *sqlx.DB) *adsRepository {
	return &adsRepository{db: db}
}

type campaignRow struct {
	ID          int       `db:"id"`
	Name        string    `db:"name"`
	ImageURL    string    `db:"image_url"`
	LinkURL     string    `db:"link_url"`
	Position    string    `db:"position"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	IsActive    bool      `db:"is_active"`
	Impressions int       `db:"impressions"`
	Clicks      int       `db:"clicks"`
	CreatedAt   time.Time `db:"created_at"`
}

func toCampaigns(rows []campaignRow) []ads.Campaign {
	campaigns := make([]ads.Campaign, 0, len(rows))
	for _, r := range rows {
		campaigns = append(campaigns, ads.Campaign(r))
	}
	return campaigns
}

func (repo *adsRepository) CreateCampaign(c ads.Campaign) (ads.Campaign, error) {
	query := `
		INSERT INTO ad_campaign (name, image_url, link_url, position, start_date, end_date, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := repo.db.QueryRow(
		query,
		c.Name, c.ImageURL, c.LinkURL, c.Position, c.StartDate, c.EndDate, c.IsActive, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return ads.Campaign{}, errors.Wrap(err, "inserting campaign")
	}
	return c, nil
}

func (repo *adsRepository) GetCampaignByID(id int) (ads.Campaign, error) {
	var r campaignRow
	if err := repo.db.Get(&r, `SELECT * FROM ad_campaign WHERE id = $1`, id); err != nil {
		return ads.Campaign{}, trapNoRowsErr(err, ads.ErrNotFound, "finding campaign by ID")
	}
	return ads.Campaign(r), nil
}

func (repo *adsRepository) QueryAllCampaigns() ([]ads.Campaign, error) {
	var rows []campaignRow
	if err := repo.db.Select(&rows, `SELECT * FROM ad_campaign ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying campaigns")
	}
	return toCampaigns(rows), nil
}

func (repo *adsRepository) QueryCampaignsByPosition(position string) ([]ads.Campaign, error) {
	var rows []campaignRow
	if err := repo.db.Select(&rows, `SELECT * FROM ad_campaign WHERE position = $1 ORDER BY id`, position); err != nil {
		return nil, errors.Wrap(err, "querying campaigns by position")
	}
	return toCampaigns(rows), nil
}

func (repo *adsRepository) UpdateCampaign(c ads.Campaign) (ads.Campaign, error) {
	query := `
		UPDATE ad_campaign
		SET name = $1, image_url = $2, link_url = $3, position = $4, start_date = $5, end_date = $6, is_active = $7
		WHERE id = $8`
	res, err := repo.db.Exec(query, c.Name, c.ImageURL, c.LinkURL, c.Position, c.StartDate, c.EndDate, c.IsActive, c.ID)
	if err != nil {
		return ads.Campaign{}, errors.Wrap(err, "updating campaign")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ads.Campaign{}, ads.ErrNotFound
	}
	return c, nil
}

func (repo *adsRepository) RecordImpressions(ids ...int) error {
	arr := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, int64(id))
	}
	if _, err := repo.db.Exec(`UPDATE ad_campaign SET impressions = impressions + 1 WHERE id = ANY($1)`, arr); err != nil {
		return errors.Wrap(err, "recording impressions")
	}
	return nil
}

func (repo *adsRepository) RecordClick(id int) error {
	res, err := repo.db.Exec(`UPDATE ad_campaign SET clicks = clicks + 1 WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "recording click")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ads.ErrNotFound
	}
	return nil
}
