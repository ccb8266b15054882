package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/parkkwangkil/wbs-project/apps/api/echo"
	"github.com/parkkwangkil/wbs-project/core/ads"
	"github.com/parkkwangkil/wbs-project/core/user"
)

func createCampaign(t *testing.T, name, position string, isActive bool, start, end time.Time) ads.Campaign {
	t.Helper()

	c, err := adsRepo.CreateCampaign(ads.Campaign{
		Name:      name,
		ImageURL:  "https://cdn.test.cd/" + name + ".png",
		LinkURL:   "https://test.cd/" + name,
		Position:  position,
		StartDate: start,
		EndDate:   end,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateCampaign(): %v", err)
	}
	return c
}

func Test_adsApi_manage(t *testing.T) {
	resetDB(t)

	member := createUser(t, "Hero", "heroic", "hero@test.cd", "", user.MemberRoles, true)
	admin := createUser(t, "Admin", "admin01", "admin@test.cd", "", user.AdminRoles, true)
	adminToken := getToken(t, admin)

	t.Run("admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/ads", getToken(t, member))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("create validates URLs", func(t *testing.T) {
		body := marshallObj(t, ads.NewCampaign{
			Name: "Spring sale", ImageURL: "lol", LinkURL: "nope", Position: ads.PositionBanner,
			StartDate: time.Now(), EndDate: time.Now().AddDate(0, 0, 7),
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/ads", adminToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "image_url")
		assert.Contains(t, rec.Body.String(), "link_url")
	})

	t.Run("create and toggle", func(t *testing.T) {
		body := marshallObj(t, ads.NewCampaign{
			Name:      "Spring sale",
			ImageURL:  "https://cdn.test.cd/spring.png",
			LinkURL:   "https://test.cd/spring",
			Position:  ads.PositionBanner,
			StartDate: time.Now().UTC(),
			EndDate:   time.Now().UTC().AddDate(0, 0, 7),
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/ads", adminToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var c ads.Campaign
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
		assert.True(t, c.IsActive)

		req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/ads/%d/toggle", c.ID), adminToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
		assert.False(t, c.IsActive)
	})
}

func Test_adsApi_serveAndClick(t *testing.T) {
	resetDB(t)

	member := createUser(t, "Hero", "heroic", "hero@test.cd", "", user.MemberRoles, true)
	token := getToken(t, member)

	now := time.Now().UTC()
	running1 := createCampaign(t, "one", ads.PositionBanner, true, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	running2 := createCampaign(t, "two", ads.PositionBanner, true, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	createCampaign(t, "paused", ads.PositionBanner, false, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	createCampaign(t, "expired", ads.PositionBanner, true, now.AddDate(0, 0, -10), now.AddDate(0, 0, -5))
	createCampaign(t, "side", ads.PositionSidebar, true, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))

	t.Run("serve filters to running campaigns", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/ads/serve/banner", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var served []ads.Campaign
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &served))
		require.Len(t, served, 2)
		ids := []int{served[0].ID, served[1].ID}
		assert.ElementsMatch(t, []int{running1.ID, running2.ID}, ids)

		// impressions were recorded
		for _, id := range ids {
			c, err := adsRepo.GetCampaignByID(id)
			require.NoError(t, err)
			assert.Equal(t, 1, c.Impressions)
		}
	})

	t.Run("serve empty position", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/ads/serve/footer", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallList(t)}, rec)
	})

	t.Run("click returns link and counts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/ads/%d/click", running1.ID), token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marshallObj(t, echoapi.ClickResponse{LinkURL: running1.LinkURL}),
		}, rec)

		c, err := adsRepo.GetCampaignByID(running1.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Clicks)
	})

	t.Run("click unknown campaign", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/ads/999/click", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		}, rec)
	})
}
