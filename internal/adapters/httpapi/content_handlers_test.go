package httpapi

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnouncements_NewestFirstWithRenderedMarkdown(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	requireStatus(t, a.do(t, http.MethodPost, "/api/v1/announcements", map[string]any{
		"title":       "Holiday hours",
		"content":     "Closed on **Diwali**.",
		"publishDate": "2024-10-20T09:00:00Z",
	}), http.StatusCreated)
	rec := a.do(t, http.MethodPost, "/api/v1/announcements", map[string]any{
		"title":   "New  yoga batch",
		"content": "Starts Monday <script>alert(1)</script>",
	})
	requireStatus(t, rec, http.StatusCreated)
	yoga := decode[announcementDTO](t, rec).Data
	assert.Equal(t, "New yoga batch", yoga.Title)
	assert.NotContains(t, yoga.ContentHTML, "<script>")

	list := decode[[]announcementDTO](t, a.do(t, http.MethodGet, "/api/v1/announcements", nil)).Data
	require.Len(t, list, 2)
	assert.Equal(t, yoga.ID, list[0].ID)
	assert.Contains(t, list[1].ContentHTML, "<strong>Diwali</strong>")

	rec = a.do(t, http.MethodPut, "/api/v1/announcements/"+yoga.ID, map[string]any{"title": "Yoga batch", "content": "Starts Tuesday"})
	requireStatus(t, rec, http.StatusOK)
	updated := decode[announcementDTO](t, rec).Data
	assert.Equal(t, "Starts Tuesday", updated.Content)
	assert.True(t, updated.PublishDate.Equal(yoga.PublishDate))

	requireErrorCode(t, a.do(t, http.MethodPost, "/api/v1/announcements", `{"title":"x","content":""}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	requireStatus(t, a.do(t, http.MethodDelete, "/api/v1/announcements/"+yoga.ID, nil), http.StatusNoContent)
	requireErrorCode(t, a.do(t, http.MethodDelete, "/api/v1/announcements/"+yoga.ID, nil), http.StatusNotFound, "ANNOUNCEMENT_NOT_FOUND")
}

func TestDietPlans_MergeFilterAndDeleteCategory(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	add := func(category, at, items string) dietPlanDTO {
		t.Helper()
		rec := a.do(t, http.MethodPost, "/api/v1/diet-plans", map[string]any{
			"purpose":  "Weight Loss",
			"category": category,
			"meals": []map[string]any{{
				"time":      at,
				"items":     items,
				"nutrition": map[string]any{"calories": "300", "protein": "20g", "carbs": "30g", "fat": "8g"},
			}},
		})
		requireStatus(t, rec, http.StatusCreated)
		return decode[dietPlanDTO](t, rec).Data
	}

	add("Vegan", "07:00", "Oats")
	add("Vegan", "13:00", "Dal and rice")
	plan := add("Vegetarian", "08:00", "Poha")
	require.Len(t, plan.Categories, 2)
	assert.Len(t, plan.Categories[0].Meals, 2)
	assert.Equal(t, "20g", plan.Categories[0].Meals[0].Nutrition.Protein)

	filtered := decode[[]dietPlanDTO](t, a.do(t, http.MethodGet, "/api/v1/diet-plans?purpose="+url.QueryEscape("Weight Loss")+"&category=Vegetarian", nil)).Data
	require.Len(t, filtered, 1)
	require.Len(t, filtered[0].Categories, 1)
	assert.Equal(t, "Vegetarian", filtered[0].Categories[0].Category)

	requireErrorCode(t, a.do(t, http.MethodGet, "/api/v1/diet-plans?category=Keto", nil), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	requireErrorCode(t, a.do(t, http.MethodPost, "/api/v1/diet-plans", `{"purpose":"Weight Loss","category":"Vegan","meals":[]}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	lossPath := "/api/v1/diet-plans/" + url.PathEscape("Weight Loss")
	requireStatus(t, a.do(t, http.MethodDelete, lossPath+"/Vegan", nil), http.StatusNoContent)
	requireStatus(t, a.do(t, http.MethodDelete, lossPath+"/Vegetarian", nil), http.StatusNoContent)
	assert.Empty(t, decode[[]dietPlanDTO](t, a.do(t, http.MethodGet, "/api/v1/diet-plans", nil)).Data)
	requireErrorCode(t, a.do(t, http.MethodDelete, lossPath+"/Vegan", nil), http.StatusNotFound, "DIET_PLAN_NOT_FOUND")
}

func TestWorkoutVideos_AddReplaceRemove(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	const first, second = "https://youtu.be/bench", "https://youtu.be/incline"

	rec := a.do(t, http.MethodPost, "/api/v1/workout/video/Chest", map[string]any{"link": first})
	requireStatus(t, rec, http.StatusCreated)
	requireStatus(t, a.do(t, http.MethodPost, "/api/v1/workout/video/chest", map[string]any{"link": first}), http.StatusCreated)
	mv := decode[muscleVideosDTO](t, rec).Data
	assert.Equal(t, "chest", mv.Muscle)
	assert.Equal(t, []string{first}, mv.Links)

	rec = a.do(t, http.MethodPut, "/api/v1/workout/video/chest", map[string]any{"oldLink": first, "newLink": second})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, []string{second}, decode[muscleVideosDTO](t, rec).Data.Links)

	all := decode[[]muscleVideosDTO](t, a.do(t, http.MethodGet, "/api/v1/workout/video", nil)).Data
	require.NotEmpty(t, all)
	assert.Equal(t, "chest", all[0].Muscle)
	assert.Equal(t, []string{}, all[1].Links)

	requireErrorCode(t, a.do(t, http.MethodPost, "/api/v1/workout/video/neck", map[string]any{"link": first}), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	requireErrorCode(t, a.do(t, http.MethodPost, "/api/v1/workout/video/chest", map[string]any{"link": "not a url"}), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	requireErrorCode(t, a.do(t, http.MethodDelete, "/api/v1/workout/video/chest", nil), http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	rec = a.do(t, http.MethodDelete, "/api/v1/workout/video/chest?link="+url.QueryEscape(second), nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Empty(t, decode[muscleVideosDTO](t, rec).Data.Links)
	requireErrorCode(t, a.do(t, http.MethodDelete, "/api/v1/workout/video/chest?link="+url.QueryEscape(second), nil), http.StatusNotFound, "VIDEO_NOT_FOUND")
}

func TestDashboard_StatsAndExpiringList(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	monthly := createPlan(t, a, "Monthly", 1)
	yearly := createPlan(t, a, "Yearly", 12)

	assign := func(m memberDTO, planID, start string) {
		t.Helper()
		requireStatus(t, a.do(t, http.MethodPost, "/api/v1/members/"+m.ID+"/membership", map[string]any{"planId": planID, "startDate": start}), http.StatusOK)
	}
	// today is 2025-01-01
	assign(createMember(t, a, "Zoya Expiring", "z@example.com", "zoya"), monthly.ID, "2024-12-05") // ends 2025-01-05
	assign(createMember(t, a, "Anil Expiring", "an@example.com", "anil"), monthly.ID, "2024-12-05")
	assign(createMember(t, a, "Bina Soon", "b@example.com", "bina"), monthly.ID, "2024-12-03") // ends 2025-01-03
	assign(createMember(t, a, "Chetan Active", "c@example.com", "chetan"), yearly.ID, "2024-06-01")
	assign(createMember(t, a, "Dev Expired", "d@example.com", "dev"), monthly.ID, "2024-10-01")
	createMember(t, a, "Esha New", "e@example.com", "esha")

	rec := a.do(t, http.MethodGet, "/api/v1/dashboard/stats", nil)
	requireStatus(t, rec, http.StatusOK)
	st := decode[dashboardStatsDTO](t, rec).Data
	assert.Equal(t, dashboardStatsDTO{Total: 6, Active: 1, Expired: 1, Expiring: 3, Inactive: 1, AsOf: st.AsOf}, st)
	assert.Equal(t, "2025-01-01", st.AsOf.Format(time.DateOnly))

	exp := decode[[]expiringMemberDTO](t, a.do(t, http.MethodGet, "/api/v1/dashboard/expiring", nil)).Data
	require.Len(t, exp, 3)
	assert.Equal(t, "Bina Soon", exp[0].FullName)
	assert.Equal(t, 2, exp[0].DaysRemaining)
	assert.Equal(t, "Anil Expiring", exp[1].FullName)
	assert.Equal(t, "Zoya Expiring", exp[2].FullName)
	require.NotNil(t, exp[2].EndDate)
	assert.Equal(t, "2025-01-05", *exp[2].EndDate)
}
