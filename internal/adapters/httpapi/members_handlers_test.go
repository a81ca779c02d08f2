package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembers_CreateThenGet_NewMemberIsInactive(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	m := createMember(t, a, "  Asha   Rao ", "asha@example.com", "asha")

	assert.Equal(t, "Asha Rao", m.FullName)
	assert.Nil(t, m.Membership)
	assert.Equal(t, "inactive", m.DerivedStatus.Status)
	assert.Equal(t, "Inactive", m.DerivedStatus.Label)
	assert.True(t, m.DerivedStatus.DaysRemaining.IsNull())

	rec := a.do(t, http.MethodGet, "/api/v1/members/"+m.ID, nil)
	requireStatus(t, rec, http.StatusOK)
	got := decode[memberDTO](t, rec)
	assert.True(t, got.Success)
	assert.Equal(t, m.ID, got.Data.ID)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestMembers_Get_UnknownIs404(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	requireErrorCode(t, a.do(t, http.MethodGet, "/api/v1/members/nope", nil), http.StatusNotFound, "MEMBER_NOT_FOUND")
}

func TestMembers_Create_ValidationAndConflicts(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	createMember(t, a, "Asha Rao", "asha@example.com", "asha")

	rec := a.do(t, http.MethodPost, "/api/v1/members", map[string]any{
		"fullName": "Short Pass",
		"username": "short",
		"email":    "short@example.com",
		"password": "123",
		"phone":    "1",
		"branch":   "b1",
		"purpose":  "gain",
	})
	requireErrorCode(t, rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	assert.Contains(t, decode[json.RawMessage](t, rec).Error.Details, "password")

	rec = a.do(t, http.MethodPost, "/api/v1/members", map[string]any{
		"fullName": "Asha Two",
		"username": "asha2",
		"email":    "ASHA@example.com",
		"password": "secret1",
		"phone":    "1",
		"branch":   "b2",
		"purpose":  "maintain",
	})
	requireErrorCode(t, rec, http.StatusConflict, "EMAIL_ALREADY_IN_USE")

	rec = a.do(t, http.MethodPost, "/api/v1/members", map[string]any{
		"fullName": "Asha Three",
		"username": "Asha",
		"email":    "asha3@example.com",
		"password": "secret1",
		"phone":    "1",
		"branch":   "b2",
		"purpose":  "maintain",
	})
	requireErrorCode(t, rec, http.StatusConflict, "USERNAME_ALREADY_IN_USE")
}

func TestMembers_Create_IdempotentReplayAndConflictOnReuse(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	body := `{"fullName":"Ravi K","username":"ravi","email":"ravi@example.com","password":"secret1","phone":"1","branch":"b1","purpose":"loose"}`

	first := a.do(t, http.MethodPost, "/api/v1/members", body, "Idempotency-Key", "k-1")
	requireStatus(t, first, http.StatusCreated)

	replay := a.do(t, http.MethodPost, "/api/v1/members", body, "Idempotency-Key", "k-1")
	requireStatus(t, replay, http.StatusCreated)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())

	other := `{"fullName":"Ravi K","username":"ravi2","email":"ravi2@example.com","password":"secret1","phone":"1","branch":"b1","purpose":"loose"}`
	requireErrorCode(t, a.do(t, http.MethodPost, "/api/v1/members", other, "Idempotency-Key", "k-1"), http.StatusConflict, "IDEMPOTENCY_KEY_REUSE")

	// Without a key the same body is a genuine second create and collides on email.
	requireErrorCode(t, a.do(t, http.MethodPost, "/api/v1/members", body), http.StatusConflict, "EMAIL_ALREADY_IN_USE")

	list := decode[[]memberDTO](t, a.do(t, http.MethodGet, "/api/v1/members", nil))
	assert.Len(t, list.Data, 1)
}

func TestMembers_Update_PatchSemantics(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	m := createMember(t, a, "Asha Rao", "asha@example.com", "asha")

	rec := a.do(t, http.MethodPatch, "/api/v1/members/"+m.ID, `{"address":"12 MG Road","heightFt":5.6,"dob":"1995-04-12","workoutSchedule":{"Monday":["chest","tricepts"]}}`)
	requireStatus(t, rec, http.StatusOK)
	got := decode[memberDTO](t, rec).Data
	assert.Equal(t, "12 MG Road", got.Address)
	require.NotNil(t, got.HeightFt)
	assert.InDelta(t, 5.6, *got.HeightFt, 0.0001)
	dob, err := got.DOB.Get()
	require.NoError(t, err)
	assert.Equal(t, "1995-04-12", dob.Format(time.DateOnly))
	assert.Equal(t, []string{"chest", "tricepts"}, got.WorkoutSchedule["monday"])

	rec = a.do(t, http.MethodPatch, "/api/v1/members/"+m.ID, `{"heightFt":null,"dob":null}`)
	requireStatus(t, rec, http.StatusOK)
	got = decode[memberDTO](t, rec).Data
	assert.Nil(t, got.HeightFt)
	assert.True(t, got.DOB.IsNull())
	assert.Equal(t, "12 MG Road", got.Address)

	requireErrorCode(t, a.do(t, http.MethodPatch, "/api/v1/members/"+m.ID, `{"fullName":null}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	requireErrorCode(t, a.do(t, http.MethodPatch, "/api/v1/members/"+m.ID, `{"nickname":"x"}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestMembers_Update_LegacyStatusFallback(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	m := createMember(t, a, "Asha Rao", "asha@example.com", "asha")

	rec := a.do(t, http.MethodPatch, "/api/v1/members/"+m.ID, `{"membershipStatus":"active"}`)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "active", decode[memberDTO](t, rec).Data.DerivedStatus.Status)
}

func TestMembers_AssignPlan_DerivesStatusAndFollowsClock(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	m := createMember(t, a, "Asha Rao", "asha@example.com", "asha")
	p := createPlan(t, a, "Monthly", 1)

	rec := a.do(t, http.MethodPost, "/api/v1/members/"+m.ID+"/membership", map[string]any{
		"planId":    p.ID,
		"startDate": "2025-01-01",
	}, "Idempotency-Key", "assign-1")
	requireStatus(t, rec, http.StatusOK)
	got := decode[memberDTO](t, rec).Data
	require.NotNil(t, got.Membership)
	require.NotNil(t, got.Membership.EndDate)
	assert.Equal(t, "2025-02-01", *got.Membership.EndDate)
	assert.Equal(t, "active", got.DerivedStatus.Status)
	days, err := got.DerivedStatus.DaysRemaining.Get()
	require.NoError(t, err)
	assert.Equal(t, 31, days)

	a.clk.Set(time.Date(2025, 1, 28, 8, 0, 0, 0, time.UTC))
	got = decode[memberDTO](t, a.do(t, http.MethodGet, "/api/v1/members/"+m.ID, nil)).Data
	assert.Equal(t, "expiring", got.DerivedStatus.Status)
	assert.Equal(t, "Expiring Soon · 4 day(s) left", got.DerivedStatus.Label)

	a.clk.Set(time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC))
	got = decode[memberDTO](t, a.do(t, http.MethodGet, "/api/v1/members/"+m.ID, nil)).Data
	assert.Equal(t, "expired", got.DerivedStatus.Status)
	days, err = got.DerivedStatus.DaysRemaining.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, days)

	expired := decode[[]memberDTO](t, a.do(t, http.MethodGet, "/api/v1/members?status=expired", nil))
	require.Len(t, expired.Data, 1)
	assert.Equal(t, m.ID, expired.Data[0].ID)
	active := decode[[]memberDTO](t, a.do(t, http.MethodGet, "/api/v1/members?status=active", nil))
	assert.Empty(t, active.Data)
}

func TestMembers_AssignPlan_Errors(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	m := createMember(t, a, "Asha Rao", "asha@example.com", "asha")

	requireErrorCode(t, a.do(t, http.MethodPost, "/api/v1/members/"+m.ID+"/membership", `{"planId":"00000000-0000-0000-0000-000000000000"}`), http.StatusNotFound, "PLAN_NOT_FOUND")

	rec := a.do(t, http.MethodPost, "/api/v1/plans", `{"name":"Retired","price":900,"duration":3,"status":"inactive"}`)
	requireStatus(t, rec, http.StatusCreated)
	retired := decode[planDTO](t, rec).Data
	requireErrorCode(t, a.do(t, http.MethodPost, "/api/v1/members/"+m.ID+"/membership", map[string]any{"planId": retired.ID}), http.StatusUnprocessableEntity, "PLAN_INACTIVE")

	requireErrorCode(t, a.do(t, http.MethodPost, "/api/v1/members/"+m.ID+"/membership", `{}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestMembers_ListFiltersAndInvalidStatus(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	createMember(t, a, "Asha Rao", "asha@example.com", "asha")
	createMember(t, a, "Bala Iyer", "bala@example.com", "bala")

	byQuery := decode[[]memberDTO](t, a.do(t, http.MethodGet, "/api/v1/members?q=BALA", nil))
	require.Len(t, byQuery.Data, 1)
	assert.Equal(t, "Bala Iyer", byQuery.Data[0].FullName)

	all := decode[[]memberDTO](t, a.do(t, http.MethodGet, "/api/v1/members?status=all", nil))
	assert.Len(t, all.Data, 2)

	requireErrorCode(t, a.do(t, http.MethodGet, "/api/v1/members?status=frozen", nil), http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestMembers_RecordWeightAndDelete(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	m := createMember(t, a, "Asha Rao", "asha@example.com", "asha")

	rec := a.do(t, http.MethodPost, "/api/v1/members/"+m.ID+"/weights", `{"weightKg":71.5,"date":"2024-12-20"}`)
	requireStatus(t, rec, http.StatusCreated)
	rec = a.do(t, http.MethodPost, "/api/v1/members/"+m.ID+"/weights", `{"weightKg":70.0}`)
	requireStatus(t, rec, http.StatusCreated)
	got := decode[memberDTO](t, rec).Data
	require.Len(t, got.WeightHistory, 2)
	assert.Equal(t, "2024-12-20", got.WeightHistory[0].Date.Format(time.DateOnly))
	assert.Equal(t, "2025-01-01", got.WeightHistory[1].Date.Format(time.DateOnly))
	require.NotNil(t, got.WeightKg)
	assert.InDelta(t, 70.0, *got.WeightKg, 0.0001)

	requireErrorCode(t, a.do(t, http.MethodPost, "/api/v1/members/"+m.ID+"/weights", `{"weightKg":0}`), http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	requireStatus(t, a.do(t, http.MethodDelete, "/api/v1/members/"+m.ID, nil), http.StatusNoContent)
	requireErrorCode(t, a.do(t, http.MethodDelete, "/api/v1/members/"+m.ID, nil), http.StatusNotFound, "MEMBER_NOT_FOUND")
}
