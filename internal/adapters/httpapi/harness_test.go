package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	memclock "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/clock"
	memannouncementrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/announcementrepo"
	memdietplanrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/dietplanrepo"
	memidempotency "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/memberrepo"
	memplanrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/planrepo"
	memvideorepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/videorepo"
	"github.com/unique-fitness/gym-admin-api/internal/app/announcements"
	"github.com/unique-fitness/gym-admin-api/internal/app/dashboard"
	"github.com/unique-fitness/gym-admin-api/internal/app/dietplans"
	"github.com/unique-fitness/gym-admin-api/internal/app/members"
	"github.com/unique-fitness/gym-admin-api/internal/app/plans"
	"github.com/unique-fitness/gym-admin-api/internal/app/workouts"
	"github.com/unique-fitness/gym-admin-api/internal/platform/auth/jwtverifier"
	"github.com/unique-fitness/gym-admin-api/internal/platform/config"
)

var testJWT = config.JWTConfig{
	Secret:   "0123456789abcdef0123456789abcdef",
	Issuer:   "test-iss",
	Audience: "test-aud",
}

// tokenTime is the wall time the verifier sees; it is independent of the gym clock.
var tokenTime = time.Unix(1700000000, 0)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type testAPI struct {
	h     http.Handler
	clk   *memclock.ManualClock
	authz string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	memberRepo := memmemberrepo.NewRepo()
	planRepo := memplanrepo.NewRepo()

	memberSvc := members.NewService(memberRepo, planRepo, clk)
	memberSvc.BcryptCost = bcrypt.MinCost

	api := &Server{
		Members:       memberSvc,
		Dashboard:     dashboard.NewService(memberRepo, clk),
		Plans:         plans.NewService(planRepo, memberRepo, clk),
		Announcements: announcements.NewService(memannouncementrepo.NewRepo(), clk),
		DietPlans:     dietplans.NewService(memdietplanrepo.NewRepo()),
		Workouts:      workouts.NewService(memvideorepo.NewRepo()),
		Idem:          memidempotency.NewStore(),
	}

	v := jwtverifier.NewWithOptions(testJWT, fixedClock{t: tokenTime})
	h := NewRouterWithOptions(api, RouterOptions{AuthMiddleware: NewAuthMiddleware(v)})

	tok, err := jwtverifier.Mint(testJWT, "staff-1", tokenTime, 10*time.Minute)
	require.NoError(t, err)

	return &testAPI{h: h, clk: clk, authz: "Bearer " + tok}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Authorization", a.authz)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		Details   map[string]any `json:"details"`
		RequestID *string        `json:"requestId"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	requireStatus(t, rec, status)
	env := decode[json.RawMessage](t, rec)
	require.False(t, env.Success)
	require.Equal(t, code, env.Error.Code)
}

func createMember(t *testing.T, a *testAPI, name, email, username string) memberDTO {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/members", map[string]any{
		"fullName": name,
		"username": username,
		"email":    email,
		"password": "secret1",
		"phone":    "9876543210",
		"branch":   "b1",
		"purpose":  "gain",
	})
	requireStatus(t, rec, http.StatusCreated)
	return decode[memberDTO](t, rec).Data
}

func createPlan(t *testing.T, a *testAPI, name string, months int) planDTO {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/plans", map[string]any{
		"name":     name,
		"price":    1500,
		"duration": months,
	})
	requireStatus(t, rec, http.StatusCreated)
	return decode[planDTO](t, rec).Data
}
