package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/unique-fitness/gym-admin-api/internal/platform/auth/jwtverifier"
)

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	rec := httptest.NewRecorder()

	a.h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
	env := decode[json.RawMessage](t, rec)
	if env.Success {
		t.Fatalf("expected success=false")
	}
	if env.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("code: got %q", env.Error.Code)
	}
	if env.Error.Message != "missing Authorization header" {
		t.Fatalf("message: got %q", env.Error.Message)
	}
	if env.Error.RequestID == nil || *env.Error.RequestID == "" {
		t.Fatalf("expected requestId to be a non-empty string")
	}
}

func TestAuthMiddleware_MalformedHeader_401(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	for _, authz := range []string{"Basic abc", "Bearer    "} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		req.Header.Set("Authorization", authz)
		rec := httptest.NewRecorder()

		a.h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: status got %d want %d", authz, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestAuthMiddleware_RejectsForeignAndExpiredTokens(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	other := testJWT
	other.Secret = strings.Repeat("x", 32)
	forged, err := jwtverifier.Mint(other, "staff-1", tokenTime, time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	expired, err := jwtverifier.Mint(testJWT, "staff-1", tokenTime.Add(-time.Hour), time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	for name, tok := range map[string]string{"forged": forged, "expired": expired} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()

		a.h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status got %d want %d", name, rec.Code, http.StatusUnauthorized)
		}
		if env := decode[json.RawMessage](t, rec); env.Error.Message != "invalid token" {
			t.Fatalf("%s: message got %q", name, env.Error.Message)
		}
	}
}

func TestAuthMiddleware_ValidToken_AllowsRequestAndSetsSubject(t *testing.T) {
	t.Parallel()

	v := jwtverifier.NewWithOptions(testJWT, fixedClock{t: tokenTime})
	var gotSub string
	h := NewAuthMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tok, err := jwtverifier.Mint(testJWT, "staff-42", tokenTime, time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if gotSub != "staff-42" {
		t.Fatalf("subject: got %q", gotSub)
	}
}

func TestAuthMiddleware_HealthzIsOpen(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	a.h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: got %d %q", rec.Code, rec.Body.String())
	}
}

func TestDevAuthMiddleware_HeaderThenDefault(t *testing.T) {
	t.Parallel()

	var gotSub string
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub, _ = SubjectFromContext(r.Context())
	})

	h := NewDevAuthMiddleware("dev|local")(probe)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	req.Header.Set("X-Debug-Subject", "front-desk")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if gotSub != "front-desk" {
		t.Fatalf("subject: got %q", gotSub)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))
	if gotSub != "dev|local" {
		t.Fatalf("default subject: got %q", gotSub)
	}

	rec := httptest.NewRecorder()
	NewDevAuthMiddleware("")(probe).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestStrictDecode_UnknownFieldAndMalformedAre422(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	for _, body := range []string{"{", `{"name":"Gold","price":100,"duration":3,"colour":"red"}`, `{"name":"Gold","price":100,"duration":3}{}`} {
		rec := a.do(t, http.MethodPost, "/api/v1/plans", body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%q: status got %d want %d body=%s", body, rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
		}
		if env := decode[json.RawMessage](t, rec); env.Error.Code != "VALIDATION_ERROR" {
			t.Fatalf("%q: code got %q", body, env.Error.Code)
		}
	}
}

func TestRateLimit_429AfterBurst(t *testing.T) {
	t.Parallel()

	h := NewRouterWithOptions(&Server{}, RouterOptions{
		RateLimit: RateLimitOptions{RPS: 0.001, Burst: 2},
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusNotFound || codes[1] != http.StatusNotFound || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes: got %v", codes)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz should bypass the limiter, got %d", rec.Code)
	}
}
