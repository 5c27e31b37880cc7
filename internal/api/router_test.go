package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
	"github.com/carepoint/clinic-api/internal/infrastructure/security"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAuth struct {
	ports.AuthService
	tokens *security.JWTCodec
}

func (s *stubAuth) Login(_ context.Context, username, password string) (*ports.LoginResult, error) {
	if username != "alice" || password != "s3cret!" {
		return nil, domain.ErrInvalidCredentials
	}
	id := &domain.Identity{ID: 5, Username: "alice", Email: "alice@example.com", Roles: domain.NewRoleSet(domain.RolePatient)}
	token, exp, err := s.tokens.Issue(id.Principal(), time.Hour)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Principal: id.Principal(), Token: token, ExpiresAt: exp, Identity: id}, nil
}

func (s *stubAuth) Signup(_ context.Context, in ports.SignupInput) (*domain.Identity, error) {
	if in.Username == "taken" {
		return nil, domain.ErrUsernameTaken
	}
	return &domain.Identity{ID: 10, Username: in.Username}, nil
}

// stubProjection knows patient 5 only and counts lookups.
type stubProjection struct {
	ports.ProjectionService
	mu      sync.Mutex
	lookups int
}

func (s *stubProjection) ResolvePatient(_ context.Context, id int64) (*domain.Patient, error) {
	s.mu.Lock()
	s.lookups++
	s.mu.Unlock()
	if id != 5 {
		return nil, domain.ErrNotFound
	}
	return &domain.Patient{Identity: domain.Identity{ID: 5, Username: "alice"}}, nil
}

type stubAuditor struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *stubAuditor) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type fixture struct {
	srv        http.Handler
	tokens     *security.JWTCodec
	projection *stubProjection
	auditor    *stubAuditor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens := security.NewJWTCodec("router-test-secret-0123456789abcdef", "clinic-api")
	f := &fixture{tokens: tokens, projection: &stubProjection{}, auditor: &stubAuditor{}}
	f.srv = NewRouter(Dependencies{
		Auth:       &stubAuth{tokens: tokens},
		Projection: f.projection,
		Tokens:     tokens,
		Auditor:    f.auditor,
		Registerer: prometheus.NewRegistry(),
		Log:        zerolog.Nop(),
	})
	return f
}

func (f *fixture) token(t *testing.T, id int64, roles ...domain.Role) string {
	t.Helper()
	tok, _, err := f.tokens.Issue(domain.Principal{ID: id, Username: "u", Roles: domain.NewRoleSet(roles...)}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_SigninThenSelfAccess(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/signin", "", `{"username":"alice","password":"s3cret!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("signin: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string   `json:"token"`
		Roles []string `json:"roles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if rec := f.do(http.MethodGet, "/api/patient/5", login.Token, ""); rec.Code != http.StatusOK {
		t.Fatalf("own record: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/api/patient/6", login.Token, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("other record: expected 403, got %d", rec.Code)
	}
}

func TestRouter_SigninFailure(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/signin", "", `{"username":"alice","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "invalid credentials" {
		t.Fatalf("unexpected error: %q", msg)
	}
}

func TestRouter_SignupConflict(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/signup", "", `{"username":"taken","password":"s3cret!","email":"t@example.com"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "username is already taken" {
		t.Fatalf("unexpected error: %q", msg)
	}
}

func TestRouter_TokenRequired(t *testing.T) {
	f := newFixture(t)

	for _, token := range []string{"", "garbage"} {
		rec := f.do(http.MethodGet, "/api/patient/5", token, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected 401, got %d", token, rec.Code)
		}
	}
	if f.projection.lookups != 0 {
		t.Fatalf("store consulted before authentication")
	}
}

func TestRouter_DenyIsUniform(t *testing.T) {
	f := newFixture(t)
	other := f.token(t, 6, domain.RolePatient)

	// Patient 5 exists, patient 404 does not: both must look the same.
	existing := f.do(http.MethodGet, "/api/patient/5", other, "")
	missing := f.do(http.MethodGet, "/api/patient/404", other, "")
	if existing.Code != http.StatusForbidden || missing.Code != http.StatusForbidden {
		t.Fatalf("expected 403/403, got %d/%d", existing.Code, missing.Code)
	}
	if existing.Body.String() != missing.Body.String() {
		t.Fatalf("deny bodies differ: %q vs %q", existing.Body.String(), missing.Body.String())
	}
	if f.projection.lookups != 0 {
		t.Fatalf("store consulted before authorization")
	}
	if len(f.auditor.events) != 2 || f.auditor.events[0].Action != domain.AuditAccessDenied {
		t.Fatalf("expected 2 denial audit events, got %+v", f.auditor.events)
	}
}

func TestRouter_NotFoundAfterAllow(t *testing.T) {
	f := newFixture(t)
	doctor := f.token(t, 2, domain.RoleDoctor)

	rec := f.do(http.MethodGet, "/api/patient/404", doctor, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "not found" {
		t.Fatalf("unexpected error: %q", msg)
	}
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	f := newFixture(t)
	user := f.token(t, 10, domain.RoleUser)

	cases := []struct{ method, path, body string }{
		{http.MethodPost, "/api/identities", `{}`},
		{http.MethodPost, "/api/doctor", `{}`},
		{http.MethodDelete, "/api/patient/5", ""},
		{http.MethodGet, "/api/appointment", ""},
	}
	for _, tc := range cases {
		if rec := f.do(tc.method, tc.path, user, tc.body); rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness without deps: expected 200, got %d", rec.Code)
	}
}
