package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAuthService struct {
	loginFn     func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	signupFn    func(ctx context.Context, in ports.SignupInput) (*domain.Identity, error)
	provisionFn func(ctx context.Context, actor domain.Principal, in ports.ProvisionInput) (*domain.Identity, error)
	meFn        func(ctx context.Context, p domain.Principal) (*domain.Identity, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.Identity, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Provision(ctx context.Context, actor domain.Principal, in ports.ProvisionInput) (*domain.Identity, error) {
	return s.provisionFn(ctx, actor, in)
}

func (s *stubAuthService) Me(ctx context.Context, p domain.Principal) (*domain.Identity, error) {
	return s.meFn(ctx, p)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func asPrincipal(req *http.Request, p domain.Principal) *http.Request {
	return req.WithContext(domain.WithPrincipal(req.Context(), p))
}

// httpCode returns the status of an *echo.HTTPError, or 0.
func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(_ context.Context, in ports.SignupInput) (*domain.Identity, error) {
			if in.Username != "alice" || in.Email != "alice@example.com" || in.FirstName != "Alice" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Identity{ID: 1, Username: in.Username, Roles: domain.NewRoleSet(domain.RoleUser)}, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := jsonRequest(http.MethodPost, "/api/auth/signup",
		`{"username":"alice","password":"s3cret!","email":"alice@example.com","first_name":"Alice"}`)
	rec := httptest.NewRecorder()

	if err := handler.Signup(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "user registered successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestAuthHandler_Signup_RoleFieldIgnored(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(_ context.Context, in ports.SignupInput) (*domain.Identity, error) {
			return &domain.Identity{ID: 1, Username: in.Username}, nil
		},
	}
	handler := NewAuthHandler(stub)

	// Unknown fields, including an attempted role grant, never reach the service.
	req := jsonRequest(http.MethodPost, "/api/auth/signup",
		`{"username":"mallory","password":"s3cret!","email":"m@example.com","roles":["ADMIN"]}`)
	rec := httptest.NewRecorder()

	if err := handler.Signup(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthHandler_Signup_Conflicts(t *testing.T) {
	for _, want := range []error{domain.ErrUsernameTaken, domain.ErrEmailTaken} {
		e := newEcho()
		stub := &stubAuthService{
			signupFn: func(context.Context, ports.SignupInput) (*domain.Identity, error) {
				return nil, want
			},
		}
		handler := NewAuthHandler(stub)

		req := jsonRequest(http.MethodPost, "/api/auth/signup",
			`{"username":"bob","password":"s3cret!","email":"bob@example.com"}`)
		err := handler.Signup(e.NewContext(req, httptest.NewRecorder()))
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Signup_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*domain.Identity, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	cases := []struct {
		body string
		code int
	}{
		{"not-json", http.StatusBadRequest},
		{`{"username":"bo","password":"s3cret!","email":"bo@example.com"}`, http.StatusUnprocessableEntity},
		{`{"username":"bob","password":"123","email":"bob@example.com"}`, http.StatusUnprocessableEntity},
		{`{"username":"bob","password":"s3cret!","email":"not-an-email"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		req := jsonRequest(http.MethodPost, "/api/auth/signup", tc.body)
		err := handler.Signup(e.NewContext(req, httptest.NewRecorder()))
		if got := httpCode(err); got != tc.code {
			t.Fatalf("%s: expected %d, got %d (%v)", tc.body, tc.code, got, err)
		}
	}
}

func TestAuthHandler_Signin_Success(t *testing.T) {
	e := newEcho()
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "s3cret!" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			id := &domain.Identity{ID: 7, Username: "alice", Email: "alice@example.com",
				Roles: domain.NewRoleSet(domain.RoleUser, domain.RolePatient)}
			return &ports.LoginResult{Principal: id.Principal(), Token: "token123", ExpiresAt: expires, Identity: id}, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := jsonRequest(http.MethodPost, "/api/auth/signin", `{"username":"alice","password":"s3cret!"}`)
	rec := httptest.NewRecorder()

	if err := handler.Signin(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.TokenType != "Bearer" || resp.ID != 7 || resp.Email != "alice@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.ExpiresAt.Equal(expires) {
		t.Fatalf("expected expires_at %s, got %s", expires, resp.ExpiresAt)
	}
	if len(resp.Roles) != 2 {
		t.Fatalf("expected 2 roles, got %v", resp.Roles)
	}
}

func TestAuthHandler_Signin_Failures(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want error
	}{
		{"wrong secret", `{"username":"alice","password":"bad"}`, domain.ErrInvalidCredentials, domain.ErrInvalidCredentials},
		{"throttled", `{"username":"alice","password":"bad"}`, domain.ErrTooManyAttempts, domain.ErrTooManyAttempts},
		{"missing password", `{"username":"alice"}`, nil, domain.ErrInvalidCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			stub := &stubAuthService{
				loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
					if tc.err == nil {
						t.Fatalf("should not be called")
					}
					return nil, tc.err
				},
			}
			handler := NewAuthHandler(stub)

			req := jsonRequest(http.MethodPost, "/api/auth/signin", tc.body)
			if err := handler.Signin(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthHandler_Signin_InvalidPayload(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{})

	req := jsonRequest(http.MethodPost, "/api/auth/signin", "{")
	if code := httpCode(handler.Signin(e.NewContext(req, httptest.NewRecorder()))); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	caller := domain.Principal{ID: 3, Username: "dr.house", Roles: domain.NewRoleSet(domain.RoleDoctor)}
	stub := &stubAuthService{
		meFn: func(_ context.Context, p domain.Principal) (*domain.Identity, error) {
			if p.ID != caller.ID {
				t.Fatalf("unexpected principal: %+v", p)
			}
			return &domain.Identity{ID: 3, Username: "dr.house", Email: "house@clinic.test", Roles: p.Roles}, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := asPrincipal(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), caller)
	rec := httptest.NewRecorder()
	if err := handler.Me(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp identityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Username != "dr.house" || len(resp.Roles) != 1 || resp.Roles[0] != "DOCTOR" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("response leaks secret material: %s", rec.Body.String())
	}
}

func TestAuthHandler_Me_NoPrincipal(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if code := httpCode(handler.Me(e.NewContext(req, httptest.NewRecorder()))); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
