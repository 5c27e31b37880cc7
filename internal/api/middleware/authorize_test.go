package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/policy"
)

type recordingAuditor struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAuditor) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

// serve routes one request through Require the way the router does, so path
// parameters are populated.
func serve(t *testing.T, authz *Authorizer, route, target string, op policy.Operation, owner OwnerFunc, p *domain.Principal) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	called := false
	e.GET(route, func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p != nil {
				c.SetRequest(c.Request().WithContext(domain.WithPrincipal(c.Request().Context(), *p)))
			}
			return next(c)
		}
	}, authz.Require(op, owner))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, called
}

func TestRequire_Allows(t *testing.T) {
	authz := NewAuthorizer(nil)
	p := domain.Principal{ID: 1, Username: "admin", Roles: domain.NewRoleSet(domain.RoleAdmin)}

	rec, called := serve(t, authz, "/api/doctor", "/api/doctor", policy.OpDoctorCreate, nil, &p)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected allow, got %d (called=%v)", rec.Code, called)
	}
}

func TestRequire_ForbidsAndAudits(t *testing.T) {
	auditor := &recordingAuditor{}
	authz := NewAuthorizer(auditor)
	p := domain.Principal{ID: 5, Username: "patient1", Roles: domain.NewRoleSet(domain.RolePatient)}

	rec, called := serve(t, authz, "/api/doctor", "/api/doctor", policy.OpDoctorCreate, nil, &p)
	if called {
		t.Fatalf("should not reach handler")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if len(auditor.events) != 1 || auditor.events[0].Action != domain.AuditAccessDenied || auditor.events[0].ActorID != 5 {
		t.Fatalf("unexpected audit events: %+v", auditor.events)
	}
}

func TestRequire_SelfOwnership(t *testing.T) {
	authz := NewAuthorizer(nil)
	p := domain.Principal{ID: 42, Username: "pat", Roles: domain.NewRoleSet(domain.RolePatient)}
	owner := ParamOwner("id")

	rec, called := serve(t, authz, "/api/patient/:id", "/api/patient/42", policy.OpPatientGet, owner, &p)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("own record: expected 200, got %d", rec.Code)
	}

	rec, called = serve(t, authz, "/api/patient/:id", "/api/patient/43", policy.OpPatientGet, owner, &p)
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("foreign record: expected 403, got %d", rec.Code)
	}

	rec, called = serve(t, authz, "/api/patient/:id", "/api/patient/abc", policy.OpPatientGet, owner, &p)
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("unparseable id: expected 403, got %d", rec.Code)
	}
}

// A denied request must look the same whether or not the resource exists;
// Require never consults the store, so the response depends only on the rule.
func TestRequire_DenyIsUniform(t *testing.T) {
	authz := NewAuthorizer(nil)
	p := domain.Principal{ID: 42, Username: "pat", Roles: domain.NewRoleSet(domain.RolePatient)}

	a, _ := serve(t, authz, "/api/patient/:id", "/api/patient/43", policy.OpPatientGet, ParamOwner("id"), &p)
	b, _ := serve(t, authz, "/api/patient/:id", "/api/patient/999999", policy.OpPatientGet, ParamOwner("id"), &p)
	if a.Code != b.Code || a.Body.String() != b.Body.String() {
		t.Fatalf("responses differ: %d %q vs %d %q", a.Code, a.Body.String(), b.Code, b.Body.String())
	}
}

func TestRequire_UnknownOperation(t *testing.T) {
	authz := NewAuthorizer(nil)
	p := domain.Principal{ID: 1, Username: "admin", Roles: domain.NewRoleSet(domain.RoleAdmin)}

	rec, called := serve(t, authz, "/x", "/x", policy.Operation("billing.export"), nil, &p)
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown operation, got %d", rec.Code)
	}
}

func TestRequire_NoPrincipal(t *testing.T) {
	authz := NewAuthorizer(nil)

	rec, called := serve(t, authz, "/api/doctor", "/api/doctor", policy.OpDoctorList, nil, nil)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
