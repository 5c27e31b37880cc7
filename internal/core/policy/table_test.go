package policy

import (
	"testing"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// expectation restates the access matrix independently of the table so a
// change to either one fails the test.
type expectation struct {
	roles []domain.Role
	owner domain.Role
}

var matrix = map[Operation]expectation{
	OpAuthMe:            {roles: []domain.Role{admin, doctor, patient, user}},
	OpIdentityProvision: {roles: []domain.Role{admin}},

	OpDoctorList:   {roles: []domain.Role{admin, patient, doctor}},
	OpDoctorGet:    {roles: []domain.Role{admin, patient, doctor}},
	OpDoctorCreate: {roles: []domain.Role{admin}},
	OpDoctorUpdate: {roles: []domain.Role{admin}, owner: doctor},
	OpDoctorDelete: {roles: []domain.Role{admin}},

	OpPatientList:   {roles: []domain.Role{admin, doctor}},
	OpPatientGet:    {roles: []domain.Role{admin, doctor}, owner: patient},
	OpPatientCreate: {roles: []domain.Role{admin}},
	OpPatientUpdate: {roles: []domain.Role{admin}, owner: patient},
	OpPatientDelete: {roles: []domain.Role{admin}},

	OpAppointmentList:      {roles: []domain.Role{admin}},
	OpAppointmentGet:       {roles: []domain.Role{admin, doctor, patient}},
	OpAppointmentCreate:    {roles: []domain.Role{admin, patient}},
	OpAppointmentUpdate:    {roles: []domain.Role{admin, doctor, patient}},
	OpAppointmentDelete:    {roles: []domain.Role{admin, patient}},
	OpAppointmentByPatient: {roles: []domain.Role{admin, doctor}, owner: patient},
	OpAppointmentByDoctor:  {roles: []domain.Role{admin, doctor}},
}

var allRoles = []domain.Role{admin, doctor, patient, user}

func (e expectation) allows(p domain.Principal, ownerID int64) bool {
	for _, r := range e.roles {
		if p.Roles.Has(r) {
			return true
		}
	}
	return e.owner != "" && ownerID > 0 && ownerID == p.ID && p.Roles.Has(e.owner)
}

func TestTable_MatchesMatrix(t *testing.T) {
	ops := Operations()
	if len(ops) != len(matrix) {
		t.Fatalf("table has %d operations, matrix has %d", len(ops), len(matrix))
	}
	for _, op := range ops {
		if _, ok := matrix[op]; !ok {
			t.Fatalf("operation %s missing from matrix", op)
		}
	}
}

// TestCheck_Exhaustive evaluates every operation against every subset of
// roles, for an owned resource, a foreign resource and no resource.
func TestCheck_Exhaustive(t *testing.T) {
	const self int64 = 42
	owners := []int64{self, 43, 0}

	for op, want := range matrix {
		for mask := 1; mask < 1<<len(allRoles); mask++ {
			var roles []domain.Role
			for i, r := range allRoles {
				if mask&(1<<i) != 0 {
					roles = append(roles, r)
				}
			}
			p := principal(self, roles...)

			for _, owner := range owners {
				got := Check(p, op, owner) == Allow
				if got != want.allows(p, owner) {
					t.Fatalf("%s roles=%v owner=%d: expected allow=%v, got %v",
						op, roles, owner, want.allows(p, owner), got)
				}
			}
		}
	}
}

func TestCheck_UnknownOperationDenied(t *testing.T) {
	p := principal(1, allRoles...)
	if got := Check(p, Operation("billing.export"), 0); got != Deny {
		t.Fatalf("expected deny for unknown operation, got %s", got)
	}
}

func TestLookup(t *testing.T) {
	r, ok := Lookup(OpPatientUpdate)
	if !ok {
		t.Fatalf("expected rule for %s", OpPatientUpdate)
	}
	if !r.NeedsOwner() || r.OwnerRole() != domain.RolePatient {
		t.Fatalf("unexpected rule: %s", r)
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatalf("expected no rule for unknown op")
	}
}
