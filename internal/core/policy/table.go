package policy

import (
	"sort"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// Operation names a protected API operation.
type Operation string

const (
	OpAuthMe            Operation = "auth.me"
	OpIdentityProvision Operation = "identity.provision"

	OpDoctorList   Operation = "doctor.list"
	OpDoctorGet    Operation = "doctor.get"
	OpDoctorCreate Operation = "doctor.create"
	OpDoctorUpdate Operation = "doctor.update"
	OpDoctorDelete Operation = "doctor.delete"

	OpPatientList   Operation = "patient.list"
	OpPatientGet    Operation = "patient.get"
	OpPatientCreate Operation = "patient.create"
	OpPatientUpdate Operation = "patient.update"
	OpPatientDelete Operation = "patient.delete"

	OpAppointmentList      Operation = "appointment.list"
	OpAppointmentGet       Operation = "appointment.get"
	OpAppointmentCreate    Operation = "appointment.create"
	OpAppointmentUpdate    Operation = "appointment.update"
	OpAppointmentDelete    Operation = "appointment.delete"
	OpAppointmentByPatient Operation = "appointment.by_patient"
	OpAppointmentByDoctor  Operation = "appointment.by_doctor"
)

const (
	admin   = domain.RoleAdmin
	doctor  = domain.RoleDoctor
	patient = domain.RolePatient
	user    = domain.RoleUser
)

var table = map[Operation]Rule{
	OpAuthMe:            AnyOf(admin, doctor, patient, user),
	OpIdentityProvision: AnyOf(admin),

	OpDoctorList:   AnyOf(admin, patient, doctor),
	OpDoctorGet:    AnyOf(admin, patient, doctor),
	OpDoctorCreate: AnyOf(admin),
	OpDoctorUpdate: SelfOrRoles(doctor, admin),
	OpDoctorDelete: AnyOf(admin),

	OpPatientList:   AnyOf(admin, doctor),
	OpPatientGet:    SelfOrRoles(patient, admin, doctor),
	OpPatientCreate: AnyOf(admin),
	OpPatientUpdate: SelfOrRoles(patient, admin),
	OpPatientDelete: AnyOf(admin),

	OpAppointmentList:      AnyOf(admin),
	OpAppointmentGet:       AnyOf(admin, doctor, patient),
	OpAppointmentCreate:    AnyOf(admin, patient),
	OpAppointmentUpdate:    AnyOf(admin, doctor, patient),
	OpAppointmentDelete:    AnyOf(admin, patient),
	OpAppointmentByPatient: SelfOrRoles(patient, admin, doctor),
	OpAppointmentByDoctor:  AnyOf(admin, doctor),
}

// Lookup returns the rule bound to op.
func Lookup(op Operation) (Rule, bool) {
	r, ok := table[op]
	return r, ok
}

// Check evaluates the rule bound to op. Unknown operations are denied.
func Check(p domain.Principal, op Operation, ownerID int64) Decision {
	r, ok := table[op]
	if !ok {
		return Deny
	}
	return Authorize(p, r, ownerID)
}

// Operations lists every operation in the table, sorted by name.
func Operations() []Operation {
	ops := make([]Operation, 0, len(table))
	for op := range table {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
