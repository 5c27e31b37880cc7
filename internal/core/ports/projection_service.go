package ports

import (
	"context"
	"time"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// DoctorInput carries the doctor facet fields.
type DoctorInput struct {
	Specialization    string
	LicenseNumber     string
	Qualifications    string
	YearsOfExperience int
	ConsultationFee   float64
	Department        string
	AvailableDays     []string
	Bio               string
}

// PatientInput carries the patient facet fields.
type PatientInput struct {
	BloodType             string
	HeightCm              float64
	WeightKg              float64
	MedicalHistory        string
	Allergies             string
	EmergencyContactName  string
	EmergencyContactPhone string
	DateOfBirth           *time.Time
	Gender                string
}

// ProjectionService resolves identities to their doctor and patient facets and
// guards the one-facet-per-role invariant.
type ProjectionService interface {
	ResolveDoctor(ctx context.Context, id int64) (*domain.Doctor, error)
	ResolvePatient(ctx context.Context, id int64) (*domain.Patient, error)
	ListDoctors(ctx context.Context) ([]*domain.Doctor, error)
	ListPatients(ctx context.Context) ([]*domain.Patient, error)

	// CreateDoctorFacet fails with domain.ErrRoleMismatch when the identity
	// lacks DOCTOR and domain.ErrFacetAlreadyExists on a second call.
	CreateDoctorFacet(ctx context.Context, identityID int64, in DoctorInput) (*domain.Doctor, error)
	// CreatePatientFacet is the PATIENT counterpart of CreateDoctorFacet.
	CreatePatientFacet(ctx context.Context, identityID int64, in PatientInput) (*domain.Patient, error)

	UpdateDoctorFacet(ctx context.Context, id int64, in DoctorInput) (*domain.Doctor, error)
	UpdatePatientFacet(ctx context.Context, id int64, in PatientInput) (*domain.Patient, error)
	DeleteDoctorFacet(ctx context.Context, id int64) error
	DeletePatientFacet(ctx context.Context, id int64) error
}
