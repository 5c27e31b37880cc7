package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

var weekdays = map[string]struct{}{
	"MONDAY": {}, "TUESDAY": {}, "WEDNESDAY": {}, "THURSDAY": {},
	"FRIDAY": {}, "SATURDAY": {}, "SUNDAY": {},
}

type projectionService struct {
	identities ports.IdentityRepository
	doctors    ports.DoctorRepository
	patients   ports.PatientRepository
	auditor    ports.Auditor
	log        zerolog.Logger
	now        func() time.Time
}

// NewProjectionService returns a ProjectionService implementation.
func NewProjectionService(
	identities ports.IdentityRepository,
	doctors ports.DoctorRepository,
	patients ports.PatientRepository,
	auditor ports.Auditor,
	log zerolog.Logger,
) ports.ProjectionService {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &projectionService{
		identities: identities,
		doctors:    doctors,
		patients:   patients,
		auditor:    auditor,
		log:        log,
		now:        time.Now,
	}
}

func (s *projectionService) ResolveDoctor(ctx context.Context, id int64) (*domain.Doctor, error) {
	facet, err := s.doctors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.joinDoctor(ctx, facet)
}

func (s *projectionService) ResolvePatient(ctx context.Context, id int64) (*domain.Patient, error) {
	facet, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.joinPatient(ctx, facet)
}

func (s *projectionService) ListDoctors(ctx context.Context) ([]*domain.Doctor, error) {
	facets, err := s.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	out := make([]*domain.Doctor, 0, len(facets))
	for _, f := range facets {
		d, err := s.joinDoctor(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("list doctors: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *projectionService) ListPatients(ctx context.Context) ([]*domain.Patient, error) {
	facets, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	out := make([]*domain.Patient, 0, len(facets))
	for _, f := range facets {
		p, err := s.joinPatient(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("list patients: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// CreateDoctorFacet attaches a doctor profile to an identity holding DOCTOR.
func (s *projectionService) CreateDoctorFacet(ctx context.Context, identityID int64, in ports.DoctorInput) (*domain.Doctor, error) {
	identity, err := s.gate(ctx, identityID, domain.RoleDoctor)
	if err != nil {
		return nil, err
	}

	// Pre-check for a clear error; the store's primary key catches races.
	if _, err := s.doctors.FindByID(ctx, identityID); err == nil {
		return nil, domain.ErrFacetAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create doctor facet: %w", err)
	}

	now := s.now().UTC()
	facet := &domain.DoctorFacet{ID: identityID, CreatedAt: now}
	if err := applyDoctorInput(facet, in, now); err != nil {
		return nil, err
	}
	if err := s.doctors.Create(ctx, facet); err != nil {
		return nil, err
	}

	s.recordFacet(ctx, identity, domain.RoleDoctor)
	return &domain.Doctor{Identity: *identity, Facet: *facet}, nil
}

// CreatePatientFacet attaches a patient profile to an identity holding PATIENT.
func (s *projectionService) CreatePatientFacet(ctx context.Context, identityID int64, in ports.PatientInput) (*domain.Patient, error) {
	identity, err := s.gate(ctx, identityID, domain.RolePatient)
	if err != nil {
		return nil, err
	}

	if _, err := s.patients.FindByID(ctx, identityID); err == nil {
		return nil, domain.ErrFacetAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create patient facet: %w", err)
	}

	now := s.now().UTC()
	facet := &domain.PatientFacet{ID: identityID, CreatedAt: now}
	if err := applyPatientInput(facet, in, now); err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, facet); err != nil {
		return nil, err
	}

	s.recordFacet(ctx, identity, domain.RolePatient)
	return &domain.Patient{Identity: *identity, Facet: *facet}, nil
}

func (s *projectionService) UpdateDoctorFacet(ctx context.Context, id int64, in ports.DoctorInput) (*domain.Doctor, error) {
	facet, err := s.doctors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyDoctorInput(facet, in, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.doctors.Update(ctx, facet); err != nil {
		return nil, err
	}
	s.log.Info().Int64("identity_id", id).Msg("doctor profile updated")
	return s.joinDoctor(ctx, facet)
}

func (s *projectionService) UpdatePatientFacet(ctx context.Context, id int64, in ports.PatientInput) (*domain.Patient, error) {
	facet, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPatientInput(facet, in, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, facet); err != nil {
		return nil, err
	}
	s.log.Info().Int64("identity_id", id).Msg("patient profile updated")
	return s.joinPatient(ctx, facet)
}

// DeleteDoctorFacet removes the doctor profile. The identity itself stays.
func (s *projectionService) DeleteDoctorFacet(ctx context.Context, id int64) error {
	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("identity_id", id).Msg("doctor profile deleted")
	return nil
}

// DeletePatientFacet removes the patient profile. The identity itself stays.
func (s *projectionService) DeletePatientFacet(ctx context.Context, id int64) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("identity_id", id).Msg("patient profile deleted")
	return nil
}

// gate loads the identity and checks it holds role.
func (s *projectionService) gate(ctx context.Context, identityID int64, role domain.Role) (*domain.Identity, error) {
	identity, err := s.identities.FindByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if !identity.Roles.Has(role) {
		return nil, domain.ErrRoleMismatch
	}
	return identity, nil
}

func (s *projectionService) joinDoctor(ctx context.Context, facet *domain.DoctorFacet) (*domain.Doctor, error) {
	identity, err := s.identities.FindByID(ctx, facet.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Doctor{Identity: *identity, Facet: *facet}, nil
}

func (s *projectionService) joinPatient(ctx context.Context, facet *domain.PatientFacet) (*domain.Patient, error) {
	identity, err := s.identities.FindByID(ctx, facet.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Patient{Identity: *identity, Facet: *facet}, nil
}

func (s *projectionService) recordFacet(ctx context.Context, identity *domain.Identity, role domain.Role) {
	actor, _ := domain.PrincipalFrom(ctx)
	s.auditor.Record(domain.AuditEvent{
		Action:    domain.AuditFacetProvisioned,
		ActorID:   actor.ID,
		Subject:   identity.Username,
		Detail:    map[string]string{"facet": string(role), "identity_id": strconv.FormatInt(identity.ID, 10)},
		RequestID: domain.RequestIDFrom(ctx),
		Timestamp: s.now().UTC(),
	})
	s.log.Info().Int64("identity_id", identity.ID).Str("facet", string(role)).Msg("facet provisioned")
}

func applyDoctorInput(f *domain.DoctorFacet, in ports.DoctorInput, now time.Time) error {
	if in.ConsultationFee < 0 {
		return fmt.Errorf("%w: consultation fee must not be negative", domain.ErrInvalidInput)
	}
	if in.YearsOfExperience < 0 {
		return fmt.Errorf("%w: years of experience must not be negative", domain.ErrInvalidInput)
	}
	days, err := normalizeDays(in.AvailableDays)
	if err != nil {
		return err
	}

	f.Specialization = in.Specialization
	f.LicenseNumber = in.LicenseNumber
	f.Qualifications = in.Qualifications
	f.YearsOfExperience = in.YearsOfExperience
	f.ConsultationFee = in.ConsultationFee
	f.Department = in.Department
	f.AvailableDays = days
	f.Bio = in.Bio
	f.UpdatedAt = now
	return nil
}

func applyPatientInput(f *domain.PatientFacet, in ports.PatientInput, now time.Time) error {
	// Zero height or weight means "not recorded".
	if in.HeightCm < 0 || in.WeightKg < 0 {
		return fmt.Errorf("%w: height and weight must be positive", domain.ErrInvalidInput)
	}

	f.BloodType = in.BloodType
	f.HeightCm = in.HeightCm
	f.WeightKg = in.WeightKg
	f.MedicalHistory = in.MedicalHistory
	f.Allergies = in.Allergies
	f.EmergencyContactName = in.EmergencyContactName
	f.EmergencyContactPhone = in.EmergencyContactPhone
	f.DateOfBirth = in.DateOfBirth
	f.Gender = in.Gender
	f.UpdatedAt = now
	return nil
}

// normalizeDays upper-cases weekday names and drops duplicates, keeping order.
func normalizeDays(days []string) ([]string, error) {
	out := make([]string, 0, len(days))
	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		day := strings.ToUpper(strings.TrimSpace(d))
		if _, ok := weekdays[day]; !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", domain.ErrInvalidInput, d)
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	return out, nil
}
