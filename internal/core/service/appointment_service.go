package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

type appointmentService struct {
	repo       ports.AppointmentRepository
	projection ports.ProjectionService
	log        zerolog.Logger
	now        func() time.Time
}

// NewAppointmentService returns an AppointmentService implementation. There is
// no overlap or double-booking check.
func NewAppointmentService(repo ports.AppointmentRepository, projection ports.ProjectionService, log zerolog.Logger) ports.AppointmentService {
	return &appointmentService{repo: repo, projection: projection, log: log, now: time.Now}
}

func (s *appointmentService) Create(ctx context.Context, in ports.AppointmentInput) (*domain.Appointment, error) {
	if in.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", domain.ErrInvalidInput)
	}

	// 1. References must resolve to existing facets.
	if err := s.checkReferences(ctx, in.PatientID, in.DoctorID); err != nil {
		return nil, err
	}

	// 2. Defaults.
	end := in.StartTime.Add(domain.DefaultAppointmentLength)
	if in.EndTime != nil {
		end = *in.EndTime
	}
	status := domain.StatusScheduled
	if in.Status != "" {
		parsed, err := parseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	if !end.After(in.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	a := &domain.Appointment{
		PatientID:    in.PatientID,
		DoctorID:     in.DoctorID,
		StartTime:    in.StartTime.UTC(),
		EndTime:      end.UTC(),
		Status:       status,
		Reason:       in.Reason,
		Notes:        in.Notes,
		Diagnosis:    in.Diagnosis,
		Prescription: in.Prescription,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create appointment")
		return nil, err
	}

	s.log.Info().
		Int64("appointment_id", created.ID).
		Int64("patient_id", created.PatientID).
		Int64("doctor_id", created.DoctorID).
		Msg("appointment created")
	return created, nil
}

func (s *appointmentService) Get(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *appointmentService) List(ctx context.Context) ([]*domain.Appointment, error) {
	return s.repo.List(ctx)
}

func (s *appointmentService) ListByPatient(ctx context.Context, patientID int64) ([]*domain.Appointment, error) {
	if _, err := s.projection.ResolvePatient(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *appointmentService) ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Appointment, error) {
	if _, err := s.projection.ResolveDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}

func (s *appointmentService) Update(ctx context.Context, id int64, in ports.AppointmentUpdate) (*domain.Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patientID, doctorID := a.PatientID, a.DoctorID
	if in.PatientID != nil {
		patientID = *in.PatientID
	}
	if in.DoctorID != nil {
		doctorID = *in.DoctorID
	}
	if patientID != a.PatientID || doctorID != a.DoctorID {
		if err := s.checkReferences(ctx, patientID, doctorID); err != nil {
			return nil, err
		}
	}
	a.PatientID, a.DoctorID = patientID, doctorID

	if in.StartTime != nil {
		a.StartTime = in.StartTime.UTC()
	}
	if in.EndTime != nil {
		a.EndTime = in.EndTime.UTC()
	}
	if !a.EndTime.After(a.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
	}
	if in.Status != nil {
		status, err := parseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		a.Status = status
	}
	setIfPresent(&a.Reason, in.Reason)
	setIfPresent(&a.Notes, in.Notes)
	setIfPresent(&a.Diagnosis, in.Diagnosis)
	setIfPresent(&a.Prescription, in.Prescription)
	a.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info().Int64("appointment_id", id).Str("status", string(a.Status)).Msg("appointment updated")
	return a, nil
}

func (s *appointmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("appointment_id", id).Msg("appointment deleted")
	return nil
}

// checkReferences resolves both facets. A missing facet is an invalid
// reference, not a missing appointment.
func (s *appointmentService) checkReferences(ctx context.Context, patientID, doctorID int64) error {
	if _, err := s.projection.ResolvePatient(ctx, patientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: patient %d", domain.ErrInvalidReference, patientID)
		}
		return err
	}
	if _, err := s.projection.ResolveDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: doctor %d", domain.ErrInvalidReference, doctorID)
		}
		return err
	}
	return nil
}

func parseStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, s)
	}
	return status, nil
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
