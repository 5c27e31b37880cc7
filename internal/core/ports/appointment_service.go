package ports

import (
	"context"
	"time"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// AppointmentInput carries the fields for a new appointment. EndTime defaults
// to StartTime plus one hour and Status to SCHEDULED.
type AppointmentInput struct {
	PatientID    int64
	DoctorID     int64
	StartTime    time.Time
	EndTime      *time.Time
	Status       string
	Reason       string
	Notes        string
	Diagnosis    string
	Prescription string
}

// AppointmentUpdate is a partial update; nil fields are left unchanged.
type AppointmentUpdate struct {
	PatientID    *int64
	DoctorID     *int64
	StartTime    *time.Time
	EndTime      *time.Time
	Status       *string
	Reason       *string
	Notes        *string
	Diagnosis    *string
	Prescription *string
}

// AppointmentService manages appointments. Patient and doctor references are
// resolved through ProjectionService on every write.
type AppointmentService interface {
	Create(ctx context.Context, in AppointmentInput) (*domain.Appointment, error)
	Get(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context) ([]*domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*domain.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Appointment, error)
	Update(ctx context.Context, id int64, in AppointmentUpdate) (*domain.Appointment, error)
	Delete(ctx context.Context, id int64) error
}
