package ports

import (
	"context"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// AppointmentRepository defines persistence operations for appointments.
type AppointmentRepository interface {
	// Create assigns a fresh ID and persists the appointment.
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context) ([]*domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*domain.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
	Delete(ctx context.Context, id int64) error
}
