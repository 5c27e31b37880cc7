package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

const appointmentColumns = `id, patient_id, doctor_id, start_time, end_time, status, reason, notes,
	diagnosis, prescription, created_at, updated_at`

// AppointmentRepository implements ports.AppointmentRepository backed by PostgreSQL.
type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) ports.AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	const insertSQL = `
		INSERT INTO appointments (patient_id, doctor_id, start_time, end_time, status, reason, notes,
			diagnosis, prescription, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + appointmentColumns

	created, err := scanAppointment(r.pool.QueryRow(ctx, insertSQL,
		a.PatientID, a.DoctorID, a.StartTime, a.EndTime, string(a.Status), a.Reason, a.Notes,
		a.Diagnosis, a.Prescription, a.CreatedAt, a.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("postgres: create appointment: %w", classify(err))
	}
	return created, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: find appointment: %w", classify(err))
	}
	return a, nil
}

func (r *AppointmentRepository) List(ctx context.Context) ([]*domain.Appointment, error) {
	return r.query(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY start_time, id`)
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*domain.Appointment, error) {
	return r.query(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE patient_id = $1 ORDER BY start_time, id`, patientID)
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Appointment, error) {
	return r.query(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE doctor_id = $1 ORDER BY start_time, id`, doctorID)
}

func (r *AppointmentRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list appointments: %w", classify(err))
	}
	defer rows.Close()

	var out []*domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan appointment: %w", err)
		}
		out = append(out, a)
	}
	return out, classify(rows.Err())
}

func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	const updateSQL = `
		UPDATE appointments SET patient_id = $2, doctor_id = $3, start_time = $4, end_time = $5,
			status = $6, reason = $7, notes = $8, diagnosis = $9, prescription = $10, updated_at = $11
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, updateSQL,
		a.ID, a.PatientID, a.DoctorID, a.StartTime, a.EndTime, string(a.Status), a.Reason, a.Notes,
		a.Diagnosis, a.Prescription, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: update appointment: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "appointments", id)
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var (
		a      domain.Appointment
		status string
	)
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.StartTime,
		&a.EndTime,
		&status,
		&a.Reason,
		&a.Notes,
		&a.Diagnosis,
		&a.Prescription,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = domain.AppointmentStatus(status)
	return &a, nil
}
