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

// facetWriteError maps integrity errors on facet inserts. The primary key is
// the identity ID, so a unique violation means the facet already exists.
func facetWriteError(op string, err error) error {
	if _, ok := constraintError(err, codeUniqueViolation); ok {
		return domain.ErrFacetAlreadyExists
	}
	if _, ok := constraintError(err, codeFKViolation); ok {
		return domain.ErrNotFound
	}
	return fmt.Errorf("postgres: %s: %w", op, classify(err))
}

// ── Doctors ─────────────────────────────────────────────────────────────────

const doctorColumns = `id, specialization, license_number, qualifications, years_of_experience,
	consultation_fee, department, available_days, bio, created_at, updated_at`

// DoctorRepository implements ports.DoctorRepository backed by PostgreSQL.
type DoctorRepository struct {
	pool *pgxpool.Pool
}

func NewDoctorRepository(pool *pgxpool.Pool) ports.DoctorRepository {
	return &DoctorRepository{pool: pool}
}

func (r *DoctorRepository) Create(ctx context.Context, f *domain.DoctorFacet) error {
	const insertSQL = `
		INSERT INTO doctors (` + doctorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, insertSQL,
		f.ID, f.Specialization, f.LicenseNumber, f.Qualifications, f.YearsOfExperience,
		f.ConsultationFee, f.Department, days(f.AvailableDays), f.Bio, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return facetWriteError("create doctor", err)
	}
	return nil
}

func (r *DoctorRepository) FindByID(ctx context.Context, id int64) (*domain.DoctorFacet, error) {
	f, err := scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: find doctor: %w", classify(err))
	}
	return f, nil
}

func (r *DoctorRepository) List(ctx context.Context) ([]*domain.DoctorFacet, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list doctors: %w", classify(err))
	}
	defer rows.Close()

	var out []*domain.DoctorFacet
	for rows.Next() {
		f, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan doctor: %w", err)
		}
		out = append(out, f)
	}
	return out, classify(rows.Err())
}

func (r *DoctorRepository) Update(ctx context.Context, f *domain.DoctorFacet) error {
	const updateSQL = `
		UPDATE doctors SET specialization = $2, license_number = $3, qualifications = $4,
			years_of_experience = $5, consultation_fee = $6, department = $7,
			available_days = $8, bio = $9, updated_at = $10
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, updateSQL,
		f.ID, f.Specialization, f.LicenseNumber, f.Qualifications, f.YearsOfExperience,
		f.ConsultationFee, f.Department, days(f.AvailableDays), f.Bio, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: update doctor: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DoctorRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "doctors", id)
}

func scanDoctor(row pgx.Row) (*domain.DoctorFacet, error) {
	var f domain.DoctorFacet
	err := row.Scan(
		&f.ID,
		&f.Specialization,
		&f.LicenseNumber,
		&f.Qualifications,
		&f.YearsOfExperience,
		&f.ConsultationFee,
		&f.Department,
		&f.AvailableDays,
		&f.Bio,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// days keeps NOT NULL array columns happy when no days are given.
func days(d []string) []string {
	if d == nil {
		return []string{}
	}
	return d
}

// ── Patients ────────────────────────────────────────────────────────────────

const patientColumns = `id, blood_type, height_cm, weight_kg, medical_history, allergies,
	emergency_contact_name, emergency_contact_phone, date_of_birth, gender, created_at, updated_at`

// PatientRepository implements ports.PatientRepository backed by PostgreSQL.
type PatientRepository struct {
	pool *pgxpool.Pool
}

func NewPatientRepository(pool *pgxpool.Pool) ports.PatientRepository {
	return &PatientRepository{pool: pool}
}

func (r *PatientRepository) Create(ctx context.Context, f *domain.PatientFacet) error {
	const insertSQL = `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, insertSQL,
		f.ID, f.BloodType, f.HeightCm, f.WeightKg, f.MedicalHistory, f.Allergies,
		f.EmergencyContactName, f.EmergencyContactPhone, f.DateOfBirth, f.Gender, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return facetWriteError("create patient", err)
	}
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id int64) (*domain.PatientFacet, error) {
	f, err := scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: find patient: %w", classify(err))
	}
	return f, nil
}

func (r *PatientRepository) List(ctx context.Context) ([]*domain.PatientFacet, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+patientColumns+` FROM patients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list patients: %w", classify(err))
	}
	defer rows.Close()

	var out []*domain.PatientFacet
	for rows.Next() {
		f, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan patient: %w", err)
		}
		out = append(out, f)
	}
	return out, classify(rows.Err())
}

func (r *PatientRepository) Update(ctx context.Context, f *domain.PatientFacet) error {
	const updateSQL = `
		UPDATE patients SET blood_type = $2, height_cm = $3, weight_kg = $4, medical_history = $5,
			allergies = $6, emergency_contact_name = $7, emergency_contact_phone = $8,
			date_of_birth = $9, gender = $10, updated_at = $11
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, updateSQL,
		f.ID, f.BloodType, f.HeightCm, f.WeightKg, f.MedicalHistory, f.Allergies,
		f.EmergencyContactName, f.EmergencyContactPhone, f.DateOfBirth, f.Gender, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: update patient: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "patients", id)
}

func scanPatient(row pgx.Row) (*domain.PatientFacet, error) {
	var f domain.PatientFacet
	err := row.Scan(
		&f.ID,
		&f.BloodType,
		&f.HeightCm,
		&f.WeightKg,
		&f.MedicalHistory,
		&f.Allergies,
		&f.EmergencyContactName,
		&f.EmergencyContactPhone,
		&f.DateOfBirth,
		&f.Gender,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// deleteByID removes one row by primary key. table is always a constant.
func deleteByID(ctx context.Context, pool *pgxpool.Pool, table string, id int64) error {
	tag, err := pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete from %s: %w", table, classify(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
