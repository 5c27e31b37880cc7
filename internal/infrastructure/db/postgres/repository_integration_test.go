package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// testPool returns a migrated pool. DATABASE_URL wins when set; otherwise a
// Postgres 16 container is started when CLINIC_INTEGRATION is set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		if os.Getenv("CLINIC_INTEGRATION") == "" {
			t.Skip("set DATABASE_URL or CLINIC_INTEGRATION=1 to run PostgreSQL integration tests")
		}
		container, err := tcpostgres.Run(ctx,
			"postgres:16",
			tcpostgres.WithDatabase("clinic"),
			tcpostgres.WithUsername("clinic"),
			tcpostgres.WithPassword("clinic"),
			tcpostgres.BasicWaitStrategies(),
		)
		if err != nil {
			t.Skipf("postgres container unavailable: %v", err)
		}
		t.Cleanup(func() { _ = container.Terminate(context.Background()) })

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("connection string: %v", err)
		}
	}

	pool, err := NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE appointments, doctors, patients, identities RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func newIdentity(username, email string, roles ...domain.Role) *domain.Identity {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Identity{
		Username:   username,
		Email:      email,
		SecretHash: "$2a$04$digest",
		Roles:      domain.NewRoleSet(roles...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestIdentityRepository_Integration(t *testing.T) {
	pool := testPool(t)
	repo := NewIdentityRepository(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, newIdentity("alice", "alice@example.com", domain.RoleUser, domain.RolePatient))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID <= 0 || len(created.Roles) != 2 {
		t.Fatalf("unexpected identity: %+v", created)
	}

	if _, err := repo.Create(ctx, newIdentity("alice", "x@example.com", domain.RoleUser)); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := repo.Create(ctx, newIdentity("alice2", "alice@example.com", domain.RoleUser)); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	ok, err := repo.ExistsByEmail(ctx, "alice@example.com")
	if err != nil || !ok {
		t.Fatalf("exists by email: %v %v", ok, err)
	}
	if n, err := repo.Count(ctx); err != nil || n != 1 {
		t.Fatalf("count: %d %v", n, err)
	}
	if _, err := repo.FindByUsername(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityRepository_ConcurrentSignup_Integration(t *testing.T) {
	pool := testPool(t)
	repo := NewIdentityRepository(pool)

	const racers = 16
	var wins, conflicts atomic.Int32
	var g errgroup.Group
	for i := range racers {
		g.Go(func() error {
			_, err := repo.Create(context.Background(), newIdentity("racer", fmt.Sprintf("r%d@example.com", i), domain.RoleUser))
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, domain.ErrUsernameTaken):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wins.Load() != 1 || conflicts.Load() != racers-1 {
		t.Fatalf("expected exactly one winner, got %d wins / %d conflicts", wins.Load(), conflicts.Load())
	}
}

func TestFacetRepositories_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	identities := NewIdentityRepository(pool)
	doctors := NewDoctorRepository(pool)
	patients := NewPatientRepository(pool)

	id, err := identities.Create(ctx, newIdentity("dr.who", "who@clinic.test", domain.RoleDoctor, domain.RolePatient))
	if err != nil {
		t.Fatalf("identity: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	doctor := &domain.DoctorFacet{ID: id.ID, Specialization: "Cardiology", LicenseNumber: "MD1",
		ConsultationFee: 150.5, AvailableDays: []string{"MONDAY"}, CreatedAt: now, UpdatedAt: now}
	if err := doctors.Create(ctx, doctor); err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if err := doctors.Create(ctx, doctor); !errors.Is(err, domain.ErrFacetAlreadyExists) {
		t.Fatalf("expected ErrFacetAlreadyExists, got %v", err)
	}

	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	if err := patients.Create(ctx, &domain.PatientFacet{ID: id.ID, BloodType: "O+", DateOfBirth: &dob, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("patient on shared identity: %v", err)
	}
	got, err := patients.FindByID(ctx, id.ID)
	if err != nil || got.DateOfBirth == nil || !got.DateOfBirth.Equal(dob) {
		t.Fatalf("patient round trip: %v %+v", err, got)
	}

	orphan := &domain.DoctorFacet{ID: 9999, Specialization: "X", LicenseNumber: "Y", CreatedAt: now, UpdatedAt: now}
	if err := doctors.Create(ctx, orphan); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown identity, got %v", err)
	}
}

func TestAppointmentRepository_Integration(t *testing.T) {
	pool := testPool(t)
	repo := NewAppointmentRepository(pool)
	ctx := context.Background()

	start := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	now := time.Now().UTC().Truncate(time.Microsecond)
	a, err := repo.Create(ctx, &domain.Appointment{PatientID: 5, DoctorID: 2, StartTime: start,
		EndTime: start.Add(time.Hour), Status: domain.StatusScheduled, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	a.Status = domain.StatusCompleted
	a.Diagnosis = "Healthy"
	if err := repo.Update(ctx, a); err != nil {
		t.Fatalf("update: %v", err)
	}
	byDoctor, err := repo.ListByDoctor(ctx, 2)
	if err != nil || len(byDoctor) != 1 || byDoctor[0].Status != domain.StatusCompleted {
		t.Fatalf("list by doctor: %v %+v", err, byDoctor)
	}

	bad := &domain.Appointment{PatientID: 5, DoctorID: 2, StartTime: start, EndTime: start,
		Status: domain.StatusScheduled, CreatedAt: now, UpdatedAt: now}
	if _, err := repo.Create(ctx, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected check violation as ErrInvalidInput, got %v", err)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
