// Package seed loads demo identities, facets and appointments into an empty
// store.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

// DemoPassword is the secret shared by every demo identity.
const DemoPassword = "password123"

// system is the actor recorded on seeded provisioning events.
var system = domain.Principal{Username: "seed", Roles: domain.NewRoleSet(domain.RoleAdmin)}

type doctorSeed struct {
	ports.SignupInput
	facet ports.DoctorInput
}

type Seeder struct {
	identities   ports.IdentityRepository
	auth         ports.AuthService
	projection   ports.ProjectionService
	appointments ports.AppointmentService
	logger       zerolog.Logger
	now          func() time.Time
}

func NewSeeder(
	identities ports.IdentityRepository,
	auth ports.AuthService,
	projection ports.ProjectionService,
	appointments ports.AppointmentService,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		identities:   identities,
		auth:         auth,
		projection:   projection,
		appointments: appointments,
		logger:       logger,
		now:          time.Now,
	}
}

// Run seeds the store when it holds no identities. It reports whether any
// data was written.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	n, err := s.identities.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count identities: %w", err)
	}
	if n > 0 {
		s.logger.Debug().Int64("identities", n).Msg("store not empty, skipping demo data")
		return false, nil
	}

	if _, err := s.provision(ctx, account("admin", "admin@healthcare.com", "System", "Admin", "+1234567890"), domain.RoleAdmin); err != nil {
		return false, err
	}

	doctors := make(map[string]int64, 3)
	for _, d := range demoDoctors() {
		id, err := s.provision(ctx, d.SignupInput, domain.RoleDoctor)
		if err != nil {
			return false, err
		}
		if _, err := s.projection.CreateDoctorFacet(ctx, id, d.facet); err != nil {
			return false, fmt.Errorf("seed doctor %s: %w", d.Username, err)
		}
		doctors[d.Username] = id
	}

	patientID, err := s.provision(ctx, account("patient1", "patient1@healthcare.com", "Mike", "Johnson", "+1234567892"), domain.RolePatient)
	if err != nil {
		return false, err
	}
	if _, err := s.projection.CreatePatientFacet(ctx, patientID, ports.PatientInput{
		BloodType:             "O+",
		HeightCm:              175,
		WeightKg:              70,
		MedicalHistory:        "Hypertension controlled with medication",
		Allergies:             "Penicillin",
		EmergencyContactName:  "Jane Johnson",
		EmergencyContactPhone: "+1234567893",
	}); err != nil {
		return false, fmt.Errorf("seed patient: %w", err)
	}

	start := s.now().UTC().Truncate(time.Minute)
	bookings := []ports.AppointmentInput{
		{
			PatientID: patientID,
			DoctorID:  doctors["drshinde"],
			StartTime: start.Add(24 * time.Hour),
			Status:    string(domain.StatusScheduled),
			Reason:    "Knee pain consultation",
			Notes:     "Patient complains of persistent knee pain for 2 months",
		},
		{
			PatientID: patientID,
			DoctorID:  doctors["drveer"],
			StartTime: start.Add(48 * time.Hour),
			Status:    string(domain.StatusConfirmed),
			Reason:    "Headache and dizziness",
			Notes:     "Frequent headaches and occasional dizziness reported",
		},
	}
	for _, b := range bookings {
		if _, err := s.appointments.Create(ctx, b); err != nil {
			return false, fmt.Errorf("seed appointment: %w", err)
		}
	}

	s.logger.Info().
		Strs("usernames", []string{"admin", "doctor1", "drshinde", "drveer", "patient1"}).
		Msg("demo data loaded; every demo account uses the shared demo password")
	return true, nil
}

func (s *Seeder) provision(ctx context.Context, in ports.SignupInput, role domain.Role) (int64, error) {
	created, err := s.auth.Provision(ctx, system, ports.ProvisionInput{SignupInput: in, Roles: domain.NewRoleSet(role)})
	if err != nil {
		return 0, fmt.Errorf("seed identity %s: %w", in.Username, err)
	}
	return created.ID, nil
}

func account(username, email, first, last, phone string) ports.SignupInput {
	return ports.SignupInput{
		Username:  username,
		Password:  DemoPassword,
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     phone,
	}
}

func demoDoctors() []doctorSeed {
	return []doctorSeed{
		{
			SignupInput: account("doctor1", "doctor1@healthcare.com", "Sarah", "Wilson", "+1234567891"),
			facet: ports.DoctorInput{
				Specialization:    "Cardiology",
				LicenseNumber:     "LIC123456",
				Qualifications:    "MD, DM Cardiology, AIIMS Delhi",
				YearsOfExperience: 12,
				ConsultationFee:   1500,
				Department:        "Cardiology",
				Bio:               "Senior cardiologist specialized in angioplasty and heart failure management.",
				AvailableDays:     []string{"MONDAY", "WEDNESDAY", "FRIDAY"},
			},
		},
		{
			SignupInput: account("drshinde", "dr.shinde@healthcare.com", "Rajesh", "Shinde", "+919876543210"),
			facet: ports.DoctorInput{
				Specialization:    "Orthopedics",
				LicenseNumber:     "LIC789012",
				Qualifications:    "MS Orthopedics, MBBS, D Ortho",
				YearsOfExperience: 15,
				ConsultationFee:   1200,
				Department:        "Orthopedics",
				Bio:               "Orthopedic surgeon specialized in joint replacement and sports injuries.",
				AvailableDays:     []string{"TUESDAY", "THURSDAY", "SATURDAY"},
			},
		},
		{
			SignupInput: account("drveer", "dr.veer@healthcare.com", "Veer", "Patil", "+919876543211"),
			facet: ports.DoctorInput{
				Specialization:    "Neurology",
				LicenseNumber:     "LIC345678",
				Qualifications:    "DM Neurology, MD Medicine, MBBS",
				YearsOfExperience: 10,
				ConsultationFee:   1800,
				Department:        "Neurology",
				Bio:               "Neurologist focused on stroke management, epilepsy and movement disorders.",
				AvailableDays:     []string{"MONDAY", "WEDNESDAY", "FRIDAY", "SATURDAY"},
			},
		},
	}
}
