package handler

import (
	"strings"
	"time"

	"github.com/carepoint/clinic-api/internal/core/ports"
)

func toDoctorInput(f doctorFields) ports.DoctorInput {
	return ports.DoctorInput{
		Specialization:    f.Specialization,
		LicenseNumber:     f.LicenseNumber,
		Qualifications:    f.Qualifications,
		YearsOfExperience: f.YearsOfExperience,
		ConsultationFee:   f.ConsultationFee,
		Department:        f.Department,
		AvailableDays:     f.AvailableDays,
		Bio:               f.Bio,
	}
}

// toPatientInput assumes f passed validation, so DateOfBirth is either empty
// or a well-formed date.
func toPatientInput(f patientFields) ports.PatientInput {
	in := ports.PatientInput{
		BloodType:             f.BloodType,
		HeightCm:              f.HeightCm,
		WeightKg:              f.WeightKg,
		MedicalHistory:        f.MedicalHistory,
		Allergies:             f.Allergies,
		EmergencyContactName:  f.EmergencyContactName,
		EmergencyContactPhone: f.EmergencyContactPhone,
		Gender:                strings.ToUpper(f.Gender),
	}
	if f.DateOfBirth != "" {
		if dob, err := time.Parse(time.DateOnly, f.DateOfBirth); err == nil {
			in.DateOfBirth = &dob
		}
	}
	return in
}
