package domain

import "time"

// DoctorFacet extends an Identity holding the DOCTOR role. ID is the identity ID.
type DoctorFacet struct {
	ID                int64     `json:"id" bson:"_id"`
	Specialization    string    `json:"specialization" bson:"specialization"`
	LicenseNumber     string    `json:"license_number" bson:"license_number"`
	Qualifications    string    `json:"qualifications,omitempty" bson:"qualifications"`
	YearsOfExperience int       `json:"years_of_experience" bson:"years_of_experience"`
	ConsultationFee   float64   `json:"consultation_fee" bson:"consultation_fee"`
	Department        string    `json:"department,omitempty" bson:"department"`
	AvailableDays     []string  `json:"available_days" bson:"available_days"`
	Bio               string    `json:"bio,omitempty" bson:"bio"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// PatientFacet extends an Identity holding the PATIENT role. ID is the identity ID.
type PatientFacet struct {
	ID                    int64      `json:"id" bson:"_id"`
	BloodType             string     `json:"blood_type,omitempty" bson:"blood_type"`
	HeightCm              float64    `json:"height_cm,omitempty" bson:"height_cm"`
	WeightKg              float64    `json:"weight_kg,omitempty" bson:"weight_kg"`
	MedicalHistory        string     `json:"medical_history,omitempty" bson:"medical_history"`
	Allergies             string     `json:"allergies,omitempty" bson:"allergies"`
	EmergencyContactName  string     `json:"emergency_contact_name,omitempty" bson:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone,omitempty" bson:"emergency_contact_phone"`
	DateOfBirth           *time.Time `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Gender                string     `json:"gender,omitempty" bson:"gender"`
	CreatedAt             time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" bson:"updated_at"`
}

// Doctor joins a DoctorFacet with the identity it extends.
type Doctor struct {
	Identity
	Facet DoctorFacet `json:"profile"`
}

// Patient joins a PatientFacet with the identity it extends.
type Patient struct {
	Identity
	Facet PatientFacet `json:"profile"`
}
