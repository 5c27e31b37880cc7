package handler

// --- Doctor ---

type doctorFields struct {
	Specialization    string   `json:"specialization"      validate:"required,max=100"`
	LicenseNumber     string   `json:"license_number"      validate:"required,max=50"`
	Qualifications    string   `json:"qualifications"      validate:"max=255"`
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0"`
	ConsultationFee   float64  `json:"consultation_fee"    validate:"gte=0"`
	Department        string   `json:"department"          validate:"max=100"`
	AvailableDays     []string `json:"available_days"      validate:"dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY monday tuesday wednesday thursday friday saturday sunday"`
	Bio               string   `json:"bio"                 validate:"max=2000"`
}

type createDoctorRequest struct {
	IdentityID int64 `json:"identity_id" validate:"required,gt=0"`
	doctorFields
}

type updateDoctorRequest struct {
	doctorFields
}

// --- Patient ---

type patientFields struct {
	BloodType             string  `json:"blood_type"              validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	HeightCm              float64 `json:"height_cm"               validate:"gte=0"`
	WeightKg              float64 `json:"weight_kg"               validate:"gte=0"`
	MedicalHistory        string  `json:"medical_history"         validate:"max=5000"`
	Allergies             string  `json:"allergies"               validate:"max=1000"`
	EmergencyContactName  string  `json:"emergency_contact_name"  validate:"max=100"`
	EmergencyContactPhone string  `json:"emergency_contact_phone" validate:"max=20"`
	// DateOfBirth is a calendar date, e.g. "1990-05-17".
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender"        validate:"omitempty,oneof=MALE FEMALE OTHER male female other"`
}

type createPatientRequest struct {
	IdentityID int64 `json:"identity_id" validate:"required,gt=0"`
	patientFields
}

type updatePatientRequest struct {
	patientFields
}
