package handler

import "time"

type createAppointmentRequest struct {
	PatientID    int64      `json:"patient_id"   validate:"required,gt=0"`
	DoctorID     int64      `json:"doctor_id"    validate:"required,gt=0"`
	StartTime    time.Time  `json:"start_time"   validate:"required"`
	EndTime      *time.Time `json:"end_time"`
	Status       string     `json:"status"       validate:"omitempty,max=20"`
	Reason       string     `json:"reason"       validate:"max=500"`
	Notes        string     `json:"notes"        validate:"max=2000"`
	Diagnosis    string     `json:"diagnosis"    validate:"max=2000"`
	Prescription string     `json:"prescription" validate:"max=2000"`
}

// updateAppointmentRequest is a partial update: absent fields are unchanged.
type updateAppointmentRequest struct {
	PatientID    *int64     `json:"patient_id"   validate:"omitempty,gt=0"`
	DoctorID     *int64     `json:"doctor_id"    validate:"omitempty,gt=0"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Status       *string    `json:"status"       validate:"omitempty,max=20"`
	Reason       *string    `json:"reason"       validate:"omitempty,max=500"`
	Notes        *string    `json:"notes"        validate:"omitempty,max=2000"`
	Diagnosis    *string    `json:"diagnosis"    validate:"omitempty,max=2000"`
	Prescription *string    `json:"prescription" validate:"omitempty,max=2000"`
}
