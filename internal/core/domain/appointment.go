package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

// DefaultAppointmentLength is applied when an appointment has no end time.
const DefaultAppointmentLength = time.Hour

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment links a patient facet and a doctor facet for a time slot.
type Appointment struct {
	ID           int64             `json:"id" bson:"_id"`
	PatientID    int64             `json:"patient_id" bson:"patient_id"`
	DoctorID     int64             `json:"doctor_id" bson:"doctor_id"`
	StartTime    time.Time         `json:"start_time" bson:"start_time"`
	EndTime      time.Time         `json:"end_time" bson:"end_time"`
	Status       AppointmentStatus `json:"status" bson:"status"`
	Reason       string            `json:"reason,omitempty" bson:"reason"`
	Notes        string            `json:"notes,omitempty" bson:"notes"`
	Diagnosis    string            `json:"diagnosis,omitempty" bson:"diagnosis"`
	Prescription string            `json:"prescription,omitempty" bson:"prescription"`
	CreatedAt    time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" bson:"updated_at"`
}
