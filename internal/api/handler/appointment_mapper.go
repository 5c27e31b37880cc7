package handler

import "github.com/carepoint/clinic-api/internal/core/ports"

func toAppointmentInput(r createAppointmentRequest) ports.AppointmentInput {
	return ports.AppointmentInput{
		PatientID:    r.PatientID,
		DoctorID:     r.DoctorID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Status:       r.Status,
		Reason:       r.Reason,
		Notes:        r.Notes,
		Diagnosis:    r.Diagnosis,
		Prescription: r.Prescription,
	}
}

func toAppointmentUpdate(r updateAppointmentRequest) ports.AppointmentUpdate {
	return ports.AppointmentUpdate{
		PatientID:    r.PatientID,
		DoctorID:     r.DoctorID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Status:       r.Status,
		Reason:       r.Reason,
		Notes:        r.Notes,
		Diagnosis:    r.Diagnosis,
		Prescription: r.Prescription,
	}
}
