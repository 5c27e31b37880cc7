package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

type stubAppointmentService struct {
	ports.AppointmentService

	createFn        func(ctx context.Context, in ports.AppointmentInput) (*domain.Appointment, error)
	updateFn        func(ctx context.Context, id int64, in ports.AppointmentUpdate) (*domain.Appointment, error)
	listByPatientFn func(ctx context.Context, id int64) ([]*domain.Appointment, error)
}

func (s *stubAppointmentService) Create(ctx context.Context, in ports.AppointmentInput) (*domain.Appointment, error) {
	return s.createFn(ctx, in)
}

func (s *stubAppointmentService) Update(ctx context.Context, id int64, in ports.AppointmentUpdate) (*domain.Appointment, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubAppointmentService) ListByPatient(ctx context.Context, id int64) ([]*domain.Appointment, error) {
	return s.listByPatientFn(ctx, id)
}

func TestAppointmentHandler_Create(t *testing.T) {
	e := newEcho()
	start := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	stub := &stubAppointmentService{
		createFn: func(_ context.Context, in ports.AppointmentInput) (*domain.Appointment, error) {
			if in.PatientID != 5 || in.DoctorID != 2 || !in.StartTime.Equal(start) || in.EndTime != nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Appointment{ID: 1, PatientID: 5, DoctorID: 2, StartTime: start, Status: domain.StatusScheduled}, nil
		},
	}
	handler := NewAppointmentHandler(stub)

	req := jsonRequest(http.MethodPost, "/api/appointment",
		`{"patient_id":5,"doctor_id":2,"start_time":"2026-04-02T10:00:00Z","reason":"Regular checkup"}`)
	rec := httptest.NewRecorder()
	if err := handler.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAppointmentHandler_Create_Rejects(t *testing.T) {
	e := newEcho()
	stub := &stubAppointmentService{
		createFn: func(context.Context, ports.AppointmentInput) (*domain.Appointment, error) {
			return nil, domain.ErrInvalidReference
		},
	}
	handler := NewAppointmentHandler(stub)

	missing := jsonRequest(http.MethodPost, "/api/appointment", `{"patient_id":5,"doctor_id":2}`)
	if code := httpCode(handler.Create(e.NewContext(missing, httptest.NewRecorder()))); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without start_time, got %d", code)
	}

	dangling := jsonRequest(http.MethodPost, "/api/appointment",
		`{"patient_id":99,"doctor_id":2,"start_time":"2026-04-02T10:00:00Z"}`)
	if err := handler.Create(e.NewContext(dangling, httptest.NewRecorder())); !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestAppointmentHandler_Update_Partial(t *testing.T) {
	e := newEcho()
	stub := &stubAppointmentService{
		updateFn: func(_ context.Context, id int64, in ports.AppointmentUpdate) (*domain.Appointment, error) {
			if id != 4 || in.Status == nil || *in.Status != "CONFIRMED" || in.Reason != nil || in.PatientID != nil {
				t.Fatalf("unexpected update: %d %+v", id, in)
			}
			return &domain.Appointment{ID: id, Status: domain.StatusConfirmed}, nil
		},
	}
	handler := NewAppointmentHandler(stub)

	req := jsonRequest(http.MethodPut, "/", `{"status":"CONFIRMED"}`)
	rec := httptest.NewRecorder()
	if err := handler.Update(withParams(e, req, rec, "id", "4")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAppointmentHandler_ListByPatient(t *testing.T) {
	e := newEcho()
	stub := &stubAppointmentService{
		listByPatientFn: func(_ context.Context, id int64) ([]*domain.Appointment, error) {
			if id != 5 {
				return nil, domain.ErrNotFound
			}
			return []*domain.Appointment{{ID: 1, PatientID: 5}}, nil
		},
	}
	handler := NewAppointmentHandler(stub)

	rec := httptest.NewRecorder()
	if err := handler.ListByPatient(withParams(e, httptest.NewRequest(http.MethodGet, "/", nil), rec, "patientId", "5")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	err := handler.ListByPatient(withParams(e, httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder(), "patientId", "0"))
	if code := httpCode(err); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for id 0, got %d", code)
	}
}
