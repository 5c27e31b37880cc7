package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

type stubAuditSink struct {
	err     error
	written []domain.AuditEvent
}

func (s *stubAuditSink) Write(_ context.Context, e domain.AuditEvent) error {
	if s.err != nil {
		return s.err
	}
	s.written = append(s.written, e)
	return nil
}

func TestAuditService_Process(t *testing.T) {
	sink := &stubAuditSink{}
	svc := NewAuditService(sink, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.AuditEvent{Action: domain.AuditSignup, Subject: "alice"}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(sink.written) != 1 {
		t.Fatalf("expected 1 write, got %d", len(sink.written))
	}
	if sink.written[0].Timestamp.IsZero() {
		t.Fatalf("timestamp not stamped")
	}
}

func TestAuditService_Process_Errors(t *testing.T) {
	sink := &stubAuditSink{}
	svc := NewAuditService(sink, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.AuditEvent{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	sinkErr := errors.New("broker down")
	sink.err = sinkErr
	if err := svc.Process(context.Background(), domain.AuditEvent{Action: domain.AuditLoginFailed}); !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error, got %v", err)
	}
}
