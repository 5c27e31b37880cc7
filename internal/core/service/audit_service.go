package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

type auditService struct {
	sink ports.AuditSink
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that writes events to sink.
func NewAuditService(sink ports.AuditSink, log zerolog.Logger) ports.AuditService {
	return &auditService{sink: sink, log: log}
}

// Process stamps missing timestamps and forwards the event to the sink.
func (s *auditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if event.Action == "" {
		return fmt.Errorf("%w: audit event without action", domain.ErrInvalidInput)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := s.sink.Write(ctx, event); err != nil {
		return fmt.Errorf("write audit event %s: %w", event.Action, err)
	}

	s.log.Debug().
		Str("action", string(event.Action)).
		Str("subject", event.Subject).
		Msg("audit event written")
	return nil
}
