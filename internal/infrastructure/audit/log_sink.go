// Package audit holds the audit sink that writes to the application log.
package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

// LogSink writes audit events as structured log lines. It is the default
// sink when no external store is configured.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) ports.AuditSink {
	return &LogSink{log: log.With().Str("component", "audit").Logger()}
}

func (s *LogSink) Write(_ context.Context, e domain.AuditEvent) error {
	ev := s.log.Info().
		Str("action", string(e.Action)).
		Str("subject", e.Subject).
		Time("at", e.Timestamp)
	if e.ActorID > 0 {
		ev = ev.Int64("actor_id", e.ActorID)
	}
	if e.RequestID != "" {
		ev = ev.Str("request_id", e.RequestID)
	}
	if len(e.Detail) > 0 {
		d := zerolog.Dict()
		for k, v := range e.Detail {
			d = d.Str(k, v)
		}
		ev = ev.Dict("detail", d)
	}
	ev.Msg("audit")
	return nil
}
