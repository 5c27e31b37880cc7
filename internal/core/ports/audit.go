package ports

import (
	"context"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// AuditSink writes audit events to durable storage or a broker.
type AuditSink interface {
	Write(ctx context.Context, event domain.AuditEvent) error
}

// Auditor accepts audit events without blocking the request path.
type Auditor interface {
	Record(event domain.AuditEvent)
}

// AuditService processes one queued audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}
