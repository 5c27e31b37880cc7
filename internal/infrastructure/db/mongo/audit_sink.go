package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

// AuditSink appends audit events to the audit_events collection.
type AuditSink struct {
	col *mongo.Collection
}

func NewAuditSink(db *mongo.Database) ports.AuditSink {
	return &AuditSink{col: db.Collection(collectionAudit)}
}

func (s *AuditSink) Write(ctx context.Context, e domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	e.Timestamp = e.Timestamp.UTC()
	if _, err := s.col.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert audit event: %w", classify(err))
	}
	return nil
}
