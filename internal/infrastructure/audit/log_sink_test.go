package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

func TestLogSink_Write(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	err := sink.Write(context.Background(), domain.AuditEvent{
		Action:    domain.AuditAccessDenied,
		ActorID:   5,
		Subject:   "patient.get",
		Detail:    map[string]string{"method": "GET"},
		RequestID: "req-9",
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if line["action"] != "authz.denied" || line["subject"] != "patient.get" || line["request_id"] != "req-9" {
		t.Fatalf("unexpected line: %v", line)
	}
	if detail, ok := line["detail"].(map[string]any); !ok || detail["method"] != "GET" {
		t.Fatalf("missing detail: %v", line)
	}
}
