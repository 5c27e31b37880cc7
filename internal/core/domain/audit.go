package domain

import "time"

// AuditAction names a security-relevant event.
type AuditAction string

const (
	AuditSignup           AuditAction = "identity.signup"
	AuditProvision        AuditAction = "identity.provision"
	AuditLoginSucceeded   AuditAction = "auth.login_succeeded"
	AuditLoginFailed      AuditAction = "auth.login_failed"
	AuditLoginThrottled   AuditAction = "auth.login_throttled"
	AuditFacetProvisioned AuditAction = "facet.provisioned"
	AuditAccessDenied     AuditAction = "authz.denied"
)

// AuditEvent is one entry in the security audit trail. Subject is the username
// or operation the event concerns; it is also the sharding key for ordering.
type AuditEvent struct {
	Action    AuditAction       `json:"action" bson:"action"`
	ActorID   int64             `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Subject   string            `json:"subject" bson:"subject"`
	Detail    map[string]string `json:"detail,omitempty" bson:"detail,omitempty"`
	RequestID string            `json:"request_id,omitempty" bson:"request_id,omitempty"`
	Timestamp time.Time         `json:"timestamp" bson:"timestamp"`
}
