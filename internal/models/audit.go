package models

import "time"

// AuditAction constants represent operator actions to be logged.
const (
	AuditActionHostLogin         = "HOST_LOGIN"
	AuditActionPhaseSet          = "PHASE_SET"
	AuditActionMatchRun          = "MATCH_RUN"
	AuditActionEventCreate       = "EVENT_CREATE"
	AuditActionMetaUpdate        = "EVENT_META_UPDATE"
	AuditActionParticipantCreate = "PARTICIPANT_CREATE"
	AuditActionReportQueue       = "REPORT_QUEUE"
)

// AuditLog records one operator action against an event.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Actor      string    `db:"actor" json:"actor"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Payload    []byte    `db:"payload" json:"payload,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
