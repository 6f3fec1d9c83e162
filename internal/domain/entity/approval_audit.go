package entity

import "time"

// Acciones registradas en el log de aprobaciones.
const (
	AuditActionApproved = "approved"
	AuditActionRejected = "rejected"
)

// ApprovalAuditEntry registro inmutable de una decisión sobre una RoleAssignment.
type ApprovalAuditEntry struct {
	ID           string
	AccountID    string
	Action       string
	PerformedBy  string
	StatusBefore ApprovalStatus
	StatusAfter  ApprovalStatus
	Reason       string
	PerformedAt  time.Time
}
