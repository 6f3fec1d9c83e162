package dto

import "time"

// ReviewSupplierRequest cuerpo opcional de approve/reject.
type ReviewSupplierRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// PendingSupplierResponse proveedor en la cola de aprobación.
type PendingSupplierResponse struct {
	AccountID     string    `json:"account_id"`
	BusinessName  string    `json:"business_name"`
	ContactPerson string    `json:"contact_person"`
	ContactNumber string    `json:"contact_number"`
	RequestedAt   time.Time `json:"requested_at"`
}

// PendingSupplierListResponse lista paginada de la cola de aprobación.
type PendingSupplierListResponse struct {
	Items []PendingSupplierResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// AuditEntryResponse entrada del log de aprobaciones.
type AuditEntryResponse struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Action       string    `json:"action"`
	PerformedBy  string    `json:"performed_by"`
	StatusBefore string    `json:"status_before"`
	StatusAfter  string    `json:"status_after"`
	Reason       string    `json:"reason,omitempty"`
	PerformedAt  time.Time `json:"performed_at"`
}
