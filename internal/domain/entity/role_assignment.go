package entity

import (
	"fmt"
	"time"
)

// Role rol de negocio de una cuenta.
type Role string

// Roles válidos (deben coincidir con el CHECK de role_assignments).
const (
	RoleSupplier   Role = "supplier"
	RoleVendor     Role = "vendor"
	RoleSuperadmin Role = "superadmin"
)

// Valid informa si r es un rol conocido.
func (r Role) Valid() bool {
	switch r {
	case RoleSupplier, RoleVendor, RoleSuperadmin:
		return true
	}
	return false
}

// ApprovalStatus estado de aprobación de una RoleAssignment.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// RoleAssignment rol + estado de aprobación de una cuenta. Exactamente una por cuenta.
type RoleAssignment struct {
	ID             string
	AccountID      string
	Role           Role
	ApprovalStatus ApprovalStatus
	ReviewedBy     *string // superadmin que resolvió la aprobación
	ReviewedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InitialAssignment resuelve rol y estado iniciales en el registro.
// El email bootstrap fuerza superadmin/approved sin importar el rol pedido;
// supplier arranca pending; vendor y superadmin arrancan approved.
// Pedir superadmin sin ser el email bootstrap no está permitido.
func InitialAssignment(requested Role, bootstrap bool) (Role, ApprovalStatus, error) {
	if bootstrap {
		return RoleSuperadmin, ApprovalApproved, nil
	}
	switch requested {
	case RoleSupplier:
		return RoleSupplier, ApprovalPending, nil
	case RoleVendor:
		return RoleVendor, ApprovalApproved, nil
	case RoleSuperadmin:
		return "", "", fmt.Errorf("el rol superadmin no se puede solicitar en el registro")
	default:
		return "", "", fmt.Errorf("rol desconocido %q", requested)
	}
}

// CanTransitionApproval valida una transición de aprobación.
// Solo pending es estado origen; approved y rejected son finales.
func CanTransitionApproval(from, to ApprovalStatus) bool {
	return from == ApprovalPending && (to == ApprovalApproved || to == ApprovalRejected)
}

// IsSuperadmin informa si la asignación otorga privilegios de superadmin.
func (ra *RoleAssignment) IsSuperadmin() bool {
	return ra != nil && ra.Role == RoleSuperadmin && ra.ApprovalStatus == ApprovalApproved
}
