package dto

import "time"

// SignUpRequest entrada del registro: credenciales, rol pedido y campos de perfil.
// Los campos de proveedor aplican a role=supplier y los de tienda a role=vendor.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=supplier vendor superadmin"`

	BusinessName    string `json:"business_name" validate:"omitempty,max=200"`
	BusinessAddress string `json:"business_address" validate:"omitempty,max=500"`
	Description     string `json:"description" validate:"omitempty,max=2000"`

	StoreName    string `json:"store_name" validate:"omitempty,max=200"`
	StoreAddress string `json:"store_address" validate:"omitempty,max=500"`

	ContactPerson string `json:"contact_person" validate:"omitempty,max=200"`
	ContactNumber string `json:"contact_number" validate:"omitempty,max=50"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// IdentityResponse identidad autenticada.
type IdentityResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// RoleAssignmentResponse rol y estado de aprobación de una cuenta.
type RoleAssignmentResponse struct {
	AccountID      string     `json:"account_id"`
	Role           string     `json:"role"`
	ApprovalStatus string     `json:"approval_status"`
	ReviewedBy     *string    `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SessionResponse salida de signup/login: token + identidad + rol.
type SessionResponse struct {
	Token    string                 `json:"token"`
	Identity IdentityResponse       `json:"identity"`
	Role     RoleAssignmentResponse `json:"role"`
}

// MeResponse salida de GET /api/auth/me.
type MeResponse struct {
	Identity IdentityResponse        `json:"identity"`
	Role     *RoleAssignmentResponse `json:"role"`
}
