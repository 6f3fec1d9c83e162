package dto

import "time"

// SupplierProfileResponse perfil de proveedor.
type SupplierProfileResponse struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	BusinessName    string    `json:"business_name"`
	ContactPerson   string    `json:"contact_person"`
	ContactNumber   string    `json:"contact_number"`
	BusinessAddress string    `json:"business_address"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VendorProfileResponse perfil de vendedor.
type VendorProfileResponse struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"account_id"`
	StoreName     string    `json:"store_name"`
	ContactPerson string    `json:"contact_person"`
	ContactNumber string    `json:"contact_number"`
	StoreAddress  string    `json:"store_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProfileResponse perfil de una cuenta, discriminado por rol.
type ProfileResponse struct {
	AccountID string                   `json:"account_id"`
	Role      string                   `json:"role"`
	Supplier  *SupplierProfileResponse `json:"supplier,omitempty"`
	Vendor    *VendorProfileResponse   `json:"vendor,omitempty"`
}

// UpdateProfileRequest actualización parcial del perfil propio (campos opcionales).
type UpdateProfileRequest struct {
	BusinessName    *string `json:"business_name" validate:"omitempty,min=1,max=200"`
	BusinessAddress *string `json:"business_address" validate:"omitempty,max=500"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	StoreName       *string `json:"store_name" validate:"omitempty,min=1,max=200"`
	StoreAddress    *string `json:"store_address" validate:"omitempty,max=500"`
	ContactPerson   *string `json:"contact_person" validate:"omitempty,max=200"`
	ContactNumber   *string `json:"contact_number" validate:"omitempty,max=50"`
}
