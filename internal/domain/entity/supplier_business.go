package entity

import "time"

// Estados de SupplierBusiness.
const (
	BusinessStatusActive   = "active"
	BusinessStatusInactive = "inactive"
)

// SupplierBusiness registro de negocio del proveedor, referenciado por catálogo y pedidos.
// Se deriva del SupplierProfile (copia al momento de crearse). Uno por cuenta.
type SupplierBusiness struct {
	ID        string
	AccountID string
	Name      string
	Contact   string
	Address   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BusinessFromProfile sintetiza el registro de negocio a partir de los valores actuales del perfil.
func BusinessFromProfile(id string, p *SupplierProfile, now time.Time) *SupplierBusiness {
	return &SupplierBusiness{
		ID:        id,
		AccountID: p.AccountID,
		Name:      p.BusinessName,
		Contact:   p.ContactNumber,
		Address:   p.BusinessAddress,
		Status:    BusinessStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
