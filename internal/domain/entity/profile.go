package entity

import "time"

// SupplierProfile datos de negocio de una cuenta supplier (una por cuenta).
type SupplierProfile struct {
	ID              string
	AccountID       string
	BusinessName    string
	ContactPerson   string
	ContactNumber   string
	BusinessAddress string
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VendorProfile datos de tienda de una cuenta vendor (una por cuenta).
type VendorProfile struct {
	ID            string
	AccountID     string
	StoreName     string
	ContactPerson string
	ContactNumber string
	StoreAddress  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
