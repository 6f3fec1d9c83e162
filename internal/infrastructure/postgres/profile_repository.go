package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación de ProfileRepository (supplier_profiles y vendor_profiles).
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el repositorio (pasar pool o tx).
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

func (r *ProfileRepo) CreateSupplier(ctx context.Context, p *entity.SupplierProfile) error {
	query := `
		INSERT INTO supplier_profiles (id, account_id, business_name, contact_person, contact_number, business_address, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.AccountID, p.BusinessName, p.ContactPerson, p.ContactNumber,
		p.BusinessAddress, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return writeError("insert supplier profile", err)
	}
	return nil
}

func (r *ProfileRepo) CreateVendor(ctx context.Context, p *entity.VendorProfile) error {
	query := `
		INSERT INTO vendor_profiles (id, account_id, store_name, contact_person, contact_number, store_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.AccountID, p.StoreName, p.ContactPerson, p.ContactNumber,
		p.StoreAddress, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return writeError("insert vendor profile", err)
	}
	return nil
}

func (r *ProfileRepo) GetSupplierByAccount(ctx context.Context, accountID string) (*entity.SupplierProfile, error) {
	query := `
		SELECT id, account_id, business_name, contact_person, contact_number, business_address, description, created_at, updated_at
		FROM supplier_profiles WHERE account_id = $1`
	var p entity.SupplierProfile
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&p.ID, &p.AccountID, &p.BusinessName, &p.ContactPerson, &p.ContactNumber,
		&p.BusinessAddress, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepo) GetVendorByAccount(ctx context.Context, accountID string) (*entity.VendorProfile, error) {
	query := `
		SELECT id, account_id, store_name, contact_person, contact_number, store_address, created_at, updated_at
		FROM vendor_profiles WHERE account_id = $1`
	var p entity.VendorProfile
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&p.ID, &p.AccountID, &p.StoreName, &p.ContactPerson, &p.ContactNumber,
		&p.StoreAddress, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepo) UpdateSupplier(ctx context.Context, p *entity.SupplierProfile) error {
	query := `
		UPDATE supplier_profiles
		SET business_name = $2, contact_person = $3, contact_number = $4, business_address = $5, description = $6, updated_at = $7
		WHERE account_id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.AccountID, p.BusinessName, p.ContactPerson, p.ContactNumber, p.BusinessAddress, p.Description, p.UpdatedAt,
	)
	if err != nil {
		return writeError("update supplier profile", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProfileRepo) UpdateVendor(ctx context.Context, p *entity.VendorProfile) error {
	query := `
		UPDATE vendor_profiles
		SET store_name = $2, contact_person = $3, contact_number = $4, store_address = $5, updated_at = $6
		WHERE account_id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.AccountID, p.StoreName, p.ContactPerson, p.ContactNumber, p.StoreAddress, p.UpdatedAt,
	)
	if err != nil {
		return writeError("update vendor profile", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
