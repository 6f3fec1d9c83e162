package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

const skuAttempts = 3

// ItemUseCase CRUD de ítems de catálogo y listados.
type ItemUseCase struct {
	items      repository.CatalogRepository
	businesses repository.BusinessRepository
	roles      repository.RoleAssignmentRepository
	policy     *policy.Engine
	now        func() time.Time
}

// NewItemUseCase construye el caso de uso de catálogo.
func NewItemUseCase(items repository.CatalogRepository, businesses repository.BusinessRepository, roles repository.RoleAssignmentRepository, engine *policy.Engine) *ItemUseCase {
	return &ItemUseCase{items: items, businesses: businesses, roles: roles, policy: engine, now: time.Now}
}

// Create publica un ítem en el negocio indicado (o el del llamador). Solo el dueño del negocio.
func (uc *ItemUseCase) Create(ctx context.Context, caller entity.Identity, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	biz, err := uc.targetBusiness(ctx, caller, in.BusinessID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Authorize(ctx, caller, policy.OpInsert, policy.Resource{Table: policy.TableCatalogItem, OwnerID: biz.AccountID}); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name es requerido")
	}
	if err := validateQuantities(in.Price, in.StockQuantity, in.MinStockLevel); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = entity.ItemStatusActive
	}
	if status != entity.ItemStatusActive && status != entity.ItemStatusInactive {
		return nil, domain.Invalid("status debe ser active o inactive")
	}

	now := uc.now().UTC()
	item := &entity.CatalogItem{
		ID:            uuid.New().String(),
		BusinessID:    biz.ID,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		MinStockLevel: in.MinStockLevel,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if sku := NormalizeSKU(in.SKU); sku != "" {
		item.SKU = sku
		if err := uc.items.Create(ctx, item); err != nil {
			return nil, err
		}
		return ToItemResponse(item), nil
	}
	// SKU generado: reintenta ante una colisión improbable del sufijo aleatorio.
	for attempt := 1; ; attempt++ {
		item.SKU = GenerateSKU(name)
		err := uc.items.Create(ctx, item)
		if err == nil {
			return ToItemResponse(item), nil
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt == skuAttempts {
			return nil, err
		}
	}
}

func (uc *ItemUseCase) targetBusiness(ctx context.Context, caller entity.Identity, businessID string) (*entity.SupplierBusiness, error) {
	if businessID != "" {
		b, err := uc.businesses.GetByID(ctx, businessID)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, fmt.Errorf("%w: negocio %s", domain.ErrNotFound, businessID)
		}
		return b, nil
	}
	b, err := uc.businesses.GetByAccount(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: la cuenta no tiene negocio registrado; llame a /api/business-records/ensure", domain.ErrNotFound)
	}
	return b, nil
}

func validateQuantities(price decimal.Decimal, stock, minStock int) error {
	if price.IsNegative() {
		return domain.Invalid("price no puede ser negativo")
	}
	if stock < 0 {
		return domain.Invalid("stock_quantity no puede ser negativo")
	}
	if minStock < 0 {
		return domain.Invalid("min_stock_level no puede ser negativo")
	}
	return nil
}

// loadOwned carga el ítem y su negocio y autoriza op como dueño del negocio.
func (uc *ItemUseCase) loadOwned(ctx context.Context, caller entity.Identity, op policy.Operation, id string) (*entity.CatalogItem, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	biz, err := uc.businesses.GetByID(ctx, item.BusinessID)
	if err != nil {
		return nil, err
	}
	if biz == nil {
		return nil, fmt.Errorf("%w: negocio %s del ítem", domain.ErrNotFound, item.BusinessID)
	}
	if err := uc.policy.Authorize(ctx, caller, op, policy.Resource{Table: policy.TableCatalogItem, OwnerID: biz.AccountID}); err != nil {
		return nil, err
	}
	return item, nil
}

// Update aplica un parche parcial. El SKU y el negocio no cambian.
func (uc *ItemUseCase) Update(ctx context.Context, caller entity.Identity, id string, in dto.UpdateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	item, err := uc.loadOwned(ctx, caller, policy.OpUpdate, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name no puede quedar vacío")
		}
		item.Name = name
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.StockQuantity != nil {
		item.StockQuantity = *in.StockQuantity
	}
	if in.MinStockLevel != nil {
		item.MinStockLevel = *in.MinStockLevel
	}
	if in.Status != nil {
		if *in.Status != entity.ItemStatusActive && *in.Status != entity.ItemStatusInactive {
			return nil, domain.Invalid("status debe ser active o inactive")
		}
		item.Status = *in.Status
	}
	if err := validateQuantities(item.Price, item.StockQuantity, item.MinStockLevel); err != nil {
		return nil, err
	}
	item.UpdatedAt = uc.now().UTC()
	if err := uc.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Delete elimina un ítem propio.
func (uc *ItemUseCase) Delete(ctx context.Context, caller entity.Identity, id string) error {
	if _, err := uc.loadOwned(ctx, caller, policy.OpDelete, id); err != nil {
		return err
	}
	return uc.items.Delete(ctx, id)
}

// Get devuelve un ítem. Para quien no es dueño, un ítem fuera del catálogo público
// (inactivo o de proveedor no aprobado) no existe.
func (uc *ItemUseCase) Get(ctx context.Context, caller entity.Identity, id string) (*dto.CatalogItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	biz, err := uc.businesses.GetByID(ctx, item.BusinessID)
	if err != nil {
		return nil, err
	}
	if biz == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.policy.Authorize(ctx, caller, policy.OpRead, policy.Resource{Table: policy.TableCatalogItem, OwnerID: biz.AccountID}); err != nil {
		return nil, err
	}
	if caller.AccountID != biz.AccountID {
		visible, err := uc.publiclyVisible(ctx, item, biz)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, domain.ErrNotFound
		}
	}
	return ToItemResponse(item), nil
}

func (uc *ItemUseCase) publiclyVisible(ctx context.Context, item *entity.CatalogItem, biz *entity.SupplierBusiness) (bool, error) {
	if !item.Active() {
		return false, nil
	}
	ra, err := uc.roles.GetByAccount(ctx, biz.AccountID)
	if err != nil {
		return false, err
	}
	return ra != nil && ra.ApprovalStatus == entity.ApprovalApproved, nil
}

// ListPublic catálogo público: ítems activos de proveedores aprobados, con filtros.
func (uc *ItemUseCase) ListPublic(ctx context.Context, q dto.CatalogQuery) (*dto.CatalogItemListResponse, error) {
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()
	f := repository.CatalogFilter{
		Search:   strings.TrimSpace(q.Search),
		Category: strings.TrimSpace(q.Category),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	var err error
	if f.MinPrice, err = parsePrice("min_price", q.MinPrice); err != nil {
		return nil, err
	}
	if f.MaxPrice, err = parsePrice("max_price", q.MaxPrice); err != nil {
		return nil, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, domain.Invalid("min_price no puede ser mayor que max_price")
	}
	rows, err := uc.items.ListPublic(ctx, f)
	if err != nil {
		return nil, err
	}
	return toItemList(rows, page), nil
}

func parsePrice(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.Invalid("%s no es un número válido", field)
	}
	return &d, nil
}

// ListMine ítems del negocio del llamador (todos los estados). Sin negocio → lista vacía.
func (uc *ItemUseCase) ListMine(ctx context.Context, caller entity.Identity, page dto.PageRequest) (*dto.CatalogItemListResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	page.DefaultPage()
	biz, err := uc.businesses.GetByAccount(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}
	if biz == nil {
		return toItemList(nil, page), nil
	}
	rows, err := uc.items.ListByBusiness(ctx, biz.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toItemList(rows, page), nil
}

// ListLowStock ítems propios con stock_quantity <= min_stock_level.
func (uc *ItemUseCase) ListLowStock(ctx context.Context, caller entity.Identity) ([]dto.CatalogItemResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	biz, err := uc.businesses.GetByAccount(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}
	if biz == nil {
		return []dto.CatalogItemResponse{}, nil
	}
	rows, err := uc.items.ListLowStock(ctx, biz.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemResponse, 0, len(rows))
	for _, it := range rows {
		out = append(out, *ToItemResponse(it))
	}
	return out, nil
}

func toItemList(rows []*entity.CatalogItem, page dto.PageRequest) *dto.CatalogItemListResponse {
	items := make([]dto.CatalogItemResponse, 0, len(rows))
	for _, it := range rows {
		items = append(items, *ToItemResponse(it))
	}
	return &dto.CatalogItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	}
}

// ToItemResponse mapea la entidad al DTO.
func ToItemResponse(it *entity.CatalogItem) *dto.CatalogItemResponse {
	return &dto.CatalogItemResponse{
		ID:            it.ID,
		BusinessID:    it.BusinessID,
		SKU:           it.SKU,
		Name:          it.Name,
		Description:   it.Description,
		Category:      it.Category,
		Price:         it.Price,
		StockQuantity: it.StockQuantity,
		MinStockLevel: it.MinStockLevel,
		LowStock:      it.LowStock(),
		Status:        it.Status,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}
