package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baisoft/marketplace-api/internal/application/dto"
	"github.com/baisoft/marketplace-api/internal/domain"
	"github.com/baisoft/marketplace-api/internal/domain/authz"
	"github.com/baisoft/marketplace-api/internal/domain/entity"
	"github.com/baisoft/marketplace-api/internal/domain/repository"
)

// MaxBulkApprove tope de IDs por petición de aprobación masiva.
const MaxBulkApprove = 100

// ProductUseCase orquesta el ciclo de vida de productos: compone el motor de
// autorización, la máquina de estados de la entidad y el repositorio con
// scoping de empresa, y estampa los campos de auditoría.
type ProductUseCase struct {
	repo repository.ProductRepository
	tx   TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, tx TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, tx: tx}
}

// Create crea un producto en la empresa del caller. El status por defecto es
// draft; si un editor envía un status fuera de {draft, pending_approval} se
// fuerza a draft en silencio en lugar de rechazar.
func (uc *ProductUseCase) Create(ctx context.Context, caller authz.Caller, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if d := authz.Can(caller, authz.ActionCreateProduct); !d.Allowed {
		return nil, forbidden(d)
	}
	if caller.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: debes pertenecer a una empresa para crear productos", domain.ErrInvalidInput)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = entity.StatusDraft
	}
	if !entity.ValidStatus(status) {
		return nil, fmt.Errorf("%w: status '%s' no es válido", domain.ErrInvalidInput, status)
	}
	if caller.Role == entity.RoleEditor && status != entity.StatusDraft && status != entity.StatusPendingApproval {
		status = entity.StatusDraft
	}
	now := time.Now()
	product := &entity.Product{
		BusinessID:  caller.BusinessID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Status:      status,
		CreatedByID: caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la empresa del caller (incluye eliminados:
// el detalle sigue siendo direccionable para restaurar).
func (uc *ProductUseCase) GetByID(ctx context.Context, caller authz.Caller, id int64) (*dto.ProductResponse, error) {
	if d := authz.Can(caller, authz.ActionViewInternal); !d.Allowed {
		return nil, forbidden(d)
	}
	if caller.BusinessID <= 0 {
		return nil, domain.ErrNotFound
	}
	product, err := uc.repo.GetForBusiness(ctx, id, caller.BusinessID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto dentro de una transacción (read-modify-write
// atómico). Si el payload trae un status distinto al actual se valida la
// transición y, si no está permitida, se rechaza la actualización completa.
// Excepción: si el caller es editor y el status pedido está fuera de
// {draft, pending_approval}, el campo status se descarta y el resto de campos
// sí se aplica.
func (uc *ProductUseCase) Update(ctx context.Context, caller authz.Caller, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if caller.BusinessID <= 0 {
		return nil, domain.ErrNotFound
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
	}
	var out *dto.ProductResponse
	err := uc.tx.RunProduct(ctx, func(products repository.ProductRepository) error {
		product, err := products.GetForBusinessLocked(ctx, id, caller.BusinessID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if d := authz.CanOnProduct(caller, authz.ActionEditProduct, product); !d.Allowed {
			return forbidden(d)
		}

		status := in.Status
		if status != nil {
			if !entity.ValidStatus(*status) {
				return fmt.Errorf("%w: status '%s' no es válido", domain.ErrInvalidInput, *status)
			}
			if caller.Role == entity.RoleEditor && *status != entity.StatusDraft && *status != entity.StatusPendingApproval {
				status = nil // descartar el campo, aplicar el resto
			} else if *status != product.Status {
				if !product.CanTransitionTo(*status, caller.Role) {
					return fmt.Errorf("%w: no puedes cambiar el estado de %s a %s",
						domain.ErrInvalidTransition, product.Status, *status)
				}
			}
		}

		if in.Name != nil {
			if *in.Name == "" {
				return fmt.Errorf("%w: name no puede estar vacío", domain.ErrInvalidInput)
			}
			product.Name = *in.Name
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.ImageURL != nil {
			product.ImageURL = *in.ImageURL
		}
		if status != nil {
			product.Status = *status
		}
		product.UpdatedAt = time.Now()

		if err := products.Update(ctx, product); err != nil {
			return err
		}
		out = toProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Approve aprueba un producto: requiere permiso de aprobación, pertenencia a
// la empresa y que el producto no esté ya aprobado. Estampa approved_by y
// approved_at en la misma transacción.
func (uc *ProductUseCase) Approve(ctx context.Context, caller authz.Caller, id int64) (*dto.ProductResponse, error) {
	if d := authz.Can(caller, authz.ActionApproveProduct); !d.Allowed {
		return nil, forbidden(d)
	}
	if caller.BusinessID <= 0 {
		return nil, domain.ErrNotFound
	}
	var out *dto.ProductResponse
	err := uc.tx.RunProduct(ctx, func(products repository.ProductRepository) error {
		product, err := products.GetForBusinessLocked(ctx, id, caller.BusinessID)
		if err != nil {
			return err
		}
		if product == nil || product.IsDeleted {
			return domain.ErrNotFound
		}
		if d := authz.CanOnProduct(caller, authz.ActionApproveProduct, product); !d.Allowed {
			return forbidden(d)
		}
		if err := product.Approve(caller.UserID, time.Now()); err != nil {
			return err
		}
		if err := products.Update(ctx, product); err != nil {
			return err
		}
		out = toProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkApprove aprueba hasta MaxBulkApprove productos. La validación de forma
// (lista vacía, tope) es todo-o-nada y ocurre antes de cualquier efecto; la
// ejecución es por producto y el resultado parcial se reporta en el resumen,
// nunca como error de la petición.
func (uc *ProductUseCase) BulkApprove(ctx context.Context, caller authz.Caller, ids []int64) (*dto.BulkApproveResponse, error) {
	if d := authz.Can(caller, authz.ActionApproveProduct); !d.Allowed {
		return nil, forbidden(d)
	}
	if caller.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: debes pertenecer a una empresa", domain.ErrInvalidInput)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: product_ids no puede estar vacío", domain.ErrInvalidInput)
	}
	if len(ids) > MaxBulkApprove {
		return nil, fmt.Errorf("%w: máximo %d productos por petición", domain.ErrInvalidInput, MaxBulkApprove)
	}

	// Fetch previo: solo IDs que existen, son de la empresa y no están eliminados.
	fetched, err := uc.repo.ListForApproval(ctx, caller.BusinessID, ids)
	if err != nil {
		return nil, err
	}
	inScope := make(map[int64]*entity.Product, len(fetched))
	for _, p := range fetched {
		inScope[p.ID] = p
	}

	summary := &dto.BulkApproveResponse{
		TotalRequested: len(ids),
		ApprovedIDs:    []int64{},
		FailedIDs:      []int64{},
		NotFoundIDs:    []int64{},
	}
	for _, id := range ids {
		p, ok := inScope[id]
		if !ok {
			summary.NotFound++
			summary.NotFoundIDs = append(summary.NotFoundIDs, id)
			continue
		}
		if p.Status == entity.StatusApproved {
			summary.Skipped++
			continue
		}
		err := uc.tx.RunProduct(ctx, func(products repository.ProductRepository) error {
			fresh, err := products.GetForBusinessLocked(ctx, id, caller.BusinessID)
			if err != nil {
				return err
			}
			if fresh == nil || fresh.IsDeleted {
				return domain.ErrNotFound
			}
			if err := fresh.Approve(caller.UserID, time.Now()); err != nil {
				return err
			}
			return products.Update(ctx, fresh)
		})
		switch {
		case err == nil:
			summary.Approved++
			summary.ApprovedIDs = append(summary.ApprovedIDs, id)
			p.Status = entity.StatusApproved // un ID duplicado en la lista cuenta como skipped
		case errors.Is(err, domain.ErrAlreadyApproved):
			summary.Skipped++
		case errors.Is(err, domain.ErrNotFound):
			summary.NotFound++
			summary.NotFoundIDs = append(summary.NotFoundIDs, id)
		default:
			summary.Failed++
			summary.FailedIDs = append(summary.FailedIDs, id)
		}
	}
	return summary, nil
}

// SoftDelete marca el producto como eliminado (nunca borra la fila) y estampa
// deleted_by y deleted_at. Solo admin o el creador.
func (uc *ProductUseCase) SoftDelete(ctx context.Context, caller authz.Caller, id int64) error {
	if caller.BusinessID <= 0 {
		return domain.ErrNotFound
	}
	return uc.tx.RunProduct(ctx, func(products repository.ProductRepository) error {
		product, err := products.GetForBusinessLocked(ctx, id, caller.BusinessID)
		if err != nil {
			return err
		}
		if product == nil || product.IsDeleted {
			return domain.ErrNotFound
		}
		if d := authz.CanOnProduct(caller, authz.ActionDeleteProduct, product); !d.Allowed {
			return forbidden(d)
		}
		product.SoftDelete(caller.UserID, time.Now())
		return products.Update(ctx, product)
	})
}

// Restore limpia los campos de borrado lógico. Mismo gating que el borrado:
// admin o el creador original.
func (uc *ProductUseCase) Restore(ctx context.Context, caller authz.Caller, id int64) (*dto.ProductResponse, error) {
	if caller.BusinessID <= 0 {
		return nil, domain.ErrNotFound
	}
	var out *dto.ProductResponse
	err := uc.tx.RunProduct(ctx, func(products repository.ProductRepository) error {
		product, err := products.GetForBusinessLocked(ctx, id, caller.BusinessID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if d := authz.CanOnProduct(caller, authz.ActionRestoreProduct, product); !d.Allowed {
			return forbidden(d)
		}
		if !product.IsDeleted {
			return fmt.Errorf("%w: el producto no está eliminado", domain.ErrConflict)
		}
		product.Restore(time.Now())
		if err := products.Update(ctx, product); err != nil {
			return err
		}
		out = toProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListInternal listado de la empresa del caller (sin eliminados). El rol
// viewer no tiene acceso a esta vista.
func (uc *ProductUseCase) ListInternal(ctx context.Context, caller authz.Caller, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	if d := authz.Can(caller, authz.ActionViewInternal); !d.Allowed {
		return nil, forbidden(d)
	}
	if caller.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: debes pertenecer a una empresa", domain.ErrInvalidInput)
	}
	if q.Status != "" && !entity.ValidStatus(q.Status) {
		return nil, fmt.Errorf("%w: status '%s' no es válido", domain.ErrInvalidInput, q.Status)
	}
	list, total, err := uc.repo.ListByBusiness(ctx, caller.BusinessID, toProductFilter(q))
	if err != nil {
		return nil, err
	}
	return toProductList(list, total, q.Page), nil
}

// ListPublic catálogo público: solo productos approved y no eliminados, de
// todas las empresas. No requiere autenticación.
func (uc *ProductUseCase) ListPublic(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	list, total, err := uc.repo.ListPublic(ctx, toProductFilter(q))
	if err != nil {
		return nil, err
	}
	return toProductList(list, total, q.Page), nil
}

// validatePrice el precio no puede ser negativo ni tener más de dos decimales.
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if price.Exponent() < -2 {
		return fmt.Errorf("%w: el precio admite máximo dos decimales", domain.ErrInvalidInput)
	}
	return nil
}

func forbidden(d authz.Decision) error {
	return fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
}

func toProductFilter(q dto.ProductListQuery) repository.ProductFilter {
	return repository.ProductFilter{
		Search:  q.Search,
		Status:  q.Status,
		OrderBy: q.Order,
		Page:    q.Page,
	}
}

func toProductList(list []*entity.Product, total, page int) *dto.ProductListResponse {
	if page <= 0 {
		page = 1
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Page: page, PageSize: repository.PageSize, Total: total},
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		BusinessID:  p.BusinessID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Status:      p.Status,
		CreatedBy:   p.CreatedByID,
		ApprovedBy:  p.ApprovedByID,
		ApprovedAt:  p.ApprovedAt,
		IsDeleted:   p.IsDeleted,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
