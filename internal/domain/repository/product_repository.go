package repository

import (
	"context"

	"github.com/baisoft/marketplace-api/internal/domain/entity"
)

// PageSize tamaño fijo de página para todos los listados.
const PageSize = 10

// ProductFilter filtros para listados de productos.
type ProductFilter struct {
	Search  string // busca en name + description
	Status  string // opcional: draft, pending_approval, approved
	OrderBy string // created_at, price, name, status; prefijo "-" para descendente
	Page    int    // 1-based; <=0 se trata como 1
}

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// Todas las consultas internas (autenticadas) reciben businessID obligatorio;
// llamar con businessID <= 0 es un error de programación y falla rápido en el
// adaptador, nunca devuelve silenciosamente vacío. Los listados excluyen
// siempre los productos con borrado lógico; GetForBusiness no, porque el
// registro eliminado sigue siendo direccionable por ID para restaurarlo.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetForBusiness obtiene un producto por ID dentro de la empresa indicada
	// (incluye eliminados). Devuelve nil si no existe o está fuera de scope.
	GetForBusiness(ctx context.Context, id, businessID int64) (*entity.Product, error)
	// GetForBusinessLocked igual que GetForBusiness pero con SELECT ... FOR UPDATE;
	// solo tiene sentido dentro de una transacción (read-modify-write atómico).
	GetForBusinessLocked(ctx context.Context, id, businessID int64) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// ListByBusiness listado interno: empresa del caller, sin eliminados.
	ListByBusiness(ctx context.Context, businessID int64, f ProductFilter) ([]*entity.Product, int, error)
	// ListPublic catálogo público: solo approved y no eliminados, sin filtro de
	// empresa. Es la única superficie de lectura cross-tenant.
	ListPublic(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	// ListForApproval resuelve los IDs que existen, pertenecen a la empresa y
	// no están eliminados (fetch previo del bulk approve).
	ListForApproval(ctx context.Context, businessID int64, ids []int64) ([]*entity.Product, error)
}
