package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/baisoft/marketplace-api/internal/domain"
	"github.com/baisoft/marketplace-api/internal/domain/entity"
	"github.com/baisoft/marketplace-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, business_id, name, description, price, image_url, status,
	created_by, approved_by, approved_at, is_deleted, deleted_by, deleted_at, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y asigna el ID generado.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (business_id, name, description, price, image_url, status, created_by, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		product.BusinessID, product.Name, product.Description, product.Price,
		product.ImageURL, product.Status, product.CreatedByID,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetForBusiness obtiene un producto por ID dentro de la empresa (incluye eliminados).
func (r *ProductRepo) GetForBusiness(ctx context.Context, id, businessID int64) (*entity.Product, error) {
	return r.getForBusiness(ctx, id, businessID, false)
}

// GetForBusinessLocked igual que GetForBusiness, con FOR UPDATE para read-modify-write atómico en tx.
func (r *ProductRepo) GetForBusinessLocked(ctx context.Context, id, businessID int64) (*entity.Product, error) {
	return r.getForBusiness(ctx, id, businessID, true)
}

func (r *ProductRepo) getForBusiness(ctx context.Context, id, businessID int64, locked bool) (*entity.Product, error) {
	if businessID <= 0 {
		return nil, fmt.Errorf("consulta interna de productos sin business_id")
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND business_id = $2`, productColumns)
	if locked {
		query += " FOR UPDATE"
	}
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id, businessID).Scan(
		&p.ID, &p.BusinessID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Status,
		&p.CreatedByID, &p.ApprovedByID, &p.ApprovedAt, &p.IsDeleted, &p.DeletedByID, &p.DeletedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza un producto existente, incluidos los campos de aprobación y borrado lógico.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, image_url = $5, status = $6,
			approved_by = $7, approved_at = $8, is_deleted = $9, deleted_by = $10, deleted_at = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.ImageURL, product.Status,
		product.ApprovedByID, product.ApprovedAt, product.IsDeleted, product.DeletedByID, product.DeletedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// ListByBusiness listado interno: empresa del caller, sin eliminados, con búsqueda, orden y paginación.
func (r *ProductRepo) ListByBusiness(ctx context.Context, businessID int64, f repository.ProductFilter) ([]*entity.Product, int, error) {
	if businessID <= 0 {
		return nil, 0, fmt.Errorf("consulta interna de productos sin business_id")
	}
	where := "WHERE business_id = $1 AND is_deleted = false"
	args := []any{businessID}
	return r.list(ctx, where, args, f)
}

// ListPublic catálogo público: solo approved y no eliminados, todas las empresas.
func (r *ProductRepo) ListPublic(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	where := "WHERE status = $1 AND is_deleted = false"
	args := []any{entity.StatusApproved}
	f.Status = "" // el filtro de estado no aplica al catálogo público
	return r.list(ctx, where, args, f)
}

func (r *ProductRepo) list(ctx context.Context, where string, args []any, f repository.ProductFilter) ([]*entity.Product, int, error) {
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", n, n)
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT count(*) FROM products "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, repository.PageSize, (page-1)*repository.PageSize)
	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, where, productOrderClause(f.OrderBy), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Status,
			&p.CreatedByID, &p.ApprovedByID, &p.ApprovedAt, &p.IsDeleted, &p.DeletedByID, &p.DeletedAt,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, total, rows.Err()
}

// ListForApproval resuelve los IDs que existen, pertenecen a la empresa y no están eliminados.
func (r *ProductRepo) ListForApproval(ctx context.Context, businessID int64, ids []int64) ([]*entity.Product, error) {
	if businessID <= 0 {
		return nil, fmt.Errorf("consulta interna de productos sin business_id")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE business_id = $1 AND is_deleted = false AND id = ANY($2)`, productColumns)
	rows, err := r.q.Query(ctx, query, businessID, ids)
	if err != nil {
		return nil, fmt.Errorf("list products for approval: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Status,
			&p.CreatedByID, &p.ApprovedByID, &p.ApprovedAt, &p.IsDeleted, &p.DeletedByID, &p.DeletedAt,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// productOrderClause traduce el campo de orden pedido a una cláusula segura.
// Solo se aceptan campos de la whitelist; cualquier otro cae al default.
func productOrderClause(orderBy string) string {
	dir := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		dir = "DESC"
		field = orderBy[1:]
	}
	switch field {
	case "created_at", "price", "name", "status":
		return field + " " + dir
	}
	return "created_at DESC"
}
