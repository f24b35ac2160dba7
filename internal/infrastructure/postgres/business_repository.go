package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/baisoft/marketplace-api/internal/domain"
	"github.com/baisoft/marketplace-api/internal/domain/entity"
	"github.com/baisoft/marketplace-api/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación del puerto BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador de persistencia para empresas.
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// Create persiste una nueva empresa y asigna el ID generado.
func (r *BusinessRepo) Create(ctx context.Context, business *entity.Business) error {
	query := `
		INSERT INTO businesses (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		business.Name, business.Description, business.CreatedAt, business.UpdatedAt,
	).Scan(&business.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *BusinessRepo) GetByID(ctx context.Context, id int64) (*entity.Business, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM businesses WHERE id = $1`
	var b entity.Business
	err := r.q.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

// GetByName obtiene una empresa por nombre (único global).
func (r *BusinessRepo) GetByName(ctx context.Context, name string) (*entity.Business, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM businesses WHERE name = $1`
	var b entity.Business
	err := r.q.QueryRow(ctx, query, name).Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business by name: %w", err)
	}
	return &b, nil
}

// CountUsers número de usuarios de la empresa.
func (r *BusinessRepo) CountUsers(ctx context.Context, businessID int64) (int, error) {
	var total int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM users WHERE business_id = $1`, businessID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count business users: %w", err)
	}
	return total, nil
}
