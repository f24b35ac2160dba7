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

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, business_id, username, email, password_hash, role, is_active, date_joined, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario y asigna el ID generado.
// business_id se guarda como NULL cuando el usuario no tiene empresa.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (business_id, username, email, password_hash, role, is_active, date_joined, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		nullableID(user.BusinessID), user.Username, user.Email, user.PasswordHash,
		user.Role, user.IsActive, user.DateJoined, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByEmail obtiene un usuario por email (login).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return r.scanOne(r.q.QueryRow(ctx, query, email))
}

// GetByUsernameAndBusiness obtiene un usuario por username dentro de una empresa.
// El username es único por empresa, no global.
func (r *UserRepo) GetByUsernameAndBusiness(ctx context.Context, username string, businessID int64) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 AND business_id = $2`, userColumns)
	return r.scanOne(r.q.QueryRow(ctx, query, username, businessID))
}

// Update actualiza un usuario existente.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET business_id = $2, username = $3, email = $4, password_hash = $5,
			role = $6, is_active = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		user.ID, nullableID(user.BusinessID), user.Username, user.Email, user.PasswordHash,
		user.Role, user.IsActive, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ListByBusiness lista usuarios de una empresa con búsqueda, filtros, orden y paginación.
func (r *UserRepo) ListByBusiness(ctx context.Context, businessID int64, f repository.UserFilter) ([]*entity.User, int, error) {
	if businessID <= 0 {
		return nil, 0, fmt.Errorf("consulta interna de usuarios sin business_id")
	}
	where := "WHERE business_id = $1"
	args := []any{businessID}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (username ILIKE $%d OR email ILIKE $%d)", n, n)
	}
	if f.Role != "" {
		args = append(args, f.Role)
		where += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		where += fmt.Sprintf(" AND is_active = $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT count(*) FROM users "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, repository.PageSize, (page-1)*repository.PageSize)
	query := fmt.Sprintf("SELECT %s FROM users %s ORDER BY %s LIMIT $%d OFFSET $%d",
		userColumns, where, userOrderClause(f.OrderBy), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

func (r *UserRepo) scanOne(row pgx.Row) (*entity.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var businessID *int64
	err := row.Scan(&u.ID, &businessID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.DateJoined, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if businessID != nil {
		u.BusinessID = *businessID
	}
	return &u, nil
}

// nullableID convierte 0 en NULL para FKs opcionales.
func nullableID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

func userOrderClause(orderBy string) string {
	dir := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		dir = "DESC"
		field = orderBy[1:]
	}
	switch field {
	case "date_joined", "username", "role":
		return field + " " + dir
	}
	return "date_joined DESC"
}
