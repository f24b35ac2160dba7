package repository

import (
	"context"

	"github.com/baisoft/marketplace-api/internal/domain/entity"
)

// UserFilter filtros para listados de usuarios.
type UserFilter struct {
	Search   string // busca en username + email
	Role     string // opcional
	IsActive *bool  // opcional
	OrderBy  string // date_joined, username, role; prefijo "-" para descendente
	Page     int    // 1-based
}

// UserRepository define el puerto de persistencia para User (DIP).
// Las consultas de gestión reciben businessID obligatorio (scoping de tenant).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsernameAndBusiness(ctx context.Context, username string, businessID int64) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
	ListByBusiness(ctx context.Context, businessID int64, f UserFilter) ([]*entity.User, int, error)
}
