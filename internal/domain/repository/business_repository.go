package repository

import (
	"context"

	"github.com/baisoft/marketplace-api/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para Business (DIP).
type BusinessRepository interface {
	Create(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id int64) (*entity.Business, error)
	GetByName(ctx context.Context, name string) (*entity.Business, error)
	// CountUsers número de usuarios de la empresa (para el snapshot de negocio).
	CountUsers(ctx context.Context, businessID int64) (int, error)
}
