package usecase

import (
	"context"

	"github.com/baisoft/marketplace-api/internal/application/dto"
	"github.com/baisoft/marketplace-api/internal/domain"
	"github.com/baisoft/marketplace-api/internal/domain/authz"
	"github.com/baisoft/marketplace-api/internal/domain/repository"
)

// BusinessUseCase consulta de la empresa propia.
type BusinessUseCase struct {
	repo repository.BusinessRepository
}

// NewBusinessUseCase construye el caso de uso.
func NewBusinessUseCase(repo repository.BusinessRepository) *BusinessUseCase {
	return &BusinessUseCase{repo: repo}
}

// Me devuelve la empresa del caller con su conteo de usuarios.
func (uc *BusinessUseCase) Me(ctx context.Context, caller authz.Caller) (*dto.BusinessResponse, error) {
	if caller.BusinessID <= 0 {
		return nil, domain.ErrNotFound
	}
	business, err := uc.repo.GetByID(ctx, caller.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	count, err := uc.repo.CountUsers(ctx, business.ID)
	if err != nil {
		return nil, err
	}
	return &dto.BusinessResponse{
		ID:          business.ID,
		Name:        business.Name,
		Description: business.Description,
		UserCount:   count,
		CreatedAt:   business.CreatedAt,
		UpdatedAt:   business.UpdatedAt,
	}, nil
}
