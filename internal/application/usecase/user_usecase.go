package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/baisoft/marketplace-api/internal/application/dto"
	"github.com/baisoft/marketplace-api/internal/domain"
	"github.com/baisoft/marketplace-api/internal/domain/authz"
	"github.com/baisoft/marketplace-api/internal/domain/entity"
	"github.com/baisoft/marketplace-api/internal/domain/repository"
)

// UserUseCase gestión de usuarios de la empresa. Todas las operaciones
// requieren rol admin y quedan limitadas a la empresa del caller: un admin
// jamás ve ni toca usuarios de otra empresa.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List lista usuarios de la empresa del caller con búsqueda, filtros y paginación.
func (uc *UserUseCase) List(ctx context.Context, caller authz.Caller, q dto.UserListQuery) (*dto.UserListResponse, error) {
	if d := authz.Can(caller, authz.ActionManageUsers); !d.Allowed {
		return nil, forbidden(d)
	}
	if caller.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: debes pertenecer a una empresa", domain.ErrInvalidInput)
	}
	f := repository.UserFilter{
		Search:  q.Search,
		Role:    q.Role,
		OrderBy: q.Order,
		Page:    q.Page,
	}
	if q.IsActive != "" {
		active, err := strconv.ParseBool(q.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%w: is_active debe ser true o false", domain.ErrInvalidInput)
		}
		f.IsActive = &active
	}
	list, total, err := uc.repo.ListByBusiness(ctx, caller.BusinessID, f)
	if err != nil {
		return nil, err
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toManagedUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Page: page, PageSize: repository.PageSize, Total: total},
	}, nil
}

// Create da de alta un usuario en la empresa del caller. El rol por defecto
// es viewer; la empresa se fuerza desde el caller, nunca desde el payload.
func (uc *UserUseCase) Create(ctx context.Context, caller authz.Caller, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if d := authz.Can(caller, authz.ActionManageUsers); !d.Allowed {
		return nil, forbidden(d)
	}
	if caller.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: debes pertenecer a una empresa", domain.ErrInvalidInput)
	}
	if in.Username == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: username y email son requeridos", domain.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleViewer
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: role '%s' no es válido", domain.ErrInvalidInput, role)
	}
	existing, _ := uc.repo.GetByUsernameAndBusiness(ctx, in.Username, caller.BusinessID)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	user := &entity.User{
		BusinessID:   caller.BusinessID,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
		DateJoined:   now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toManagedUserResponse(user), nil
}

// GetByID obtiene un usuario de la empresa del caller. Usuarios de otras
// empresas se reportan como no encontrados.
func (uc *UserUseCase) GetByID(ctx context.Context, caller authz.Caller, id int64) (*dto.UserResponse, error) {
	user, err := uc.scoped(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toManagedUserResponse(user), nil
}

// Update modifica rol, email, flag activo y opcionalmente el password de un
// usuario de la empresa del caller.
func (uc *UserUseCase) Update(ctx context.Context, caller authz.Caller, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.scoped(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: role '%s' no es válido", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, fmt.Errorf("%w: password debe tener al menos 8 caracteres", domain.ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toManagedUserResponse(user), nil
}

// Delete elimina un usuario de la empresa del caller.
func (uc *UserUseCase) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	user, err := uc.scoped(ctx, caller, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, user.ID)
}

// scoped resuelve el usuario objetivo aplicando gating de admin y scoping de
// empresa. Fuera de scope = no encontrado (sin filtrar existencia de tenants).
func (uc *UserUseCase) scoped(ctx context.Context, caller authz.Caller, id int64) (*entity.User, error) {
	if d := authz.Can(caller, authz.ActionManageUsers); !d.Allowed {
		return nil, forbidden(d)
	}
	if caller.BusinessID <= 0 {
		return nil, domain.ErrNotFound
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.BusinessID != caller.BusinessID {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func toManagedUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		BusinessID: u.BusinessID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		DateJoined: u.DateJoined,
		UpdatedAt:  u.UpdatedAt,
	}
}
