package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/baisoft/marketplace-api/internal/application/dto"
	"github.com/baisoft/marketplace-api/internal/domain"
	"github.com/baisoft/marketplace-api/internal/domain/authz"
	"github.com/baisoft/marketplace-api/internal/domain/entity"
	"github.com/baisoft/marketplace-api/internal/domain/repository"
	"github.com/baisoft/marketplace-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login e identidad.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, businessRepo repository.BusinessRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, businessRepo: businessRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// El username es único por empresa; el email único global.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	business, err := uc.businessRepo.GetByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound // empresa no existe
	}
	existing, _ := uc.userRepo.GetByUsernameAndBusiness(ctx, in.Username, in.BusinessID)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleViewer
	}
	if !entity.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	user := &entity.User{
		BusinessID:   in.BusinessID,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Las cuentas inactivas no pueden iniciar sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.BusinessID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// Me devuelve la foto de identidad del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// CallerByID resuelve la identidad fresca del caller para el middleware de
// auth. Role, empresa y flag activo se releen en cada petición: pueden haber
// cambiado desde la emisión del token.
func (uc *AuthUseCase) CallerByID(ctx context.Context, userID int64) (authz.Caller, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return authz.Caller{}, err
	}
	if user == nil {
		return authz.Caller{}, domain.ErrUserNotFound
	}
	return authz.Caller{
		UserID:     user.ID,
		BusinessID: user.BusinessID,
		Role:       user.Role,
		IsActive:   user.IsActive,
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
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
