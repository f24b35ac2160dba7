package dto

import "time"

// RegisterRequest entrada para registro (auth): primer usuario de una empresa.
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=1,max=150"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	BusinessID int64  `json:"business_id" validate:"required"`
	Role       string `json:"role" validate:"omitempty,oneof=admin editor approver viewer"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateUserRequest alta de usuario por un admin de empresa (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin editor approver viewer"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserRequest modificación de usuario por un admin de empresa.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin editor approver viewer"`
	IsActive *bool   `json:"is_active"`
}

// UserListQuery parámetros de listado de usuarios.
type UserListQuery struct {
	Search   string `query:"search"`
	Role     string `query:"role"`
	IsActive string `query:"is_active"` // "true"/"false", vacío = sin filtro
	Order    string `query:"ordering"`  // date_joined, username, role
	Page     int    `query:"page"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"business_id,omitempty"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
