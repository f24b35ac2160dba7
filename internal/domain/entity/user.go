package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleApprover = "approver"
	RoleViewer   = "viewer"
)

// ValidRole indica si el string es uno de los roles soportados.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleApprover, RoleViewer:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Business).
// Los permisos efectivos se derivan únicamente de Role; IsActive=false
// revoca todos los permisos sin importar el rol.
type User struct {
	ID           int64
	BusinessID   int64 // 0 = sin empresa asignada
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, editor, approver, viewer
	IsActive     bool
	DateJoined   time.Time
	UpdatedAt    time.Time
}
