// Package authz centraliza las decisiones de autorización en una única tabla
// rol → acciones, consultada uniformemente antes de cada mutación. Las
// funciones son puras: reciben una foto del caller y responden permitir/negar
// con una razón legible, sin tocar persistencia ni estado global.
package authz

import (
	"github.com/baisoft/marketplace-api/internal/domain/entity"
)

// Action identifica una acción autorizable.
type Action string

const (
	ActionCreateProduct  Action = "create_product"
	ActionEditProduct    Action = "edit_product"
	ActionDeleteProduct  Action = "delete_product"
	ActionApproveProduct Action = "approve_product"
	ActionRestoreProduct Action = "restore_product"
	ActionViewInternal   Action = "view_internal_products"
	ActionManageUsers    Action = "manage_users"
)

// Caller es la identidad resuelta del solicitante para la petición en curso.
type Caller struct {
	UserID     int64
	BusinessID int64 // 0 = sin empresa asignada
	Role       string
	IsActive   bool
}

// Decision resultado de una evaluación: permitir o negar con razón.
type Decision struct {
	Allowed bool
	Reason  string // vacío si Allowed
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// grants tabla rol → acciones permitidas. admin se resuelve antes de llegar
// aquí (permite todo dentro de su empresa). "own only" de editor sobre
// edit/delete/restore se aplica en CanOnProduct.
var grants = map[Action][]string{
	ActionCreateProduct:  {entity.RoleAdmin, entity.RoleEditor},
	ActionEditProduct:    {entity.RoleAdmin, entity.RoleEditor},
	ActionDeleteProduct:  {entity.RoleAdmin, entity.RoleEditor},
	ActionApproveProduct: {entity.RoleAdmin, entity.RoleApprover},
	ActionRestoreProduct: {entity.RoleAdmin, entity.RoleEditor},
	ActionViewInternal:   {entity.RoleAdmin, entity.RoleEditor, entity.RoleApprover},
	ActionManageUsers:    {entity.RoleAdmin},
}

// Can evalúa una acción sin objeto concreto (crear, listar, gestionar usuarios).
// Orden de evaluación: inactivo → negar todo; admin → permitir; tabla de roles.
func Can(caller Caller, action Action) Decision {
	if !caller.IsActive {
		return deny("la cuenta está inactiva")
	}
	if caller.Role == entity.RoleAdmin {
		return allow()
	}
	for _, role := range grants[action] {
		if caller.Role == role {
			return allow()
		}
	}
	return deny("el rol '" + caller.Role + "' no tiene permiso para " + string(action))
}

// CanOnProduct evalúa una acción sobre un producto concreto. Además de la
// tabla de roles aplica:
//   - pertenencia a la empresa: target fuera de la empresa del caller es
//     negación dura, incluso para admin
//   - regla "solo propios" del editor en edit/delete/restore
func CanOnProduct(caller Caller, action Action, p *entity.Product) Decision {
	if !caller.IsActive {
		return deny("la cuenta está inactiva")
	}
	if p == nil {
		return deny("producto no encontrado")
	}
	if caller.BusinessID == 0 || p.BusinessID != caller.BusinessID {
		return deny("el producto no pertenece a tu empresa")
	}
	if caller.Role == entity.RoleAdmin {
		return allow()
	}
	base := Can(caller, action)
	if !base.Allowed {
		return base
	}
	if caller.Role == entity.RoleEditor && ownScoped(action) && p.CreatedByID != caller.UserID {
		return deny("solo puedes modificar tus propios productos")
	}
	return allow()
}

// ownScoped acciones donde el editor queda restringido a sus propios productos.
func ownScoped(action Action) bool {
	switch action {
	case ActionEditProduct, ActionDeleteProduct, ActionRestoreProduct:
		return true
	}
	return false
}
