package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/baisoft/marketplace-api/internal/domain"
)

// Estados del ciclo de vida de un producto.
const (
	StatusDraft           = "draft"
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
)

// ValidStatus indica si el string es uno de los estados soportados.
func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusPendingApproval, StatusApproved:
		return true
	}
	return false
}

// Product representa un producto del marketplace con flujo de aprobación y
// auditoría. El borrado es siempre lógico (IsDeleted); el registro queda
// direccionable por ID para restaurarlo.
type Product struct {
	ID           int64
	BusinessID   int64
	Name         string
	Description  string
	Price        decimal.Decimal // NUMERIC(10,2), nunca negativo
	ImageURL     string          // referencia opcional; el almacenamiento es externo
	Status       string          // draft, pending_approval, approved
	CreatedByID  int64
	ApprovedByID *int64
	ApprovedAt   *time.Time
	IsDeleted    bool
	DeletedByID  *int64
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanTransitionTo valida una transición de estado según el estado actual y el
// rol del usuario. Es un chequeo grueso: la autorización fina (quién puede
// ejecutar la mutación) se decide antes en el motor de autorización.
//
// Reglas:
//   - admin puede mover entre cualquier par de estados, incluido revertir approved
//   - approved queda congelado para no-admins (no se puede bajar de estado)
//   - solo admin/approver pueden llevar a approved
//   - editor solo se mueve entre draft y pending_approval
func (p *Product) CanTransitionTo(newStatus, role string) bool {
	if role == RoleAdmin {
		return true
	}
	if p.Status == StatusApproved && newStatus != StatusApproved {
		return false
	}
	if newStatus == StatusApproved && role != RoleAdmin && role != RoleApprover {
		return false
	}
	if role == RoleEditor {
		return newStatus == StatusDraft || newStatus == StatusPendingApproval
	}
	return true
}

// Approve marca el producto como aprobado y estampa auditoría (quién y cuándo).
// Rechaza si ya está aprobado: la re-aprobación no es idempotente-success.
func (p *Product) Approve(approverID int64, now time.Time) error {
	if p.Status == StatusApproved {
		return domain.ErrAlreadyApproved
	}
	p.Status = StatusApproved
	p.ApprovedByID = &approverID
	p.ApprovedAt = &now
	p.UpdatedAt = now
	return nil
}

// SoftDelete marca el producto como eliminado y estampa auditoría.
// No borra el registro; las consultas de listado lo excluyen.
func (p *Product) SoftDelete(deleterID int64, now time.Time) {
	p.IsDeleted = true
	p.DeletedByID = &deleterID
	p.DeletedAt = &now
	p.UpdatedAt = now
}

// Restore limpia atómicamente los tres campos de borrado lógico.
func (p *Product) Restore(now time.Time) {
	p.IsDeleted = false
	p.DeletedByID = nil
	p.DeletedAt = nil
	p.UpdatedAt = now
}
