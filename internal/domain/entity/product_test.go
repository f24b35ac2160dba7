package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baisoft/marketplace-api/internal/domain"
	"github.com/baisoft/marketplace-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados — CanTransitionTo
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransitionTo_TablaDeTransiciones(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		role    string
		allowed bool
	}{
		// admin puede todo, incluido revertir approved
		{"admin draft a pending", entity.StatusDraft, entity.StatusPendingApproval, entity.RoleAdmin, true},
		{"admin pending a approved", entity.StatusPendingApproval, entity.StatusApproved, entity.RoleAdmin, true},
		{"admin revierte approved a draft", entity.StatusApproved, entity.StatusDraft, entity.RoleAdmin, true},
		{"admin revierte approved a pending", entity.StatusApproved, entity.StatusPendingApproval, entity.RoleAdmin, true},

		// approved congelado para no-admins
		{"approver no revierte approved", entity.StatusApproved, entity.StatusDraft, entity.RoleApprover, false},
		{"editor no revierte approved", entity.StatusApproved, entity.StatusPendingApproval, entity.RoleEditor, false},

		// solo admin/approver llevan a approved
		{"approver aprueba desde pending", entity.StatusPendingApproval, entity.StatusApproved, entity.RoleApprover, true},
		{"approver aprueba desde draft", entity.StatusDraft, entity.StatusApproved, entity.RoleApprover, true},
		{"editor no aprueba", entity.StatusPendingApproval, entity.StatusApproved, entity.RoleEditor, false},
		{"viewer no aprueba", entity.StatusPendingApproval, entity.StatusApproved, entity.RoleViewer, false},

		// editor se mueve solo entre draft y pending_approval
		{"editor draft a pending", entity.StatusDraft, entity.StatusPendingApproval, entity.RoleEditor, true},
		{"editor pending a draft", entity.StatusPendingApproval, entity.StatusDraft, entity.RoleEditor, true},

		// approver puede bajar un pending a draft
		{"approver pending a draft", entity.StatusPendingApproval, entity.StatusDraft, entity.RoleApprover, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &entity.Product{Status: tc.from}
			assert.Equal(t, tc.allowed, p.CanTransitionTo(tc.to, tc.role))
		})
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, entity.ValidStatus(entity.StatusDraft))
	assert.True(t, entity.ValidStatus(entity.StatusPendingApproval))
	assert.True(t, entity.ValidStatus(entity.StatusApproved))
	assert.False(t, entity.ValidStatus("published"))
	assert.False(t, entity.ValidStatus(""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobación — sellos de auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_EstampaAuditoria(t *testing.T) {
	p := &entity.Product{Status: entity.StatusPendingApproval}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, p.Approve(42, now))

	assert.Equal(t, entity.StatusApproved, p.Status)
	require.NotNil(t, p.ApprovedByID)
	assert.Equal(t, int64(42), *p.ApprovedByID)
	require.NotNil(t, p.ApprovedAt)
	assert.Equal(t, now, *p.ApprovedAt)
	assert.Equal(t, now, p.UpdatedAt)
}

func TestApprove_YaAprobadoRechaza(t *testing.T) {
	p := &entity.Product{Status: entity.StatusPendingApproval}
	require.NoError(t, p.Approve(42, time.Now()))

	firstApprover := *p.ApprovedByID
	firstAt := *p.ApprovedAt

	err := p.Approve(99, time.Now().Add(time.Hour))
	require.ErrorIs(t, err, domain.ErrAlreadyApproved)

	// Los sellos originales no se sobreescriben.
	assert.Equal(t, firstApprover, *p.ApprovedByID)
	assert.Equal(t, firstAt, *p.ApprovedAt)
}

func TestApprove_DesdeDraftTambienAprueba(t *testing.T) {
	p := &entity.Product{Status: entity.StatusDraft}
	require.NoError(t, p.Approve(7, time.Now()))
	assert.Equal(t, entity.StatusApproved, p.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado lógico y restauración
// ──────────────────────────────────────────────────────────────────────────────

func TestSoftDeleteYRestore(t *testing.T) {
	p := &entity.Product{Status: entity.StatusApproved}
	deletedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p.SoftDelete(10, deletedAt)
	assert.True(t, p.IsDeleted)
	require.NotNil(t, p.DeletedByID)
	assert.Equal(t, int64(10), *p.DeletedByID)
	require.NotNil(t, p.DeletedAt)
	assert.Equal(t, deletedAt, *p.DeletedAt)

	restoredAt := deletedAt.Add(time.Hour)
	p.Restore(restoredAt)
	assert.False(t, p.IsDeleted)
	assert.Nil(t, p.DeletedByID)
	assert.Nil(t, p.DeletedAt)
	assert.Equal(t, restoredAt, p.UpdatedAt)

	// El status sobrevive el ciclo delete/restore.
	assert.Equal(t, entity.StatusApproved, p.Status)
}
