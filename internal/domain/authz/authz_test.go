package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baisoft/marketplace-api/internal/domain/authz"
	"github.com/baisoft/marketplace-api/internal/domain/entity"
)

func caller(role string) authz.Caller {
	return authz.Caller{UserID: 1, BusinessID: 10, Role: role, IsActive: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// Can — tabla rol → acción
// ──────────────────────────────────────────────────────────────────────────────

func TestCan_TablaDePermisos(t *testing.T) {
	cases := []struct {
		role    string
		action  authz.Action
		allowed bool
	}{
		{entity.RoleAdmin, authz.ActionCreateProduct, true},
		{entity.RoleAdmin, authz.ActionApproveProduct, true},
		{entity.RoleAdmin, authz.ActionManageUsers, true},

		{entity.RoleEditor, authz.ActionCreateProduct, true},
		{entity.RoleEditor, authz.ActionEditProduct, true},
		{entity.RoleEditor, authz.ActionDeleteProduct, true},
		{entity.RoleEditor, authz.ActionViewInternal, true},
		{entity.RoleEditor, authz.ActionApproveProduct, false},
		{entity.RoleEditor, authz.ActionManageUsers, false},

		{entity.RoleApprover, authz.ActionApproveProduct, true},
		{entity.RoleApprover, authz.ActionViewInternal, true},
		{entity.RoleApprover, authz.ActionCreateProduct, false},
		{entity.RoleApprover, authz.ActionEditProduct, false},
		{entity.RoleApprover, authz.ActionDeleteProduct, false},

		{entity.RoleViewer, authz.ActionViewInternal, false},
		{entity.RoleViewer, authz.ActionCreateProduct, false},
		{entity.RoleViewer, authz.ActionApproveProduct, false},
	}
	for _, tc := range cases {
		t.Run(tc.role+"/"+string(tc.action), func(t *testing.T) {
			d := authz.Can(caller(tc.role), tc.action)
			assert.Equal(t, tc.allowed, d.Allowed)
			if !tc.allowed {
				assert.NotEmpty(t, d.Reason, "una negación siempre lleva razón")
			}
		})
	}
}

func TestCan_CuentaInactivaNiegaTodo(t *testing.T) {
	c := caller(entity.RoleAdmin)
	c.IsActive = false
	d := authz.Can(c, authz.ActionCreateProduct)
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "inactiva")
}

// ──────────────────────────────────────────────────────────────────────────────
// CanOnProduct — scoping de empresa y regla "solo propios"
// ──────────────────────────────────────────────────────────────────────────────

func TestCanOnProduct_OtraEmpresaNiegaInclusoAdmin(t *testing.T) {
	p := &entity.Product{ID: 5, BusinessID: 99, CreatedByID: 1}
	d := authz.CanOnProduct(caller(entity.RoleAdmin), authz.ActionEditProduct, p)
	assert.False(t, d.Allowed)
}

func TestCanOnProduct_SinEmpresaNiega(t *testing.T) {
	c := caller(entity.RoleAdmin)
	c.BusinessID = 0
	p := &entity.Product{ID: 5, BusinessID: 10, CreatedByID: 1}
	d := authz.CanOnProduct(c, authz.ActionEditProduct, p)
	assert.False(t, d.Allowed)
}

func TestCanOnProduct_EditorSoloSusPropios(t *testing.T) {
	own := &entity.Product{ID: 5, BusinessID: 10, CreatedByID: 1}
	ajeno := &entity.Product{ID: 6, BusinessID: 10, CreatedByID: 2}

	assert.True(t, authz.CanOnProduct(caller(entity.RoleEditor), authz.ActionEditProduct, own).Allowed)
	assert.False(t, authz.CanOnProduct(caller(entity.RoleEditor), authz.ActionEditProduct, ajeno).Allowed)
	assert.False(t, authz.CanOnProduct(caller(entity.RoleEditor), authz.ActionDeleteProduct, ajeno).Allowed)
	assert.False(t, authz.CanOnProduct(caller(entity.RoleEditor), authz.ActionRestoreProduct, ajeno).Allowed)
}

func TestCanOnProduct_AdminEditaProductosAjenosDeSuEmpresa(t *testing.T) {
	ajeno := &entity.Product{ID: 6, BusinessID: 10, CreatedByID: 2}
	assert.True(t, authz.CanOnProduct(caller(entity.RoleAdmin), authz.ActionEditProduct, ajeno).Allowed)
	assert.True(t, authz.CanOnProduct(caller(entity.RoleAdmin), authz.ActionDeleteProduct, ajeno).Allowed)
}

func TestCanOnProduct_ApproverApruebaProductosAjenos(t *testing.T) {
	// La regla "solo propios" aplica al editor, no al approver.
	ajeno := &entity.Product{ID: 6, BusinessID: 10, CreatedByID: 2}
	assert.True(t, authz.CanOnProduct(caller(entity.RoleApprover), authz.ActionApproveProduct, ajeno).Allowed)
}

func TestCanOnProduct_ProductoNilNiega(t *testing.T) {
	d := authz.CanOnProduct(caller(entity.RoleAdmin), authz.ActionEditProduct, nil)
	assert.False(t, d.Allowed)
}

func TestCanOnProduct_InactivoNiegaAntesDeScoping(t *testing.T) {
	c := caller(entity.RoleAdmin)
	c.IsActive = false
	own := &entity.Product{ID: 5, BusinessID: 10, CreatedByID: 1}
	assert.False(t, authz.CanOnProduct(c, authz.ActionEditProduct, own).Allowed)
}
