package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baisoft/marketplace-api/internal/application/dto"
	"github.com/baisoft/marketplace-api/internal/application/usecase"
	"github.com/baisoft/marketplace-api/internal/domain"
	"github.com/baisoft/marketplace-api/internal/domain/authz"
	"github.com/baisoft/marketplace-api/internal/domain/entity"
	"github.com/baisoft/marketplace-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

var errDB = errors.New("fallo de base de datos simulado")

// fakeProductRepo repositorio en memoria con scoping de empresa real.
type fakeProductRepo struct {
	products map[int64]*entity.Product
	nextID   int64
	// failUpdate fuerza errDB en Update para esos IDs (fallas por producto).
	failUpdate map[int64]bool
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func newFakeRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*entity.Product{}, failUpdate: map[int64]bool{}}
}

func (r *fakeProductRepo) add(p entity.Product) *entity.Product {
	r.nextID++
	p.ID = r.nextID
	cp := p
	r.products[p.ID] = &cp
	return &cp
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetForBusiness(_ context.Context, id, businessID int64) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok || p.BusinessID != businessID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetForBusinessLocked(ctx context.Context, id, businessID int64) (*entity.Product, error) {
	return r.GetForBusiness(ctx, id, businessID)
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	if r.failUpdate[p.ID] {
		return errDB
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) ListByBusiness(_ context.Context, businessID int64, _ repository.ProductFilter) ([]*entity.Product, int, error) {
	var list []*entity.Product
	for _, p := range r.products {
		if p.BusinessID == businessID && !p.IsDeleted {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, len(list), nil
}

func (r *fakeProductRepo) ListPublic(_ context.Context, _ repository.ProductFilter) ([]*entity.Product, int, error) {
	var list []*entity.Product
	for _, p := range r.products {
		if p.Status == entity.StatusApproved && !p.IsDeleted {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, len(list), nil
}

func (r *fakeProductRepo) ListForApproval(_ context.Context, businessID int64, ids []int64) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.BusinessID == businessID && !p.IsDeleted {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

// fakeTxRunner ejecuta fn contra el mismo repositorio, con rollback real: si fn
// falla se restaura el estado previo, como haría la transacción.
type fakeTxRunner struct {
	repo *fakeProductRepo
}

func (t *fakeTxRunner) RunProduct(ctx context.Context, fn func(repository.ProductRepository) error) error {
	snapshot := make(map[int64]*entity.Product, len(t.repo.products))
	for id, p := range t.repo.products {
		cp := *p
		snapshot[id] = &cp
	}
	if err := fn(t.repo); err != nil {
		t.repo.products = snapshot
		return err
	}
	return nil
}

func newUC(repo *fakeProductRepo) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(repo, &fakeTxRunner{repo: repo})
}

func asCaller(userID int64, role string) authz.Caller {
	return authz.Caller{UserID: userID, BusinessID: 10, Role: role, IsActive: true}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DefaultDraft(t *testing.T) {
	repo := newFakeRepo()
	uc := newUC(repo)

	out, err := uc.Create(context.Background(), asCaller(1, entity.RoleEditor), dto.CreateProductRequest{
		Name:  "Café de origen",
		Price: price("32000.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, out.Status)
	assert.Equal(t, int64(10), out.BusinessID)
	assert.Equal(t, int64(1), out.CreatedBy)
}

func TestCreate_EditorConStatusApprovedSeFuerzaADraft(t *testing.T) {
	uc := newUC(newFakeRepo())

	out, err := uc.Create(context.Background(), asCaller(1, entity.RoleEditor), dto.CreateProductRequest{
		Name:   "Mochila",
		Price:  price("185000"),
		Status: entity.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, out.Status, "un editor no puede crear directamente en approved")
}

func TestCreate_AdminPuedeCrearApproved(t *testing.T) {
	uc := newUC(newFakeRepo())

	out, err := uc.Create(context.Background(), asCaller(1, entity.RoleAdmin), dto.CreateProductRequest{
		Name:   "Hamaca",
		Price:  price("210000"),
		Status: entity.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, out.Status)
}

func TestCreate_ViewerProhibido(t *testing.T) {
	uc := newUC(newFakeRepo())
	_, err := uc.Create(context.Background(), asCaller(1, entity.RoleViewer), dto.CreateProductRequest{
		Name:  "x",
		Price: price("1"),
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_PrecioInvalido(t *testing.T) {
	uc := newUC(newFakeRepo())
	c := asCaller(1, entity.RoleEditor)

	_, err := uc.Create(context.Background(), c, dto.CreateProductRequest{Name: "x", Price: price("-1")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), c, dto.CreateProductRequest{Name: "x", Price: price("9.999")})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "más de dos decimales se rechaza")
}

func TestCreate_SinEmpresaRechaza(t *testing.T) {
	uc := newUC(newFakeRepo())
	c := asCaller(1, entity.RoleEditor)
	c.BusinessID = 0
	_, err := uc.Create(context.Background(), c, dto.CreateProductRequest{Name: "x", Price: price("1")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func strPtr(s string) *string { return &s }

func TestUpdate_EditorStatusFueraDeRangoSeDescartaYAplicaElResto(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusDraft, CreatedByID: 1})
	uc := newUC(repo)

	out, err := uc.Update(context.Background(), asCaller(1, entity.RoleEditor), p.ID, dto.UpdateProductRequest{
		Name:   strPtr("Café premium"),
		Status: strPtr(entity.StatusApproved),
	})
	require.NoError(t, err)
	assert.Equal(t, "Café premium", out.Name, "el resto de campos sí se aplica")
	assert.Equal(t, entity.StatusDraft, out.Status, "el status fuera de rango se descarta en silencio")
}

func TestUpdate_SinPermisoOScope(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusApproved, CreatedByID: 1})
	uc := newUC(repo)

	_, err := uc.Update(context.Background(), asCaller(2, entity.RoleApprover), p.ID, dto.UpdateProductRequest{
		Status: strPtr(entity.StatusDraft),
	})
	require.ErrorIs(t, err, domain.ErrForbidden, "approver no tiene permiso de edición")

	// admin de otra empresa tampoco: scoping primero
	other := asCaller(3, entity.RoleAdmin)
	other.BusinessID = 99
	_, err = uc.Update(context.Background(), other, p.ID, dto.UpdateProductRequest{Name: strPtr("x")})
	require.ErrorIs(t, err, domain.ErrNotFound, "fuera de la empresa el producto no existe")
}

func TestUpdate_EditorNoRevierteApprovedRechazaTodo(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusApproved, CreatedByID: 1})
	uc := newUC(repo)

	_, err := uc.Update(context.Background(), asCaller(1, entity.RoleEditor), p.ID, dto.UpdateProductRequest{
		Name:   strPtr("Café premium"),
		Status: strPtr(entity.StatusDraft),
	})
	require.ErrorIs(t, err, domain.ErrInvalidTransition, "approved queda congelado para el editor")

	// La transición inválida rechaza la actualización completa, no solo el status.
	assert.Equal(t, "Café", repo.products[p.ID].Name)
}

func TestUpdate_AdminRevierteApproved(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusApproved, CreatedByID: 1})
	uc := newUC(repo)

	out, err := uc.Update(context.Background(), asCaller(2, entity.RoleAdmin), p.ID, dto.UpdateProductRequest{
		Status: strPtr(entity.StatusDraft),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, out.Status)
}

func TestUpdate_EditorNoEditaProductoAjeno(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusDraft, CreatedByID: 2})
	uc := newUC(repo)

	_, err := uc.Update(context.Background(), asCaller(1, entity.RoleEditor), p.ID, dto.UpdateProductRequest{
		Name: strPtr("hack"),
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdate_EditorEnviaAPendingApproval(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusDraft, CreatedByID: 1})
	uc := newUC(repo)

	out, err := uc.Update(context.Background(), asCaller(1, entity.RoleEditor), p.ID, dto.UpdateProductRequest{
		Status: strPtr(entity.StatusPendingApproval),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingApproval, out.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_EstampaAprobadorYFecha(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusPendingApproval, CreatedByID: 1})
	uc := newUC(repo)

	out, err := uc.Approve(context.Background(), asCaller(5, entity.RoleApprover), p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, out.Status)
	require.NotNil(t, out.ApprovedBy)
	assert.Equal(t, int64(5), *out.ApprovedBy)
	assert.NotNil(t, out.ApprovedAt)
	assert.WithinDuration(t, time.Now(), *out.ApprovedAt, time.Minute)
}

func TestApprove_YaAprobado(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusApproved, CreatedByID: 1})
	uc := newUC(repo)

	_, err := uc.Approve(context.Background(), asCaller(5, entity.RoleApprover), p.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyApproved)
}

func TestApprove_EditorProhibido(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusPendingApproval, CreatedByID: 1})
	uc := newUC(repo)

	_, err := uc.Approve(context.Background(), asCaller(1, entity.RoleEditor), p.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApprove_OtraEmpresaEs404(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 99, Name: "Ajeno", Price: price("100"), Status: entity.StatusPendingApproval, CreatedByID: 1})
	uc := newUC(repo)

	_, err := uc.Approve(context.Background(), asCaller(5, entity.RoleApprover), p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound, "fuera de scope no se distingue de inexistente")
}

func TestApprove_EliminadoEs404(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusPendingApproval, CreatedByID: 1, IsDeleted: true})
	uc := newUC(repo)

	_, err := uc.Approve(context.Background(), asCaller(5, entity.RoleApprover), p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// BulkApprove
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkApprove_ValidacionDeFormaTodoONada(t *testing.T) {
	uc := newUC(newFakeRepo())
	approver := asCaller(5, entity.RoleApprover)

	_, err := uc.BulkApprove(context.Background(), approver, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput, "lista vacía se rechaza")

	tooMany := make([]int64, usecase.MaxBulkApprove+1)
	for i := range tooMany {
		tooMany[i] = int64(i + 1)
	}
	_, err = uc.BulkApprove(context.Background(), approver, tooMany)
	require.ErrorIs(t, err, domain.ErrInvalidInput, "más de 100 IDs se rechaza sin efectos")
}

func TestBulkApprove_ResumenMixto(t *testing.T) {
	repo := newFakeRepo()
	pending := repo.add(entity.Product{BusinessID: 10, Name: "a", Price: price("1"), Status: entity.StatusPendingApproval, CreatedByID: 1})
	already := repo.add(entity.Product{BusinessID: 10, Name: "b", Price: price("1"), Status: entity.StatusApproved, CreatedByID: 1})
	deleted := repo.add(entity.Product{BusinessID: 10, Name: "c", Price: price("1"), Status: entity.StatusDraft, CreatedByID: 1, IsDeleted: true})
	ajeno := repo.add(entity.Product{BusinessID: 99, Name: "d", Price: price("1"), Status: entity.StatusPendingApproval, CreatedByID: 1})
	failing := repo.add(entity.Product{BusinessID: 10, Name: "e", Price: price("1"), Status: entity.StatusDraft, CreatedByID: 1})
	repo.failUpdate[failing.ID] = true
	uc := newUC(repo)

	ids := []int64{pending.ID, already.ID, deleted.ID, ajeno.ID, failing.ID, 12345}
	out, err := uc.BulkApprove(context.Background(), asCaller(5, entity.RoleApprover), ids)
	require.NoError(t, err, "las fallas por producto nunca abortan la petición")

	assert.Equal(t, 6, out.TotalRequested)
	assert.Equal(t, 1, out.Approved)
	assert.Equal(t, 1, out.Skipped)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, 3, out.NotFound, "eliminado, de otra empresa e inexistente cuentan como not_found")
	assert.Equal(t, []int64{pending.ID}, out.ApprovedIDs)
	assert.Equal(t, []int64{failing.ID}, out.FailedIDs)
	assert.ElementsMatch(t, []int64{deleted.ID, ajeno.ID, 12345}, out.NotFoundIDs)

	// El que falló quedó intacto (rollback de su transacción).
	assert.Equal(t, entity.StatusDraft, repo.products[failing.ID].Status)
	// El aprobado sí quedó estampado.
	require.NotNil(t, repo.products[pending.ID].ApprovedByID)
	assert.Equal(t, int64(5), *repo.products[pending.ID].ApprovedByID)
}

func TestBulkApprove_IDDuplicadoCuentaComoSkipped(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "a", Price: price("1"), Status: entity.StatusPendingApproval, CreatedByID: 1})
	uc := newUC(repo)

	out, err := uc.BulkApprove(context.Background(), asCaller(5, entity.RoleApprover), []int64{p.ID, p.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Approved)
	assert.Equal(t, 1, out.Skipped)
}

func TestBulkApprove_EditorProhibido(t *testing.T) {
	uc := newUC(newFakeRepo())
	_, err := uc.BulkApprove(context.Background(), asCaller(1, entity.RoleEditor), []int64{1})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// SoftDelete / Restore
// ──────────────────────────────────────────────────────────────────────────────

func TestSoftDelete_EstampaYExcluyeDeListados(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusDraft, CreatedByID: 1})
	uc := newUC(repo)

	require.NoError(t, uc.SoftDelete(context.Background(), asCaller(1, entity.RoleEditor), p.ID))

	stored := repo.products[p.ID]
	assert.True(t, stored.IsDeleted)
	require.NotNil(t, stored.DeletedByID)
	assert.Equal(t, int64(1), *stored.DeletedByID)

	list, err := uc.ListInternal(context.Background(), asCaller(1, entity.RoleEditor), dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "el eliminado no aparece en listados")

	// Pero el detalle sigue siendo direccionable.
	got, err := uc.GetByID(context.Background(), asCaller(1, entity.RoleEditor), p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
}

func TestSoftDelete_YaEliminadoEs404(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusDraft, CreatedByID: 1, IsDeleted: true})
	uc := newUC(repo)

	err := uc.SoftDelete(context.Background(), asCaller(1, entity.RoleEditor), p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSoftDelete_EditorNoBorraAjeno(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusDraft, CreatedByID: 2})
	uc := newUC(repo)

	err := uc.SoftDelete(context.Background(), asCaller(1, entity.RoleEditor), p.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRestore_LimpiaCamposDeBorrado(t *testing.T) {
	repo := newFakeRepo()
	deleterID := int64(1)
	deletedAt := time.Now()
	p := repo.add(entity.Product{
		BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusApproved,
		CreatedByID: 1, IsDeleted: true, DeletedByID: &deleterID, DeletedAt: &deletedAt,
	})
	uc := newUC(repo)

	out, err := uc.Restore(context.Background(), asCaller(1, entity.RoleEditor), p.ID)
	require.NoError(t, err)
	assert.False(t, out.IsDeleted)
	assert.Equal(t, entity.StatusApproved, out.Status, "el status sobrevive el ciclo delete/restore")

	stored := repo.products[p.ID]
	assert.Nil(t, stored.DeletedByID)
	assert.Nil(t, stored.DeletedAt)
}

func TestRestore_NoEliminadoEsConflicto(t *testing.T) {
	repo := newFakeRepo()
	p := repo.add(entity.Product{BusinessID: 10, Name: "Café", Price: price("100"), Status: entity.StatusDraft, CreatedByID: 1})
	uc := newUC(repo)

	_, err := uc.Restore(context.Background(), asCaller(1, entity.RoleEditor), p.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestListInternal_ViewerProhibido(t *testing.T) {
	uc := newUC(newFakeRepo())
	_, err := uc.ListInternal(context.Background(), asCaller(1, entity.RoleViewer), dto.ProductListQuery{})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListInternal_StatusInvalido(t *testing.T) {
	uc := newUC(newFakeRepo())
	_, err := uc.ListInternal(context.Background(), asCaller(1, entity.RoleEditor), dto.ProductListQuery{Status: "published"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListPublic_SoloAprobadosNoEliminados(t *testing.T) {
	repo := newFakeRepo()
	repo.add(entity.Product{BusinessID: 10, Name: "a", Price: price("1"), Status: entity.StatusApproved, CreatedByID: 1})
	repo.add(entity.Product{BusinessID: 99, Name: "b", Price: price("1"), Status: entity.StatusApproved, CreatedByID: 1})
	repo.add(entity.Product{BusinessID: 10, Name: "c", Price: price("1"), Status: entity.StatusDraft, CreatedByID: 1})
	repo.add(entity.Product{BusinessID: 10, Name: "d", Price: price("1"), Status: entity.StatusApproved, CreatedByID: 1, IsDeleted: true})
	uc := newUC(repo)

	out, err := uc.ListPublic(context.Background(), dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2, "cross-tenant pero solo approved y no eliminados")
}
