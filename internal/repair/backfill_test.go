package repair

import (
	"context"
	"errors"
	"testing"

	"tablero/internal/model"
	"tablero/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubTenantRepo struct {
	tenants map[string]*model.Tenant
	creados int
}

func newStubTenantRepo() *stubTenantRepo {
	return &stubTenantRepo{tenants: make(map[string]*model.Tenant)}
}

func (r *stubTenantRepo) Create(_ context.Context, t *model.Tenant) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tenants[t.Nombre] = t
	r.creados++
	return nil
}

func (r *stubTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Tenant, error) {
	for _, t := range r.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTenantRepo) FindByNombre(_ context.Context, nombre string) (*model.Tenant, error) {
	t, ok := r.tenants[nombre]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTenantRepo) FindOrCreateByNombre(ctx context.Context, nombre string) (*model.Tenant, error) {
	if t, err := r.FindByNombre(ctx, nombre); err == nil {
		return t, nil
	}
	t := &model.Tenant{ID: uuid.New(), Nombre: nombre}
	r.tenants[nombre] = t
	r.creados++
	return t, nil
}

func (r *stubTenantRepo) List(_ context.Context) ([]model.Tenant, error) {
	var out []model.Tenant
	for _, t := range r.tenants {
		out = append(out, *t)
	}
	return out, nil
}

var _ repository.TenantRepository = (*stubTenantRepo)(nil)

// stubBackfillRepo models each table as a count of unmigrated rows.
type stubBackfillRepo struct {
	sinTenant    map[string]int64
	fallarTablas map[string]bool
	fallarFK     map[string]bool
	fksAgregadas []string
}

func newStubBackfillRepo() *stubBackfillRepo {
	return &stubBackfillRepo{
		sinTenant:    make(map[string]int64),
		fallarTablas: make(map[string]bool),
		fallarFK:     make(map[string]bool),
	}
}

func (r *stubBackfillRepo) AsignarTenantFaltante(_ context.Context, tabla string, _ uuid.UUID) (int64, error) {
	if r.fallarTablas[tabla] {
		return 0, errors.New("lock timeout")
	}
	n := r.sinTenant[tabla]
	r.sinTenant[tabla] = 0
	return n, nil
}

func (r *stubBackfillRepo) CountSinTenant(_ context.Context, tabla string) (int64, error) {
	return r.sinTenant[tabla], nil
}

func (r *stubBackfillRepo) AgregarFKTenant(_ context.Context, tabla string) error {
	if r.fallarFK[tabla] {
		return errors.New("constraint violation: null value in column tenant_id")
	}
	r.fksAgregadas = append(r.fksAgregadas, tabla)
	return nil
}

var _ repository.BackfillRepository = (*stubBackfillRepo)(nil)

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestBackfill_AsignaTodasLasTablas(t *testing.T) {
	tenants := newStubTenantRepo()
	repo := newStubBackfillRepo()
	repo.sinTenant["vendedores"] = 4
	repo.sinTenant["clientes"] = 10
	repo.sinTenant["objetivos_cuantitativos"] = 2

	res, err := NewBackfill(tenants, repo).Run(context.Background(), "default")
	require.NoError(t, err)

	assert.Equal(t, int64(16), res.Actualizados)
	assert.Equal(t, int64(4), res.PorTabla["vendedores"])
	assert.Equal(t, int64(10), res.PorTabla["clientes"])
	assert.Empty(t, res.FallosSuaves)
	assert.Len(t, repo.fksAgregadas, len(repository.TablasConTenant))

	restantes, err := NewBackfill(tenants, repo).Verificar(context.Background())
	require.NoError(t, err)
	for tabla, n := range restantes {
		assert.Zero(t, n, "tabla %s debería quedar sin filas por migrar", tabla)
	}
}

func TestBackfill_ReutilizaElTenantExistente(t *testing.T) {
	tenants := newStubTenantRepo()
	existente, err := tenants.FindOrCreateByNombre(context.Background(), "default")
	require.NoError(t, err)
	repo := newStubBackfillRepo()

	b := NewBackfill(tenants, repo)
	_, err = b.Run(context.Background(), "default")
	require.NoError(t, err)
	_, err = b.Run(context.Background(), "default")
	require.NoError(t, err)

	assert.Equal(t, 1, tenants.creados, "re-correr no crea un segundo tenant")
	assert.Equal(t, existente.ID, tenants.tenants["default"].ID)
}

func TestBackfill_ReCorridaEsNoOp(t *testing.T) {
	tenants := newStubTenantRepo()
	repo := newStubBackfillRepo()
	repo.sinTenant["tecnicos"] = 3

	b := NewBackfill(tenants, repo)
	primera, err := b.Run(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, int64(3), primera.Actualizados)

	segunda, err := b.Run(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, int64(0), segunda.Actualizados)
}

func TestBackfill_UnaTablaQueFallaNoDetieneElResto(t *testing.T) {
	tenants := newStubTenantRepo()
	repo := newStubBackfillRepo()
	repo.sinTenant["vendedores"] = 2
	repo.sinTenant["clientes"] = 5
	repo.fallarTablas["clientes"] = true

	res, err := NewBackfill(tenants, repo).Run(context.Background(), "default")
	require.NoError(t, err, "el fallo por tabla es suave, no fatal")

	assert.Equal(t, int64(2), res.Actualizados, "vendedores se migra aunque clientes falle")
	assert.NotEmpty(t, res.FallosSuaves)
	assert.Equal(t, int64(5), repo.sinTenant["clientes"], "clientes queda pendiente para la próxima corrida")

	// La tabla trabada se libera y la siguiente corrida la completa.
	repo.fallarTablas["clientes"] = false
	res, err = NewBackfill(tenants, repo).Run(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Actualizados)
}

func TestBackfill_FKQueFallaEsFalloSuave(t *testing.T) {
	tenants := newStubTenantRepo()
	repo := newStubBackfillRepo()
	repo.fallarFK["objetivos_tecnicos"] = true

	res, err := NewBackfill(tenants, repo).Run(context.Background(), "default")
	require.NoError(t, err)
	assert.NotEmpty(t, res.FallosSuaves)
	assert.Len(t, repo.fksAgregadas, len(repository.TablasConTenant)-1)
}
