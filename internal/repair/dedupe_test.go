package repair

import (
	"context"
	"errors"
	"testing"
	"time"

	"tablero/internal/model"
	"tablero/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stub ──────────────────────────────────────────────────────────────────────

// stubObjetivoRepo is an in-memory ObjetivoRepository. The retrieval order of
// ListCuantitativosTodos follows the orden slice, so tests can verify that
// survivor selection does not depend on it.
type stubObjetivoRepo struct {
	orden        []uuid.UUID
	objetivos    map[uuid.UUID]model.ObjetivoCuantitativo
	asignaciones map[uuid.UUID][]model.VendedorObjetivoCuantitativo
	cualitativas []model.VendedorObjetivo

	fallarVictima map[uuid.UUID]bool
	fallarIndice  bool
	indiceCreado  bool
}

func newStubObjetivoRepo() *stubObjetivoRepo {
	return &stubObjetivoRepo{
		objetivos:     make(map[uuid.UUID]model.ObjetivoCuantitativo),
		asignaciones:  make(map[uuid.UUID][]model.VendedorObjetivoCuantitativo),
		fallarVictima: make(map[uuid.UUID]bool),
	}
}

func (r *stubObjetivoRepo) seed(tenantID *uuid.UUID, nombre string, creado time.Time, asignaciones int) uuid.UUID {
	o := model.ObjetivoCuantitativo{
		ID:            uuid.New(),
		Nombre:        nombre,
		MetricaTipo:   "monto",
		ValorObjetivo: decimal.NewFromInt(100000),
		TenantID:      tenantID,
		CreatedAt:     creado,
	}
	r.objetivos[o.ID] = o
	r.orden = append(r.orden, o.ID)
	for i := 0; i < asignaciones; i++ {
		r.asignaciones[o.ID] = append(r.asignaciones[o.ID], model.VendedorObjetivoCuantitativo{
			ID:                     uuid.New(),
			VendedorID:             uuid.New(),
			ObjetivoCuantitativoID: o.ID,
		})
	}
	return o.ID
}

func (r *stubObjetivoRepo) ListCuantitativosTodos(_ context.Context) ([]model.ObjetivoCuantitativo, error) {
	out := make([]model.ObjetivoCuantitativo, 0, len(r.orden))
	for _, id := range r.orden {
		if o, ok := r.objetivos[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubObjetivoRepo) CountAsignacionesCuantitativo(_ context.Context, objetivoID uuid.UUID) (int64, error) {
	return int64(len(r.asignaciones[objetivoID])), nil
}

func (r *stubObjetivoRepo) DeleteAsignacionesCuantitativoTx(_ *gorm.DB, objetivoID uuid.UUID) (int64, error) {
	n := int64(len(r.asignaciones[objetivoID]))
	delete(r.asignaciones, objetivoID)
	return n, nil
}

func (r *stubObjetivoRepo) DeleteCuantitativoTx(_ *gorm.DB, id uuid.UUID) error {
	if r.fallarVictima[id] {
		return errors.New("deadlock detected")
	}
	delete(r.objetivos, id)
	return nil
}

func (r *stubObjetivoRepo) CrearIndiceUnicidadCuantitativos(_ context.Context) error {
	if r.fallarIndice {
		return errors.New("could not create unique index: duplicate key value")
	}
	r.indiceCreado = true
	return nil
}

func (r *stubObjetivoRepo) DB() *gorm.DB { return nil }

// The rest of the interface is not exercised by the dedupe procedure.

func (r *stubObjetivoRepo) CreateCualitativo(_ context.Context, _ *model.ObjetivoCualitativo) error {
	return nil
}
func (r *stubObjetivoRepo) FindCualitativo(_ context.Context, _, _ uuid.UUID) (*model.ObjetivoCualitativo, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubObjetivoRepo) ListCualitativos(_ context.Context, _ uuid.UUID) ([]model.ObjetivoCualitativo, error) {
	return nil, nil
}
func (r *stubObjetivoRepo) UpdateCualitativo(_ context.Context, _ *model.ObjetivoCualitativo) error {
	return nil
}
func (r *stubObjetivoRepo) DeleteCualitativo(_ context.Context, _, _ uuid.UUID) error { return nil }
func (r *stubObjetivoRepo) CreateCuantitativo(_ context.Context, o *model.ObjetivoCuantitativo) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.objetivos[o.ID] = *o
	r.orden = append(r.orden, o.ID)
	return nil
}
func (r *stubObjetivoRepo) FindCuantitativo(_ context.Context, tenantID, id uuid.UUID) (*model.ObjetivoCuantitativo, error) {
	o, ok := r.objetivos[id]
	if !ok || o.TenantID == nil || *o.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}
func (r *stubObjetivoRepo) ListCuantitativos(_ context.Context, tenantID uuid.UUID) ([]model.ObjetivoCuantitativo, error) {
	var out []model.ObjetivoCuantitativo
	for _, id := range r.orden {
		if o, ok := r.objetivos[id]; ok && o.TenantID != nil && *o.TenantID == tenantID {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *stubObjetivoRepo) UpdateCuantitativo(_ context.Context, o *model.ObjetivoCuantitativo) error {
	r.objetivos[o.ID] = *o
	return nil
}
func (r *stubObjetivoRepo) AsignarCualitativo(_ context.Context, vo *model.VendedorObjetivo) error {
	r.cualitativas = append(r.cualitativas, *vo)
	return nil
}
func (r *stubObjetivoRepo) AsignarCuantitativo(_ context.Context, voc *model.VendedorObjetivoCuantitativo) error {
	r.asignaciones[voc.ObjetivoCuantitativoID] = append(r.asignaciones[voc.ObjetivoCuantitativoID], *voc)
	return nil
}
func (r *stubObjetivoRepo) ListAsignacionesCuantitativo(_ context.Context, objetivoID uuid.UUID) ([]model.VendedorObjetivoCuantitativo, error) {
	return r.asignaciones[objetivoID], nil
}
func (r *stubObjetivoRepo) ListAsignacionesDeVendedor(_ context.Context, _ uuid.UUID) ([]model.VendedorObjetivoCuantitativo, error) {
	return nil, nil
}
func (r *stubObjetivoRepo) ReplaceAsignacionesCuantitativoTx(_ *gorm.DB, objetivoID uuid.UUID, filas []model.VendedorObjetivoCuantitativo) error {
	r.asignaciones[objetivoID] = filas
	return nil
}
func (r *stubObjetivoRepo) DeleteAsignacionesVendedor(_ context.Context, vendedorID uuid.UUID) (int64, int64, error) {
	var cual int64
	restantes := r.cualitativas[:0]
	for _, vo := range r.cualitativas {
		if vo.VendedorID == vendedorID {
			cual++
			continue
		}
		restantes = append(restantes, vo)
	}
	r.cualitativas = restantes

	var cuant int64
	for objetivoID, filas := range r.asignaciones {
		quedan := filas[:0]
		for _, f := range filas {
			if f.VendedorID == vendedorID {
				cuant++
				continue
			}
			quedan = append(quedan, f)
		}
		r.asignaciones[objetivoID] = quedan
	}
	return cual, cuant, nil
}

var _ repository.ObjetivoRepository = (*stubObjetivoRepo)(nil)

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestDedupe_SobreviveElMasAsignado(t *testing.T) {
	repo := newStubObjetivoRepo()
	tenant := uuid.New()
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	// "Ventas Q1" por triplicado: una copia con 3 asignaciones, dos sin nada.
	conAsignaciones := repo.seed(&tenant, "Ventas Q1", base.Add(48*time.Hour), 3)
	repo.seed(&tenant, "Ventas Q1", base, 0)
	repo.seed(&tenant, "Ventas Q1", base.Add(time.Hour), 0)
	// Grupo sin conflicto, debe quedar intacto.
	unico := repo.seed(&tenant, "Ventas Q2", base, 1)

	res, err := NewDedupe(repo).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Conflictos)
	assert.Equal(t, int64(2), res.Eliminados)
	assert.Empty(t, res.FallosSuaves)

	_, sobrevive := repo.objetivos[conAsignaciones]
	assert.True(t, sobrevive, "la copia con asignaciones debe sobrevivir")
	_, intacto := repo.objetivos[unico]
	assert.True(t, intacto)
	assert.Len(t, repo.objetivos, 2)
	assert.Len(t, repo.asignaciones[conAsignaciones], 3)
	assert.True(t, repo.indiceCreado)
}

func TestDedupe_Idempotente(t *testing.T) {
	repo := newStubObjetivoRepo()
	tenant := uuid.New()
	base := time.Now()
	repo.seed(&tenant, "Renovaciones", base, 2)
	repo.seed(&tenant, "Renovaciones", base.Add(time.Minute), 0)

	d := NewDedupe(repo)
	primera, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), primera.Eliminados)

	segunda, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, segunda.Conflictos)
	assert.Equal(t, int64(0), segunda.Eliminados)
}

func TestDedupe_DesempateDeterminista(t *testing.T) {
	// Mismas asignaciones y mismo created_at: sobrevive el menor ID, sin
	// importar el orden de recuperación.
	creado := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tenant := uuid.New()

	construir := func(invertir bool) (*stubObjetivoRepo, uuid.UUID, uuid.UUID) {
		repo := newStubObjetivoRepo()
		a := repo.seed(&tenant, "Visitas", creado, 1)
		b := repo.seed(&tenant, "Visitas", creado, 1)
		if invertir {
			repo.orden[0], repo.orden[1] = repo.orden[1], repo.orden[0]
		}
		return repo, a, b
	}

	esperado := func(a, b uuid.UUID) uuid.UUID {
		if a.String() < b.String() {
			return a
		}
		return b
	}

	for _, invertir := range []bool{false, true} {
		repo, a, b := construir(invertir)
		_, err := NewDedupe(repo).Run(context.Background(), nil)
		require.NoError(t, err)

		_, ok := repo.objetivos[esperado(a, b)]
		assert.True(t, ok, "invertir=%v: debe sobrevivir el menor ID", invertir)
		assert.Len(t, repo.objetivos, 1)
	}
}

func TestDedupe_CreadoAntesGanaEnEmpate(t *testing.T) {
	repo := newStubObjetivoRepo()
	tenant := uuid.New()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	viejo := repo.seed(&tenant, "Altas nuevas", base, 1)
	repo.seed(&tenant, "Altas nuevas", base.Add(24*time.Hour), 1)

	_, err := NewDedupe(repo).Run(context.Background(), nil)
	require.NoError(t, err)

	_, ok := repo.objetivos[viejo]
	assert.True(t, ok, "a igual cantidad de asignaciones sobrevive el más antiguo")
	assert.Len(t, repo.objetivos, 1)
}

func TestDedupe_VictimaQueFallaNoDetieneElResto(t *testing.T) {
	repo := newStubObjetivoRepo()
	tenant := uuid.New()
	base := time.Now()

	repo.seed(&tenant, "Ventas Q1", base, 2)
	victimaTrabada := repo.seed(&tenant, "Ventas Q1", base.Add(time.Hour), 0)
	repo.fallarVictima[victimaTrabada] = true

	repo.seed(&tenant, "Ventas Q3", base, 2)
	repo.seed(&tenant, "Ventas Q3", base.Add(time.Hour), 0)

	d := NewDedupe(repo)
	res, err := d.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Conflictos)
	assert.Equal(t, int64(1), res.Eliminados, "el otro grupo se procesa igual")
	assert.Len(t, res.FallosSuaves, 1)
	_, sigueAhi := repo.objetivos[victimaTrabada]
	assert.True(t, sigueAhi)

	// Liberada la víctima, la siguiente corrida termina el trabajo.
	repo.fallarVictima[victimaTrabada] = false
	res, err = d.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Eliminados)
	assert.Len(t, repo.objetivos, 2)
}

func TestDedupe_FiltroPorTenant(t *testing.T) {
	repo := newStubObjetivoRepo()
	mio := uuid.New()
	ajeno := uuid.New()
	base := time.Now()

	repo.seed(&mio, "Ventas Q1", base, 1)
	repo.seed(&mio, "Ventas Q1", base.Add(time.Hour), 0)
	repo.seed(&ajeno, "Ventas Q1", base, 1)
	duplicadoAjeno := repo.seed(&ajeno, "Ventas Q1", base.Add(time.Hour), 0)

	res, err := NewDedupe(repo).Run(context.Background(), &mio)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Conflictos)
	assert.Equal(t, int64(1), res.Eliminados)
	_, ok := repo.objetivos[duplicadoAjeno]
	assert.True(t, ok, "el tenant ajeno no se toca")
}

func TestDedupe_MismoNombreDistintoTenantNoEsConflicto(t *testing.T) {
	repo := newStubObjetivoRepo()
	a := uuid.New()
	b := uuid.New()
	base := time.Now()

	repo.seed(&a, "Ventas Q1", base, 1)
	repo.seed(&b, "Ventas Q1", base, 1)

	res, err := NewDedupe(repo).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Conflictos)
	assert.Len(t, repo.objetivos, 2)
}

func TestDedupe_IndiceQueFallaEsFalloSuave(t *testing.T) {
	repo := newStubObjetivoRepo()
	tenant := uuid.New()
	base := time.Now()
	repo.seed(&tenant, "Ventas Q1", base, 1)
	repo.seed(&tenant, "Ventas Q1", base.Add(time.Hour), 0)
	repo.fallarIndice = true

	res, err := NewDedupe(repo).Run(context.Background(), nil)
	require.NoError(t, err, "el índice es mejora opcional, no aborta la corrida")
	assert.Equal(t, int64(1), res.Eliminados)
	assert.NotEmpty(t, res.FallosSuaves)
}
