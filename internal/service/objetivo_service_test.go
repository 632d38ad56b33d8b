package service

import (
	"context"
	"testing"
	"time"

	"tablero/internal/apierror"
	"tablero/internal/dto"
	"tablero/internal/model"
	"tablero/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubObjetivoRepo is the in-memory ObjetivoRepository for service tests.
type stubObjetivoRepo struct {
	cuantitativos map[uuid.UUID]*model.ObjetivoCuantitativo
	cualitativos  map[uuid.UUID]*model.ObjetivoCualitativo
	asignaciones  map[uuid.UUID][]model.VendedorObjetivoCuantitativo
	vinculosCual  []model.VendedorObjetivo
}

func newStubObjetivoRepo() *stubObjetivoRepo {
	return &stubObjetivoRepo{
		cuantitativos: make(map[uuid.UUID]*model.ObjetivoCuantitativo),
		cualitativos:  make(map[uuid.UUID]*model.ObjetivoCualitativo),
		asignaciones:  make(map[uuid.UUID][]model.VendedorObjetivoCuantitativo),
	}
}

func (r *stubObjetivoRepo) CreateCualitativo(_ context.Context, o *model.ObjetivoCualitativo) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.cualitativos[o.ID] = o
	return nil
}

func (r *stubObjetivoRepo) FindCualitativo(_ context.Context, tenantID, id uuid.UUID) (*model.ObjetivoCualitativo, error) {
	o, ok := r.cualitativos[id]
	if !ok || o.TenantID == nil || *o.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubObjetivoRepo) ListCualitativos(_ context.Context, tenantID uuid.UUID) ([]model.ObjetivoCualitativo, error) {
	var out []model.ObjetivoCualitativo
	for _, o := range r.cualitativos {
		if o.TenantID != nil && *o.TenantID == tenantID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubObjetivoRepo) UpdateCualitativo(_ context.Context, o *model.ObjetivoCualitativo) error {
	r.cualitativos[o.ID] = o
	return nil
}

func (r *stubObjetivoRepo) DeleteCualitativo(_ context.Context, _, id uuid.UUID) error {
	delete(r.cualitativos, id)
	return nil
}

func (r *stubObjetivoRepo) CreateCuantitativo(_ context.Context, o *model.ObjetivoCuantitativo) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	r.cuantitativos[o.ID] = o
	return nil
}

func (r *stubObjetivoRepo) FindCuantitativo(_ context.Context, tenantID, id uuid.UUID) (*model.ObjetivoCuantitativo, error) {
	o, ok := r.cuantitativos[id]
	if !ok || o.TenantID == nil || *o.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubObjetivoRepo) ListCuantitativos(_ context.Context, tenantID uuid.UUID) ([]model.ObjetivoCuantitativo, error) {
	var out []model.ObjetivoCuantitativo
	for _, o := range r.cuantitativos {
		if o.TenantID != nil && *o.TenantID == tenantID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubObjetivoRepo) ListCuantitativosTodos(_ context.Context) ([]model.ObjetivoCuantitativo, error) {
	var out []model.ObjetivoCuantitativo
	for _, o := range r.cuantitativos {
		out = append(out, *o)
	}
	return out, nil
}

func (r *stubObjetivoRepo) UpdateCuantitativo(_ context.Context, o *model.ObjetivoCuantitativo) error {
	r.cuantitativos[o.ID] = o
	return nil
}

func (r *stubObjetivoRepo) AsignarCualitativo(_ context.Context, vo *model.VendedorObjetivo) error {
	r.vinculosCual = append(r.vinculosCual, *vo)
	return nil
}

func (r *stubObjetivoRepo) AsignarCuantitativo(_ context.Context, voc *model.VendedorObjetivoCuantitativo) error {
	r.asignaciones[voc.ObjetivoCuantitativoID] = append(r.asignaciones[voc.ObjetivoCuantitativoID], *voc)
	return nil
}

func (r *stubObjetivoRepo) ListAsignacionesCuantitativo(_ context.Context, objetivoID uuid.UUID) ([]model.VendedorObjetivoCuantitativo, error) {
	return r.asignaciones[objetivoID], nil
}

func (r *stubObjetivoRepo) ListAsignacionesDeVendedor(_ context.Context, vendedorID uuid.UUID) ([]model.VendedorObjetivoCuantitativo, error) {
	var out []model.VendedorObjetivoCuantitativo
	for _, filas := range r.asignaciones {
		for _, f := range filas {
			if f.VendedorID == vendedorID {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

func (r *stubObjetivoRepo) CountAsignacionesCuantitativo(_ context.Context, objetivoID uuid.UUID) (int64, error) {
	return int64(len(r.asignaciones[objetivoID])), nil
}

func (r *stubObjetivoRepo) ReplaceAsignacionesCuantitativoTx(_ *gorm.DB, objetivoID uuid.UUID, filas []model.VendedorObjetivoCuantitativo) error {
	r.asignaciones[objetivoID] = filas
	return nil
}

func (r *stubObjetivoRepo) DeleteAsignacionesVendedor(_ context.Context, vendedorID uuid.UUID) (int64, int64, error) {
	var cual int64
	quedanCual := r.vinculosCual[:0]
	for _, vo := range r.vinculosCual {
		if vo.VendedorID == vendedorID {
			cual++
			continue
		}
		quedanCual = append(quedanCual, vo)
	}
	r.vinculosCual = quedanCual

	var cuant int64
	for id, filas := range r.asignaciones {
		quedan := filas[:0]
		for _, f := range filas {
			if f.VendedorID == vendedorID {
				cuant++
				continue
			}
			quedan = append(quedan, f)
		}
		r.asignaciones[id] = quedan
	}
	return cual, cuant, nil
}

func (r *stubObjetivoRepo) DeleteAsignacionesCuantitativoTx(_ *gorm.DB, objetivoID uuid.UUID) (int64, error) {
	n := int64(len(r.asignaciones[objetivoID]))
	delete(r.asignaciones, objetivoID)
	return n, nil
}

func (r *stubObjetivoRepo) DeleteCuantitativoTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.cuantitativos, id)
	return nil
}

func (r *stubObjetivoRepo) CrearIndiceUnicidadCuantitativos(_ context.Context) error { return nil }

func (r *stubObjetivoRepo) DB() *gorm.DB { return nil }

var _ repository.ObjetivoRepository = (*stubObjetivoRepo)(nil)

func buildObjetivoSvc() (ObjetivoService, *stubObjetivoRepo, *stubVendedorRepo) {
	repo := newStubObjetivoRepo()
	vendedores := newStubVendedorRepo()
	// Sin redis: el resumen se calcula siempre en caliente.
	return NewObjetivoService(repo, vendedores, nil, time.Minute), repo, vendedores
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCrearCuantitativo_NombreDuplicadoRechazado(t *testing.T) {
	svc, _, _ := buildObjetivoSvc()
	tenantID := uuid.New()

	_, err := svc.CrearCuantitativo(context.Background(), tenantID, dto.ObjetivoCuantitativoRequest{
		Nombre:        "Ventas Q1",
		ValorObjetivo: decimal.NewFromInt(500000),
	})
	require.NoError(t, err)

	_, err = svc.CrearCuantitativo(context.Background(), tenantID, dto.ObjetivoCuantitativoRequest{
		Nombre:        "Ventas Q1",
		ValorObjetivo: decimal.NewFromInt(300000),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestCrearCuantitativo_MismoNombreEnOtroTenant(t *testing.T) {
	svc, _, _ := buildObjetivoSvc()

	_, err := svc.CrearCuantitativo(context.Background(), uuid.New(), dto.ObjetivoCuantitativoRequest{
		Nombre: "Ventas Q1", ValorObjetivo: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, err = svc.CrearCuantitativo(context.Background(), uuid.New(), dto.ObjetivoCuantitativoRequest{
		Nombre: "Ventas Q1", ValorObjetivo: decimal.NewFromInt(100),
	})
	require.NoError(t, err, "la unicidad de nombre es por tenant, no global")
}

func TestCrearCuantitativo_AsignaVendedoresEnOrden(t *testing.T) {
	svc, repo, vendedores := buildObjetivoSvc()
	tenantID := uuid.New()
	v1 := vendedores.seed(tenantID, "Marta")
	v2 := vendedores.seed(tenantID, "Diego")

	resp, err := svc.CrearCuantitativo(context.Background(), tenantID, dto.ObjetivoCuantitativoRequest{
		Nombre:        "Renovaciones",
		ValorObjetivo: decimal.NewFromInt(20),
		VendedorIds:   []string{v1.ID.String(), v2.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Asignaciones)

	filas := repo.asignaciones[uuid.MustParse(resp.ID)]
	require.Len(t, filas, 2)
	assert.Equal(t, 0, filas[0].Orden)
	assert.Equal(t, 1, filas[1].Orden)
}

func TestCrearCuantitativo_VendedorAjenoRechazado(t *testing.T) {
	svc, _, vendedores := buildObjetivoSvc()
	ajeno := vendedores.seed(uuid.New(), "Pedro")

	_, err := svc.CrearCuantitativo(context.Background(), uuid.New(), dto.ObjetivoCuantitativoRequest{
		Nombre:        "Visitas",
		ValorObjetivo: decimal.NewFromInt(10),
		VendedorIds:   []string{ajeno.ID.String()},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindCrossTenant))
}

func TestSyncAsignaciones_ReemplazaElConjunto(t *testing.T) {
	svc, repo, vendedores := buildObjetivoSvc()
	tenantID := uuid.New()
	v1 := vendedores.seed(tenantID, "Marta")
	v2 := vendedores.seed(tenantID, "Diego")

	resp, err := svc.CrearCuantitativo(context.Background(), tenantID, dto.ObjetivoCuantitativoRequest{
		Nombre:        "Ventas Q1",
		ValorObjetivo: decimal.NewFromInt(1000),
		VendedorIds:   []string{v1.ID.String()},
	})
	require.NoError(t, err)
	objetivoID := uuid.MustParse(resp.ID)

	err = svc.SyncAsignaciones(context.Background(), tenantID, objetivoID, dto.SyncAsignacionesRequest{
		Asignaciones: []dto.AsignacionRequest{
			{VendedorID: v2.ID.String(), MetaIndividual: decimal.NewFromInt(600), Orden: 0},
		},
	})
	require.NoError(t, err)

	filas := repo.asignaciones[objetivoID]
	require.Len(t, filas, 1, "el conjunto anterior se reemplaza por completo")
	assert.Equal(t, v2.ID, filas[0].VendedorID)
	assert.True(t, decimal.NewFromInt(600).Equal(filas[0].MetaIndividual))
}

func TestSyncAsignaciones_ObjetivoDeOtroTenant(t *testing.T) {
	svc, _, vendedores := buildObjetivoSvc()
	tenantID := uuid.New()
	v := vendedores.seed(tenantID, "Marta")

	resp, err := svc.CrearCuantitativo(context.Background(), tenantID, dto.ObjetivoCuantitativoRequest{
		Nombre: "Ventas Q1", ValorObjetivo: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	err = svc.SyncAsignaciones(context.Background(), uuid.New(), uuid.MustParse(resp.ID), dto.SyncAsignacionesRequest{
		Asignaciones: []dto.AsignacionRequest{{VendedorID: v.ID.String()}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestResumen_AgregaMontos(t *testing.T) {
	svc, _, _ := buildObjetivoSvc()
	tenantID := uuid.New()

	_, err := svc.CrearCuantitativo(context.Background(), tenantID, dto.ObjetivoCuantitativoRequest{
		Nombre: "Ventas Q1", ValorObjetivo: decimal.NewFromInt(500000),
	})
	require.NoError(t, err)
	_, err = svc.CrearCuantitativo(context.Background(), tenantID, dto.ObjetivoCuantitativoRequest{
		Nombre: "Renovaciones", ValorObjetivo: decimal.NewFromInt(120000),
	})
	require.NoError(t, err)
	_, err = svc.CrearCualitativo(context.Background(), tenantID, dto.ObjetivoCualitativoRequest{
		Titulo: "Mejorar NPS",
	})
	require.NoError(t, err)

	resumen, err := svc.Resumen(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 2, resumen.TotalCuantitativos)
	assert.Equal(t, 1, resumen.TotalCualitativos)
	assert.True(t, decimal.NewFromInt(620000).Equal(resumen.MontoObjetivo))
}
