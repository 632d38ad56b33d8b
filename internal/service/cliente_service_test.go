package service

import (
	"context"
	"testing"

	"tablero/internal/apierror"
	"tablero/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildClienteSvc() (ClienteService, *stubClienteRepo, *stubVendedorRepo, *stubTecnicoRepo, *stubServicioRepo) {
	clientes := newStubClienteRepo()
	vendedores := newStubVendedorRepo()
	tecnicos := newStubTecnicoRepo()
	servicios := newStubServicioRepo()
	return NewClienteService(clientes, vendedores, tecnicos, servicios), clientes, vendedores, tecnicos, servicios
}

func TestCrearCliente_ConReferenciasPropias(t *testing.T) {
	svc, _, vendedores, tecnicos, _ := buildClienteSvc()
	tenantID := uuid.New()
	v := vendedores.seed(tenantID, "Marta")
	tec := tecnicos.seed(tenantID, "Julián")

	resp, err := svc.Crear(context.Background(), tenantID, dto.ClienteRequest{
		Nombre:     "Acme SRL",
		VendedorID: strPtr(v.ID.String()),
		TecnicoID:  strPtr(tec.ID.String()),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.VendedorID)
	assert.Equal(t, v.ID.String(), *resp.VendedorID)
	require.NotNil(t, resp.TecnicoID)
	assert.Equal(t, tec.ID.String(), *resp.TecnicoID)
}

func TestCrearCliente_VendedorDeOtroTenant(t *testing.T) {
	svc, _, vendedores, _, _ := buildClienteSvc()
	ajeno := vendedores.seed(uuid.New(), "Pedro")

	_, err := svc.Crear(context.Background(), uuid.New(), dto.ClienteRequest{
		Nombre:     "Acme SRL",
		VendedorID: strPtr(ajeno.ID.String()),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindCrossTenant))
}

func TestCrearCliente_TecnicoDeOtroTenant(t *testing.T) {
	svc, _, _, tecnicos, _ := buildClienteSvc()
	ajeno := tecnicos.seed(uuid.New(), "Julián")

	_, err := svc.Crear(context.Background(), uuid.New(), dto.ClienteRequest{
		Nombre:    "Acme SRL",
		TecnicoID: strPtr(ajeno.ID.String()),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindCrossTenant))
}

func TestActualizarCliente_QuitaReferencias(t *testing.T) {
	svc, _, vendedores, _, _ := buildClienteSvc()
	tenantID := uuid.New()
	v := vendedores.seed(tenantID, "Marta")

	resp, err := svc.Crear(context.Background(), tenantID, dto.ClienteRequest{
		Nombre:     "Acme SRL",
		VendedorID: strPtr(v.ID.String()),
	})
	require.NoError(t, err)

	// Una actualización sin vendedorId desliga al cliente.
	actualizado, err := svc.Actualizar(context.Background(), tenantID, uuid.MustParse(resp.ID), dto.ClienteRequest{
		Nombre: "Acme SRL",
	})
	require.NoError(t, err)
	assert.Nil(t, actualizado.VendedorID)
}

func TestObtenerCliente_OtroTenantNoLoVe(t *testing.T) {
	svc, _, _, _, _ := buildClienteSvc()
	tenantID := uuid.New()

	resp, err := svc.Crear(context.Background(), tenantID, dto.ClienteRequest{Nombre: "Acme SRL"})
	require.NoError(t, err)

	_, err = svc.ObtenerPorID(context.Background(), uuid.New(), uuid.MustParse(resp.ID))
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestAsignarServicio_DuplicadoEsConflicto(t *testing.T) {
	svc, _, _, _, servicios := buildClienteSvc()
	tenantID := uuid.New()

	soporte := servicios.seed(tenantID, "Soporte 24x7")
	resp, err := svc.Crear(context.Background(), tenantID, dto.ClienteRequest{Nombre: "Acme SRL"})
	require.NoError(t, err)
	clienteID := uuid.MustParse(resp.ID)

	err = svc.AsignarServicio(context.Background(), tenantID, clienteID, dto.AsignarServicioRequest{
		ServicioID: soporte.ID.String(),
	})
	require.NoError(t, err)

	err = svc.AsignarServicio(context.Background(), tenantID, clienteID, dto.AsignarServicioRequest{
		ServicioID: soporte.ID.String(),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindReferentialConflict))
}

func TestAsignarServicio_ServicioDeOtroTenant(t *testing.T) {
	svc, _, _, _, servicios := buildClienteSvc()
	tenantID := uuid.New()
	ajeno := servicios.seed(uuid.New(), "Backup remoto")

	resp, err := svc.Crear(context.Background(), tenantID, dto.ClienteRequest{Nombre: "Acme SRL"})
	require.NoError(t, err)

	err = svc.AsignarServicio(context.Background(), tenantID, uuid.MustParse(resp.ID), dto.AsignarServicioRequest{
		ServicioID: ajeno.ID.String(),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindCrossTenant))
}
