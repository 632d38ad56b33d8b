package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func nombres(pasos []Paso) []string {
	out := make([]string, 0, len(pasos))
	for _, p := range pasos {
		out = append(out, p.Nombre)
	}
	return out
}

func TestPendientes_RespetaElOrdenDeDeclaracion(t *testing.T) {
	pasos := []Paso{
		{Nombre: "000001_a"},
		{Nombre: "000002_b"},
		{Nombre: "000003_c"},
	}

	faltan := pendientes(pasos, map[string]bool{})
	assert.Equal(t, []string{"000001_a", "000002_b", "000003_c"}, nombres(faltan))
}

func TestPendientes_OmiteLosRegistradosEnElLedger(t *testing.T) {
	pasos := []Paso{
		{Nombre: "000001_a"},
		{Nombre: "000002_b"},
		{Nombre: "000003_c"},
	}

	faltan := pendientes(pasos, map[string]bool{"000001_a": true, "000002_b": true})
	assert.Equal(t, []string{"000003_c"}, nombres(faltan))

	// Un paso registrado en el medio tampoco se reaplica.
	faltan = pendientes(pasos, map[string]bool{"000002_b": true})
	assert.Equal(t, []string{"000001_a", "000003_c"}, nombres(faltan))
}

func TestPendientes_TodoAplicadoEsNoOp(t *testing.T) {
	pasos := []Paso{{Nombre: "000001_a"}}
	assert.Empty(t, pendientes(pasos, map[string]bool{"000001_a": true}))
}

func TestPasos_NombresUnicosYOrdenados(t *testing.T) {
	vistos := make(map[string]bool, len(Pasos))
	anterior := ""
	for _, p := range Pasos {
		require.False(t, vistos[p.Nombre], "paso duplicado: %s", p.Nombre)
		vistos[p.Nombre] = true
		assert.Greater(t, p.Nombre, anterior, "los pasos deben declararse en orden")
		anterior = p.Nombre
	}
}

func TestPasos_TodosReversibles(t *testing.T) {
	for _, p := range Pasos {
		assert.NotNil(t, p.Up, "paso %s sin Up", p.Nombre)
		assert.NotNil(t, p.Down, "paso %s sin Down", p.Nombre)
	}
}

func TestExecAll_ListaVaciaNoTocaLaConexion(t *testing.T) {
	var tx *gorm.DB
	require.NoError(t, execAll(tx))
}
