package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Technician objectives (objective write API) ──────────────────────────────

// ObjetivoTecnicoRequest is the write payload. When EsGlobal is false and no
// technician is named the objective simply stays unassigned; VendedorIds on
// quantitative payloads defaults to an empty set rather than being omitted.
type ObjetivoTecnicoRequest struct {
	TecnicoID       *string    `json:"tecnicoId"`
	Criterio        string     `json:"criterio" binding:"required"`
	Estado          *string    `json:"estado"`
	Peso            int        `json:"peso" validate:"min=0,max=100"`
	FechaCompletado *time.Time `json:"fechaCompletado"`
	Evidencia       *string    `json:"evidencia"`
	EsGlobal        bool       `json:"esGlobal"`
}

// CambiarEstadoRequest drives the status state machine. Reset releases the
// one-directional rule and forces the objective back to pending — explicit
// operator action, never automatic.
type CambiarEstadoRequest struct {
	Estado          string     `json:"estado" binding:"required"`
	FechaCompletado *time.Time `json:"fechaCompletado"`
	Reset           bool       `json:"reset"`
}

type ObjetivoTecnicoResponse struct {
	ID              string     `json:"id"`
	TecnicoID       *string    `json:"tecnicoId"`
	Criterio        string     `json:"criterio"`
	Estado          string     `json:"estado"`
	Peso            int        `json:"peso"`
	FechaCompletado *time.Time `json:"fechaCompletado"`
	Evidencia       *string    `json:"evidencia"`
	EsGlobal        bool       `json:"esGlobal"`
	CreatedAt       string     `json:"createdAt"`
}

// ── Quantitative objectives ──────────────────────────────────────────────────

type ObjetivoCuantitativoRequest struct {
	Nombre        string          `json:"nombre" binding:"required"`
	MetricaTipo   string          `json:"metricaTipo"`
	ValorObjetivo decimal.Decimal `json:"valorObjetivo"`
	FechaInicio   *time.Time      `json:"fechaInicio"`
	FechaFin      *time.Time      `json:"fechaFin"`
	// VendedorIds defaults to an empty set; assignment rows are created with
	// Orden following slice order.
	VendedorIds []string `json:"vendedorIds"`
}

type AsignacionRequest struct {
	VendedorID     string          `json:"vendedorId" binding:"required"`
	MetaIndividual decimal.Decimal `json:"metaIndividual"`
	Orden          int             `json:"orden"`
}

// SyncAsignacionesRequest replaces the full assignment set of one objective.
type SyncAsignacionesRequest struct {
	Asignaciones []AsignacionRequest `json:"asignaciones"`
}

type ObjetivoCuantitativoResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	MetricaTipo   string          `json:"metricaTipo"`
	ValorObjetivo decimal.Decimal `json:"valorObjetivo"`
	ValorActual   decimal.Decimal `json:"valorActual"`
	Asignaciones  int             `json:"asignaciones"`
}

// ── Qualitative objectives ───────────────────────────────────────────────────

type ObjetivoCualitativoRequest struct {
	Titulo      string     `json:"titulo" binding:"required"`
	Descripcion *string    `json:"descripcion"`
	Estado      string     `json:"estado"`
	Prioridad   string     `json:"prioridad"`
	FechaLimite *time.Time `json:"fechaLimite"`
	VendedorIds []string   `json:"vendedorIds"`
}

// ── Dashboard summary ────────────────────────────────────────────────────────

// ResumenObjetivos is the cached aggregate the dashboard's header renders.
type ResumenObjetivos struct {
	TotalCuantitativos int             `json:"totalCuantitativos"`
	TotalCualitativos  int             `json:"totalCualitativos"`
	MontoObjetivo      decimal.Decimal `json:"montoObjetivo"`
	MontoActual        decimal.Decimal `json:"montoActual"`
	GeneradoEn         time.Time       `json:"generadoEn"`
}
