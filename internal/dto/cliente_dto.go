package dto

import (
	"time"

	"tablero/internal/model"
)

type ClienteRequest struct {
	Nombre                  string                   `json:"nombre" binding:"required"`
	VendedorID              *string                  `json:"vendedorId"`
	TecnicoID               *string                  `json:"tecnicoId"`
	ContratoSoporte         bool                     `json:"contratoSoporte"`
	FechaUltimoRelevamiento *time.Time               `json:"fechaUltimoRelevamiento"`
	AccionesPendientes      model.AccionesPendientes `json:"accionesPendientes"`
}

type AsignarServicioRequest struct {
	ServicioID string  `json:"servicioId" binding:"required"`
	Nota       *string `json:"nota"`
}

type ClienteResponse struct {
	ID                      string                   `json:"id"`
	Nombre                  string                   `json:"nombre"`
	VendedorID              *string                  `json:"vendedorId"`
	VendedorNombre          string                   `json:"vendedorNombre,omitempty"`
	TecnicoID               *string                  `json:"tecnicoId"`
	TecnicoNombre           string                   `json:"tecnicoNombre,omitempty"`
	ContratoSoporte         bool                     `json:"contratoSoporte"`
	FechaUltimoRelevamiento *time.Time               `json:"fechaUltimoRelevamiento"`
	AccionesPendientes      model.AccionesPendientes `json:"accionesPendientes"`
}

// ── Bulk import ──────────────────────────────────────────────────────────────

// ServicioImport is one named service inside a client import record.
type ServicioImport struct {
	Nombre    string  `json:"nombre" binding:"required"`
	Categoria string  `json:"categoria"`
	Nota      *string `json:"nota"`
}

// ClienteImport is one record of the externally supplied import document.
type ClienteImport struct {
	Nombre    string           `json:"nombre" binding:"required"`
	Vendedor  *string          `json:"vendedor"`
	Servicios []ServicioImport `json:"servicios"`
}

// ImportResumen reports what one import pass did. Reprocessing the same
// document yields zero Creados and everything in Existentes.
type ImportResumen struct {
	ClientesCreados      int `json:"clientesCreados"`
	ClientesExistentes   int `json:"clientesExistentes"`
	ServiciosCreados     int `json:"serviciosCreados"`
	AsociacionesCreadas  int `json:"asociacionesCreadas"`
	AsociacionesOmitidas int `json:"asociacionesOmitidas"`
}
