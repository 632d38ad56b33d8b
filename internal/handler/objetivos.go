package handler

import (
	"net/http"

	"tablero/internal/apierror"
	"tablero/internal/dto"
	"tablero/internal/middleware"
	"tablero/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ObjetivosHandler exposes the objective write API: technician objectives
// with their status machine, and salesperson objectives with assignment sync.
type ObjetivosHandler struct {
	tecnicoSvc service.ObjetivoTecnicoService
	svc        service.ObjetivoService
}

func NewObjetivosHandler(tecnicoSvc service.ObjetivoTecnicoService, svc service.ObjetivoService) *ObjetivosHandler {
	return &ObjetivosHandler{tecnicoSvc: tecnicoSvc, svc: svc}
}

// ── Technician objectives ────────────────────────────────────────────────────

func (h *ObjetivosHandler) CrearTecnico(c *gin.Context) {
	var req dto.ObjetivoTecnicoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tecnicoSvc.Crear(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ObjetivosHandler) ActualizarTecnico(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID invalido"))
		return
	}
	var req dto.ObjetivoTecnicoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tecnicoSvc.Actualizar(c.Request.Context(), middleware.TenantID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ObjetivosHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID invalido"))
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tecnicoSvc.CambiarEstado(c.Request.Context(), middleware.TenantID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ObjetivosHandler) ListarPorTecnico(c *gin.Context) {
	tecnicoID, err := uuid.Parse(c.Param("tecnico_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID invalido"))
		return
	}
	resp, err := h.tecnicoSvc.ListarPorTecnico(c.Request.Context(), middleware.TenantID(c), tecnicoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ObjetivosHandler) EliminarTecnico(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID invalido"))
		return
	}
	if err := h.tecnicoSvc.Eliminar(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Salesperson objectives ───────────────────────────────────────────────────

func (h *ObjetivosHandler) CrearCuantitativo(c *gin.Context) {
	var req dto.ObjetivoCuantitativoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCuantitativo(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ObjetivosHandler) ListarCuantitativos(c *gin.Context) {
	resp, err := h.svc.ListarCuantitativos(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ObjetivosHandler) CrearCualitativo(c *gin.Context) {
	var req dto.ObjetivoCualitativoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCualitativo(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ObjetivosHandler) SyncAsignaciones(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID invalido"))
		return
	}
	var req dto.SyncAsignacionesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SyncAsignaciones(c.Request.Context(), middleware.TenantID(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ObjetivosHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
