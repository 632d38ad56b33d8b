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

type ClientesHandler struct {
	svc       service.ClienteService
	importSvc service.ImportService
}

func NewClientesHandler(svc service.ClienteService, importSvc service.ImportService) *ClientesHandler {
	return &ClientesHandler{svc: svc, importSvc: importSvc}
}

func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID invalido"))
		return
	}
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.TenantID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientesHandler) AsignarServicio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID invalido"))
		return
	}
	var req dto.AsignarServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AsignarServicio(c.Request.Context(), middleware.TenantID(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Importar receives a JSON array of client records and loads them
// idempotently: re-posting the same document creates nothing new.
func (h *ClientesHandler) Importar(c *gin.Context) {
	var registros []dto.ClienteImport
	if err := c.ShouldBindJSON(&registros); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "JSON invalido: "+err.Error()))
		return
	}
	resumen, err := h.importSvc.ImportarClientes(c.Request.Context(), middleware.TenantID(c), registros)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resumen)
}
