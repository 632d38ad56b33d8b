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

// CatalogoHandler serves salespeople, technicians and the service catalog.
type CatalogoHandler struct {
	svc service.CatalogoService
}

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *CatalogoHandler) CrearVendedor(c *gin.Context) {
	var req dto.VendedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearVendedor(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarVendedores(c *gin.Context) {
	resp, err := h.svc.ListarVendedores(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ActualizarVendedor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.VendedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarVendedor(c.Request.Context(), middleware.TenantID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) EliminarVendedor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarVendedor(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogoHandler) CrearTecnico(c *gin.Context) {
	var req dto.TecnicoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTecnico(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarTecnicos(c *gin.Context) {
	resp, err := h.svc.ListarTecnicos(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) EliminarTecnico(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarTecnico(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogoHandler) CrearServicio(c *gin.Context) {
	var req dto.ServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearServicio(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogoHandler) ListarServicios(c *gin.Context) {
	resp, err := h.svc.ListarServicios(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) EliminarServicio(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarServicio(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
