package handler

import (
	"net/http"

	"tablero/internal/apierror"
	"tablero/internal/dto"
	"tablero/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		// Bad credentials come back as a validation kind; on this endpoint
		// that means 401, not 422.
		if apierror.IsKind(err, apierror.KindValidation) {
			c.JSON(http.StatusUnauthorized, err)
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
