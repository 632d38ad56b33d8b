package middleware

import (
	"net/http"
	"strings"

	"tablero/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token. TenantID is
// how the isolation layer learns which tenant a request operates on — scoped
// handlers never accept a tenant from the request body or query string.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Rol      string `json:"rol"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route and rejects
// tokens without a parseable tenant claim.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.KindValidation, "Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.KindValidation, "Token invalido o expirado"))
			return
		}
		if _, err := uuid.Parse(claims.TenantID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.KindValidation, "Token sin tenant"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !allowed[claims.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(apierror.KindValidation, "Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// TenantID returns the authenticated tenant. JWTAuth already validated the
// claim, so this never fails on a protected route.
func TenantID(c *gin.Context) uuid.UUID {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	id, _ := uuid.Parse(claims.TenantID)
	return id
}
