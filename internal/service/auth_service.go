package service

import (
	"context"
	"errors"
	"time"

	"tablero/internal/apierror"
	"tablero/internal/config"
	"tablero/internal/dto"
	"tablero/internal/middleware"
	"tablero/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService issues the access tokens every scoped route depends on. The
// tenant claim is stamped from the user row at login time and is the only
// channel through which a request may name a tenant.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	usuarios repository.UsuarioRepository
	cfg      *config.Config
}

func NewAuthService(usuarios repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{usuarios: usuarios, cfg: cfg}
}

var errCredenciales = apierror.New(apierror.KindValidation, "Usuario o contraseña incorrectos")

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.usuarios.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCredenciales
		}
		return nil, err
	}
	if !u.Activo {
		return nil, errCredenciales
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, errCredenciales
	}

	expira := time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	claims := middleware.JWTClaims{
		UserID:   u.ID.String(),
		Email:    u.Email,
		Rol:      u.Rol,
		TenantID: u.TenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expira),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		ExpiraEn: expira,
		Rol:      u.Rol,
		Nombre:   u.Nombre,
	}, nil
}
