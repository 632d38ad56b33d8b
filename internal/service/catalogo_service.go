package service

import (
	"context"
	"errors"

	"tablero/internal/apierror"
	"tablero/internal/dto"
	"tablero/internal/model"
	"tablero/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogoService covers the plain catalog entities: salespeople, technicians
// and services. Deleting a salesperson also clears their objective
// assignments so no junction row outlives its owner.
type CatalogoService interface {
	CrearVendedor(ctx context.Context, tenantID uuid.UUID, req dto.VendedorRequest) (*dto.VendedorResponse, error)
	ListarVendedores(ctx context.Context, tenantID uuid.UUID) ([]dto.VendedorResponse, error)
	ActualizarVendedor(ctx context.Context, tenantID, id uuid.UUID, req dto.VendedorRequest) (*dto.VendedorResponse, error)
	EliminarVendedor(ctx context.Context, tenantID, id uuid.UUID) error

	CrearTecnico(ctx context.Context, tenantID uuid.UUID, req dto.TecnicoRequest) (*dto.TecnicoResponse, error)
	ListarTecnicos(ctx context.Context, tenantID uuid.UUID) ([]dto.TecnicoResponse, error)
	EliminarTecnico(ctx context.Context, tenantID, id uuid.UUID) error

	CrearServicio(ctx context.Context, tenantID uuid.UUID, req dto.ServicioRequest) (*dto.ServicioResponse, error)
	ListarServicios(ctx context.Context, tenantID uuid.UUID) ([]dto.ServicioResponse, error)
	EliminarServicio(ctx context.Context, tenantID, id uuid.UUID) error
}

type catalogoService struct {
	vendedores repository.VendedorRepository
	tecnicos   repository.TecnicoRepository
	servicios  repository.ServicioRepository
	objetivos  repository.ObjetivoRepository
}

func NewCatalogoService(
	vendedores repository.VendedorRepository,
	tecnicos repository.TecnicoRepository,
	servicios repository.ServicioRepository,
	objetivos repository.ObjetivoRepository,
) CatalogoService {
	return &catalogoService{vendedores: vendedores, tecnicos: tecnicos, servicios: servicios, objetivos: objetivos}
}

// ── Vendedores ───────────────────────────────────────────────────────────────

func (s *catalogoService) CrearVendedor(ctx context.Context, tenantID uuid.UUID, req dto.VendedorRequest) (*dto.VendedorResponse, error) {
	v := &model.Vendedor{
		Nombre:   req.Nombre,
		Email:    req.Email,
		Estado:   req.Estado,
		TenantID: &tenantID,
	}
	if v.Estado == "" {
		v.Estado = "activo"
	}
	if err := s.vendedores.Create(ctx, v); err != nil {
		return nil, err
	}
	return vendedorToResponse(v), nil
}

func (s *catalogoService) ListarVendedores(ctx context.Context, tenantID uuid.UUID) ([]dto.VendedorResponse, error) {
	vs, err := s.vendedores.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendedorResponse, 0, len(vs))
	for i := range vs {
		out = append(out, *vendedorToResponse(&vs[i]))
	}
	return out, nil
}

func (s *catalogoService) ActualizarVendedor(ctx context.Context, tenantID, id uuid.UUID, req dto.VendedorRequest) (*dto.VendedorResponse, error) {
	v, err := s.vendedores.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Newf(apierror.KindNotFound, "vendedor %s no encontrado", id)
		}
		return nil, err
	}
	v.Nombre = req.Nombre
	v.Email = req.Email
	if req.Estado != "" {
		v.Estado = req.Estado
	}
	if err := s.vendedores.Update(ctx, v); err != nil {
		return nil, err
	}
	return vendedorToResponse(v), nil
}

// EliminarVendedor removes the salesperson's objective assignments first,
// then the row itself. Clients keep their reference via ON DELETE SET NULL.
func (s *catalogoService) EliminarVendedor(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.vendedores.FindByID(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Newf(apierror.KindNotFound, "vendedor %s no encontrado", id)
		}
		return err
	}
	cual, cuant, err := s.objetivos.DeleteAsignacionesVendedor(ctx, id)
	if err != nil {
		return err
	}
	if cual+cuant > 0 {
		log.Info().
			Str("vendedor_id", id.String()).
			Int64("asignaciones_cualitativas", cual).
			Int64("asignaciones_cuantitativas", cuant).
			Msg("asignaciones de objetivos eliminadas junto al vendedor")
	}
	return s.vendedores.Delete(ctx, tenantID, id)
}

// ── Tecnicos ─────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearTecnico(ctx context.Context, tenantID uuid.UUID, req dto.TecnicoRequest) (*dto.TecnicoResponse, error) {
	t := &model.Tecnico{
		Nombre:   req.Nombre,
		Email:    req.Email,
		Estado:   req.Estado,
		TenantID: &tenantID,
	}
	if t.Estado == "" {
		t.Estado = "activo"
	}
	if err := s.tecnicos.Create(ctx, t); err != nil {
		return nil, err
	}
	return tecnicoToResponse(t), nil
}

func (s *catalogoService) ListarTecnicos(ctx context.Context, tenantID uuid.UUID) ([]dto.TecnicoResponse, error) {
	ts, err := s.tecnicos.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TecnicoResponse, 0, len(ts))
	for i := range ts {
		out = append(out, *tecnicoToResponse(&ts[i]))
	}
	return out, nil
}

func (s *catalogoService) EliminarTecnico(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.tecnicos.FindByID(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Newf(apierror.KindNotFound, "técnico %s no encontrado", id)
		}
		return err
	}
	return s.tecnicos.Delete(ctx, tenantID, id)
}

// ── Servicios ────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearServicio(ctx context.Context, tenantID uuid.UUID, req dto.ServicioRequest) (*dto.ServicioResponse, error) {
	if existente, err := s.servicios.FindByNombre(ctx, tenantID, req.Nombre); err == nil && existente != nil {
		return nil, apierror.Newf(apierror.KindReferentialConflict,
			"ya existe un servicio llamado %q", req.Nombre)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	sv := &model.Servicio{
		Nombre:      req.Nombre,
		Categoria:   req.Categoria,
		Descripcion: req.Descripcion,
		TenantID:    &tenantID,
	}
	if err := s.servicios.Create(ctx, sv); err != nil {
		return nil, err
	}
	return servicioToResponse(sv), nil
}

func (s *catalogoService) ListarServicios(ctx context.Context, tenantID uuid.UUID) ([]dto.ServicioResponse, error) {
	svs, err := s.servicios.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServicioResponse, 0, len(svs))
	for i := range svs {
		out = append(out, *servicioToResponse(&svs[i]))
	}
	return out, nil
}

func (s *catalogoService) EliminarServicio(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.servicios.FindByID(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Newf(apierror.KindNotFound, "servicio %s no encontrado", id)
		}
		return err
	}
	return s.servicios.Delete(ctx, tenantID, id)
}

func vendedorToResponse(v *model.Vendedor) *dto.VendedorResponse {
	return &dto.VendedorResponse{ID: v.ID.String(), Nombre: v.Nombre, Email: v.Email, Estado: v.Estado}
}

func tecnicoToResponse(t *model.Tecnico) *dto.TecnicoResponse {
	return &dto.TecnicoResponse{ID: t.ID.String(), Nombre: t.Nombre, Email: t.Email, Estado: t.Estado}
}

func servicioToResponse(s *model.Servicio) *dto.ServicioResponse {
	return &dto.ServicioResponse{ID: s.ID.String(), Nombre: s.Nombre, Categoria: s.Categoria, Descripcion: s.Descripcion}
}
