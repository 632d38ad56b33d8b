package service

import (
	"context"
	"errors"

	"tablero/internal/apierror"
	"tablero/internal/dto"
	"tablero/internal/model"
	"tablero/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClienteService owns client CRUD and the client↔service associations. Its
// main job beyond plumbing is the cross-tenant reference check: a client may
// only point at a salesperson or technician of its own tenant.
type ClienteService interface {
	Crear(ctx context.Context, tenantID uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, tenantID, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, tenantID uuid.UUID) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, tenantID, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, tenantID, id uuid.UUID) error
	AsignarServicio(ctx context.Context, tenantID, clienteID uuid.UUID, req dto.AsignarServicioRequest) error
}

type clienteService struct {
	repo       repository.ClienteRepository
	vendedores repository.VendedorRepository
	tecnicos   repository.TecnicoRepository
	servicios  repository.ServicioRepository
}

func NewClienteService(
	repo repository.ClienteRepository,
	vendedores repository.VendedorRepository,
	tecnicos repository.TecnicoRepository,
	servicios repository.ServicioRepository,
) ClienteService {
	return &clienteService{repo: repo, vendedores: vendedores, tecnicos: tecnicos, servicios: servicios}
}

// resolverReferencias parses and tenant-checks the optional vendedor/tecnico
// references of a client payload.
func (s *clienteService) resolverReferencias(ctx context.Context, tenantID uuid.UUID, req dto.ClienteRequest) (vendedorID, tecnicoID *uuid.UUID, err error) {
	if req.VendedorID != nil {
		id, perr := uuid.Parse(*req.VendedorID)
		if perr != nil {
			return nil, nil, apierror.NewValidation(map[string]string{"vendedorId": "uuid inválido"})
		}
		if _, ferr := s.vendedores.FindByID(ctx, tenantID, id); ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return nil, nil, apierror.Newf(apierror.KindCrossTenant, "vendedor %s no pertenece al tenant", id)
			}
			return nil, nil, ferr
		}
		vendedorID = &id
	}
	if req.TecnicoID != nil {
		id, perr := uuid.Parse(*req.TecnicoID)
		if perr != nil {
			return nil, nil, apierror.NewValidation(map[string]string{"tecnicoId": "uuid inválido"})
		}
		if _, ferr := s.tecnicos.FindByID(ctx, tenantID, id); ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return nil, nil, apierror.Newf(apierror.KindCrossTenant, "técnico %s no pertenece al tenant", id)
			}
			return nil, nil, ferr
		}
		tecnicoID = &id
	}
	return vendedorID, tecnicoID, nil
}

func (s *clienteService) Crear(ctx context.Context, tenantID uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	if req.Nombre == "" {
		return nil, apierror.NewValidation(map[string]string{"nombre": "requerido"})
	}
	vendedorID, tecnicoID, err := s.resolverReferencias(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	c := &model.Cliente{
		Nombre:                  req.Nombre,
		VendedorID:              vendedorID,
		TecnicoID:               tecnicoID,
		ContratoSoporte:         req.ContratoSoporte,
		FechaUltimoRelevamiento: req.FechaUltimoRelevamiento,
		AccionesPendientes:      req.AccionesPendientes,
		TenantID:                &tenantID,
	}
	if c.AccionesPendientes == nil {
		c.AccionesPendientes = model.AccionesPendientes{}
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, tenantID, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Newf(apierror.KindNotFound, "cliente %s no encontrado", id)
		}
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, tenantID uuid.UUID) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, *clienteToResponse(&clientes[i]))
	}
	return out, nil
}

func (s *clienteService) Actualizar(ctx context.Context, tenantID, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Newf(apierror.KindNotFound, "cliente %s no encontrado", id)
		}
		return nil, err
	}
	vendedorID, tecnicoID, err := s.resolverReferencias(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	c.Nombre = req.Nombre
	c.VendedorID = vendedorID
	c.TecnicoID = tecnicoID
	c.ContratoSoporte = req.ContratoSoporte
	c.FechaUltimoRelevamiento = req.FechaUltimoRelevamiento
	if req.AccionesPendientes != nil {
		c.AccionesPendientes = req.AccionesPendientes
	}
	// Clear stale preloads so Save does not resurrect them.
	c.Vendedor, c.Tecnico = nil, nil

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Eliminar(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Newf(apierror.KindNotFound, "cliente %s no encontrado", id)
		}
		return err
	}
	// Service associations cascade with the client row.
	return s.repo.Delete(ctx, tenantID, id)
}

// AsignarServicio is idempotent per (cliente, servicio): assigning an already
// assigned service reports a conflict instead of duplicating the junction.
func (s *clienteService) AsignarServicio(ctx context.Context, tenantID, clienteID uuid.UUID, req dto.AsignarServicioRequest) error {
	if _, err := s.repo.FindByID(ctx, tenantID, clienteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Newf(apierror.KindNotFound, "cliente %s no encontrado", clienteID)
		}
		return err
	}
	servicioID, err := uuid.Parse(req.ServicioID)
	if err != nil {
		return apierror.NewValidation(map[string]string{"servicioId": "uuid inválido"})
	}
	if _, err := s.servicios.FindByID(ctx, tenantID, servicioID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Newf(apierror.KindCrossTenant, "servicio %s no pertenece al tenant", servicioID)
		}
		return err
	}
	if _, err := s.repo.FindAsociacion(ctx, clienteID, servicioID); err == nil {
		return apierror.Newf(apierror.KindReferentialConflict,
			"el servicio ya está asignado al cliente")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.repo.AsignarServicio(ctx, &model.ClienteServicio{
		ClienteID:  clienteID,
		ServicioID: servicioID,
		Nota:       req.Nota,
	})
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	resp := &dto.ClienteResponse{
		ID:                      c.ID.String(),
		Nombre:                  c.Nombre,
		ContratoSoporte:         c.ContratoSoporte,
		FechaUltimoRelevamiento: c.FechaUltimoRelevamiento,
		AccionesPendientes:      c.AccionesPendientes,
	}
	if c.VendedorID != nil {
		s := c.VendedorID.String()
		resp.VendedorID = &s
	}
	if c.TecnicoID != nil {
		s := c.TecnicoID.String()
		resp.TecnicoID = &s
	}
	if c.Vendedor != nil {
		resp.VendedorNombre = c.Vendedor.Nombre
	}
	if c.Tecnico != nil {
		resp.TecnicoNombre = c.Tecnico.Nombre
	}
	return resp
}
