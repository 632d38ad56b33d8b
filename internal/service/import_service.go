package service

import (
	"context"
	"errors"

	"tablero/internal/dto"
	"tablero/internal/model"
	"tablero/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ImportService consumes an externally supplied document of client records,
// each optionally carrying named services. The whole pass is idempotent per
// (client name, service name): reprocessing the same document creates no
// duplicate rows or associations.
type ImportService interface {
	ImportarClientes(ctx context.Context, tenantID uuid.UUID, registros []dto.ClienteImport) (*dto.ImportResumen, error)
}

type importService struct {
	clientes   repository.ClienteRepository
	servicios  repository.ServicioRepository
	vendedores repository.VendedorRepository
}

func NewImportService(
	clientes repository.ClienteRepository,
	servicios repository.ServicioRepository,
	vendedores repository.VendedorRepository,
) ImportService {
	return &importService{clientes: clientes, servicios: servicios, vendedores: vendedores}
}

func (s *importService) ImportarClientes(ctx context.Context, tenantID uuid.UUID, registros []dto.ClienteImport) (*dto.ImportResumen, error) {
	resumen := &dto.ImportResumen{}

	for _, reg := range registros {
		if reg.Nombre == "" {
			log.Warn().Msg("registro de importación sin nombre, omitido")
			continue
		}

		cliente, err := s.clientes.FindByNombre(ctx, tenantID, reg.Nombre)
		switch {
		case err == nil:
			resumen.ClientesExistentes++
		case errors.Is(err, gorm.ErrRecordNotFound):
			cliente = &model.Cliente{
				Nombre:             reg.Nombre,
				AccionesPendientes: model.AccionesPendientes{},
				TenantID:           &tenantID,
			}
			// The document names salespeople, it does not create them: an
			// unknown name leaves the client unassigned.
			if reg.Vendedor != nil {
				if v, verr := s.vendedores.FindByNombre(ctx, tenantID, *reg.Vendedor); verr == nil {
					cliente.VendedorID = &v.ID
				} else if !errors.Is(verr, gorm.ErrRecordNotFound) {
					return resumen, verr
				} else {
					log.Warn().Str("vendedor", *reg.Vendedor).Str("cliente", reg.Nombre).
						Msg("vendedor del documento no existe, cliente queda sin asignar")
				}
			}
			if err := s.clientes.Create(ctx, cliente); err != nil {
				return resumen, err
			}
			resumen.ClientesCreados++
		default:
			return resumen, err
		}

		for _, sv := range reg.Servicios {
			if sv.Nombre == "" {
				continue
			}
			servicio, err := s.servicios.FindByNombre(ctx, tenantID, sv.Nombre)
			switch {
			case err == nil:
				// exists — reuse
			case errors.Is(err, gorm.ErrRecordNotFound):
				categoria := sv.Categoria
				if categoria == "" {
					categoria = "general"
				}
				servicio = &model.Servicio{
					Nombre:    sv.Nombre,
					Categoria: categoria,
					TenantID:  &tenantID,
				}
				if err := s.servicios.Create(ctx, servicio); err != nil {
					return resumen, err
				}
				resumen.ServiciosCreados++
			default:
				return resumen, err
			}

			// (cliente, servicio) at most once — the idempotence pivot.
			if _, err := s.clientes.FindAsociacion(ctx, cliente.ID, servicio.ID); err == nil {
				resumen.AsociacionesOmitidas++
				continue
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return resumen, err
			}
			cs := &model.ClienteServicio{
				ClienteID:  cliente.ID,
				ServicioID: servicio.ID,
				Nota:       sv.Nota,
			}
			if err := s.clientes.AsignarServicio(ctx, cs); err != nil {
				return resumen, err
			}
			resumen.AsociacionesCreadas++
		}
	}

	log.Info().
		Int("clientes_creados", resumen.ClientesCreados).
		Int("asociaciones_creadas", resumen.AsociacionesCreadas).
		Int("asociaciones_omitidas", resumen.AsociacionesOmitidas).
		Msg("importación de clientes finalizada")
	return resumen, nil
}
