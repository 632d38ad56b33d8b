package service

import (
	"context"
	"errors"
	"time"

	"tablero/internal/apierror"
	"tablero/internal/dto"
	"tablero/internal/model"
	"tablero/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ObjetivoTecnicoService owns the technician-objective lifecycle: weight
// bounds, the status state machine and the global-objective rule.
type ObjetivoTecnicoService interface {
	Crear(ctx context.Context, tenantID uuid.UUID, req dto.ObjetivoTecnicoRequest) (*dto.ObjetivoTecnicoResponse, error)
	Actualizar(ctx context.Context, tenantID, id uuid.UUID, req dto.ObjetivoTecnicoRequest) (*dto.ObjetivoTecnicoResponse, error)
	CambiarEstado(ctx context.Context, tenantID, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.ObjetivoTecnicoResponse, error)
	ListarPorTecnico(ctx context.Context, tenantID, tecnicoID uuid.UUID) ([]dto.ObjetivoTecnicoResponse, error)
	Eliminar(ctx context.Context, tenantID, id uuid.UUID) error
}

type objetivoTecnicoService struct {
	repo     repository.ObjetivoTecnicoRepository
	tecnicos repository.TecnicoRepository
	ahora    func() time.Time
}

func NewObjetivoTecnicoService(repo repository.ObjetivoTecnicoRepository, tecnicos repository.TecnicoRepository) ObjetivoTecnicoService {
	return &objetivoTecnicoService{repo: repo, tecnicos: tecnicos, ahora: time.Now}
}

// transicionesValidas encodes the one-directional machine:
// pending -> in_progress -> {completed, not_completed}. The only way back is
// an explicit reset to pending.
var transicionesValidas = map[string][]string{
	model.EstadoPendiente:    {model.EstadoEnProgreso},
	model.EstadoEnProgreso:   {model.EstadoCompletado, model.EstadoNoCompletado},
	model.EstadoCompletado:   {},
	model.EstadoNoCompletado: {},
}

func estadoConocido(estado string) bool {
	_, ok := transicionesValidas[estado]
	return ok
}

func transicionPermitida(desde, hacia string) bool {
	for _, e := range transicionesValidas[desde] {
		if e == hacia {
			return true
		}
	}
	return false
}

func validarPeso(peso int) error {
	if peso < 0 || peso > 100 {
		return apierror.NewValidation(map[string]string{"peso": "debe estar entre 0 y 100"})
	}
	return nil
}

// validarGlobal rejects a global objective that names a specific technician.
func validarGlobal(esGlobal bool, tecnicoID *uuid.UUID) error {
	if esGlobal && tecnicoID != nil {
		return apierror.NewValidation(map[string]string{
			"tecnicoId": "un objetivo global no puede asignarse a un técnico específico",
		})
	}
	return nil
}

func (s *objetivoTecnicoService) Crear(ctx context.Context, tenantID uuid.UUID, req dto.ObjetivoTecnicoRequest) (*dto.ObjetivoTecnicoResponse, error) {
	if err := validarPeso(req.Peso); err != nil {
		return nil, err
	}

	var tecnicoID *uuid.UUID
	if req.TecnicoID != nil {
		id, err := uuid.Parse(*req.TecnicoID)
		if err != nil {
			return nil, apierror.NewValidation(map[string]string{"tecnicoId": "uuid inválido"})
		}
		// Same-tenant check: the lookup is tenant-scoped, so a technician of
		// another tenant is indistinguishable from a missing one.
		if _, err := s.tecnicos.FindByID(ctx, tenantID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.Newf(apierror.KindCrossTenant, "técnico %s no pertenece al tenant", id)
			}
			return nil, err
		}
		tecnicoID = &id
	}
	if err := validarGlobal(req.EsGlobal, tecnicoID); err != nil {
		return nil, err
	}

	estado := model.EstadoPendiente
	if req.Estado != nil {
		if !estadoConocido(*req.Estado) {
			return nil, apierror.NewValidation(map[string]string{"estado": "estado desconocido"})
		}
		estado = *req.Estado
	}

	obj := &model.ObjetivoTecnico{
		TecnicoID: tecnicoID,
		Criterio:  req.Criterio,
		Estado:    estado,
		Peso:      req.Peso,
		Evidencia: req.Evidencia,
		EsGlobal:  req.EsGlobal,
		TenantID:  &tenantID,
	}
	if estado == model.EstadoCompletado {
		fecha := s.ahora()
		if req.FechaCompletado != nil {
			fecha = *req.FechaCompletado
		}
		obj.FechaCompletado = &fecha
	}

	if err := s.repo.Create(ctx, obj); err != nil {
		return nil, err
	}
	return objetivoTecnicoToResponse(obj), nil
}

func (s *objetivoTecnicoService) Actualizar(ctx context.Context, tenantID, id uuid.UUID, req dto.ObjetivoTecnicoRequest) (*dto.ObjetivoTecnicoResponse, error) {
	obj, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Newf(apierror.KindNotFound, "objetivo %s no encontrado", id)
		}
		return nil, err
	}
	if err := validarPeso(req.Peso); err != nil {
		return nil, err
	}

	var tecnicoID *uuid.UUID
	if req.TecnicoID != nil {
		parsed, err := uuid.Parse(*req.TecnicoID)
		if err != nil {
			return nil, apierror.NewValidation(map[string]string{"tecnicoId": "uuid inválido"})
		}
		if _, err := s.tecnicos.FindByID(ctx, tenantID, parsed); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.Newf(apierror.KindCrossTenant, "técnico %s no pertenece al tenant", parsed)
			}
			return nil, err
		}
		tecnicoID = &parsed
	}
	if err := validarGlobal(req.EsGlobal, tecnicoID); err != nil {
		return nil, err
	}

	obj.TecnicoID = tecnicoID
	obj.Criterio = req.Criterio
	obj.Peso = req.Peso
	obj.Evidencia = req.Evidencia
	obj.EsGlobal = req.EsGlobal

	if err := s.repo.Update(ctx, obj); err != nil {
		return nil, err
	}
	return objetivoTecnicoToResponse(obj), nil
}

// CambiarEstado applies one transition. Entering completed stamps
// FechaCompletado with the transition time unless the caller supplied one;
// entering any other state clears it.
func (s *objetivoTecnicoService) CambiarEstado(ctx context.Context, tenantID, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.ObjetivoTecnicoResponse, error) {
	obj, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Newf(apierror.KindNotFound, "objetivo %s no encontrado", id)
		}
		return nil, err
	}
	if !estadoConocido(req.Estado) {
		return nil, apierror.NewValidation(map[string]string{"estado": "estado desconocido"})
	}

	if req.Reset {
		if req.Estado != model.EstadoPendiente {
			return nil, apierror.NewValidation(map[string]string{"estado": "reset solo admite volver a pending"})
		}
	} else if !transicionPermitida(obj.Estado, req.Estado) {
		return nil, apierror.Newf(apierror.KindValidation,
			"transición inválida: %s → %s", obj.Estado, req.Estado)
	}

	obj.Estado = req.Estado
	if req.Estado == model.EstadoCompletado {
		fecha := s.ahora()
		if req.FechaCompletado != nil {
			fecha = *req.FechaCompletado
		}
		obj.FechaCompletado = &fecha
	} else {
		obj.FechaCompletado = nil
	}

	if err := s.repo.Update(ctx, obj); err != nil {
		return nil, err
	}
	return objetivoTecnicoToResponse(obj), nil
}

func (s *objetivoTecnicoService) ListarPorTecnico(ctx context.Context, tenantID, tecnicoID uuid.UUID) ([]dto.ObjetivoTecnicoResponse, error) {
	objetivos, err := s.repo.ListByTecnico(ctx, tenantID, tecnicoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ObjetivoTecnicoResponse, 0, len(objetivos))
	for i := range objetivos {
		out = append(out, *objetivoTecnicoToResponse(&objetivos[i]))
	}
	return out, nil
}

func (s *objetivoTecnicoService) Eliminar(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Newf(apierror.KindNotFound, "objetivo %s no encontrado", id)
		}
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

func objetivoTecnicoToResponse(o *model.ObjetivoTecnico) *dto.ObjetivoTecnicoResponse {
	var tecnicoID *string
	if o.TecnicoID != nil {
		s := o.TecnicoID.String()
		tecnicoID = &s
	}
	return &dto.ObjetivoTecnicoResponse{
		ID:              o.ID.String(),
		TecnicoID:       tecnicoID,
		Criterio:        o.Criterio,
		Estado:          o.Estado,
		Peso:            o.Peso,
		FechaCompletado: o.FechaCompletado,
		Evidencia:       o.Evidencia,
		EsGlobal:        o.EsGlobal,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}
