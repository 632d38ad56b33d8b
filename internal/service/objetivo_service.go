package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tablero/internal/apierror"
	"tablero/internal/dto"
	"tablero/internal/model"
	"tablero/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ObjetivoService owns salesperson objectives, both flavors, and their
// assignment junctions.
type ObjetivoService interface {
	CrearCuantitativo(ctx context.Context, tenantID uuid.UUID, req dto.ObjetivoCuantitativoRequest) (*dto.ObjetivoCuantitativoResponse, error)
	CrearCualitativo(ctx context.Context, tenantID uuid.UUID, req dto.ObjetivoCualitativoRequest) (*model.ObjetivoCualitativo, error)
	ListarCuantitativos(ctx context.Context, tenantID uuid.UUID) ([]dto.ObjetivoCuantitativoResponse, error)
	SyncAsignaciones(ctx context.Context, tenantID, objetivoID uuid.UUID, req dto.SyncAsignacionesRequest) error
	Resumen(ctx context.Context, tenantID uuid.UUID) (*dto.ResumenObjetivos, error)
}

type objetivoService struct {
	repo       repository.ObjetivoRepository
	vendedores repository.VendedorRepository
	rdb        *redis.Client
	cacheTTL   time.Duration
}

func NewObjetivoService(repo repository.ObjetivoRepository, vendedores repository.VendedorRepository, rdb *redis.Client, cacheTTL time.Duration) ObjetivoService {
	return &objetivoService{repo: repo, vendedores: vendedores, rdb: rdb, cacheTTL: cacheTTL}
}

// CrearCuantitativo enforces per-tenant name uniqueness at write time — the
// repair engine only exists for the legacy rows that predate this check.
func (s *objetivoService) CrearCuantitativo(ctx context.Context, tenantID uuid.UUID, req dto.ObjetivoCuantitativoRequest) (*dto.ObjetivoCuantitativoResponse, error) {
	if req.Nombre == "" {
		return nil, apierror.NewValidation(map[string]string{"nombre": "requerido"})
	}
	existentes, err := s.repo.ListCuantitativos(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, o := range existentes {
		if o.Nombre == req.Nombre {
			return nil, apierror.Newf(apierror.KindValidation,
				"ya existe un objetivo cuantitativo %q en el tenant", req.Nombre)
		}
	}

	metrica := req.MetricaTipo
	if metrica == "" {
		metrica = "monto"
	}
	obj := &model.ObjetivoCuantitativo{
		Nombre:        req.Nombre,
		MetricaTipo:   metrica,
		ValorObjetivo: req.ValorObjetivo,
		FechaInicio:   req.FechaInicio,
		FechaFin:      req.FechaFin,
		TenantID:      &tenantID,
	}
	if err := s.repo.CreateCuantitativo(ctx, obj); err != nil {
		return nil, err
	}

	// vendedorIds defaults to an empty set — no assignments, not an error.
	for orden, raw := range req.VendedorIds {
		vid, err := uuid.Parse(raw)
		if err != nil {
			return nil, apierror.NewValidation(map[string]string{"vendedorIds": "uuid inválido"})
		}
		if _, err := s.vendedores.FindByID(ctx, tenantID, vid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.Newf(apierror.KindCrossTenant, "vendedor %s no pertenece al tenant", vid)
			}
			return nil, err
		}
		voc := &model.VendedorObjetivoCuantitativo{
			VendedorID:             vid,
			ObjetivoCuantitativoID: obj.ID,
			Orden:                  orden,
		}
		if err := s.repo.AsignarCuantitativo(ctx, voc); err != nil {
			return nil, err
		}
	}

	s.invalidarResumen(ctx, tenantID)
	return &dto.ObjetivoCuantitativoResponse{
		ID:            obj.ID.String(),
		Nombre:        obj.Nombre,
		MetricaTipo:   obj.MetricaTipo,
		ValorObjetivo: obj.ValorObjetivo,
		ValorActual:   obj.ValorActual,
		Asignaciones:  len(req.VendedorIds),
	}, nil
}

func (s *objetivoService) CrearCualitativo(ctx context.Context, tenantID uuid.UUID, req dto.ObjetivoCualitativoRequest) (*model.ObjetivoCualitativo, error) {
	if req.Titulo == "" {
		return nil, apierror.NewValidation(map[string]string{"titulo": "requerido"})
	}
	estado := req.Estado
	if estado == "" {
		estado = "pendiente"
	}
	prioridad := req.Prioridad
	if prioridad == "" {
		prioridad = "media"
	}
	obj := &model.ObjetivoCualitativo{
		Titulo:      req.Titulo,
		Descripcion: req.Descripcion,
		Estado:      estado,
		Prioridad:   prioridad,
		FechaLimite: req.FechaLimite,
		TenantID:    &tenantID,
	}
	if err := s.repo.CreateCualitativo(ctx, obj); err != nil {
		return nil, err
	}

	for _, raw := range req.VendedorIds {
		vid, err := uuid.Parse(raw)
		if err != nil {
			return nil, apierror.NewValidation(map[string]string{"vendedorIds": "uuid inválido"})
		}
		if _, err := s.vendedores.FindByID(ctx, tenantID, vid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.Newf(apierror.KindCrossTenant, "vendedor %s no pertenece al tenant", vid)
			}
			return nil, err
		}
		vo := &model.VendedorObjetivo{VendedorID: vid, ObjetivoCualitativoID: obj.ID}
		if err := s.repo.AsignarCualitativo(ctx, vo); err != nil {
			return nil, err
		}
	}

	s.invalidarResumen(ctx, tenantID)
	return obj, nil
}

func (s *objetivoService) ListarCuantitativos(ctx context.Context, tenantID uuid.UUID) ([]dto.ObjetivoCuantitativoResponse, error) {
	objetivos, err := s.repo.ListCuantitativos(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ObjetivoCuantitativoResponse, 0, len(objetivos))
	for _, o := range objetivos {
		n, err := s.repo.CountAsignacionesCuantitativo(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ObjetivoCuantitativoResponse{
			ID:            o.ID.String(),
			Nombre:        o.Nombre,
			MetricaTipo:   o.MetricaTipo,
			ValorObjetivo: o.ValorObjetivo,
			ValorActual:   o.ValorActual,
			Asignaciones:  int(n),
		})
	}
	return out, nil
}

// SyncAsignaciones replaces the objective's full assignment set in one
// transaction, preserving per-salesperson targets and presentation order.
func (s *objetivoService) SyncAsignaciones(ctx context.Context, tenantID, objetivoID uuid.UUID, req dto.SyncAsignacionesRequest) error {
	if _, err := s.repo.FindCuantitativo(ctx, tenantID, objetivoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Newf(apierror.KindNotFound, "objetivo %s no encontrado", objetivoID)
		}
		return err
	}

	filas := make([]model.VendedorObjetivoCuantitativo, 0, len(req.Asignaciones))
	for _, a := range req.Asignaciones {
		vid, err := uuid.Parse(a.VendedorID)
		if err != nil {
			return apierror.NewValidation(map[string]string{"vendedorId": "uuid inválido"})
		}
		if _, err := s.vendedores.FindByID(ctx, tenantID, vid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.Newf(apierror.KindCrossTenant, "vendedor %s no pertenece al tenant", vid)
			}
			return err
		}
		filas = append(filas, model.VendedorObjetivoCuantitativo{
			VendedorID:             vid,
			ObjetivoCuantitativoID: objetivoID,
			MetaIndividual:         a.MetaIndividual,
			Orden:                  a.Orden,
		})
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.ReplaceAsignacionesCuantitativoTx(tx, objetivoID, filas)
	})
	if err != nil {
		return err
	}
	s.invalidarResumen(ctx, tenantID)
	return nil
}

// Resumen serves the dashboard header aggregate through a short-lived redis
// cache; writes invalidate it.
func (s *objetivoService) Resumen(ctx context.Context, tenantID uuid.UUID) (*dto.ResumenObjetivos, error) {
	key := resumenKey(tenantID)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached dto.ResumenObjetivos
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	cuantitativos, err := s.repo.ListCuantitativos(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	cualitativos, err := s.repo.ListCualitativos(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	resumen := &dto.ResumenObjetivos{
		TotalCuantitativos: len(cuantitativos),
		TotalCualitativos:  len(cualitativos),
		GeneradoEn:         time.Now().UTC(),
	}
	for _, o := range cuantitativos {
		resumen.MontoObjetivo = resumen.MontoObjetivo.Add(o.ValorObjetivo)
		resumen.MontoActual = resumen.MontoActual.Add(o.ValorActual)
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resumen); err == nil {
			if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("no se pudo cachear el resumen")
			}
		}
	}
	return resumen, nil
}

func (s *objetivoService) invalidarResumen(ctx context.Context, tenantID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, resumenKey(tenantID)).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar el resumen")
	}
}

func resumenKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("resumen:objetivos:%s", tenantID)
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
