package repair

import (
	"context"
	"sort"

	"tablero/internal/model"
	"tablero/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Dedupe resolves duplicate quantitative objectives. Objectives are grouped
// by (tenant, nombre); in each group the member with the most salesperson
// assignments survives and the rest are deleted together with their junction
// rows. Victim attributes are discarded, not merged — the resolution is
// deliberately lossy, matching how the dashboard always behaved; every victim
// is logged in full before deletion so the data is recoverable from operator
// logs.
type Dedupe struct {
	repo repository.ObjetivoRepository
}

func NewDedupe(repo repository.ObjetivoRepository) *Dedupe {
	return &Dedupe{repo: repo}
}

// miembro is one duplicate-group member with its assignment count resolved.
type miembro struct {
	obj          model.ObjetivoCuantitativo
	asignaciones int64
}

// Run executes duplicate resolution across all tenants, or a single tenant
// when tenantID is non-nil. Individual victim failures are recorded and the
// procedure continues; a re-run finishes whatever a crash left behind.
func (d *Dedupe) Run(ctx context.Context, tenantID *uuid.UUID) (*Resumen, error) {
	res := nuevoResumen("dedupe objetivos cuantitativos")

	objetivos, err := d.repo.ListCuantitativosTodos(ctx)
	if err != nil {
		return nil, err
	}

	type clave struct {
		tenant string
		nombre string
	}
	grupos := make(map[clave][]model.ObjetivoCuantitativo)
	for _, o := range objetivos {
		if tenantID != nil && (o.TenantID == nil || *o.TenantID != *tenantID) {
			continue
		}
		k := clave{nombre: o.Nombre}
		if o.TenantID != nil {
			k.tenant = o.TenantID.String()
		}
		grupos[k] = append(grupos[k], o)
	}

	for k, grupo := range grupos {
		if len(grupo) <= 1 {
			continue
		}
		res.Conflictos++

		miembros := make([]miembro, 0, len(grupo))
		for _, o := range grupo {
			n, err := d.repo.CountAsignacionesCuantitativo(ctx, o.ID)
			if err != nil {
				return res, err
			}
			miembros = append(miembros, miembro{obj: o, asignaciones: n})
		}

		ordenarPorSupervivencia(miembros)
		superviviente := miembros[0]
		res.detalle("grupo %q: superviviente %s (%d asignaciones), %d víctimas",
			k.nombre, superviviente.obj.ID, superviviente.asignaciones, len(miembros)-1)

		for _, v := range miembros[1:] {
			victima := v
			// Log the full candidate before touching it — the only record of
			// its attributes once deleted.
			log.Warn().
				Str("objetivo_id", victima.obj.ID.String()).
				Str("nombre", victima.obj.Nombre).
				Str("metrica_tipo", victima.obj.MetricaTipo).
				Str("valor_objetivo", victima.obj.ValorObjetivo.String()).
				Str("valor_actual", victima.obj.ValorActual.String()).
				Int64("asignaciones", victima.asignaciones).
				Time("created_at", victima.obj.CreatedAt).
				Msg("eliminando objetivo duplicado")

			err := runTx(ctx, d.repo.DB(), func(tx *gorm.DB) error {
				// Junctions first so a crash mid-unit never leaves an orphan
				// reachable; a re-run finds them already gone and only the
				// victim row left to delete.
				n, err := d.repo.DeleteAsignacionesCuantitativoTx(tx, victima.obj.ID)
				if err != nil {
					return err
				}
				res.PorTabla["vendedor_objetivos_cuantitativos"] += n
				return d.repo.DeleteCuantitativoTx(tx, victima.obj.ID)
			})
			if err != nil {
				// Locally recoverable: skip this victim, keep going. The next
				// run picks it up again.
				log.Error().Err(err).Str("objetivo_id", victima.obj.ID.String()).
					Msg("no se pudo eliminar la víctima, continuando")
				res.falloSuave("víctima %s: %v", victima.obj.ID, err)
				continue
			}
			res.Eliminados++
		}
	}

	// With duplicates gone the uniqueness invariant can finally be enforced
	// by the schema. Failure here is a known acceptable degradation.
	if res.Conflictos > 0 || len(grupos) > 0 {
		if err := d.repo.CrearIndiceUnicidadCuantitativos(ctx); err != nil {
			log.Warn().Err(err).Msg("no se pudo crear el índice de unicidad")
			res.falloSuave("índice de unicidad: %v", err)
		}
	}

	return res, nil
}

// ordenarPorSupervivencia sorts a conflict group so the survivor comes first:
// most assignments wins; ties fall to the earliest creation timestamp, then
// to the lowest id. The total order makes retention deterministic no matter
// what order rows were retrieved in.
func ordenarPorSupervivencia(miembros []miembro) {
	sort.SliceStable(miembros, func(i, j int) bool {
		a, b := miembros[i], miembros[j]
		if a.asignaciones != b.asignaciones {
			return a.asignaciones > b.asignaciones
		}
		if !a.obj.CreatedAt.Equal(b.obj.CreatedAt) {
			return a.obj.CreatedAt.Before(b.obj.CreatedAt)
		}
		return a.obj.ID.String() < b.obj.ID.String()
	})
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
