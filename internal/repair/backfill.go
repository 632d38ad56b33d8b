package repair

import (
	"context"

	"tablero/internal/repository"

	"github.com/rs/zerolog/log"
)

// Backfill assigns the default tenant to every row left with a null tenant_id
// by the multi-tenant retrofit. The operation is table-granular: one table
// failing does not roll back the others, and a re-run simply resumes from
// whatever null-tenant rows remain. After the first successful run no such
// rows exist, so subsequent runs are no-ops.
type Backfill struct {
	tenants repository.TenantRepository
	repo    repository.BackfillRepository
}

func NewBackfill(tenants repository.TenantRepository, repo repository.BackfillRepository) *Backfill {
	return &Backfill{tenants: tenants, repo: repo}
}

// Run locates or creates the default tenant by name, then bulk-updates each
// scoped table in referential order (parents before children). FK tightening
// afterwards is best-effort: a constraint that cannot be added is surfaced as
// a soft failure and the schema simply stays without it.
func (b *Backfill) Run(ctx context.Context, nombreTenantDefecto string) (*Resumen, error) {
	res := nuevoResumen("backfill de tenant")

	tenant, err := b.tenants.FindOrCreateByNombre(ctx, nombreTenantDefecto)
	if err != nil {
		return nil, err
	}
	res.detalle("tenant por defecto: %q (%s)", tenant.Nombre, tenant.ID)

	for _, tabla := range repository.TablasConTenant {
		n, err := b.repo.AsignarTenantFaltante(ctx, tabla, tenant.ID)
		if err != nil {
			// Table-granular: record and move on; prior tables stay done.
			log.Error().Err(err).Str("tabla", tabla).Msg("backfill de tabla falló")
			res.falloSuave("tabla %s: %v", tabla, err)
			continue
		}
		res.PorTabla[tabla] = n
		res.Actualizados += n
		if n > 0 {
			log.Info().Str("tabla", tabla).Int64("filas", n).Msg("tenant asignado")
		}
	}

	for _, tabla := range repository.TablasConTenant {
		if err := b.repo.AgregarFKTenant(ctx, tabla); err != nil {
			log.Warn().Err(err).Str("tabla", tabla).Msg("no se pudo agregar la FK de tenant")
			res.falloSuave("fk %s: %v", tabla, err)
		}
	}

	return res, nil
}

// Verificar reports how many unmigrated rows remain per table. Zero across
// the board means the backfill is complete.
func (b *Backfill) Verificar(ctx context.Context) (map[string]int64, error) {
	restantes := make(map[string]int64, len(repository.TablasConTenant))
	for _, tabla := range repository.TablasConTenant {
		n, err := b.repo.CountSinTenant(ctx, tabla)
		if err != nil {
			return nil, err
		}
		restantes[tabla] = n
	}
	return restantes, nil
}
