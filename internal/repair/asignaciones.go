package repair

import (
	"context"
	"errors"

	"tablero/internal/apierror"
	"tablero/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuitarAsignacionesVendedor removes every objective assignment of one
// salesperson — the targeted variant of junction cleanup, used when a
// salesperson leaves and their objectives are reassigned by hand. The
// salesperson row itself is untouched. Idempotent: a second run deletes zero
// rows.
func QuitarAsignacionesVendedor(
	ctx context.Context,
	vendedores repository.VendedorRepository,
	objetivos repository.ObjetivoRepository,
	tenantID, vendedorID uuid.UUID,
) (*Resumen, error) {
	res := nuevoResumen("quitar asignaciones de vendedor")

	vendedor, err := vendedores.FindByID(ctx, tenantID, vendedorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Newf(apierror.KindNotFound, "vendedor %s no existe en el tenant", vendedorID)
		}
		return nil, err
	}

	log.Info().
		Str("vendedor_id", vendedor.ID.String()).
		Str("nombre", vendedor.Nombre).
		Msg("eliminando asignaciones de objetivos")

	cual, cuant, err := objetivos.DeleteAsignacionesVendedor(ctx, vendedorID)
	if err != nil {
		return res, err
	}
	res.PorTabla["vendedor_objetivos"] = cual
	res.PorTabla["vendedor_objetivos_cuantitativos"] = cuant
	res.Eliminados = cual + cuant
	res.detalle("vendedor %q: %d asignaciones cualitativas, %d cuantitativas", vendedor.Nombre, cual, cuant)

	return res, nil
}
