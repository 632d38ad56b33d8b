package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TablasConTenant lists every tenant-scoped table in referential order
// (parents before children). The backfill walks this list so that a reader
// racing the procedure never sees a child attributed before its parent.
// Junction tables are absent — they carry no tenant column of their own.
var TablasConTenant = []string{
	"vendedores",
	"tecnicos",
	"clientes",
	"servicios",
	"objetivos_cualitativos",
	"objetivos_cuantitativos",
	"objetivos_tecnicos",
}

// BackfillRepository is the narrow surface the tenant backfill procedure
// needs: bulk tenant attribution per table and post-backfill constraint
// tightening.
type BackfillRepository interface {
	// AsignarTenantFaltante sets tenant_id on every row of tabla where it is
	// still null, in one bulk update. Returns the number of rows changed.
	AsignarTenantFaltante(ctx context.Context, tabla string, tenantID uuid.UUID) (int64, error)
	// CountSinTenant reports how many rows of tabla remain unmigrated.
	CountSinTenant(ctx context.Context, tabla string) (int64, error)
	// AgregarFKTenant adds the tenant foreign key on tabla. Failures are a
	// known acceptable degradation — callers record them as soft failures.
	AgregarFKTenant(ctx context.Context, tabla string) error
}

type backfillRepo struct{ db *gorm.DB }

func NewBackfillRepository(db *gorm.DB) BackfillRepository { return &backfillRepo{db: db} }

// tablaValida guards against identifier injection: only the fixed table list
// may appear in generated SQL.
func tablaValida(tabla string) bool {
	for _, t := range TablasConTenant {
		if t == tabla {
			return true
		}
	}
	return false
}

func (r *backfillRepo) AsignarTenantFaltante(ctx context.Context, tabla string, tenantID uuid.UUID) (int64, error) {
	if !tablaValida(tabla) {
		return 0, fmt.Errorf("tabla desconocida: %q", tabla)
	}
	res := r.db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE %s SET tenant_id = ? WHERE tenant_id IS NULL`, tabla), tenantID)
	return res.RowsAffected, res.Error
}

func (r *backfillRepo) CountSinTenant(ctx context.Context, tabla string) (int64, error) {
	if !tablaValida(tabla) {
		return 0, fmt.Errorf("tabla desconocida: %q", tabla)
	}
	var total int64
	err := r.db.WithContext(ctx).Raw(
		fmt.Sprintf(`SELECT count(*) FROM %s WHERE tenant_id IS NULL`, tabla)).Scan(&total).Error
	return total, err
}

func (r *backfillRepo) AgregarFKTenant(ctx context.Context, tabla string) error {
	if !tablaValida(tabla) {
		return fmt.Errorf("tabla desconocida: %q", tabla)
	}
	return r.db.WithContext(ctx).Exec(fmt.Sprintf(`
		DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_%s_tenant') THEN
		    ALTER TABLE %s
		      ADD CONSTRAINT fk_%s_tenant
		      FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE;
		  END IF;
		END $$`, tabla, tabla, tabla)).Error
}
