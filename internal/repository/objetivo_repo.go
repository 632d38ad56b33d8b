package repository

import (
	"context"

	"tablero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ObjetivoRepository covers qualitative and quantitative objectives plus
// their salesperson junctions. The Tx-suffixed methods run inside a caller
// transaction — the repair engine deletes a victim's junction rows and the
// victim itself as one atomic unit.
type ObjetivoRepository interface {
	// Qualitative
	CreateCualitativo(ctx context.Context, o *model.ObjetivoCualitativo) error
	FindCualitativo(ctx context.Context, tenantID, id uuid.UUID) (*model.ObjetivoCualitativo, error)
	ListCualitativos(ctx context.Context, tenantID uuid.UUID) ([]model.ObjetivoCualitativo, error)
	UpdateCualitativo(ctx context.Context, o *model.ObjetivoCualitativo) error
	DeleteCualitativo(ctx context.Context, tenantID, id uuid.UUID) error

	// Quantitative
	CreateCuantitativo(ctx context.Context, o *model.ObjetivoCuantitativo) error
	FindCuantitativo(ctx context.Context, tenantID, id uuid.UUID) (*model.ObjetivoCuantitativo, error)
	ListCuantitativos(ctx context.Context, tenantID uuid.UUID) ([]model.ObjetivoCuantitativo, error)
	// ListCuantitativosTodos ignores tenant scoping. Repair-engine use only:
	// duplicate detection must see every tenant's rows (and unmigrated ones)
	// in a single pass.
	ListCuantitativosTodos(ctx context.Context) ([]model.ObjetivoCuantitativo, error)
	UpdateCuantitativo(ctx context.Context, o *model.ObjetivoCuantitativo) error

	// Junctions
	AsignarCualitativo(ctx context.Context, vo *model.VendedorObjetivo) error
	AsignarCuantitativo(ctx context.Context, voc *model.VendedorObjetivoCuantitativo) error
	ListAsignacionesCuantitativo(ctx context.Context, objetivoID uuid.UUID) ([]model.VendedorObjetivoCuantitativo, error)
	ListAsignacionesDeVendedor(ctx context.Context, vendedorID uuid.UUID) ([]model.VendedorObjetivoCuantitativo, error)
	CountAsignacionesCuantitativo(ctx context.Context, objetivoID uuid.UUID) (int64, error)
	ReplaceAsignacionesCuantitativoTx(tx *gorm.DB, objetivoID uuid.UUID, filas []model.VendedorObjetivoCuantitativo) error
	DeleteAsignacionesVendedor(ctx context.Context, vendedorID uuid.UUID) (cualitativas, cuantitativas int64, err error)

	// Repair support
	DeleteAsignacionesCuantitativoTx(tx *gorm.DB, objetivoID uuid.UUID) (int64, error)
	DeleteCuantitativoTx(tx *gorm.DB, id uuid.UUID) error
	// CrearIndiceUnicidadCuantitativos adds the (tenant_id, nombre) unique
	// index once duplicates are gone. Callers treat a failure as a soft
	// degradation, not a fatal error.
	CrearIndiceUnicidadCuantitativos(ctx context.Context) error

	// DB exposes the underlying *gorm.DB so callers can open transactions.
	DB() *gorm.DB
}

type objetivoRepo struct{ db *gorm.DB }

func NewObjetivoRepository(db *gorm.DB) ObjetivoRepository { return &objetivoRepo{db: db} }

// ── Qualitative ──────────────────────────────────────────────────────────────

func (r *objetivoRepo) CreateCualitativo(ctx context.Context, o *model.ObjetivoCualitativo) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *objetivoRepo) FindCualitativo(ctx context.Context, tenantID, id uuid.UUID) (*model.ObjetivoCualitativo, error) {
	var o model.ObjetivoCualitativo
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&o).Error
	return &o, err
}

func (r *objetivoRepo) ListCualitativos(ctx context.Context, tenantID uuid.UUID) ([]model.ObjetivoCualitativo, error) {
	var objetivos []model.ObjetivoCualitativo
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).
		Order("prioridad ASC, fecha_limite ASC NULLS LAST").Find(&objetivos).Error
	return objetivos, err
}

func (r *objetivoRepo) UpdateCualitativo(ctx context.Context, o *model.ObjetivoCualitativo) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *objetivoRepo) DeleteCualitativo(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.ObjetivoCualitativo{}).Error
}

// ── Quantitative ─────────────────────────────────────────────────────────────

func (r *objetivoRepo) CreateCuantitativo(ctx context.Context, o *model.ObjetivoCuantitativo) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *objetivoRepo) FindCuantitativo(ctx context.Context, tenantID, id uuid.UUID) (*model.ObjetivoCuantitativo, error) {
	var o model.ObjetivoCuantitativo
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&o).Error
	return &o, err
}

func (r *objetivoRepo) ListCuantitativos(ctx context.Context, tenantID uuid.UUID) ([]model.ObjetivoCuantitativo, error) {
	var objetivos []model.ObjetivoCuantitativo
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).
		Order("nombre ASC").Find(&objetivos).Error
	return objetivos, err
}

func (r *objetivoRepo) ListCuantitativosTodos(ctx context.Context) ([]model.ObjetivoCuantitativo, error) {
	var objetivos []model.ObjetivoCuantitativo
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&objetivos).Error
	return objetivos, err
}

func (r *objetivoRepo) UpdateCuantitativo(ctx context.Context, o *model.ObjetivoCuantitativo) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// ── Junctions ────────────────────────────────────────────────────────────────

func (r *objetivoRepo) AsignarCualitativo(ctx context.Context, vo *model.VendedorObjetivo) error {
	return r.db.WithContext(ctx).Create(vo).Error
}

func (r *objetivoRepo) AsignarCuantitativo(ctx context.Context, voc *model.VendedorObjetivoCuantitativo) error {
	return r.db.WithContext(ctx).Create(voc).Error
}

func (r *objetivoRepo) ListAsignacionesCuantitativo(ctx context.Context, objetivoID uuid.UUID) ([]model.VendedorObjetivoCuantitativo, error) {
	var filas []model.VendedorObjetivoCuantitativo
	err := r.db.WithContext(ctx).
		Preload("Vendedor").
		Where("objetivo_cuantitativo_id = ?", objetivoID).
		Order("orden ASC").Find(&filas).Error
	return filas, err
}

func (r *objetivoRepo) ListAsignacionesDeVendedor(ctx context.Context, vendedorID uuid.UUID) ([]model.VendedorObjetivoCuantitativo, error) {
	var filas []model.VendedorObjetivoCuantitativo
	err := r.db.WithContext(ctx).
		Preload("Objetivo").
		Where("vendedor_id = ?", vendedorID).
		Order("orden ASC").Find(&filas).Error
	return filas, err
}

func (r *objetivoRepo) CountAsignacionesCuantitativo(ctx context.Context, objetivoID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.VendedorObjetivoCuantitativo{}).
		Where("objetivo_cuantitativo_id = ?", objetivoID).Count(&total).Error
	return total, err
}

func (r *objetivoRepo) ReplaceAsignacionesCuantitativoTx(tx *gorm.DB, objetivoID uuid.UUID, filas []model.VendedorObjetivoCuantitativo) error {
	if err := tx.Where("objetivo_cuantitativo_id = ?", objetivoID).
		Delete(&model.VendedorObjetivoCuantitativo{}).Error; err != nil {
		return err
	}
	if len(filas) == 0 {
		return nil
	}
	return tx.Create(&filas).Error
}

func (r *objetivoRepo) DeleteAsignacionesVendedor(ctx context.Context, vendedorID uuid.UUID) (int64, int64, error) {
	cual := r.db.WithContext(ctx).
		Where("vendedor_id = ?", vendedorID).Delete(&model.VendedorObjetivo{})
	if cual.Error != nil {
		return 0, 0, cual.Error
	}
	cuant := r.db.WithContext(ctx).
		Where("vendedor_id = ?", vendedorID).Delete(&model.VendedorObjetivoCuantitativo{})
	if cuant.Error != nil {
		return cual.RowsAffected, 0, cuant.Error
	}
	return cual.RowsAffected, cuant.RowsAffected, nil
}

// ── Repair support ───────────────────────────────────────────────────────────

func (r *objetivoRepo) DeleteAsignacionesCuantitativoTx(tx *gorm.DB, objetivoID uuid.UUID) (int64, error) {
	res := tx.Where("objetivo_cuantitativo_id = ?", objetivoID).
		Delete(&model.VendedorObjetivoCuantitativo{})
	return res.RowsAffected, res.Error
}

func (r *objetivoRepo) DeleteCuantitativoTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Where("id = ?", id).Delete(&model.ObjetivoCuantitativo{}).Error
}

func (r *objetivoRepo) CrearIndiceUnicidadCuantitativos(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_objetivo_cuant_tenant_nombre
		ON objetivos_cuantitativos (tenant_id, nombre)`).Error
}

func (r *objetivoRepo) DB() *gorm.DB { return r.db }
