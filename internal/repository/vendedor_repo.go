package repository

import (
	"context"

	"tablero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendedorRepository is the data access contract for salespeople. Every read
// is parameterized by tenant — there is no "all tenants" query path.
type VendedorRepository interface {
	Create(ctx context.Context, v *model.Vendedor) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Vendedor, error)
	FindByNombre(ctx context.Context, tenantID uuid.UUID, nombre string) (*model.Vendedor, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Vendedor, error)
	Update(ctx context.Context, v *model.Vendedor) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type vendedorRepo struct{ db *gorm.DB }

func NewVendedorRepository(db *gorm.DB) VendedorRepository { return &vendedorRepo{db: db} }

func (r *vendedorRepo) Create(ctx context.Context, v *model.Vendedor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vendedorRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Vendedor, error) {
	var v model.Vendedor
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&v).Error
	return &v, err
}

func (r *vendedorRepo) FindByNombre(ctx context.Context, tenantID uuid.UUID, nombre string) (*model.Vendedor, error) {
	var v model.Vendedor
	err := r.db.WithContext(ctx).Where("nombre = ? AND tenant_id = ?", nombre, tenantID).First(&v).Error
	return &v, err
}

func (r *vendedorRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Vendedor, error) {
	var vendedores []model.Vendedor
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("nombre ASC").Find(&vendedores).Error
	return vendedores, err
}

func (r *vendedorRepo) Update(ctx context.Context, v *model.Vendedor) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vendedorRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.Vendedor{}).Error
}
