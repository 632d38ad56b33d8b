package repository

import (
	"context"
	"errors"

	"tablero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantRepository is the data access contract for tenants.
type TenantRepository interface {
	Create(ctx context.Context, t *model.Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Tenant, error)
	// FindOrCreateByNombre is the idempotent lookup the tenant backfill
	// relies on: re-running never creates a second default tenant.
	FindOrCreateByNombre(ctx context.Context, nombre string) (*model.Tenant, error)
	List(ctx context.Context) ([]model.Tenant, error)
}

type tenantRepo struct{ db *gorm.DB }

func NewTenantRepository(db *gorm.DB) TenantRepository { return &tenantRepo{db: db} }

func (r *tenantRepo) Create(ctx context.Context, t *model.Tenant) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tenantRepo) FindByNombre(ctx context.Context, nombre string) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&t).Error
	return &t, err
}

func (r *tenantRepo) FindOrCreateByNombre(ctx context.Context, nombre string) (*model.Tenant, error) {
	t, err := r.FindByNombre(ctx, nombre)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	nuevo := &model.Tenant{Nombre: nombre}
	if err := r.db.WithContext(ctx).Create(nuevo).Error; err != nil {
		// Lost a race against a concurrent creator — re-read.
		if existing, ferr := r.FindByNombre(ctx, nombre); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	return nuevo, nil
}

func (r *tenantRepo) List(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&tenants).Error
	return tenants, err
}
