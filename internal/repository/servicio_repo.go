package repository

import (
	"context"

	"tablero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServicioRepository interface {
	Create(ctx context.Context, s *model.Servicio) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Servicio, error)
	FindByNombre(ctx context.Context, tenantID uuid.UUID, nombre string) (*model.Servicio, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Servicio, error)
	Update(ctx context.Context, s *model.Servicio) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type servicioRepo struct{ db *gorm.DB }

func NewServicioRepository(db *gorm.DB) ServicioRepository { return &servicioRepo{db: db} }

func (r *servicioRepo) Create(ctx context.Context, s *model.Servicio) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *servicioRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Servicio, error) {
	var s model.Servicio
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&s).Error
	return &s, err
}

func (r *servicioRepo) FindByNombre(ctx context.Context, tenantID uuid.UUID, nombre string) (*model.Servicio, error) {
	var s model.Servicio
	err := r.db.WithContext(ctx).Where("nombre = ? AND tenant_id = ?", nombre, tenantID).First(&s).Error
	return &s, err
}

func (r *servicioRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Servicio, error) {
	var servicios []model.Servicio
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("nombre ASC").Find(&servicios).Error
	return servicios, err
}

func (r *servicioRepo) Update(ctx context.Context, s *model.Servicio) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *servicioRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.Servicio{}).Error
}
