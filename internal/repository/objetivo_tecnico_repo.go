package repository

import (
	"context"

	"tablero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ObjetivoTecnicoRepository interface {
	Create(ctx context.Context, o *model.ObjetivoTecnico) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.ObjetivoTecnico, error)
	// ListByTecnico returns the technician's own objectives plus the
	// tenant's global ones — a global objective is visible to every
	// technician of its tenant.
	ListByTecnico(ctx context.Context, tenantID, tecnicoID uuid.UUID) ([]model.ObjetivoTecnico, error)
	ListGlobales(ctx context.Context, tenantID uuid.UUID) ([]model.ObjetivoTecnico, error)
	Update(ctx context.Context, o *model.ObjetivoTecnico) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type objetivoTecnicoRepo struct{ db *gorm.DB }

func NewObjetivoTecnicoRepository(db *gorm.DB) ObjetivoTecnicoRepository {
	return &objetivoTecnicoRepo{db: db}
}

func (r *objetivoTecnicoRepo) Create(ctx context.Context, o *model.ObjetivoTecnico) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *objetivoTecnicoRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.ObjetivoTecnico, error) {
	var o model.ObjetivoTecnico
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&o).Error
	return &o, err
}

func (r *objetivoTecnicoRepo) ListByTecnico(ctx context.Context, tenantID, tecnicoID uuid.UUID) ([]model.ObjetivoTecnico, error) {
	var objetivos []model.ObjetivoTecnico
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND (tecnico_id = ? OR es_global = true)", tenantID, tecnicoID).
		Order("created_at ASC").Find(&objetivos).Error
	return objetivos, err
}

func (r *objetivoTecnicoRepo) ListGlobales(ctx context.Context, tenantID uuid.UUID) ([]model.ObjetivoTecnico, error) {
	var objetivos []model.ObjetivoTecnico
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND es_global = true", tenantID).
		Order("created_at ASC").Find(&objetivos).Error
	return objetivos, err
}

func (r *objetivoTecnicoRepo) Update(ctx context.Context, o *model.ObjetivoTecnico) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *objetivoTecnicoRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.ObjetivoTecnico{}).Error
}
