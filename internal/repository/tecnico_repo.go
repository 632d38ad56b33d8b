package repository

import (
	"context"

	"tablero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TecnicoRepository interface {
	Create(ctx context.Context, t *model.Tecnico) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Tecnico, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Tecnico, error)
	Update(ctx context.Context, t *model.Tecnico) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type tecnicoRepo struct{ db *gorm.DB }

func NewTecnicoRepository(db *gorm.DB) TecnicoRepository { return &tecnicoRepo{db: db} }

func (r *tecnicoRepo) Create(ctx context.Context, t *model.Tecnico) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tecnicoRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Tecnico, error) {
	var t model.Tecnico
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&t).Error
	return &t, err
}

func (r *tecnicoRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Tecnico, error) {
	var tecnicos []model.Tecnico
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("nombre ASC").Find(&tecnicos).Error
	return tecnicos, err
}

func (r *tecnicoRepo) Update(ctx context.Context, t *model.Tecnico) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tecnicoRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.Tecnico{}).Error
}
