package repository

import (
	"context"

	"tablero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClienteRepository is the data access contract for clients and their service
// associations.
type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Cliente, error)
	FindByNombre(ctx context.Context, tenantID uuid.UUID, nombre string) (*model.Cliente, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// Service associations
	AsignarServicio(ctx context.Context, cs *model.ClienteServicio) error
	FindAsociacion(ctx context.Context, clienteID, servicioID uuid.UUID) (*model.ClienteServicio, error)
	ListServicios(ctx context.Context, clienteID uuid.UUID) ([]model.ClienteServicio, error)
	QuitarServicio(ctx context.Context, clienteID, servicioID uuid.UUID) error
	CountAsociaciones(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).
		Preload("Vendedor").Preload("Tecnico").
		Where("id = ? AND tenant_id = ?", id, tenantID).First(&c).Error
	return &c, err
}

func (r *clienteRepo) FindByNombre(ctx context.Context, tenantID uuid.UUID, nombre string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).
		Where("nombre = ? AND tenant_id = ?", nombre, tenantID).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).
		Preload("Vendedor").Preload("Tecnico").
		Where("tenant_id = ?", tenantID).Order("nombre ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.Cliente{}).Error
}

func (r *clienteRepo) AsignarServicio(ctx context.Context, cs *model.ClienteServicio) error {
	return r.db.WithContext(ctx).Create(cs).Error
}

func (r *clienteRepo) FindAsociacion(ctx context.Context, clienteID, servicioID uuid.UUID) (*model.ClienteServicio, error) {
	var cs model.ClienteServicio
	err := r.db.WithContext(ctx).
		Where("cliente_id = ? AND servicio_id = ?", clienteID, servicioID).First(&cs).Error
	return &cs, err
}

func (r *clienteRepo) ListServicios(ctx context.Context, clienteID uuid.UUID) ([]model.ClienteServicio, error) {
	var asociaciones []model.ClienteServicio
	err := r.db.WithContext(ctx).
		Preload("Servicio").
		Where("cliente_id = ?", clienteID).Find(&asociaciones).Error
	return asociaciones, err
}

func (r *clienteRepo) QuitarServicio(ctx context.Context, clienteID, servicioID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cliente_id = ? AND servicio_id = ?", clienteID, servicioID).
		Delete(&model.ClienteServicio{}).Error
}

func (r *clienteRepo) CountAsociaciones(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.ClienteServicio{}).
		Joins("JOIN clientes ON clientes.id = cliente_servicios.cliente_id").
		Where("clientes.tenant_id = ?", tenantID).
		Count(&total).Error
	return total, err
}
