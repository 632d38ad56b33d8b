package model

import (
	"time"

	"github.com/google/uuid"
)

// Servicio is a catalog entry. Nombre is unique within a tenant.
type Servicio struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex:idx_servicio_tenant_nombre;not null"`
	Categoria   string    `gorm:"not null"`
	Descripcion *string
	TenantID    *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_servicio_tenant_nombre"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tenant *Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}

// ClienteServicio links a client to a contracted service. The composite
// unique index guarantees a service is assigned to a client at most once.
type ClienteServicio struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cliente_servicio;not null"`
	ServicioID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cliente_servicio;not null"`
	Nota       *string
	CreatedAt  time.Time

	Cliente  *Cliente  `gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE"`
	Servicio *Servicio `gorm:"foreignKey:ServicioID;constraint:OnDelete:CASCADE"`
}
