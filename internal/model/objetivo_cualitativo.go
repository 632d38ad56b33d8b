package model

import (
	"time"

	"github.com/google/uuid"
)

// ObjetivoCualitativo is a qualitative goal. Estado and Prioridad are
// free-form enumerations maintained by the dashboard — there is no enforced
// transition order, unlike ObjetivoTecnico.
type ObjetivoCualitativo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Titulo      string    `gorm:"not null"`
	Descripcion *string
	Estado      string `gorm:"not null;default:'pendiente'"`
	Prioridad   string `gorm:"not null;default:'media'"`
	FechaLimite *time.Time
	TenantID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tenant *Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}

// VendedorObjetivo assigns a qualitative objective to a salesperson.
type VendedorObjetivo struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID            uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_vendedor_objetivo;not null"`
	ObjetivoCualitativoID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_vendedor_objetivo;not null"`
	CreatedAt             time.Time

	Vendedor *Vendedor            `gorm:"foreignKey:VendedorID;constraint:OnDelete:CASCADE"`
	Objetivo *ObjetivoCualitativo `gorm:"foreignKey:ObjetivoCualitativoID;constraint:OnDelete:CASCADE"`
}
