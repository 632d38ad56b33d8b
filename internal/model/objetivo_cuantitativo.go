package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObjetivoCuantitativo is a measurable goal (sales total, visits, renewals).
// Nombre must be unique within a tenant; duplicate names are a corruption
// signal left over from the pre-tenant era and are resolved by the repair
// engine, which keeps the copy with the most assignments.
type ObjetivoCuantitativo struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string          `gorm:"index;not null"`
	MetricaTipo   string          `gorm:"not null;default:'monto'"`
	ValorObjetivo decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ValorActual   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	FechaInicio   *time.Time
	FechaFin      *time.Time
	TenantID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Tenant *Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}

// VendedorObjetivoCuantitativo assigns a quantitative objective to a
// salesperson with an individual target. Orden controls presentation order
// on the dashboard only — it carries no semantic priority.
type VendedorObjetivoCuantitativo struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID             uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_vendedor_obj_cuant;not null"`
	ObjetivoCuantitativoID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_vendedor_obj_cuant;not null"`
	MetaIndividual         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	ValorActual            decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Orden                  int             `gorm:"not null;default:0"`
	CreatedAt              time.Time
	UpdatedAt              time.Time

	Vendedor *Vendedor             `gorm:"foreignKey:VendedorID;constraint:OnDelete:CASCADE"`
	Objetivo *ObjetivoCuantitativo `gorm:"foreignKey:ObjetivoCuantitativoID;constraint:OnDelete:CASCADE"`
}
