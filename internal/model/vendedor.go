package model

import (
	"time"

	"github.com/google/uuid"
)

// Vendedor is a salesperson. TenantID is a pointer: a null value marks a row
// created before the multi-tenant retrofit ("unmigrated") and is only legal
// transiently while the tenant backfill runs — normal query paths always
// filter by tenant_id.
type Vendedor struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre   string     `gorm:"index;not null"`
	Email    string     `gorm:"index;not null"`
	Estado   string     `gorm:"not null;default:'activo'"`
	TenantID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tenant *Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}
