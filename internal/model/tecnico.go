package model

import (
	"time"

	"github.com/google/uuid"
)

// Tecnico is a support technician.
type Tecnico struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre   string     `gorm:"index;not null"`
	Email    string     `gorm:"index;not null"`
	Estado   string     `gorm:"not null;default:'activo'"`
	TenantID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tenant *Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}
