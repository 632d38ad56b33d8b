package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is a dashboard login. Unlike the catalog entities its TenantID is
// NOT nullable: accounts only exist post-retrofit, so there is nothing to
// backfill.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"not null;default:'vendedor'"`
	Activo       bool      `gorm:"not null;default:true"`
	TenantID     uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Tenant *Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}
