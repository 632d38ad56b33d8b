package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// AccionPendiente is one follow-up item on a client record.
type AccionPendiente struct {
	Accion      string     `json:"accion"`
	FechaLimite *time.Time `json:"fechaLimite,omitempty"`
	Estado      string     `json:"estado"`
}

// AccionesPendientes is stored as a jsonb array, not a child table — the list
// is small, always read whole, and never queried by element.
type AccionesPendientes []AccionPendiente

func (a AccionesPendientes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

func (a *AccionesPendientes) Scan(src interface{}) error {
	if src == nil {
		*a = AccionesPendientes{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.New("AccionesPendientes: expected []byte from driver")
	}
	return json.Unmarshal(b, a)
}

// Cliente is a customer account. VendedorID and TecnicoID, when set, must
// reference rows of the same tenant — enforced at the service layer before
// any write.
type Cliente struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre                  string     `gorm:"index;not null"`
	VendedorID              *uuid.UUID `gorm:"type:uuid;index"`
	TecnicoID               *uuid.UUID `gorm:"type:uuid;index"`
	ContratoSoporte         bool       `gorm:"not null;default:false"`
	FechaUltimoRelevamiento *time.Time
	AccionesPendientes      AccionesPendientes `gorm:"type:jsonb;not null;default:'[]'"`
	TenantID                *uuid.UUID         `gorm:"type:uuid;index"`
	CreatedAt               time.Time
	UpdatedAt               time.Time

	Vendedor *Vendedor `gorm:"foreignKey:VendedorID;constraint:OnDelete:SET NULL"`
	Tecnico  *Tecnico  `gorm:"foreignKey:TecnicoID;constraint:OnDelete:SET NULL"`
	Tenant   *Tenant   `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}
