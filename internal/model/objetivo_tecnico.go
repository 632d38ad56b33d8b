package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados of a technician objective. Transitions are one-directional
// (pending -> in_progress -> completed|not_completed); any state may be
// reset to pending by explicit operator action only.
const (
	EstadoPendiente    = "pending"
	EstadoEnProgreso   = "in_progress"
	EstadoCompletado   = "completed"
	EstadoNoCompletado = "not_completed"
)

// ObjetivoTecnico is a weighted evaluation criterion for a technician.
// EsGlobal=true makes the objective apply to every technician of the tenant;
// a global objective must not carry a specific TecnicoID. FechaCompletado is
// set only while Estado is completed. Peso lies in [0,100]; the sum of a
// technician's non-global weights targets 100 but is not enforced at write
// time (verified by report tooling).
type ObjetivoTecnico struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TecnicoID       *uuid.UUID `gorm:"type:uuid;index"`
	Criterio        string     `gorm:"not null"`
	Estado          string     `gorm:"not null;default:'pending'"`
	FechaCompletado *time.Time
	Peso            int `gorm:"not null;default:0"`
	Evidencia       *string
	EsGlobal        bool       `gorm:"not null;default:false"`
	TenantID        *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Tecnico *Tecnico `gorm:"foreignKey:TecnicoID;constraint:OnDelete:CASCADE"`
	Tenant  *Tenant  `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}
