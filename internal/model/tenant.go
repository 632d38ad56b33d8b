package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JSONMap stores free-form key/value settings as a jsonb column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.New("JSONMap: expected []byte from driver")
	}
	return json.Unmarshal(b, m)
}

// Tenant is the root of the isolation boundary. Every scoped entity carries a
// TenantID referencing a live row here; cascade on delete removes the whole
// tenant's data set.
type Tenant struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"uniqueIndex;not null"`
	Plan         string    `gorm:"not null;default:'basico'"`
	Estado       string    `gorm:"not null;default:'activo'"`
	FeatureFlags JSONMap   `gorm:"type:jsonb;not null;default:'{}'"`
	Settings     JSONMap   `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
