// Package migrate implements the schema evolution log: an ordered, append-only
// list of reversible structural changes. Applied step names are persisted in
// the esquema_cambios ledger table; a step whose name is already recorded is a
// no-op regardless of what the live schema looks like.
package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Paso is one reversible structural change. Down must restore the schema
// exactly as it was before Up, including dropping any enum types Up created.
type Paso struct {
	Nombre string
	Up     func(tx *gorm.DB) error
	Down   func(tx *gorm.DB) error
}

// cambioAplicado is a ledger row.
type cambioAplicado struct {
	Nombre    string    `gorm:"primaryKey"`
	AppliedAt time.Time `gorm:"not null"`
}

func (cambioAplicado) TableName() string { return "esquema_cambios" }

// Runner applies and reverses steps against a single database.
type Runner struct {
	db    *gorm.DB
	pasos []Paso
}

func NewRunner(db *gorm.DB, pasos []Paso) *Runner {
	return &Runner{db: db, pasos: pasos}
}

func (r *Runner) ensureLedger(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`
		CREATE TABLE IF NOT EXISTS esquema_cambios (
			nombre     TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`).Error
}

func (r *Runner) aplicados(ctx context.Context) (map[string]bool, error) {
	var filas []cambioAplicado
	if err := r.db.WithContext(ctx).Find(&filas).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(filas))
	for _, f := range filas {
		set[f.Nombre] = true
	}
	return set, nil
}

// Up applies every unapplied step, in declaration order, each inside its own
// transaction together with its ledger entry. A failed step stops the run;
// already-applied steps behind it stay applied.
func (r *Runner) Up(ctx context.Context) (int, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return 0, fmt.Errorf("ledger: %w", err)
	}
	hechos, err := r.aplicados(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, p := range pendientes(r.pasos, hechos) {
		paso := p
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := paso.Up(tx); err != nil {
				return err
			}
			return tx.Create(&cambioAplicado{Nombre: paso.Nombre, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("paso %q: %w", paso.Nombre, err)
		}
		applied++
		log.Info().Str("paso", paso.Nombre).Msg("cambio de esquema aplicado")
	}
	return applied, nil
}

// Down reverses the latest n applied steps (most recent first), removing each
// ledger entry in the same transaction as its Down procedure.
func (r *Runner) Down(ctx context.Context, n int) (int, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return 0, fmt.Errorf("ledger: %w", err)
	}
	hechos, err := r.aplicados(ctx)
	if err != nil {
		return 0, err
	}

	reversed := 0
	for i := len(r.pasos) - 1; i >= 0 && reversed < n; i-- {
		paso := r.pasos[i]
		if !hechos[paso.Nombre] {
			continue
		}
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := paso.Down(tx); err != nil {
				return err
			}
			return tx.Where("nombre = ?", paso.Nombre).Delete(&cambioAplicado{}).Error
		})
		if err != nil {
			return reversed, fmt.Errorf("paso %q (down): %w", paso.Nombre, err)
		}
		reversed++
		log.Info().Str("paso", paso.Nombre).Msg("cambio de esquema revertido")
	}
	return reversed, nil
}

// pendientes returns the steps not yet recorded in the ledger, preserving
// declaration order.
func pendientes(pasos []Paso, hechos map[string]bool) []Paso {
	var out []Paso
	for _, p := range pasos {
		if !hechos[p.Nombre] {
			out = append(out, p)
		}
	}
	return out
}
