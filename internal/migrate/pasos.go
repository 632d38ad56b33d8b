package migrate

import "gorm.io/gorm"

// Pasos is the canonical, append-only schema evolution log. New structural
// changes go at the end; existing entries are never edited once deployed.
var Pasos = []Paso{
	{
		Nombre: "000001_tablas_base",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
				`CREATE TABLE tenants (
					id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					nombre        TEXT NOT NULL UNIQUE,
					plan          TEXT NOT NULL DEFAULT 'basico',
					estado        TEXT NOT NULL DEFAULT 'activo',
					feature_flags JSONB NOT NULL DEFAULT '{}',
					settings      JSONB NOT NULL DEFAULT '{}',
					created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE TABLE vendedores (
					id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					nombre     TEXT NOT NULL,
					email      TEXT NOT NULL,
					estado     TEXT NOT NULL DEFAULT 'activo',
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE TABLE tecnicos (
					id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					nombre     TEXT NOT NULL,
					email      TEXT NOT NULL,
					estado     TEXT NOT NULL DEFAULT 'activo',
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE TABLE clientes (
					id                        UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					nombre                    TEXT NOT NULL,
					vendedor_id               UUID REFERENCES vendedores(id) ON DELETE SET NULL,
					tecnico_id                UUID REFERENCES tecnicos(id) ON DELETE SET NULL,
					contrato_soporte          BOOLEAN NOT NULL DEFAULT false,
					fecha_ultimo_relevamiento TIMESTAMPTZ,
					acciones_pendientes       JSONB NOT NULL DEFAULT '[]',
					created_at                TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at                TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE TABLE servicios (
					id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					nombre      TEXT NOT NULL,
					categoria   TEXT NOT NULL,
					descripcion TEXT,
					created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE TABLE cliente_servicios (
					id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					cliente_id  UUID NOT NULL REFERENCES clientes(id) ON DELETE CASCADE,
					servicio_id UUID NOT NULL REFERENCES servicios(id) ON DELETE CASCADE,
					nota        TEXT,
					created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
					CONSTRAINT idx_cliente_servicio UNIQUE (cliente_id, servicio_id)
				)`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx,
				`DROP TABLE IF EXISTS cliente_servicios`,
				`DROP TABLE IF EXISTS servicios`,
				`DROP TABLE IF EXISTS clientes`,
				`DROP TABLE IF EXISTS tecnicos`,
				`DROP TABLE IF EXISTS vendedores`,
				`DROP TABLE IF EXISTS tenants`,
			)
		},
	},
	{
		Nombre: "000002_objetivos",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`CREATE TYPE estado_objetivo_tecnico AS ENUM
					('pending', 'in_progress', 'completed', 'not_completed')`,
				`CREATE TABLE objetivos_cualitativos (
					id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					titulo       TEXT NOT NULL,
					descripcion  TEXT,
					estado       TEXT NOT NULL DEFAULT 'pendiente',
					prioridad    TEXT NOT NULL DEFAULT 'media',
					fecha_limite TIMESTAMPTZ,
					created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE TABLE objetivos_cuantitativos (
					id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					nombre         TEXT NOT NULL,
					metrica_tipo   TEXT NOT NULL DEFAULT 'monto',
					valor_objetivo DECIMAL(14,2) NOT NULL,
					valor_actual   DECIMAL(14,2) NOT NULL DEFAULT 0,
					fecha_inicio   TIMESTAMPTZ,
					fecha_fin      TIMESTAMPTZ,
					created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE TABLE vendedor_objetivos (
					id                      UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					vendedor_id             UUID NOT NULL REFERENCES vendedores(id) ON DELETE CASCADE,
					objetivo_cualitativo_id UUID NOT NULL REFERENCES objetivos_cualitativos(id) ON DELETE CASCADE,
					created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
					CONSTRAINT idx_vendedor_objetivo UNIQUE (vendedor_id, objetivo_cualitativo_id)
				)`,
				`CREATE TABLE vendedor_objetivos_cuantitativos (
					id                       UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					vendedor_id              UUID NOT NULL REFERENCES vendedores(id) ON DELETE CASCADE,
					objetivo_cuantitativo_id UUID NOT NULL REFERENCES objetivos_cuantitativos(id) ON DELETE CASCADE,
					meta_individual          DECIMAL(14,2) NOT NULL DEFAULT 0,
					valor_actual             DECIMAL(14,2) NOT NULL DEFAULT 0,
					orden                    INT NOT NULL DEFAULT 0,
					created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
					CONSTRAINT idx_vendedor_obj_cuant UNIQUE (vendedor_id, objetivo_cuantitativo_id)
				)`,
				`CREATE TABLE objetivos_tecnicos (
					id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					tecnico_id       UUID REFERENCES tecnicos(id) ON DELETE CASCADE,
					criterio         TEXT NOT NULL,
					estado           estado_objetivo_tecnico NOT NULL DEFAULT 'pending',
					fecha_completado TIMESTAMPTZ,
					peso             INT NOT NULL DEFAULT 0 CHECK (peso >= 0 AND peso <= 100),
					evidencia        TEXT,
					es_global        BOOLEAN NOT NULL DEFAULT false,
					created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
					CONSTRAINT chk_global_sin_tecnico CHECK (NOT es_global OR tecnico_id IS NULL)
				)`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx,
				`DROP TABLE IF EXISTS objetivos_tecnicos`,
				`DROP TABLE IF EXISTS vendedor_objetivos_cuantitativos`,
				`DROP TABLE IF EXISTS vendedor_objetivos`,
				`DROP TABLE IF EXISTS objetivos_cuantitativos`,
				`DROP TABLE IF EXISTS objetivos_cualitativos`,
				`DROP TYPE IF EXISTS estado_objetivo_tecnico`,
			)
		},
	},
	{
		// Multi-tenant retrofit: tenant_id is added NULLABLE on purpose.
		// Existing rows stay null until the backfill procedure assigns the
		// default tenant; the NOT NULL tightening and FK constraints are
		// attempted by the backfill as soft-failure steps, not here.
		Nombre: "000003_multi_tenant",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`ALTER TABLE vendedores              ADD COLUMN tenant_id UUID`,
				`ALTER TABLE tecnicos                ADD COLUMN tenant_id UUID`,
				`ALTER TABLE clientes                ADD COLUMN tenant_id UUID`,
				`ALTER TABLE servicios               ADD COLUMN tenant_id UUID`,
				`ALTER TABLE objetivos_cualitativos  ADD COLUMN tenant_id UUID`,
				`ALTER TABLE objetivos_cuantitativos ADD COLUMN tenant_id UUID`,
				`ALTER TABLE objetivos_tecnicos      ADD COLUMN tenant_id UUID`,
				`CREATE INDEX idx_vendedores_tenant              ON vendedores (tenant_id)`,
				`CREATE INDEX idx_tecnicos_tenant                ON tecnicos (tenant_id)`,
				`CREATE INDEX idx_clientes_tenant                ON clientes (tenant_id)`,
				`CREATE INDEX idx_servicios_tenant               ON servicios (tenant_id)`,
				`CREATE INDEX idx_objetivos_cualitativos_tenant  ON objetivos_cualitativos (tenant_id)`,
				`CREATE INDEX idx_objetivos_cuantitativos_tenant ON objetivos_cuantitativos (tenant_id)`,
				`CREATE INDEX idx_objetivos_tecnicos_tenant      ON objetivos_tecnicos (tenant_id)`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx,
				`ALTER TABLE objetivos_tecnicos      DROP COLUMN IF EXISTS tenant_id`,
				`ALTER TABLE objetivos_cuantitativos DROP COLUMN IF EXISTS tenant_id`,
				`ALTER TABLE objetivos_cualitativos  DROP COLUMN IF EXISTS tenant_id`,
				`ALTER TABLE servicios               DROP COLUMN IF EXISTS tenant_id`,
				`ALTER TABLE clientes                DROP COLUMN IF EXISTS tenant_id`,
				`ALTER TABLE tecnicos                DROP COLUMN IF EXISTS tenant_id`,
				`ALTER TABLE vendedores              DROP COLUMN IF EXISTS tenant_id`,
			)
		},
	},
	{
		// Per-tenant service name uniqueness. Safe to add here because the
		// servicios table was empty before multi-tenancy shipped; the
		// equivalent index on objetivos_cuantitativos is NOT added here —
		// legacy duplicates would abort the whole log, so the dedupe repair
		// procedure owns that constraint (added as a soft-failure step once
		// duplicates are resolved).
		Nombre: "000004_indices_unicidad",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`CREATE UNIQUE INDEX idx_servicio_tenant_nombre ON servicios (tenant_id, nombre)`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx,
				`DROP INDEX IF EXISTS idx_servicio_tenant_nombre`,
			)
		},
	},
	{
		Nombre: "000005_usuarios",
		Up: func(tx *gorm.DB) error {
			return execAll(tx,
				`CREATE TABLE usuarios (
					id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					username      TEXT NOT NULL UNIQUE,
					nombre        TEXT NOT NULL,
					email         TEXT NOT NULL,
					password_hash TEXT NOT NULL,
					rol           TEXT NOT NULL DEFAULT 'vendedor',
					activo        BOOLEAN NOT NULL DEFAULT true,
					tenant_id     UUID NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
					created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE INDEX idx_usuarios_tenant ON usuarios (tenant_id)`,
			)
		},
		Down: func(tx *gorm.DB) error {
			return execAll(tx,
				`DROP TABLE IF EXISTS usuarios`,
			)
		},
	},
}

func execAll(tx *gorm.DB, stmts ...string) error {
	for _, s := range stmts {
		if err := tx.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
