// repairctl hosts the integrity repair procedures as operator commands.
// Every subcommand connects with the same DATABASE_URL the server uses;
// connection failures are fatal and exit nonzero.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"tablero/internal/config"
	"tablero/internal/dto"
	"tablero/internal/infra"
	"tablero/internal/migrate"
	"tablero/internal/repair"
	"tablero/internal/repository"
	"tablero/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	root := &cobra.Command{
		Use:           "repairctl",
		Short:         "Procedimientos de reparación de integridad del tablero",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		cmdDedupe(),
		cmdBackfill(),
		cmdQuitarAsignaciones(),
		cmdMigrate(),
		cmdImport(),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("repairctl failed")
		os.Exit(1)
	}
}

// connect loads config and opens the database; any failure aborts the command.
func connect() (*gorm.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: %w", err)
	}
	return db, cfg, nil
}

func cmdDedupe() *cobra.Command {
	var tenantFlag string
	cmd := &cobra.Command{
		Use:   "dedupe-objetivos",
		Short: "Resuelve objetivos cuantitativos duplicados por (tenant, nombre)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := connect()
			if err != nil {
				return err
			}
			var tenantID *uuid.UUID
			if tenantFlag != "" {
				id, err := uuid.Parse(tenantFlag)
				if err != nil {
					return fmt.Errorf("--tenant: %w", err)
				}
				tenantID = &id
			}
			res, err := repair.NewDedupe(repository.NewObjetivoRepository(db)).Run(cmd.Context(), tenantID)
			if res != nil {
				fmt.Println(res.String())
			}
			return err
		},
	}
	cmd.Flags().StringVar(&tenantFlag, "tenant", "", "limitar la corrida a un tenant (UUID); vacío = todos")
	return cmd
}

func cmdBackfill() *cobra.Command {
	var verificar bool
	cmd := &cobra.Command{
		Use:   "backfill-tenant [nombre]",
		Short: "Asigna el tenant por defecto a todas las filas sin tenant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := connect()
			if err != nil {
				return err
			}
			nombre := cfg.DefaultTenantNombre
			if len(args) == 1 {
				nombre = args[0]
			}
			b := repair.NewBackfill(repository.NewTenantRepository(db), repository.NewBackfillRepository(db))
			if verificar {
				restantes, err := b.Verificar(cmd.Context())
				if err != nil {
					return err
				}
				for tabla, n := range restantes {
					fmt.Printf("%-35s %d filas sin tenant\n", tabla, n)
				}
				return nil
			}
			res, err := b.Run(cmd.Context(), nombre)
			if res != nil {
				fmt.Println(res.String())
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&verificar, "verificar", false, "solo contar filas sin tenant, sin modificar nada")
	return cmd
}

func cmdQuitarAsignaciones() *cobra.Command {
	var tenantFlag string
	cmd := &cobra.Command{
		Use:   "quitar-asignaciones <vendedor-id>",
		Short: "Elimina todas las asignaciones de objetivos de un vendedor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := connect()
			if err != nil {
				return err
			}
			vendedorID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("vendedor-id: %w", err)
			}
			tenantID, err := uuid.Parse(tenantFlag)
			if err != nil {
				return fmt.Errorf("--tenant: %w", err)
			}
			res, err := repair.QuitarAsignacionesVendedor(cmd.Context(),
				repository.NewVendedorRepository(db),
				repository.NewObjetivoRepository(db),
				tenantID, vendedorID)
			if res != nil {
				fmt.Println(res.String())
			}
			return err
		},
	}
	cmd.Flags().StringVar(&tenantFlag, "tenant", "", "tenant del vendedor (UUID, obligatorio)")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func cmdMigrate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate <up|down> [n]",
		Short: "Aplica o revierte pasos del log de evolución de esquema",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := connect()
			if err != nil {
				return err
			}
			runner := migrate.NewRunner(db, migrate.Pasos)
			switch args[0] {
			case "up":
				n, err := runner.Up(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("%d pasos aplicados\n", n)
				return nil
			case "down":
				cuantos := 1
				if len(args) == 2 {
					cuantos, err = strconv.Atoi(args[1])
					if err != nil {
						return fmt.Errorf("n: %w", err)
					}
				}
				n, err := runner.Down(cmd.Context(), cuantos)
				if err != nil {
					return err
				}
				fmt.Printf("%d pasos revertidos\n", n)
				return nil
			default:
				return fmt.Errorf("subcomando desconocido %q (use up o down)", args[0])
			}
		},
	}
	return cmd
}

func cmdImport() *cobra.Command {
	var tenantFlag string
	cmd := &cobra.Command{
		Use:   "import <archivo.json>",
		Short: "Carga masiva de clientes y servicios desde un documento JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := connect()
			if err != nil {
				return err
			}
			tenantID, err := uuid.Parse(tenantFlag)
			if err != nil {
				return fmt.Errorf("--tenant: %w", err)
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var registros []dto.ClienteImport
			if err := json.Unmarshal(raw, &registros); err != nil {
				return fmt.Errorf("documento invalido: %w", err)
			}
			svc := service.NewImportService(
				repository.NewClienteRepository(db),
				repository.NewServicioRepository(db),
				repository.NewVendedorRepository(db),
			)
			resumen, err := svc.ImportarClientes(cmd.Context(), tenantID, registros)
			if err != nil {
				return err
			}
			fmt.Printf("clientes: %d creados, %d existentes — servicios: %d creados — asociaciones: %d creadas, %d omitidas\n",
				resumen.ClientesCreados, resumen.ClientesExistentes,
				resumen.ServiciosCreados,
				resumen.AsociacionesCreadas, resumen.AsociacionesOmitidas)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenantFlag, "tenant", "", "tenant destino (UUID, obligatorio)")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}
