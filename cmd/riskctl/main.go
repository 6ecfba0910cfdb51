// riskctl herramienta de operación del dashboard de riesgo:
//
//	riskctl seed cs-training.csv     genera la migración con clientes de ejemplo
//	riskctl migrate up               aplica migraciones pendientes
//	riskctl migrate version          muestra la versión aplicada
//	riskctl assess 42                evalúa un cliente e imprime el JSON
//
// La configuración se lee igual que en cmd/api (variables de entorno / .env).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/usecase"
	"github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/ml"
	"github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/credit-risk-dashboard/pkg/config"
	"github.com/jhoicas/credit-risk-dashboard/pkg/logger"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "riskctl",
		Short:         "riskctl - operación del dashboard de riesgo crediticio",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(assessCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [cs-training.csv]",
		Short: "Genera 000002_seed_credit_risk.{up,down}.sql desde el CSV del dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			batch, _ := cmd.Flags().GetInt("batch")
			outDir, _ := cmd.Flags().GetString("out")

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir CSV: %w", err)
			}
			defer f.Close()

			rows, err := readCreditCSV(f, limit)
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations")
			}
			upPath := filepath.Join(outDir, "000002_seed_credit_risk.up.sql")
			downPath := filepath.Join(outDir, "000002_seed_credit_risk.down.sql")

			if err := writeFile(upPath, func(f *os.File) error { return writeSeedSQL(f, rows, batch) }); err != nil {
				return err
			}
			if err := writeFile(downPath, func(f *os.File) error { return writeSeedDownSQL(f, rows) }); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generado %s: %d clientes\n", upPath, len(rows))
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 1000, "Máximo de filas a sembrar (0 = todas)")
	cmd.Flags().Int("batch", 500, "Filas por INSERT")
	cmd.Flags().StringP("out", "o", "", "Directorio de migraciones (por defecto el del módulo)")

	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema credit_risk",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := postgres.RunMigrations(cfg.DB.ConnectionString(), cfg.DB.MigrationsPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migraciones aplicadas")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Muestra la versión de esquema aplicada",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationVersion(cfg.DB.ConnectionString(), cfg.DB.MigrationsPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", version, dirty)
			return nil
		},
	})

	return cmd
}

func assessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assess [customer-id]",
		Short: "Evalúa un cliente (score + SHAP) e imprime el JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id inválido %q", args[0])
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel})

			ctx := context.Background()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := usecase.NewRiskUseCase(
				postgres.NewCustomerRepository(pool),
				ml.NewScoringClient(cfg.Scoring.BaseURL, cfg.Scoring.HTTPTimeout, nil),
				usecase.RiskConfig{ListLimit: cfg.Dashboard.ListLimit, CallTimeout: cfg.Scoring.CallTimeout},
				log,
			)
			resp, err := uc.GetAssessment(ctx, id)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("crear %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	return f.Close()
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
