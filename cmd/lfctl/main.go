package main

import (
	"context"
	"fmt"
	"os"

	"pet-lost-found/internal/adapters/notify/pushd"
	pg "pet-lost-found/internal/adapters/storage/postgres"
	"pet-lost-found/internal/config"
	"pet-lost-found/internal/domain/matching"
	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/domain/reports"
	"pet-lost-found/internal/platform/logger"
	"pet-lost-found/internal/ports/notify"

	"github.com/spf13/cobra"
)

// lfctl: herramientas de operación contra la base productiva.
// El camino normal es el scheduler dentro de cmd/api; esto existe para
// forzar ticks y mirar el estado sin levantar el servicio.

var (
	dsn        string
	policyPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lfctl",
		Short: "Ops tooling for the lost & found matching engine",
	}

	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("DB_DSN"), "postgres dsn")
	rootCmd.PersistentFlags().StringVar(&policyPath, "matching-config", os.Getenv("MATCHING_CONFIG"), "matching policy yaml")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(reportsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildServices(log logger.Logger) (*reports.Service, matching.ConfigSource, error) {
	if dsn == "" {
		return nil, nil, fmt.Errorf("--dsn (or DB_DSN) is required")
	}

	db, err := pg.Open(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres connect: %w", err)
	}

	policy := matching.Static(matching.DefaultConfig())
	if policyPath != "" {
		cfg, err := config.LoadMatching(policyPath)
		if err != nil {
			return nil, nil, err
		}
		policy = matching.Static(cfg)
	}

	petsSvc := pets.NewService(pg.NewPetsRepo(db))
	reportsSvc := reports.NewService(pg.NewReportsRepo(db), petsSvc, nil, log)
	return reportsSvc, policy, nil
}

func scanCmd() *cobra.Command {
	var withPush bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a single matching scan tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewFromEnv()

			reportsSvc, policy, err := buildServices(log)
			if err != nil {
				return err
			}

			var gateway notify.Gateway = notify.Discard{}
			if withPush {
				client, err := pushd.NewClient(pushd.Config{
					BaseURL: os.Getenv("PUSHD_BASE_URL"),
					APIKey:  os.Getenv("PUSHD_API_KEY"),
				})
				if err != nil {
					return err
				}
				gateway = client
			}

			scorer := matching.NewScorer(policy)
			scanner := matching.NewScanner(reportsSvc, scorer, gateway, policy, log)

			return scanner.Scan(context.Background())
		},
	}

	cmd.Flags().BoolVar(&withPush, "notify", false, "deliver push notifications (default: dry, matches only)")
	return cmd
}

func reportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List open lost/found reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Nop()

			reportsSvc, _, err := buildServices(log)
			if err != nil {
				return err
			}

			ctx := context.Background()
			for _, t := range []reports.Type{reports.TypeLost, reports.TypeFound} {
				open, err := reportsSvc.OpenReports(ctx, t)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d open\n", t, len(open))
				for _, r := range open {
					fmt.Printf("  %s  pet=%s  matches=%d  since=%s\n",
						r.ID, r.PetID, len(r.Matches), r.CreatedAt.Format("2006-01-02"))
				}
			}
			return nil
		},
	}
}
