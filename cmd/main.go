package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hearthub/internal/config"
	"hearthub/internal/logging"
	"hearthub/internal/repositories"
	"hearthub/internal/services"
	"hearthub/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "hearthub",
		Short:         "HeartHub rental marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults to $HEARTHUB_CONFIG)")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newReconcileCmd(&configPath))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

func newReconcileCmd(configPath *string) *cobra.Command {
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Revert approved applications that never received a lease",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("grace") {
				cfg.Jobs.ReconcileGrace = grace
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pool, err := openDatabase(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			reconciler := services.NewReconcileService(repositories.NewApplicationRepository(pool), log)
			reverted, err := reconciler.RevertOrphanedApprovals(ctx, cfg.Jobs.ReconcileGrace)
			if err != nil {
				return fmt.Errorf("reconcile approvals: %w", err)
			}
			log.WithFields(logrus.Fields{
				"reverted": reverted,
				"grace":    cfg.Jobs.ReconcileGrace.String(),
			}).Info("reconciliation finished")
			return nil
		},
	}
	cmd.Flags().DurationVar(&grace, "grace", 0, "only touch approvals older than this (defaults to the configured grace)")
	return cmd
}

func bootstrap(configPath string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout), nil
}

func openDatabase(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*pgxpool.Pool, error) {
	pool, err := database.NewPool(ctx, cfg.Database.URL, database.Options{MaxConns: cfg.Database.MaxConns}, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}
