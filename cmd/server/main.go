package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"hrportal/internal/app/server"
	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hrportal",
		Short:         "HR portal API server",
		SilenceUsage:  true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "Run the HTTP API (default)", RunE: runServe},
		&cobra.Command{Use: "migrate", Short: "Apply pending SQL migrations and exit", RunE: runMigrate},
		&cobra.Command{Use: "seed", Short: "Ensure the default company and admin user exist", RunE: runSeed},
		&cobra.Command{
			Use:   "hash-password <password>",
			Short: "Print a bcrypt hash for manual user provisioning",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hash, err := auth.HashPassword(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), hash)
				return nil
			},
		},
	)
	return root
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.New(cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := server.New(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return err
	}
	defer app.Close()
	return app.Run(cmd.Context())
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	pool, err := db.Connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := db.Migrate(cmd.Context(), pool, server.MigrationSource(cfg)); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	pool, err := db.Connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	res, err := db.Seed(cmd.Context(), pool, cfg)
	if err != nil {
		return err
	}
	logger.Info("seed complete", "companyId", res.CompanyID, "userId", res.UserID, "created", res.Created)
	return nil
}
