package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/shofy/internal/config"
	"github.com/Skotchmaster/shofy/internal/repo"
	"github.com/Skotchmaster/shofy/pkg/db"
	"github.com/Skotchmaster/shofy/pkg/logging"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.EnvFile)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			if err := (&repo.GormRepo{DB: gdb}).Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			logger.Info("migration_complete", "driver", cfg.DBDriver)
			return nil
		},
	}
}
