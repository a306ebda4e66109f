package main

import (
	"fmt"

	"github.com/NordCoder/Exposerus/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status>",
		Short:     "Apply the embedded database migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			goose.SetBaseFS(migrations.FS)
			if err := goose.SetDialect("postgres"); err != nil {
				return fmt.Errorf("set dialect: %w", err)
			}
			db, err := goose.OpenDBWithDriver("pgx", cfg.DB.DSN)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			switch args[0] {
			case "up":
				err = goose.UpContext(cmd.Context(), db, ".")
			case "down":
				err = goose.DownContext(cmd.Context(), db, ".")
			case "status":
				err = goose.StatusContext(cmd.Context(), db, ".")
			default:
				return fmt.Errorf("unknown migrate action %q", args[0])
			}
			if err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations: %s OK\n", args[0])
			return nil
		},
	}
}
