package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/marquelabs/marque/internal/config"
	"github.com/marquelabs/marque/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DB.Driver == "memory" {
				return fmt.Errorf("the memory store has no migrations; set MARQUE_DB_DRIVER to sqlite3, mysql, or postgres")
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			log.Println("migrations complete")
			return nil
		},
	}
}
