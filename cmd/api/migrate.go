package main

import (
	"fmt"

	"ecopark/internal/database"
	"ecopark/internal/logger"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create or update the database schema",
	Action: func(cCtx *cli.Context) error {
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return err
		}

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		logger.Log.Info("schema is up to date")
		return nil
	},
}
