package main

import (
	"context"
	"fmt"

	"ecopark/internal/database"
	"ecopark/internal/logger"
	"ecopark/internal/repository"
	"ecopark/internal/service"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Create one demo account per role",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "password",
			Usage:   "password for every demo account",
			Value:   "password123",
			EnvVars: []string{"SEED_PASSWORD"},
		},
	},
	Action: func(cCtx *cli.Context) error {
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return err
		}
		if cfg.IsProduction() {
			return fmt.Errorf("refusing to seed demo accounts in production")
		}

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		created, err := service.SeedDemoUsers(context.Background(), repository.NewUserRepository(db), cCtx.String("password"))
		if err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		logger.Log.WithField("created", created).Info("demo accounts seeded")
		return nil
	},
}
