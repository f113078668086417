package main

import (
	"fmt"

	"ecopark/internal/config"
	"ecopark/internal/database"
	"ecopark/internal/logger"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func loadConfig(cCtx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(cCtx.String("env-file"))
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(cfg.DBDriver, cfg.DSN(), cfg.LogLevel == "debug")
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	logger.Log.WithField("driver", cfg.DBDriver).Info("connected to database")
	return db, nil
}
