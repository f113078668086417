package main

import (
	"os"

	"ecopark/internal/logger"

	"github.com/urfave/cli/v2"
)

// @title           EcoPark Funding Portal API
// @version         1.0
// @description     Funding, emergency and extra-funds requests for the national park portal, with role-gated review.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := &cli.App{
		Name:  "ecopark-api",
		Usage: "EcoPark funding portal API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Aliases: []string{"e"},
				Usage:   "dotenv file loaded before the environment",
				Value:   "configs/.env",
			},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.WithError(err).Fatal("application failed")
	}
}
