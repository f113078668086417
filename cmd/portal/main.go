package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"ecopark/internal/client"
	"ecopark/internal/model"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ecopark-portal",
		Usage: "Submit and review park funding requests from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "portal API base URL",
				Value:   "http://localhost:8080",
				EnvVars: []string{"ECOPARK_URL"},
			},
			&cli.StringFlag{
				Name:    "session-file",
				Usage:   "where the login session is kept (default: user config dir)",
				EnvVars: []string{"ECOPARK_SESSION_FILE"},
			},
		},
		Commands: []*cli.Command{
			loginCommand,
			logoutCommand,
			whoamiCommand,
			listCommand,
			statsCommand,
			submitCommand,
			reviewCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, explain(err))
		os.Exit(1)
	}
}

// newClient builds a client whose persisted session has been restored.
func newClient(cCtx *cli.Context) (*client.Client, error) {
	path := cCtx.String("session-file")
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return nil, err
		}
	}

	c := client.New(cCtx.String("server"), client.NewFileTokenStore(path))
	if _, err := c.Session().Init(cCtx.Context); err != nil {
		return nil, err
	}
	return c, nil
}

// parseKind accepts FUND, fund, fund-requests and the like.
func parseKind(arg string) (string, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(arg), "-", "_"))
	normalized = strings.TrimSuffix(normalized, "_REQUESTS")
	if model.IsValidKind(normalized) {
		return normalized, nil
	}
	if kind, ok := model.KindForCollection(strings.ToLower(arg)); ok {
		return kind, nil
	}
	return "", fmt.Errorf("unknown request kind %q (use fund, emergency or extra-funds)", arg)
}

func kindArg(cCtx *cli.Context) (string, error) {
	if cCtx.NArg() < 1 {
		return "", errors.New("missing request kind (fund, emergency or extra-funds)")
	}
	return parseKind(cCtx.Args().First())
}

func explain(err error) string {
	switch {
	case errors.Is(err, client.ErrLoginRequired):
		return "Your session has expired or you are not logged in. Run `ecopark-portal login` first."
	case errors.Is(err, client.ErrNotPermitted):
		return "Your role is not allowed to do that."
	case client.IsValidation(err):
		var b strings.Builder
		b.WriteString("The request is invalid:")
		for field, msg := range client.FieldErrors(err) {
			fmt.Fprintf(&b, "\n  %s %s", field, msg)
		}
		return b.String()
	}
	return "Error: " + err.Error()
}
