package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Log in and remember the session",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "email", Aliases: []string{"u"}, Required: true},
		&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, EnvVars: []string{"ECOPARK_PASSWORD"}},
	},
	Action: func(cCtx *cli.Context) error {
		c, err := newClient(cCtx)
		if err != nil {
			return err
		}

		s, err := c.Session().Login(cCtx.Context, cCtx.String("email"), cCtx.String("password"))
		if err != nil {
			return err
		}

		fmt.Fprintf(cCtx.App.Writer, "Logged in as %s (%s), session valid until %s\n",
			s.Email, s.Role, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var logoutCommand = &cli.Command{
	Name:  "logout",
	Usage: "End the current session",
	Action: func(cCtx *cli.Context) error {
		c, err := newClient(cCtx)
		if err != nil {
			return err
		}
		if err := c.Session().Logout(cCtx.Context); err != nil {
			return err
		}
		fmt.Fprintln(cCtx.App.Writer, "Logged out.")
		return nil
	},
}

var whoamiCommand = &cli.Command{
	Name:  "whoami",
	Usage: "Show the logged-in account",
	Action: func(cCtx *cli.Context) error {
		c, err := newClient(cCtx)
		if err != nil {
			return err
		}

		u, err := c.Me(cCtx.Context)
		if err != nil {
			return err
		}

		fmt.Fprintf(cCtx.App.Writer, "%s %s <%s>\nrole: %s\n", u.FirstName, u.LastName, u.Email, u.Role)
		if u.ParkName != "" {
			fmt.Fprintf(cCtx.App.Writer, "park: %s\n", u.ParkName)
		}
		return nil
	},
}
