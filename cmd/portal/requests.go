package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"ecopark/internal/client"
	"ecopark/internal/model"
	"ecopark/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

const noMatches = "No requests match the current filters."

var listCommand = &cli.Command{
	Name:      "list",
	Usage:     "List requests of one kind",
	ArgsUsage: "<kind>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "search", Usage: "match title, description or park"},
		&cli.StringFlag{Name: "status", Usage: "pending, approved, rejected or all", Value: model.FilterAll},
		&cli.StringFlag{Name: "park", Usage: "park name or all", Value: model.FilterAll},
		&cli.TimestampFlag{Name: "from", Layout: "2006-01-02", Usage: "first day (YYYY-MM-DD)", Timezone: time.Local},
		&cli.TimestampFlag{Name: "to", Layout: "2006-01-02", Usage: "last day, inclusive (YYYY-MM-DD)", Timezone: time.Local},
	},
	Action: func(cCtx *cli.Context) error {
		kind, err := kindArg(cCtx)
		if err != nil {
			return err
		}
		c, err := newClient(cCtx)
		if err != nil {
			return err
		}

		board := client.NewBoard(c, kind)
		if err := board.Load(cCtx.Context); err != nil {
			return err
		}

		filter := model.RequestFilter{
			Search: cCtx.String("search"),
			Status: cCtx.String("status"),
			Park:   cCtx.String("park"),
			From:   cCtx.Timestamp("from"),
			To:     cCtx.Timestamp("to"),
		}
		printRequests(cCtx.App.Writer, board.Filtered(filter))
		return nil
	},
}

var statsCommand = &cli.Command{
	Name:      "stats",
	Usage:     "Count requests of one kind by status",
	ArgsUsage: "<kind>",
	Action: func(cCtx *cli.Context) error {
		kind, err := kindArg(cCtx)
		if err != nil {
			return err
		}
		c, err := newClient(cCtx)
		if err != nil {
			return err
		}

		st, err := client.NewBoard(c, kind).Stats(cCtx.Context)
		if err != nil {
			return err
		}
		fmt.Fprintf(cCtx.App.Writer, "pending: %d\napproved: %d\nrejected: %d\ntotal: %d\n",
			st.Pending, st.Approved, st.Rejected, st.Total)
		return nil
	},
}

var submitCommand = &cli.Command{
	Name:      "submit",
	Usage:     "Submit a new request",
	ArgsUsage: "<kind>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "title", Required: true},
		&cli.StringFlag{Name: "description", Required: true},
		&cli.StringFlag{Name: "amount", Required: true},
		&cli.StringFlag{Name: "category", Usage: "category, or emergency type", Required: true},
		&cli.StringFlag{Name: "park", Required: true},
		&cli.StringFlag{Name: "priority", Usage: "urgency, timeframe or expected duration", Required: true},
		&cli.StringFlag{Name: "justification"},
	},
	Action: func(cCtx *cli.Context) error {
		kind, err := kindArg(cCtx)
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(cCtx.String("amount"))
		if err != nil {
			return fmt.Errorf("invalid amount %q", cCtx.String("amount"))
		}
		c, err := newClient(cCtx)
		if err != nil {
			return err
		}

		created, err := client.NewBoard(c, kind).Submit(cCtx.Context, validation.Submission{
			Title:         cCtx.String("title"),
			Description:   cCtx.String("description"),
			Amount:        amount,
			Category:      cCtx.String("category"),
			ParkName:      cCtx.String("park"),
			Priority:      cCtx.String("priority"),
			Justification: cCtx.String("justification"),
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cCtx.App.Writer, "Submitted %s (%s), status %s\n", created.ReferenceNo, created.ID, created.Status)
		return nil
	},
}

var reviewCommand = &cli.Command{
	Name:      "review",
	Usage:     "Approve or reject a pending request",
	ArgsUsage: "<kind> <id>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "decision", Usage: "approved or rejected", Required: true},
		&cli.StringFlag{Name: "note", Usage: "reason for the decision", Required: true},
	},
	Action: func(cCtx *cli.Context) error {
		kind, err := kindArg(cCtx)
		if err != nil {
			return err
		}
		if cCtx.NArg() < 2 {
			return fmt.Errorf("missing request id")
		}
		c, err := newClient(cCtx)
		if err != nil {
			return err
		}

		updated, err := client.NewBoard(c, kind).Review(cCtx.Context, cCtx.Args().Get(1), cCtx.String("decision"), cCtx.String("note"))
		if err != nil {
			if client.IsConflict(err) {
				return fmt.Errorf("request was already decided: %w", err)
			}
			return err
		}

		fmt.Fprintf(cCtx.App.Writer, "%s is now %s\n", updated.ReferenceNo, updated.Status)
		return nil
	},
}

func printRequests(w io.Writer, requests []model.FundingRequest) {
	if len(requests) == 0 {
		fmt.Fprintln(w, noMatches)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REFERENCE\tTITLE\tPARK\tAMOUNT\tSTATUS\tCREATED\tID")
	for _, r := range requests {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ReferenceNo, r.Title, r.ParkName, r.Amount.StringFixed(2), r.Status,
			r.CreatedAt.Local().Format("2006-01-02"), r.ID)
	}
	_ = tw.Flush()
}
