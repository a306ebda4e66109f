package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/NordCoder/Exposerus/internal/domain/subscriber"
	pg "github.com/NordCoder/Exposerus/internal/repository/postgres"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type SubscribersResult struct {
	Region      string                   `json:"region" yaml:"region"`
	Subscribers []*subscriber.Subscriber `json:"subscribers" yaml:"subscribers"`
}

func subscribersCmd() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "List subscribers of a region",
		Long: `List registered subscribers.

Examples:
  exposerusctl subscribers
  exposerusctl subscribers --region Australia/Brisbane -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if region == "" {
				region = cfg.Telegram.SubscriberRegion
			}
			db, err := pg.NewDB(cmd.Context(), cfg.DB)
			if err != nil {
				return fmt.Errorf("failed to connect db: %w", err)
			}
			defer db.Close()

			subs, err := pg.NewSubscriberRepo(db).ListByRegion(cmd.Context(), region)
			if err != nil {
				return err
			}
			return outputResult(cmd.OutOrStdout(), SubscribersResult{Region: region, Subscribers: subs}, outputFmt)
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "Subscriber region (defaults to telegram.subscriberRegion)")
	return cmd
}

func outputSubscribersTable(w *tabwriter.Writer, r SubscribersResult) error {
	fmt.Fprintf(w, "REGION: %s\n\n", r.Region)
	fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tLANG\tLAST NOTIFIED")
	for _, s := range r.Subscribers {
		last := "never"
		if s.LastNotifiedAt != nil {
			last = humanize.Time(*s.LastNotifiedAt)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, dash(s.Username), dash(s.FirstName), dash(s.LanguageCode), last)
	}
	fmt.Fprintf(w, "\n%d subscriber(s)\n", len(r.Subscribers))
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
