package main

import (
	"fmt"

	"github.com/NordCoder/Exposerus/internal/app"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <job>",
		Short: "Execute one job once, synchronously",
		Long: `Execute a single job outside the schedule.

With --dry-run the job uses in-memory stores and prints messages instead of
sending them, so every displayable site is shown.

Examples:
  exposerusctl run australiaVictoria
  exposerusctl run australiaQueensland --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			nj, ok := cfg.Jobs.Find(args[0])
			if !ok {
				return fmt.Errorf("unknown job %q", args[0])
			}
			l, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			opts := app.Options{}
			if dryRun {
				opts.InMemory = true
				opts.Sender = stdoutSender{print: func(f string, a ...any) { fmt.Fprintf(cmd.OutOrStdout(), f, a...) }}
			}
			deps, err := app.Build(cmd.Context(), cfg, l, opts)
			if err != nil {
				return err
			}
			defer deps.Close()

			job, err := deps.Job(nj)
			if err != nil {
				return err
			}
			if dryRun {
				job.UC.SendDelay = 0
				job.UC.Target.SubscriberRegion = ""
				if job.UC.Target.ChannelChatID == "" {
					job.UC.Target.ChannelChatID = "dry-run"
				}
			}
			return job.Execute(cmd.Context(), uuid.NewString())
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Use in-memory stores and print messages")
	return cmd
}
