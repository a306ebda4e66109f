// exposerusctl is the operator CLI for the exposure-site notifier.
//
// Usage:
//
//	exposerusctl run australiaVictoria --dry-run
//	exposerusctl send-test
//	exposerusctl subscribers --region Australia/Melbourne -o json
//	exposerusctl migrate up
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	cfgPath   string
	outputFmt string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "exposerusctl",
		Short:         "Operate the exposure-site notifier",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/notifier.yaml", "Path to config file")
	root.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")

	root.AddCommand(runCmd())
	root.AddCommand(sendTestCmd())
	root.AddCommand(subscribersCmd())
	root.AddCommand(migrateCmd())
	return root
}
