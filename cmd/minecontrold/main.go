package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "minecontrold",
		Short: "MineControl back office API",
		Long: `minecontrold serves the MineControl back office: workers, machinery,
attendance and machinery usage marks, documents and PDF reports.

Configuration is read from CONFIG_PATH (default ./config/config.yaml).`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
