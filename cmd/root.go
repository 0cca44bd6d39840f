package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenroots/greenroots-backend/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "greenroots",
	Short: "GreenRoots landing page server",
	Long: `Serves the GreenRoots landing page, keeps it in sync with the content
store and stores form submissions. Without a subcommand it runs serve.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
