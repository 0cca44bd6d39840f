package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render the page once and write it to a file",
	Long: `snapshot loads every section from the content store, renders the page and
writes the result as a static HTML file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(cfg)
		if err != nil {
			return err
		}
		p, err := newPipeline(cfg, store, nil)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		p.LoadAll(ctx)

		html, err := p.Document().HTML()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(snapshotOut), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(snapshotOut, []byte(html), 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		log.Printf("✅ Page written to %s", snapshotOut)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "public/index.html", "output file")
	rootCmd.AddCommand(snapshotCmd)
}
