package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/greenroots/greenroots-backend/internal/content"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Publish the default content to the content store",
	Long: `seed writes the built-in hero, about and impact content. Sections that
already exist are left alone unless --force is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, publisher, err := openStore(cfg)
		if err != nil {
			return err
		}
		if publisher == nil {
			return fmt.Errorf("content store %q does not accept writes", cfg.ContentStore)
		}

		ctx := cmd.Context()
		for _, s := range content.Sections {
			if !content.HasDefaults(s) {
				continue
			}
			if !seedForce {
				snap, err := store.FetchOnce(ctx, s.Path())
				if err != nil {
					return err
				}
				if snap.Exists() {
					log.Printf("ℹ️ %s already exists, skipping", s)
					continue
				}
			}
			if err := publisher.Publish(ctx, s.Path(), map[string]any(content.Defaults(s))); err != nil {
				return fmt.Errorf("seed %s: %w", s, err)
			}
			log.Printf("✅ Seeded %s", s)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "overwrite existing sections")
	rootCmd.AddCommand(seedCmd)
}
