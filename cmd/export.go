package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/greenroots/greenroots-backend/internal/auditlog"
	"github.com/greenroots/greenroots-backend/internal/submission"
	"github.com/greenroots/greenroots-backend/utils"
)

var (
	exportFormat     string
	exportDir        string
	exportCollection string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored submissions to files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := utils.InitRedis(cfg); err != nil {
			return err
		}
		defer utils.CloseRedis()

		collections := submission.Collections
		if exportCollection != "" {
			c, err := submission.ParseCollection(exportCollection)
			if err != nil {
				return err
			}
			collections = []submission.Collection{c}
		}

		svc := submission.NewService(nil, submission.NewRedisLocalStore(utils.RedisClient), nil,
			auditlog.NewService(auditlog.NewLogRepository()))

		ctx := cmd.Context()
		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return err
		}
		for _, c := range collections {
			data, filename, _, err := svc.Export(ctx, c, exportFormat)
			if errors.Is(err, submission.ErrNothingToExport) {
				log.Printf("ℹ️ No %s to export", c)
				continue
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", c, err)
			}
			path := filepath.Join(exportDir, filename)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			log.Printf("✅ Exported %s to %s", c, path)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", submission.FormatCSV, "csv, xlsx or pdf")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "exports", "output directory")
	exportCmd.Flags().StringVarP(&exportCollection, "collection", "c", "", "only this collection")
	rootCmd.AddCommand(exportCmd)
}
