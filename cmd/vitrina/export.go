package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/kk-code-lab/vitrina/internal/catalog"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered catalog to an .xlsx spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, _, closeLog := newLogger(cfg.LogFile)
		defer closeLog()

		client, err := catalog.NewClient(cfg.APIURL, cfg.RequestTimeout)
		if err != nil {
			return err
		}
		source, closeCache := itemSource(cfg, client, logger)
		defer closeCache()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		items, err := catalog.CollectAll(ctx, source, cfg.Category, cfg.Search, cfg.PageSize)
		if err != nil {
			if len(items) == 0 {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: partial export: %v\n", err)
		}
		if err := catalog.WriteXLSX(exportOut, items); err != nil {
			return fmt.Errorf("writing %s: %w", exportOut, err)
		}
		logger.Printf("exported %d items to %s", len(items), exportOut)
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items to %s\n", len(items), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output .xlsx path (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
