package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillmart/skillmart/internal/catalog"
	"github.com/skillmart/skillmart/internal/cli"
	"github.com/skillmart/skillmart/internal/config"
	"github.com/skillmart/skillmart/internal/store"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show artifact info and recent build history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			cli.Section("Artifacts")
			for _, p := range []string{cfg.CatalogPath(), cfg.IndexPath()} {
				if info, err := os.Stat(p); err == nil {
					fmt.Printf("  %-40s %s bytes\n", cli.ShortenHome(p), cli.FormatNumber(int(info.Size())))
				} else {
					fmt.Printf("  %-40s %snot built%s\n", cli.ShortenHome(p), cli.Dim, cli.Reset)
				}
			}

			if report, err := catalog.LoadReport(cfg.ReportPath()); err == nil {
				cli.Section("Last build")
				fmt.Printf("  %s — %d documents, %d published, %d skipped, %d warnings\n",
					report.Timestamp, report.TotalDocuments, report.Published,
					len(report.Failures), len(report.Warnings))
			}

			db, err := store.Open(cfg.Build.DBPath)
			if err == nil {
				defer db.Close()
				if history, err := db.BuildHistory(5); err == nil && len(history) > 0 {
					cli.Section("Build history")
					for _, run := range history {
						fmt.Printf("  %s  total=%d failed=%d warnings=%d\n",
							run.Ts, run.Total, run.Failed, run.Warnings)
					}
				}
			}
			return nil
		},
	}
}
