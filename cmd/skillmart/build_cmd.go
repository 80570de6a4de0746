package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillmart/skillmart/internal/catalog"
	"github.com/skillmart/skillmart/internal/cli"
	"github.com/skillmart/skillmart/internal/config"
	"github.com/skillmart/skillmart/internal/guard"
	"github.com/skillmart/skillmart/internal/store"
)

func buildCmd() *cobra.Command {
	var (
		withGuard  bool
		noInstalls bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the catalog and index artifacts from skill documents",
		Long: `Parse, validate, and publish all SKILL.md documents.

Writes catalog.json (full records) and index.json (lightweight projection)
atomically into the dist directory, plus a build report. Documents that
fail to parse or validate are skipped and reported; a duplicate skill id
aborts the whole build before anything is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runBuild(cfg, withGuard || cfg.Guard.Enabled, !noInstalls)
		},
	}
	cmd.Flags().BoolVar(&withGuard, "guard", false, "Screen skill bodies for prompt-injection patterns")
	cmd.Flags().BoolVar(&noInstalls, "no-installs", false, "Ignore the local install ledger")
	return cmd
}

func runBuild(cfg *config.Config, withGuard, withInstalls bool) error {
	builder := &catalog.Builder{
		SkillsDir: cfg.SkillsDir(),
		DistDir:   cfg.Build.DistDir,
		Version:   Version,
	}

	var db *store.DB
	if withInstalls {
		var err error
		db, err = store.Open(cfg.Build.DBPath)
		if err != nil {
			cli.Warn("install ledger unavailable: %v", err)
		} else {
			defer db.Close()
			if counts, err := db.InstallCounts(); err == nil {
				builder.Installs = counts
			}
		}
	}

	if withGuard {
		scanner := guard.New(cfg.Guard.AuditLog)
		builder.Screen = scanner.ScanRecord
	}

	records, report, err := builder.Run()
	if err != nil {
		if catalog.IsDuplicateID(err) {
			cli.Fail("build aborted: %v", err)
			os.Exit(1)
		}
		return err
	}

	printReport(report)

	if db != nil {
		if err := db.RecordBuild(report.TotalDocuments, len(report.Failures), len(report.Warnings)); err != nil {
			cli.Warn("record build history: %v", err)
		}
	}

	cli.OK("published %s skills to %s", cli.FormatNumber(len(records)), cfg.Build.DistDir)

	// Validation failures are a hard failure for the build step even though
	// the healthy records were still published.
	if report.HasValidationFailures() {
		os.Exit(1)
	}
	return nil
}

func printReport(report *catalog.BuildReport) {
	if len(report.Failures) > 0 {
		cli.Section("Skipped documents")
		for _, f := range report.Failures {
			cli.Fail("[%s] %s", f.Kind, f.Message)
		}
	}
	if len(report.Warnings) > 0 {
		cli.Section("Warnings")
		for _, d := range report.Warnings {
			cli.Warn("[%s] %s (%s)", d.Kind, d.Message, d.Path)
		}
	}
	fmt.Printf("  %d documents, %d published, %d skipped, %d warnings\n",
		report.TotalDocuments, report.Published, len(report.Failures), len(report.Warnings))
}
