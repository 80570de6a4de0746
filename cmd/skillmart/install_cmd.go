package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillmart/skillmart/internal/cli"
	"github.com/skillmart/skillmart/internal/config"
	"github.com/skillmart/skillmart/internal/query"
	"github.com/skillmart/skillmart/internal/store"
)

func installCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <id>",
		Short: "Record a skill install and print its install command",
		Long: `Record one install of a skill in the local ledger.

Ledger counts are added on top of each skill's published installCount on
the next build, so locally observed installs show up in catalog ordering.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			records, err := query.LoadCatalog(cfg.CatalogPath())
			if err != nil {
				return fmt.Errorf("no catalog found — run 'skillmart build' first: %w", err)
			}
			rec, ok := query.FindByID(records, args[0])
			if !ok {
				return fmt.Errorf("no skill with id %q", args[0])
			}

			db, err := store.Open(cfg.Build.DBPath)
			if err != nil {
				return fmt.Errorf("open install ledger: %w", err)
			}
			defer db.Close()

			if err := db.RecordInstall(rec.ID); err != nil {
				return fmt.Errorf("record install: %w", err)
			}
			count, _ := db.InstallCount(rec.ID)

			cli.OK("recorded install of %s (%d local)", rec.ID, count)
			fmt.Printf("\n  npx skillmart add %s\n\n", rec.ID)
			return nil
		},
	}
}
