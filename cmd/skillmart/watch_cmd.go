package main

import (
	"github.com/spf13/cobra"

	"github.com/skillmart/skillmart/internal/catalog"
	"github.com/skillmart/skillmart/internal/config"
	"github.com/skillmart/skillmart/internal/watcher"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the skills directory and rebuild on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rebuild := func() (*catalog.BuildReport, error) {
				builder := &catalog.Builder{
					SkillsDir: cfg.SkillsDir(),
					DistDir:   cfg.Build.DistDir,
					Version:   Version,
				}
				_, report, err := builder.Run()
				return report, err
			}
			return watcher.Watch(cfg.SkillsDir(), rebuild)
		},
	}
}
