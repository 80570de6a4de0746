// Package main is the entrypoint for the skillmart CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillmart/skillmart/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "skillmart",
		Short: "Skill marketplace catalog builder",
		Long:  "skillmart — build, query, and serve a catalog of analysis skill documents.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(buildCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(showCmd())
	root.AddCommand(categoriesCmd())
	root.AddCommand(installCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(watchCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(versionCmd())

	// Global --skills flag
	root.PersistentFlags().StringVar(&config.SkillsDirOverride, "skills", "", "Skills directory (overrides config)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the skillmart version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("skillmart %s\n", Version)
		},
	}
}
