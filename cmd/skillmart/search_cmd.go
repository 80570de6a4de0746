package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillmart/skillmart/internal/catalog"
	"github.com/skillmart/skillmart/internal/cli"
	"github.com/skillmart/skillmart/internal/config"
	"github.com/skillmart/skillmart/internal/query"
)

func searchCmd() *cobra.Command {
	var (
		category string
		sortOpt  string
		page     int
		pageSize int
		jsonOut  bool
	)
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search the built catalog",
		Long: `Search the catalog by free text, category, or both.

Examples:
  skillmart search "cpi data"
  skillmart search --category macro --sort popular
  skillmart search inflation --page 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if sortOpt != "" && !query.ValidSort(sortOpt) {
				return fmt.Errorf("unknown sort %q (use recommended, popular, or featured)", sortOpt)
			}
			if pageSize <= 0 {
				pageSize = cfg.Query.PageSize
			}

			records, err := query.LoadCatalog(cfg.CatalogPath())
			if err != nil {
				return fmt.Errorf("no catalog found — run 'skillmart build' first: %w", err)
			}

			result := query.Run(records, query.Query{
				Category: category,
				Search:   strings.Join(args, " "),
				Sort:     sortOpt,
				Page:     page,
				PageSize: pageSize,
			})

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			printResultPage(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Filter by category id")
	cmd.Flags().StringVar(&sortOpt, "sort", query.SortRecommended, "Sort: recommended, popular, featured")
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-indexed)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Results per page (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func printResultPage(result query.Result) {
	if result.TotalMatching == 0 {
		fmt.Printf("  %sno matching skills%s\n", cli.Dim, cli.Reset)
		return
	}
	for _, r := range result.Items {
		badge := ""
		if r.Quality != nil {
			badge = fmt.Sprintf(" [%s]", r.Quality.Badge)
		}
		star := " "
		if r.Featured {
			star = "*"
		}
		fmt.Printf("  %s %s%s%s%s  %s(%s, %s installs)%s\n",
			star, cli.Bold, r.DisplayName, cli.Reset, badge,
			cli.Dim, r.Category, cli.FormatNumber(r.InstallCount), cli.Reset)
		fmt.Printf("      %s\n", r.Description)
		if len(r.Tags) > 0 {
			fmt.Printf("      %s%s%s\n", cli.Dim, strings.Join(r.Tags, ", "), cli.Reset)
		}
	}
	fmt.Printf("\n  page %d of %d (%s matching)\n",
		result.Page, result.TotalPages, cli.FormatNumber(result.TotalMatching))
}

func showCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one skill's full record",
		Args:  cobra.ExactArgs(1),
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

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}

			cli.Section(rec.DisplayName)
			fmt.Printf("  id:        %s\n", rec.ID)
			fmt.Printf("  category:  %s\n", rec.Category)
			fmt.Printf("  data:      %s\n", rec.DataLevel)
			fmt.Printf("  installs:  %s\n", cli.FormatNumber(rec.InstallCount))
			if rec.Author != "" {
				fmt.Printf("  author:    %s\n", rec.Author)
			}
			if rec.Quality != nil {
				fmt.Printf("  quality:   %d (%s)\n", rec.Quality.Overall, rec.Quality.Badge)
			}
			if len(rec.Tags) > 0 {
				fmt.Printf("  tags:      %s\n", strings.Join(rec.Tags, ", "))
			}
			fmt.Printf("\n%s\n", rec.Content)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List category ids with skill counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			records, err := query.LoadCatalog(cfg.CatalogPath())
			if err != nil {
				return fmt.Errorf("no catalog found — run 'skillmart build' first: %w", err)
			}
			counts := query.CategoryCounts(records)

			for _, c := range catalog.Categories {
				fmt.Printf("  %-12s %d\n", c, counts[c])
				delete(counts, c)
			}
			if len(counts) > 0 {
				unknown := make([]string, 0, len(counts))
				for c := range counts {
					unknown = append(unknown, c)
				}
				sort.Strings(unknown)
				cli.Section("Unrecognized categories")
				for _, c := range unknown {
					fmt.Printf("  %-12s %d\n", c, counts[c])
				}
			}
			return nil
		},
	}
}
