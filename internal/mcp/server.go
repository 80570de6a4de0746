// Package mcp implements the MCP server for skillmart: the
// marketplace-loading collaborator that consumes the catalog over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skillmart/skillmart/internal/catalog"
	"github.com/skillmart/skillmart/internal/config"
	"github.com/skillmart/skillmart/internal/query"
	"github.com/skillmart/skillmart/internal/store"
)

var (
	cfg           *config.Config
	records       []catalog.SkillRecord
	recordsMu     sync.RWMutex
	lastBuildTime time.Time
	buildMu       sync.Mutex
)

const rebuildCooldown = 30 * time.Second

// Version is set by the caller (main) before calling Serve.
var Version = "dev"

// Serve starts the MCP server on stdio.
func Serve(c *config.Config) error {
	cfg = c

	recs, err := query.LoadCatalog(cfg.CatalogPath())
	if err != nil {
		// An unbuilt catalog is not fatal: rebuild_catalog can create it.
		recs = nil
	}
	records = recs

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "skillmart",
		Version: Version,
	}, nil)

	registerTools(server)

	return server.Run(context.Background(), &mcp.StdioTransport{})
}

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_skills",
		Description: "Search the skill marketplace catalog. Use this to find analysis skills by topic, category, or keyword.\n\nArgs:\n  search: Free-text query matched against names, descriptions, and tags\n  category: Filter by category id (e.g. 'macro', 'equity', 'crypto')\n  sort: 'recommended' (default), 'popular', or 'featured'\n  page: 1-indexed page number (default 1)\n\nReturns one page of matching skills with total counts.",
	}, handleSearchSkills)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_skill",
		Description: "Read one skill's full record including its markdown body. Use this after search_skills when you need the complete procedure.\n\nArgs:\n  id: Skill id as returned by search_skills\n\nReturns the full skill record.",
	}, handleGetSkill)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List the marketplace's category ids with per-category skill counts.\n\nReturns the fixed category set plus any unrecognized categories present in the catalog.",
	}, handleListCategories)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rebuild_catalog",
		Description: "Re-run the catalog build pipeline over the skills directory. Use this if skills were added or edited and results seem stale.\n\nReturns the build report.",
	}, handleRebuildCatalog)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "catalog_stats",
		Description: "Check the size and freshness of the built catalog.\n\nReturns skill count, featured count, and the last build report if available.",
	}, handleCatalogStats)
}

// Tool input types

type searchInput struct {
	Search   string `json:"search,omitempty" jsonschema:"Free-text query"`
	Category string `json:"category,omitempty" jsonschema:"Filter by category id"`
	Sort     string `json:"sort,omitempty" jsonschema:"Sort option: recommended, popular, featured"`
	Page     int    `json:"page,omitempty" jsonschema:"1-indexed page number (default 1)"`
}

type getInput struct {
	ID string `json:"id" jsonschema:"Skill id"`
}

type emptyInput struct{}

func handleSearchSkills(ctx context.Context, req *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, any, error) {
	recordsMu.RLock()
	snapshot := records
	recordsMu.RUnlock()

	if snapshot == nil {
		return textResult("Catalog not built yet — run rebuild_catalog first."), nil, nil
	}

	sortOpt := input.Sort
	if sortOpt == "" {
		sortOpt = query.SortRecommended
	}
	if !query.ValidSort(sortOpt) {
		return textResult(fmt.Sprintf("Unknown sort %q. Use recommended, popular, or featured.", input.Sort)), nil, nil
	}

	page := input.Page
	if page < 1 {
		page = 1
	}

	result := query.Run(snapshot, query.Query{
		Category: input.Category,
		Search:   input.Search,
		Sort:     sortOpt,
		Page:     page,
		PageSize: cfg.Query.PageSize,
	})

	// Strip bodies from the page: the full markdown belongs to get_skill.
	type pageItem struct {
		ID           string `json:"id"`
		DisplayName  string `json:"displayName"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		InstallCount int    `json:"installCount"`
		Featured     bool   `json:"featured"`
	}
	items := make([]pageItem, 0, len(result.Items))
	for _, r := range result.Items {
		items = append(items, pageItem{
			ID:           r.ID,
			DisplayName:  r.DisplayName,
			Description:  r.Description,
			Category:     r.Category,
			InstallCount: r.InstallCount,
			Featured:     r.Featured,
		})
	}

	data, _ := json.MarshalIndent(map[string]any{
		"items":         items,
		"totalMatching": result.TotalMatching,
		"totalPages":    result.TotalPages,
		"page":          result.Page,
	}, "", "  ")
	return textResult(string(data)), nil, nil
}

func handleGetSkill(ctx context.Context, req *mcp.CallToolRequest, input getInput) (*mcp.CallToolResult, any, error) {
	recordsMu.RLock()
	snapshot := records
	recordsMu.RUnlock()

	rec, ok := query.FindByID(snapshot, input.ID)
	if !ok {
		return textResult(fmt.Sprintf("No skill with id %q. Try search_skills first.", input.ID)), nil, nil
	}

	data, _ := json.MarshalIndent(rec, "", "  ")
	return textResult(string(data)), nil, nil
}

func handleListCategories(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	recordsMu.RLock()
	counts := query.CategoryCounts(records)
	recordsMu.RUnlock()

	out := make(map[string]any)
	for _, c := range catalog.Categories {
		out[c] = counts[c]
		delete(counts, c)
	}
	for c, n := range counts {
		out[c+" (unrecognized)"] = n
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	return textResult(string(data)), nil, nil
}

func handleRebuildCatalog(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	buildMu.Lock()
	defer buildMu.Unlock()

	if time.Since(lastBuildTime) < rebuildCooldown {
		remaining := int(rebuildCooldown.Seconds() - time.Since(lastBuildTime).Seconds())
		return textResult(fmt.Sprintf("Rebuild cooldown active. Try again in %ds.", remaining)), nil, nil
	}
	lastBuildTime = time.Now()

	installs := loadInstalls()
	builder := &catalog.Builder{
		SkillsDir: cfg.SkillsDir(),
		DistDir:   cfg.Build.DistDir,
		Version:   Version,
		Installs:  installs,
	}
	recs, report, err := builder.Run()
	if err != nil {
		return textResult(fmt.Sprintf("Build error: %v", err)), nil, nil
	}

	recordsMu.Lock()
	records = recs
	recordsMu.Unlock()

	data, _ := json.MarshalIndent(report, "", "  ")
	return textResult(string(data)), nil, nil
}

func handleCatalogStats(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	recordsMu.RLock()
	count := len(records)
	featured := 0
	for _, r := range records {
		if r.Featured {
			featured++
		}
	}
	recordsMu.RUnlock()

	stats := map[string]any{
		"skill_count":    count,
		"featured_count": featured,
	}
	if report, err := catalog.LoadReport(cfg.ReportPath()); err == nil {
		stats["last_build"] = report
	}

	data, _ := json.MarshalIndent(stats, "", "  ")
	return textResult(string(data)), nil, nil
}

// Helpers

// loadInstalls reads the local install ledger. Missing or unreadable
// ledgers degrade to front-matter counts only.
func loadInstalls() map[string]int {
	db, err := store.Open(cfg.Build.DBPath)
	if err != nil {
		return nil
	}
	defer db.Close()
	counts, err := db.InstallCounts()
	if err != nil {
		return nil
	}
	return counts
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
