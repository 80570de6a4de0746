// Package web provides a local read-only web API over the built catalog.
package web

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/skillmart/skillmart/internal/catalog"
	"github.com/skillmart/skillmart/internal/config"
	"github.com/skillmart/skillmart/internal/query"
)

// Serve loads the catalog snapshot and starts the web server on addr.
// It blocks until the listener fails.
func Serve(addr string, cfg *config.Config, version string) error {
	records, err := query.LoadCatalog(cfg.CatalogPath())
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	s := &server{
		cfg:     cfg,
		records: records,
		version: version,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/skills/", s.handleSkillByID) // /api/skills/{id}
	mux.HandleFunc("/api/skills", s.handleSkills)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/index", s.handleIndexArtifact)

	handler := localhostOnly(securityHeaders(mux))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	fmt.Fprintf(os.Stderr, "skillmart catalog API: http://%s\n", listener.Addr())
	return http.Serve(listener, handler)
}

type server struct {
	cfg     *config.Config
	records []catalog.SkillRecord
	version string
}

// --- Middleware ---

func localhostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if idx := strings.LastIndex(host, ":"); idx >= 0 {
			host = host[:idx]
		}
		host = strings.Trim(host, "[]") // strip IPv6 brackets

		if host == "localhost" {
			next.ServeHTTP(w, r)
			return
		}
		if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Forbidden", http.StatusForbidden)
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'unsafe-inline'; style-src 'unsafe-inline'")
		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

var indexHTML = []byte(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>skillmart</title></head>
<body>
<h1>skillmart catalog API</h1>
<ul>
<li><code>GET /api/status</code></li>
<li><code>GET /api/skills?category=&amp;search=&amp;sort=&amp;page=</code></li>
<li><code>GET /api/skills/{id}</code></li>
<li><code>GET /api/categories</code></li>
<li><code>GET /api/index</code></li>
</ul>
</body>
</html>
`)

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	featured := 0
	for _, rec := range s.records {
		if rec.Featured {
			featured++
		}
	}
	writeJSON(w, map[string]any{
		"skill_count":    len(s.records),
		"featured_count": featured,
		"version":        s.version,
		"catalog_path":   s.cfg.CatalogPath(),
	})
}

// handleSkills runs the query engine over the loaded snapshot. Query params
// mirror the UI's URL state: category, search, sort, page, page_size.
func (s *server) handleSkills(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	sortOpt := params.Get("sort")
	if sortOpt == "" {
		sortOpt = query.SortRecommended
	}
	if !query.ValidSort(sortOpt) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort %q", sortOpt))
		return
	}

	page := 1
	if v := params.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = n
	}

	pageSize := s.cfg.Query.PageSize
	if v := params.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	result := query.Run(s.records, query.Query{
		Category: params.Get("category"),
		Search:   params.Get("search"),
		Sort:     sortOpt,
		Page:     page,
		PageSize: pageSize,
	})
	writeJSON(w, result)
}

func (s *server) handleSkillByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/skills/")
	if id == "" {
		s.handleSkills(w, r)
		return
	}
	rec, ok := query.FindByID(s.records, id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no skill with id %q", id))
		return
	}
	writeJSON(w, rec)
}

func (s *server) handleCategories(w http.ResponseWriter, r *http.Request) {
	counts := query.CategoryCounts(s.records)
	type categoryInfo struct {
		ID    string `json:"id"`
		Known bool   `json:"known"`
		Count int    `json:"count"`
	}
	out := make([]categoryInfo, 0, len(catalog.Categories))
	for _, c := range catalog.Categories {
		out = append(out, categoryInfo{ID: c, Known: true, Count: counts[c]})
		delete(counts, c)
	}
	// Categories outside the fixed set still appear, flagged as unknown.
	for c, n := range counts {
		out = append(out, categoryInfo{ID: c, Known: false, Count: n})
	}
	writeJSON(w, out)
}

// handleIndexArtifact serves index.json verbatim, as the plugin loader
// would fetch it.
func (s *server) handleIndexArtifact(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.cfg.IndexPath())
	if err != nil {
		writeError(w, http.StatusNotFound, "index artifact not built yet")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
