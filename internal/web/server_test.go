package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/skillmart/skillmart/internal/catalog"
	"github.com/skillmart/skillmart/internal/config"
	"github.com/skillmart/skillmart/internal/query"
)

func testServer(t *testing.T) *server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Build.DistDir = t.TempDir()
	records := []catalog.SkillRecord{
		{ID: "bravo", DisplayName: "Bravo", Description: "macro bravo", Category: "macro", InstallCount: 30, Featured: true},
		{ID: "charlie", DisplayName: "Charlie", Description: "equity charlie", Category: "equity", InstallCount: 20},
		{ID: "alpha", DisplayName: "Alpha", Description: "macro alpha", Category: "macro", InstallCount: 10},
	}
	return &server{cfg: cfg, records: records, version: "test"}
}

func TestHandleStatus(t *testing.T) {
	s := testServer(t)
	w := httptest.NewRecorder()
	s.handleStatus(w, httptest.NewRequest("GET", "/api/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["skill_count"].(float64) != 3 {
		t.Errorf("skill_count = %v", body["skill_count"])
	}
	if body["featured_count"].(float64) != 1 {
		t.Errorf("featured_count = %v", body["featured_count"])
	}
	if body["version"] != "test" {
		t.Errorf("version = %v", body["version"])
	}
}

func TestHandleSkills(t *testing.T) {
	s := testServer(t)
	w := httptest.NewRecorder()
	s.handleSkills(w, httptest.NewRequest("GET", "/api/skills?category=macro&sort=popular", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var res query.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.TotalMatching != 2 {
		t.Errorf("totalMatching = %d", res.TotalMatching)
	}
	if len(res.Items) != 2 || res.Items[0].ID != "bravo" || res.Items[1].ID != "alpha" {
		t.Errorf("items = %+v", res.Items)
	}
}

func TestHandleSkillsBadParams(t *testing.T) {
	s := testServer(t)

	w := httptest.NewRecorder()
	s.handleSkills(w, httptest.NewRequest("GET", "/api/skills?sort=trending", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown sort: status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.handleSkills(w, httptest.NewRequest("GET", "/api/skills?page=0", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("page=0: status = %d", w.Code)
	}

	// Out-of-range pages are valid requests that return an empty page.
	w = httptest.NewRecorder()
	s.handleSkills(w, httptest.NewRequest("GET", "/api/skills?page=99", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("page=99: status = %d", w.Code)
	}
	var res query.Result
	json.Unmarshal(w.Body.Bytes(), &res)
	if len(res.Items) != 0 || res.TotalMatching != 3 {
		t.Errorf("page=99: items=%d matching=%d", len(res.Items), res.TotalMatching)
	}
}

func TestHandleSkillByID(t *testing.T) {
	s := testServer(t)

	w := httptest.NewRecorder()
	s.handleSkillByID(w, httptest.NewRequest("GET", "/api/skills/charlie", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var rec catalog.SkillRecord
	json.Unmarshal(w.Body.Bytes(), &rec)
	if rec.ID != "charlie" {
		t.Errorf("id = %q", rec.ID)
	}

	w = httptest.NewRecorder()
	s.handleSkillByID(w, httptest.NewRequest("GET", "/api/skills/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing id: status = %d", w.Code)
	}
}

func TestHandleCategories(t *testing.T) {
	s := testServer(t)
	s.records = append(s.records, catalog.SkillRecord{ID: "odd", Category: "numismatics"})

	w := httptest.NewRecorder()
	s.handleCategories(w, httptest.NewRequest("GET", "/api/categories", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out []struct {
		ID    string `json:"id"`
		Known bool   `json:"known"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}

	byID := map[string]struct {
		Known bool
		Count int
	}{}
	for _, c := range out {
		byID[c.ID] = struct {
			Known bool
			Count int
		}{c.Known, c.Count}
	}
	if c := byID["macro"]; !c.Known || c.Count != 2 {
		t.Errorf("macro = %+v", c)
	}
	if c, ok := byID["numismatics"]; !ok || c.Known || c.Count != 1 {
		t.Errorf("numismatics = %+v (present=%v)", c, ok)
	}
	// Known categories appear even when empty.
	if c, ok := byID["crypto"]; !ok || !c.Known || c.Count != 0 {
		t.Errorf("crypto = %+v (present=%v)", c, ok)
	}
}

func TestHandleIndexArtifact(t *testing.T) {
	s := testServer(t)

	w := httptest.NewRecorder()
	s.handleIndexArtifact(w, httptest.NewRequest("GET", "/api/index", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unbuilt index: status = %d", w.Code)
	}

	path := filepath.Join(s.cfg.Build.DistDir, "index.json")
	if err := os.WriteFile(path, []byte(`{"totalCount":3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	w = httptest.NewRecorder()
	s.handleIndexArtifact(w, httptest.NewRequest("GET", "/api/index", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != `{"totalCount":3}` {
		t.Errorf("index body = %q, must be served verbatim", w.Body.String())
	}
}

func TestLocalhostOnly(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := localhostOnly(inner)

	cases := []struct {
		host string
		want int
	}{
		{"localhost:8787", http.StatusOK},
		{"127.0.0.1:8787", http.StatusOK},
		{"[::1]:8787", http.StatusOK},
		{"example.com", http.StatusForbidden},
		{"10.0.0.5:8787", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		req.Host = tc.host
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("host %q: status = %d, want %d", tc.host, w.Code, tc.want)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := securityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
}
