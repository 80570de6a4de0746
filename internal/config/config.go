// Package config provides configuration for the skillmart binary.
// Loads from: CLI flags > env vars > skillmart.toml > built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// SkillsDirOverride is set by the global --skills flag.
var SkillsDirOverride string

// Artifact file names inside the dist directory.
const (
	CatalogFile = "catalog.json"
	IndexFile   = "index.json"
	ReportFile  = "build_report.json"
)

// DefaultPageSize is the query engine page size when none is configured.
const DefaultPageSize = 9

// Config holds all skillmart configuration, loaded from TOML + env + flags.
type Config struct {
	Skills SkillsConfig `toml:"skills"`
	Build  BuildConfig  `toml:"build"`
	Query  QueryConfig  `toml:"query"`
	Web    WebConfig    `toml:"web"`
	Guard  GuardConfig  `toml:"guard"`
}

// SkillsConfig locates the source documents.
type SkillsConfig struct {
	Dir string `toml:"dir"`
}

// BuildConfig controls artifact emission.
type BuildConfig struct {
	DistDir string `toml:"dist_dir"`
	DBPath  string `toml:"db_path"`
}

// QueryConfig tunes the client-side query engine defaults.
type QueryConfig struct {
	PageSize int `toml:"page_size"`
}

// WebConfig holds web server settings.
type WebConfig struct {
	Addr string `toml:"addr"`
}

// GuardConfig controls content screening of skill bodies.
type GuardConfig struct {
	Enabled   bool    `toml:"enabled"`
	Threshold float64 `toml:"threshold"`
	AuditLog  string  `toml:"audit_log"`
}

// DefaultConfig returns a Config with all built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Skills: SkillsConfig{
			Dir: "skills",
		},
		Build: BuildConfig{
			DistDir: "dist",
			DBPath:  filepath.Join("dist", "skillmart.db"),
		},
		Query: QueryConfig{
			PageSize: DefaultPageSize,
		},
		Web: WebConfig{
			Addr: "127.0.0.1:8787",
		},
		Guard: GuardConfig{
			Enabled:   false,
			Threshold: 0.6,
			AuditLog:  filepath.Join("dist", "guard-audit.log"),
		},
	}
}

// Load merges all configuration sources: defaults < TOML file < env vars.
// The global --skills flag is applied last by SkillsDir().
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom loads configuration from a specific file path, merging with
// defaults and env vars. An empty or missing path means file config is skipped.
func LoadFrom(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			meta, err := toml.DecodeFile(configPath, cfg)
			if err != nil {
				return nil, fmt.Errorf("parse config %s: %w", configPath, err)
			}
			warnUnknownKeys(meta, configPath)
		}
	}

	if v := os.Getenv("SKILLMART_SKILLS_DIR"); v != "" {
		cfg.Skills.Dir = v
	}
	if v := os.Getenv("SKILLMART_DIST_DIR"); v != "" {
		cfg.Build.DistDir = v
	}
	if v := os.Getenv("SKILLMART_DB_PATH"); v != "" {
		cfg.Build.DBPath = v
	}
	if v := os.Getenv("SKILLMART_ADDR"); v != "" {
		cfg.Web.Addr = v
	}
	if v := os.Getenv("SKILLMART_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Query.PageSize = n
		}
	}
	if v := os.Getenv("SKILLMART_GUARD"); v != "" {
		cfg.Guard.Enabled = v == "1" || strings.EqualFold(v, "true")
	}

	if cfg.Query.PageSize <= 0 {
		cfg.Query.PageSize = DefaultPageSize
	}

	return cfg, nil
}

// SkillsDir resolves the skills directory, honoring the --skills override.
func (c *Config) SkillsDir() string {
	if SkillsDirOverride != "" {
		return SkillsDirOverride
	}
	return c.Skills.Dir
}

// CatalogPath returns the path of the full catalog artifact.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Build.DistDir, CatalogFile)
}

// IndexPath returns the path of the lightweight index artifact.
func (c *Config) IndexPath() string {
	return filepath.Join(c.Build.DistDir, IndexFile)
}

// ReportPath returns the path of the saved build report.
func (c *Config) ReportPath() string {
	return filepath.Join(c.Build.DistDir, ReportFile)
}

// findConfigFile looks for skillmart.toml in the CWD, then next to the skills dir.
func findConfigFile() string {
	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, "skillmart.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if SkillsDirOverride != "" {
		p := filepath.Join(filepath.Dir(SkillsDirOverride), "skillmart.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// warnUnknownKeys prints a warning for unrecognized TOML keys so typos
// (e.g. "page_sized") don't silently fall back to defaults.
func warnUnknownKeys(meta toml.MetaData, configPath string) {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return
	}
	keys := make([]string, 0, len(undecoded))
	for _, k := range undecoded {
		keys = append(keys, k.String())
	}
	fmt.Fprintf(os.Stderr, "skillmart: warning: unknown config keys in %s: %s\n",
		configPath, strings.Join(keys, ", "))
}
