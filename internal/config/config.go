package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"ozymandias/internal/apperr"
)

// FileName is the config file name inside the knowledge-base home.
const FileName = "config.yaml"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// ValidBackends lists all supported storage backends.
var ValidBackends = []string{BackendSQLite, BackendFile, BackendMemory}

// Config is the full knowledge-base configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Keywords KeywordsConfig `yaml:"keywords"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`
	Related  RelatedConfig  `yaml:"related"`
}

// StorageConfig selects and locates the document store.
type StorageConfig struct {
	Backend string `yaml:"backend"`        // sqlite, file, memory
	Path    string `yaml:"path,omitempty"` // relative paths resolve against home
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// IngestConfig bounds file ingestion.
type IngestConfig struct {
	Workers    int      `yaml:"workers"`
	MaxBytes   int64    `yaml:"max_bytes"`
	Extensions []string `yaml:"extensions"`
}

// KeywordsConfig tunes keyword extraction.
type KeywordsConfig struct {
	Limit     int `yaml:"limit"`
	MinLength int `yaml:"min_length"`
}

// TaxonomyConfig is the category list used for classification.
type TaxonomyConfig struct {
	Default    string           `yaml:"default"`
	Categories []CategoryConfig `yaml:"categories"`
}

// CategoryConfig names a category and the keywords that select it.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// RelatedConfig tunes relationship discovery.
type RelatedConfig struct {
	Limit    int     `yaml:"limit"`
	MinScore float64 `yaml:"min_score"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Ingest: IngestConfig{
			Workers:    4,
			MaxBytes:   1 << 20,
			Extensions: []string{".md", ".markdown", ".txt"},
		},
		Keywords: KeywordsConfig{
			Limit:     12,
			MinLength: 3,
		},
		Taxonomy: TaxonomyConfig{
			Default: "uncategorized",
			Categories: []CategoryConfig{
				{Name: "programming", Keywords: []string{"code", "function", "compiler", "golang", "rust", "python", "api", "bug", "test", "library"}},
				{Name: "research", Keywords: []string{"paper", "study", "hypothesis", "experiment", "results", "analysis", "citation", "data"}},
				{Name: "journal", Keywords: []string{"today", "feel", "felt", "morning", "evening", "yesterday", "diary"}},
				{Name: "meeting", Keywords: []string{"meeting", "agenda", "attendees", "action", "minutes", "decision", "followup"}},
				{Name: "reading", Keywords: []string{"book", "chapter", "author", "quote", "novel", "reading"}},
			},
		},
		Related: RelatedConfig{
			Limit:    10,
			MinScore: 0.1,
		},
	}
}

// Path returns the default config file path for home.
func Path(home string) string {
	return filepath.Join(home, FileName)
}

// Load reads path over the defaults and applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, apperr.NewConfigError("failed to read config").
			WithCause(err).WithDetail("path", path)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperr.NewConfigError("failed to parse config").
				WithCause(err).WithDetail("path", path)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path via a temp file, fsync and rename.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return apperr.NewConfigError("failed to create config directory").WithCause(err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return apperr.NewConfigError("failed to marshal config").WithCause(err)
	}
	if err := writeFile(path, data, 0o600); err != nil {
		return apperr.NewConfigError("failed to write config").
			WithCause(err).WithDetail("path", path)
	}
	return nil
}

// writeFile writes b to a unique temp file beside path, then atomically
// replaces path with it.
func writeFile(path string, b []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// applyEnvOverrides applies OZY_* environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("OZY_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("OZY_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("OZY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OZY_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("OZY_INGEST_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.NewConfigError(fmt.Sprintf("OZY_INGEST_WORKERS must be an integer, got %q", v))
		}
		c.Ingest.Workers = n
	}
	return nil
}

// Default storage file names per backend.
const (
	defaultSQLiteFile = "knowledge.db"
	defaultJSONFile   = "documents.json"
)

// StoragePath resolves the storage path against home. An empty path selects
// the backend's default file; the memory backend has no path.
func (c *Config) StoragePath(home string) string {
	path := c.Storage.Path
	if path == "" {
		switch c.Storage.Backend {
		case BackendSQLite:
			path = defaultSQLiteFile
		case BackendFile:
			path = defaultJSONFile
		default:
			return ""
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(home, path)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validBackend := false
	for _, b := range ValidBackends {
		if c.Storage.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return apperr.NewConfigError(fmt.Sprintf("invalid storage backend: %s (valid: %v)", c.Storage.Backend, ValidBackends))
	}
	if c.Ingest.Workers < 1 {
		return apperr.NewConfigError("ingest.workers must be at least 1")
	}
	if c.Ingest.MaxBytes < 1 {
		return apperr.NewConfigError("ingest.max_bytes must be positive")
	}
	if c.Keywords.Limit < 1 {
		return apperr.NewConfigError("keywords.limit must be positive")
	}
	if c.Related.Limit < 1 {
		return apperr.NewConfigError("related.limit must be positive")
	}
	if strings.TrimSpace(c.Taxonomy.Default) == "" {
		return apperr.NewConfigError("taxonomy.default must not be empty")
	}

	seen := make(map[string]bool, len(c.Taxonomy.Categories))
	for i, cat := range c.Taxonomy.Categories {
		name := strings.ToLower(strings.TrimSpace(cat.Name))
		if name == "" {
			return apperr.NewConfigError(fmt.Sprintf("taxonomy.categories[%d] has no name", i))
		}
		if seen[name] {
			return apperr.NewConfigError(fmt.Sprintf("duplicate taxonomy category %q", name))
		}
		seen[name] = true
	}
	return nil
}
