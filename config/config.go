package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the vsm tool.
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus"`
	Rank    RankConfig    `yaml:"rank"`
	Cache   CacheConfig   `yaml:"cache"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// CorpusConfig controls which files `vsm load` picks up from a directory.
type CorpusConfig struct {
	Includes     []string `yaml:"includes"`
	Excludes     []string `yaml:"excludes"`
	MaxFileBytes int64    `yaml:"max_file_bytes"` // 0 = unlimited
}

// RankConfig holds ranking defaults used by the CLI and the server.
type RankConfig struct {
	TopK       int  `yaml:"top_k"` // 0 = return every document
	DropZero   bool `yaml:"drop_zero"`
	RequireAll bool `yaml:"require_all"`
	Precision  int  `yaml:"precision"`
}

type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"ttl"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Includes:     []string{"**/*.txt", "**/*.md"},
			Excludes:     []string{"**/.git/**", "**/.vsm/**", "**/node_modules/**", "**/vendor/**"},
			MaxFileBytes: 4 << 20,
		},
		Rank: RankConfig{
			TopK:      0,
			Precision: 4,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 256,
			TTL:        5 * time.Minute,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file, then applies VSM_* environment
// overrides. A .env file in the working directory is read first if present.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for vsm.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "vsm.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = ConfigPath(dir)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Defaults plus environment.
	return Load(filepath.Join(dir, "vsm.yaml"))
}

// applyEnvOverrides reads VSM_* environment variables and overrides the
// corresponding config fields. Unparseable values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VSM_RANK_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Rank.TopK = n
		}
	}
	if v := os.Getenv("VSM_RANK_DROP_ZERO"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Rank.DropZero = b
		}
	}
	if v := os.Getenv("VSM_RANK_REQUIRE_ALL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Rank.RequireAll = b
		}
	}
	if v := os.Getenv("VSM_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if v := os.Getenv("VSM_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("VSM_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("VSM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VSM_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate rejects settings no component can honor.
func (c *Config) Validate() error {
	if c.Rank.TopK < 0 {
		return fmt.Errorf("rank.top_k must be >= 0, got %d", c.Rank.TopK)
	}
	if c.Rank.Precision < 0 {
		return fmt.Errorf("rank.precision must be >= 0, got %d", c.Rank.Precision)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be >= 0, got %d", c.Cache.MaxEntries)
	}
	if c.Corpus.MaxFileBytes < 0 {
		return fmt.Errorf("corpus.max_file_bytes must be >= 0, got %d", c.Corpus.MaxFileBytes)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CorpusDBPath returns the path to the corpus database.
// ConfigPath is where vsm init writes the project config.
func ConfigPath(dir string) string {
	return filepath.Join(dir, ".vsm", "config.yaml")
}

func CorpusDBPath(dir string) string {
	return filepath.Join(dir, ".vsm", "corpus.db")
}

// EnsureVSMDir ensures the .vsm directory exists.
func EnsureVSMDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".vsm"), 0755)
}
