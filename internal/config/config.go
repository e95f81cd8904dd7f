package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the stockpulse clients.
type Config struct {
	Backend Backend `yaml:"backend"`
	Poll    Poll    `yaml:"poll"`
	Cache   Cache   `yaml:"cache"`
	Archive Archive `yaml:"archive"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

// Backend describes the sentiment backend the gateway talks to.
type Backend struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	HTTP2   bool          `yaml:"http2"`
}

// Poll controls the refresh cadence of polled pages.
type Poll struct {
	Interval time.Duration `yaml:"interval"`
}

// Cache holds the location of the last-good snapshot database.
type Cache struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Archive controls the optional parquet archive of committed stock lists.
type Archive struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Server holds network listener configuration for stockpulse-server.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Addr returns host:port for the HTTP listener.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Backend: Backend{
			BaseURL: "http://127.0.0.1:5000",
			Timeout: 10 * time.Second,
		},
		Poll:    Poll{Interval: 30 * time.Second},
		Cache:   Cache{SQLitePath: "stockpulse.db"},
		Archive: Archive{Dir: "data"},
		Server:  Server{Host: "127.0.0.1", Port: 8080},
		Logging: Logging{Level: "info", Format: "json"},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path on top of
// Default(), then applies environment variable overrides. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional behaves like Load but treats a missing file as "use
// defaults".
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}
	return Load(path)
}

// Validate rejects configurations the clients cannot run with.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %s", c.Poll.Interval)
	}
	if c.Archive.Enabled && c.Archive.Dir == "" {
		return fmt.Errorf("archive.dir is required when archive is enabled")
	}
	return nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("STOCKPULSE_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}

	if v := os.Getenv("STOCKPULSE_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STOCKPULSE_POLL_INTERVAL: %w", err)
		}
		cfg.Poll.Interval = d
	}

	if v := os.Getenv("STOCKPULSE_SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}

	if v := os.Getenv("STOCKPULSE_ARCHIVE_DIR"); v != "" {
		cfg.Archive.Dir = v
		cfg.Archive.Enabled = true
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return nil
}
