package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	snapshotFileName = "local_articles.json"
	stateFileName    = "state.db"
	exportFileName   = "articles.xlsx"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config holds all configuration for inventory-sync. It is built once at
// startup and passed to the components that need it.
type Config struct {
	// Article API endpoint. All CRUD requests go to this collection URL.
	APIURL       string        `env:"INVENTORY_API_URL" envDefault:"https://localhost:5001/api/article"`
	APITimeout   time.Duration `env:"INVENTORY_API_TIMEOUT" envDefault:"10s"`
	ProbeTimeout time.Duration `env:"INVENTORY_PROBE_TIMEOUT" envDefault:"3s"`

	// Accept self-signed certificates. Development servers only.
	InsecureTLS bool `env:"INVENTORY_API_INSECURE_TLS" envDefault:"false"`

	// Start in offline mode without contacting the server.
	StartOffline bool `env:"INVENTORY_START_OFFLINE" envDefault:"false"`

	// Directory for the local snapshot and the session journal.
	// Defaults to ~/.inventory-sync.
	DataDir string `env:"INVENTORY_DATA_DIR"`

	// Interval between connectivity probes while online.
	CheckInterval time.Duration `env:"INVENTORY_CHECK_INTERVAL" envDefault:"30s"`

	// Optional YAML settings file. Environment variables win over it.
	SettingsFile string `env:"INVENTORY_SETTINGS_FILE" envDefault:"settings.yaml"`

	// Presentation settings used by table rendering and export.
	RowHeight   int    `env:"UI_ROW_HEIGHT" envDefault:"25"`
	StripeColor string `env:"UI_STRIPE_COLOR" envDefault:"#F0F0F0"`

	// Environment controls log format
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"`
	Debug       bool   `env:"APP_DEBUG" envDefault:"false"`

	// MCP server settings
	EnableMCP       bool   `env:"ENABLE_MCP" envDefault:"false"`
	MCPListenAddr   string `env:"MCP_LISTEN_ADDR" envDefault:"127.0.0.1:8091"`
	MCPAPIKeyHashes string `env:"MCP_API_KEY_HASHES"`
}

// settingsFile mirrors the keys accepted in the YAML settings file.
type settingsFile struct {
	API struct {
		URL         string `yaml:"url"`
		InsecureTLS *bool  `yaml:"insecure_tls"`
	} `yaml:"api"`
	UI struct {
		RowHeight   int    `yaml:"row_height"`
		StripeColor string `yaml:"stripe_color"`
	} `yaml:"ui"`
	App struct {
		Debug bool `yaml:"debug"`
	} `yaml:"app"`
}

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// Load reads configuration from a .env file (if present), the environment
// and the optional settings file, in that order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.applySettingsFile(cfg.SettingsFile); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}

		cfg.DataDir = dir
	}

	absDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolving data dir to absolute path: %w", err)
	}

	cfg.DataDir = absDir

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applySettingsFile fills in values from the YAML file for every key
// whose environment variable is unset. A missing file is not an error.
func (c *Config) applySettingsFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("reading settings file: %w", err)
	}

	var sf settingsFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parsing settings file %s: %w", path, err)
	}

	if sf.API.URL != "" && !envSet("INVENTORY_API_URL") {
		c.APIURL = strings.TrimSpace(sf.API.URL)
	}

	if sf.API.InsecureTLS != nil && !envSet("INVENTORY_API_INSECURE_TLS") {
		c.InsecureTLS = *sf.API.InsecureTLS
	}

	if sf.UI.RowHeight != 0 && !envSet("UI_ROW_HEIGHT") {
		c.RowHeight = sf.UI.RowHeight
	}

	if sf.UI.StripeColor != "" && !envSet("UI_STRIPE_COLOR") {
		c.StripeColor = sf.UI.StripeColor
	}

	if sf.App.Debug && !envSet("APP_DEBUG") {
		c.Debug = true
	}

	return nil
}

func envSet(key string) bool {
	v, ok := os.LookupEnv(key)
	return ok && v != ""
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("INVENTORY_API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}

	if c.APITimeout <= 0 || c.ProbeTimeout <= 0 {
		return fmt.Errorf("INVENTORY_API_TIMEOUT and INVENTORY_PROBE_TIMEOUT must be positive")
	}

	if c.CheckInterval <= 0 {
		return fmt.Errorf("INVENTORY_CHECK_INTERVAL must be positive")
	}

	if c.RowHeight <= 0 {
		return fmt.Errorf("UI_ROW_HEIGHT must be positive, got %d", c.RowHeight)
	}

	if !hexColor.MatchString(c.StripeColor) {
		return fmt.Errorf("UI_STRIPE_COLOR must look like #RRGGBB, got %q", c.StripeColor)
	}

	if c.EnableMCP {
		hashes := c.ParseMCPAPIKeyHashes()
		if len(hashes) == 0 {
			return fmt.Errorf("MCP_API_KEY_HASHES is required when MCP is enabled")
		}

		for i, h := range hashes {
			if !strings.HasPrefix(h, "$2") {
				return fmt.Errorf("MCP_API_KEY_HASHES entry %d is not a bcrypt hash", i+1)
			}
		}
	}

	return nil
}

// DefaultDataDir returns ~/.inventory-sync.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}

	return filepath.Join(home, ".inventory-sync"), nil
}

// SnapshotPath is where the integrity-checked local snapshot lives.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, snapshotFileName)
}

// StatePath is where the bbolt session journal lives.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, stateFileName)
}

// ExportPath is the default target of the export command.
func (c *Config) ExportPath() string {
	return filepath.Join(c.DataDir, exportFileName)
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// EffectiveLogLevel returns the configured log level, forced to debug
// when the debug flag is on.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}

	return c.LogLevel
}

// ParseMCPAPIKeyHashes splits MCP_API_KEY_HASHES on commas.
func (c *Config) ParseMCPAPIKeyHashes() []string {
	var out []string

	for _, h := range strings.Split(c.MCPAPIKeyHashes, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			out = append(out, h)
		}
	}

	return out
}
