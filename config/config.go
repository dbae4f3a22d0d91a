package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/nestegg/plan"
)

// EnvPrefix prefixes every environment override, e.g. NESTEGG_STORE_PATH.
const EnvPrefix = "NESTEGG_"

// Config is the application configuration.
type Config struct {
	Store     StoreConfig     `json:"store" yaml:"store" envPrefix:"STORE_"`
	Defaults  DefaultsConfig  `json:"defaults" yaml:"defaults" envPrefix:"DEFAULTS_"`
	Valuation ValuationConfig `json:"valuation" yaml:"valuation" envPrefix:"VALUATION_"`
	Server    ServerConfig    `json:"server" yaml:"server" envPrefix:"SERVER_"`
}

// StoreConfig selects where saved inputs live.
type StoreConfig struct {
	Type string `json:"type" yaml:"type" env:"TYPE"` // "json", "yaml" or "sqlite"
	Path string `json:"path" yaml:"path" env:"PATH"`
}

// DefaultsConfig fills in market assumptions an input leaves at zero.
type DefaultsConfig struct {
	ExchangeRateUSDJPY float64 `json:"exchange_rate_usd_jpy" yaml:"exchange_rate_usd_jpy" env:"EXCHANGE_RATE_USD_JPY"`
	InflationRateUS    float64 `json:"inflation_rate_us" yaml:"inflation_rate_us" env:"INFLATION_RATE_US"`
	InflationRateJP    float64 `json:"inflation_rate_jp" yaml:"inflation_rate_jp" env:"INFLATION_RATE_JP"`
}

// ValuationConfig holds the estate valuation parameters used when a request
// does not give its own.
type ValuationConfig struct {
	InterestRate         float64 `json:"interest_rate" yaml:"interest_rate" env:"INTEREST_RATE"` // percent
	SpouseLifeExpectancy int     `json:"spouse_life_expectancy" yaml:"spouse_life_expectancy" env:"SPOUSE_LIFE_EXPECTANCY"`
	Heirs                int     `json:"heirs" yaml:"heirs" env:"HEIRS"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr" env:"ADDR"`
	ReadTimeout    string   `json:"read_timeout" yaml:"read_timeout" env:"READ_TIMEOUT"`    // e.g. "10s"
	WriteTimeout   string   `json:"write_timeout" yaml:"write_timeout" env:"WRITE_TIMEOUT"` // e.g. "10s"
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Timeouts parses the read and write timeouts. Empty means no timeout.
func (s ServerConfig) Timeouts() (read, write time.Duration, err error) {
	if read, err = parseDuration(s.ReadTimeout); err != nil {
		return 0, 0, fmt.Errorf("server.read_timeout: %w", err)
	}
	if write, err = parseDuration(s.WriteTimeout); err != nil {
		return 0, 0, fmt.Errorf("server.write_timeout: %w", err)
	}
	return read, write, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// Load returns the configuration at path, or Default when path is empty,
// with environment overrides applied and validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Start from the defaults so a partial file only overrides what it names.
	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// ApplyEnv overrides fields from NESTEGG_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Type {
	case "json", "yaml", "sqlite":
	default:
		return fmt.Errorf("store.type must be 'json', 'yaml' or 'sqlite'")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Defaults.ExchangeRateUSDJPY <= 0 {
		return fmt.Errorf("defaults.exchange_rate_usd_jpy must be positive")
	}
	if !inflationOK(c.Defaults.InflationRateUS) {
		return fmt.Errorf("defaults.inflation_rate_us must be greater than -1 and at most 1")
	}
	if !inflationOK(c.Defaults.InflationRateJP) {
		return fmt.Errorf("defaults.inflation_rate_jp must be greater than -1 and at most 1")
	}
	if c.Valuation.InterestRate < 0 {
		return fmt.Errorf("valuation.interest_rate must not be negative")
	}
	if c.Valuation.SpouseLifeExpectancy <= 0 {
		return fmt.Errorf("valuation.spouse_life_expectancy must be positive")
	}
	if c.Valuation.Heirs < 1 {
		return fmt.Errorf("valuation.heirs must be at least 1")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, _, err := c.Server.Timeouts(); err != nil {
		return err
	}
	return nil
}

func inflationOK(r float64) bool { return r > -1 && r <= 1 }

// NewInput returns an empty input holding c's default market assumptions,
// ready to have a request body or input file decoded over it.
func (c *Config) NewInput() plan.SimulationInput {
	d := c.Defaults
	return plan.NewInput(d.ExchangeRateUSDJPY, d.InflationRateUS, d.InflationRateJP)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Type: "json",
			Path: "./nestegg.json",
		},
		Defaults: DefaultsConfig{
			ExchangeRateUSDJPY: 150,
			InflationRateUS:    0.03,
			InflationRateJP:    0.01,
		},
		Valuation: ValuationConfig{
			InterestRate:         0.5,
			SpouseLifeExpectancy: 90,
			Heirs:                1,
		},
		Server: ServerConfig{
			Addr:           ":8000",
			ReadTimeout:    "10s",
			WriteTimeout:   "10s",
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:5174"},
		},
	}
}
