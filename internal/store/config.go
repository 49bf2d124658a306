package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredential is returned when the filings API key is unset or still a placeholder.
var ErrMissingCredential = errors.New("filings API credential is missing or a placeholder")

var placeholderKeys = map[string]bool{
	"API_KEY":            true,
	"YOUR_REAL_KEY_HERE": true,
	"YOUR_API_KEY":       true,
}

type Config struct {
	Filings struct {
		BaseURL        string `yaml:"base_url"`
		APIKeyEnv      string `yaml:"api_key_env"`
		AuthMode       string `yaml:"auth_mode"` // header or token
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Size           int    `yaml:"size"`
		RatePerSecond  int    `yaml:"rate_per_second"`
	} `yaml:"filings"`
	Prices struct {
		Provider        string `yaml:"provider"` // yahoo, alpaca or mock
		YahooBaseURL    string `yaml:"yahoo_base_url"`
		AlpacaKeyEnv    string `yaml:"alpaca_key_env"`
		AlpacaSecretEnv string `yaml:"alpaca_secret_env"`
		AlpacaBaseURL   string `yaml:"alpaca_base_url"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		RatePerSecond   int    `yaml:"rate_per_second"`
	} `yaml:"prices"`
	Momentum struct {
		Window int    `yaml:"window"`
		Unit   string `yaml:"unit"` // days or hours
	} `yaml:"momentum"`
	Universe struct {
		Pool       string   `yaml:"pool"` // large, small, sp500 or static
		SampleSize int      `yaml:"sample_size"`
		Static     []string `yaml:"static"`
		SP500URL   string   `yaml:"sp500_url"`
		Seed       int64    `yaml:"seed"`
	} `yaml:"universe"`
	Output struct {
		Dir        string `yaml:"dir"`
		Format     string `yaml:"format"` // csv, json or text
		SQLitePath string `yaml:"sqlite_path"`
		Table      string `yaml:"table"`
	} `yaml:"output"`
	Cache struct {
		Enabled  bool   `yaml:"enabled"`
		Dir      string `yaml:"dir"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"cache"`
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Filings.APIKeyEnv) == "" {
		return errors.New("filings.api_key_env cannot be empty")
	}
	if c.Filings.AuthMode != "header" && c.Filings.AuthMode != "token" {
		return fmt.Errorf("invalid filings.auth_mode '%s': must be 'header' or 'token'", c.Filings.AuthMode)
	}
	if c.Filings.Size < 1 || c.Filings.Size > 50 {
		return fmt.Errorf("filings.size must be between 1-50, got %d", c.Filings.Size)
	}
	switch c.Prices.Provider {
	case "yahoo", "alpaca", "mock":
	default:
		return fmt.Errorf("invalid prices.provider '%s': must be 'yahoo', 'alpaca' or 'mock'", c.Prices.Provider)
	}
	if c.Momentum.Window <= 0 {
		return fmt.Errorf("momentum.window must be positive, got %d", c.Momentum.Window)
	}
	if c.Momentum.Unit != "days" && c.Momentum.Unit != "hours" {
		return fmt.Errorf("invalid momentum.unit '%s': must be 'days' or 'hours'", c.Momentum.Unit)
	}
	switch c.Universe.Pool {
	case "large", "small", "sp500":
	case "static":
		if len(c.Universe.Static) == 0 {
			return errors.New("universe.static cannot be empty when universe.pool is 'static'")
		}
	default:
		return fmt.Errorf("invalid universe.pool '%s': must be 'large', 'small', 'sp500' or 'static'", c.Universe.Pool)
	}
	if c.Universe.SampleSize <= 0 {
		return fmt.Errorf("universe.sample_size must be positive, got %d", c.Universe.SampleSize)
	}
	switch c.Output.Format {
	case "csv", "json", "text":
	default:
		return fmt.Errorf("invalid output.format '%s': must be 'csv', 'json' or 'text'", c.Output.Format)
	}
	return nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Filings.BaseURL == "" {
		c.Filings.BaseURL = "https://api.sec-api.io"
	}
	if c.Filings.APIKeyEnv == "" {
		c.Filings.APIKeyEnv = "SEC_API_KEY"
	}
	if c.Filings.AuthMode == "" {
		c.Filings.AuthMode = "header"
	}
	if c.Filings.TimeoutSeconds == 0 {
		c.Filings.TimeoutSeconds = 30
	}
	if c.Filings.Size == 0 {
		c.Filings.Size = 50
	}
	if c.Filings.RatePerSecond == 0 {
		c.Filings.RatePerSecond = 5
	}

	if c.Prices.Provider == "" {
		c.Prices.Provider = "yahoo"
	}
	if c.Prices.YahooBaseURL == "" {
		c.Prices.YahooBaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Prices.AlpacaKeyEnv == "" {
		c.Prices.AlpacaKeyEnv = "ALPACA_API_KEY"
	}
	if c.Prices.AlpacaSecretEnv == "" {
		c.Prices.AlpacaSecretEnv = "ALPACA_API_SECRET"
	}
	if c.Prices.TimeoutSeconds == 0 {
		c.Prices.TimeoutSeconds = 15
	}
	if c.Prices.RatePerSecond == 0 {
		c.Prices.RatePerSecond = 2
	}

	if c.Universe.Pool == "" {
		c.Universe.Pool = "large"
	}
	sampleSize, window, unit := PoolDefaults(c.Universe.Pool)
	if c.Universe.SampleSize == 0 {
		c.Universe.SampleSize = sampleSize
	}
	if c.Momentum.Unit == "" {
		c.Momentum.Unit = unit
	}
	if c.Momentum.Window == 0 {
		if c.Momentum.Unit == unit {
			c.Momentum.Window = window
		} else {
			c.Momentum.Window = DefaultWindow(c.Momentum.Unit)
		}
	}
	if c.Universe.SP500URL == "" {
		c.Universe.SP500URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}
	if c.Output.Format == "" {
		c.Output.Format = "csv"
	}
	if c.Output.Table == "" {
		c.Output.Table = "insider_momentum"
	}

	if c.Cache.Dir == "" {
		c.Cache.Dir = "cache/prices"
	}
	if c.Cache.TTLHours == 0 {
		c.Cache.TTLHours = 24
	}
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// LoadConfigOrDefault loads path, falling back to Default when the file does not exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return LoadConfig(path)
}

// LoadEnv reads a .env file into the process environment if one exists.
// Variables already set are left untouched.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// APIKey resolves the filings credential from the configured environment variable.
func (c *Config) APIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv(c.Filings.APIKeyEnv))
	if key == "" || placeholderKeys[key] {
		return "", fmt.Errorf("%w: set %s to a real key", ErrMissingCredential, c.Filings.APIKeyEnv)
	}
	return key, nil
}

// AlpacaCredentials returns the Alpaca key pair; both must be present.
func (c *Config) AlpacaCredentials() (string, string, error) {
	key := os.Getenv(c.Prices.AlpacaKeyEnv)
	secret := os.Getenv(c.Prices.AlpacaSecretEnv)
	if key == "" || secret == "" {
		return "", "", fmt.Errorf("%w: set %s and %s", ErrMissingCredential, c.Prices.AlpacaKeyEnv, c.Prices.AlpacaSecretEnv)
	}
	return key, secret, nil
}

// PoolDefaults returns the sample size, window length and unit a pool runs with
// when nothing else is configured.
func PoolDefaults(pool string) (sampleSize, window int, unit string) {
	if pool == "small" {
		return 2, 48, "hours"
	}
	return 20, 30, "days"
}

// DefaultWindow is the window length used for unit when none is configured.
func DefaultWindow(unit string) int {
	if unit == "hours" {
		return 48
	}
	return 30
}
