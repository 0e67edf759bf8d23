// Package config loads railchat settings from a TOML file, the environment
// and command-line overrides, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultAPIKey         = "$$Hello1$$"
	DefaultModel          = "phi-3-mini-128k"
	DefaultMaxTokens      = 1000
	DefaultTestMaxTokens  = 200
	DefaultTemperature    = 0.7
	DefaultConfigFileName = "config.toml"
)

// Environment variables consulted by ApplyEnv
const (
	EnvBaseURL = "RAILCHAT_BASE_URL"
	EnvAPIKey  = "RAILCHAT_API_KEY"
	EnvModel   = "RAILCHAT_MODEL"
)

type Config struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`

	// MaxTokens applies to chat sends, TestMaxTokens to the API test form
	MaxTokens     int     `toml:"max_tokens"`
	TestMaxTokens int     `toml:"test_max_tokens"`
	Temperature   float64 `toml:"temperature"`

	// Timeout bounds each request; zero waits for as long as the server takes
	Timeout Duration `toml:"timeout"`

	LogFile string `toml:"log_file"`
	Debug   bool   `toml:"debug"`
}

// Duration lets TOML files spell timeouts as "30s" or "2m"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		APIKey:        DefaultAPIKey,
		Model:         DefaultModel,
		MaxTokens:     DefaultMaxTokens,
		TestMaxTokens: DefaultTestMaxTokens,
		Temperature:   DefaultTemperature,
	}
}

// Dir returns the railchat directory under the user config dir
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "railchat"), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFileName), nil
}

// Load reads path on top of the defaults. A missing file is not an error
// unless the caller named it explicitly. Environment overrides are applied
// afterwards.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		c.Model = v
	}
}

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL))
	}
	if strings.TrimSpace(c.Model) == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens))
	}
	if c.TestMaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("test_max_tokens must be positive, got %d", c.TestMaxTokens))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature must be within [0, 2], got %g", c.Temperature))
	}
	if c.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout.Duration))
	}

	return errors.Join(errs...)
}

// Save writes the config as TOML, creating the parent directory if needed
func Save(c *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
