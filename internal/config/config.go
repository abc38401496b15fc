package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig describes one configured LLM backend. Instances are
// immutable once loaded; credentials left empty are resolved from the
// environment at load time.
type ProviderConfig struct {
	ID          string        `yaml:"id"`
	APIKey      string        `yaml:"apiKey,omitempty"`
	Endpoint    string        `yaml:"endpoint,omitempty"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"maxTokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Budgets holds the token-budget knobs used by the request orchestrator.
type Budgets struct {
	SafeTokens           int `yaml:"safeTokens"`
	ExtremelyLargeTokens int `yaml:"extremelyLargeTokens"`
	MaxFilteredFiles     int `yaml:"maxFilteredFiles"`
}

// Config is the full verdict configuration. It is constructed once at
// process start and passed down explicitly; no package holds it as
// ambient state.
type Config struct {
	Primary     string           `yaml:"primary"`
	Fallbacks   []string         `yaml:"fallbacks"`
	Providers   []ProviderConfig `yaml:"providers"`
	Budgets     Budgets          `yaml:"budgets"`
	Format      string           `yaml:"format"`
	FailOn      string           `yaml:"failOn"`
	Language    string           `yaml:"language,omitempty"`
	ProjectType string           `yaml:"projectType,omitempty"`
	Redact      bool             `yaml:"redact"`
	RedactPaths []string         `yaml:"redactPaths,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Primary:   "anthropic",
		Fallbacks: []string{"openai", "openrouter", "ollama"},
		Providers: []ProviderConfig{
			{ID: "anthropic", Model: "claude-sonnet-4-20250514", MaxTokens: 4000, Temperature: 0.1, Timeout: 120 * time.Second},
			{ID: "openai", Model: "gpt-4-turbo-preview", MaxTokens: 4000, Temperature: 0.1, Timeout: 120 * time.Second},
			{ID: "openrouter", Endpoint: "https://openrouter.ai/api/v1/chat/completions", Model: "openai/gpt-4-turbo-preview", MaxTokens: 4000, Temperature: 0.1, Timeout: 120 * time.Second},
			{ID: "ollama", Endpoint: "http://localhost:11434/api/generate", Model: "codellama", MaxTokens: 2000, Temperature: 0.1, Timeout: 120 * time.Second},
		},
		Budgets: Budgets{
			SafeTokens:           80000,
			ExtremelyLargeTokens: 200000,
			MaxFilteredFiles:     15,
		},
		Format:      "text",
		FailOn:      "major",
		Redact:      true,
		RedactPaths: []string{"**/.env", "*.pem", "*.key", "**/credentials*"},
	}
}

// envKeys maps provider IDs to the environment variables that carry
// their credentials.
var envKeys = map[string]string{
	"anthropic":  "ANTHROPIC_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// ResolveCredentials fills empty provider credentials from the
// environment. Ollama takes its endpoint from VERDICT_OLLAMA_ENDPOINT
// when that variable is set.
func (c *Config) ResolveCredentials() {
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.APIKey == "" {
			if env, ok := envKeys[p.ID]; ok {
				p.APIKey = os.Getenv(env)
			}
		}
		if p.ID == "ollama" {
			if ep := os.Getenv("VERDICT_OLLAMA_ENDPOINT"); ep != "" {
				p.Endpoint = ep
			}
		}
	}
}

// Provider returns the ProviderConfig with the given id.
func (c Config) Provider(id string) (ProviderConfig, bool) {
	for _, p := range c.Providers {
		if p.ID == id {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

// ConfigDir returns the platform-appropriate config directory for verdict.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "verdict"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "verdict"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "verdict"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "verdict"), nil
	default:
		return filepath.Join(home, ".config", "verdict"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file, merges it over the defaults, and resolves
// credentials. A missing file yields the defaults without error.
func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ResolveCredentials()
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyFallbackDefaults()
	cfg.ResolveCredentials()
	return cfg, nil
}

// applyFallbackDefaults restores zero-valued fields the file omitted.
func (c *Config) applyFallbackDefaults() {
	def := Default()
	if c.Budgets.SafeTokens == 0 {
		c.Budgets.SafeTokens = def.Budgets.SafeTokens
	}
	if c.Budgets.ExtremelyLargeTokens == 0 {
		c.Budgets.ExtremelyLargeTokens = def.Budgets.ExtremelyLargeTokens
	}
	if c.Budgets.MaxFilteredFiles == 0 {
		c.Budgets.MaxFilteredFiles = def.Budgets.MaxFilteredFiles
	}
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.FailOn == "" {
		c.FailOn = def.FailOn
	}
	if c.Primary == "" {
		c.Primary = def.Primary
	}
	if len(c.Providers) == 0 {
		c.Providers = def.Providers
	}
	for i := range c.Providers {
		if c.Providers[i].Timeout == 0 {
			c.Providers[i].Timeout = 120 * time.Second
		}
		if c.Providers[i].MaxTokens == 0 {
			c.Providers[i].MaxTokens = 4000
		}
	}
}

// Save writes the config to the config file, creating the directory if needed.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
