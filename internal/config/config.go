package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Close policies accepted in the config file.
const (
	ClosePolicyOnSuccess  = "on_success"
	ClosePolicyOptimistic = "optimistic"
)

// Config holds CLI configuration stored at ~/.reqdesk/config.
type Config struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	APIKey         string `yaml:"api_key"`
	Username       string `yaml:"username"`
	RequestManager bool   `yaml:"request_manager"`
	ClosePolicy    string `yaml:"close_policy,omitempty"`
	LogFile        string `yaml:"log_file,omitempty"`
	VimKeys        bool   `yaml:"vim_keys"`
}

// Dir returns the directory holding the config and default log file.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".reqdesk")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path with the same checks as Load.
func LoadFrom(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("config missing api_key")
	}
	switch cfg.ClosePolicy {
	case "", ClosePolicyOnSuccess, ClosePolicyOptimistic:
	default:
		return nil, fmt.Errorf("config close_policy %q: want %s or %s",
			cfg.ClosePolicy, ClosePolicyOnSuccess, ClosePolicyOptimistic)
	}

	return &cfg, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// LogPath is where the TUI writes its log.
func (c *Config) LogPath() string {
	if c != nil && c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(Dir(), "reqdesk.log")
}
