// Package config loads and stores CLI configuration.
// Settings come from defaults, then config.yaml in the XDG config dir, then
// AGENTCONSOLE_* environment variables. Secrets never live here; the access
// token is kept in the OS keychain.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	apperr "agentconsole/cli/internal/errors"
	"agentconsole/cli/internal/logging"
	"agentconsole/cli/internal/xdg"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. AGENTCONSOLE_API_BASE_URL.
const EnvPrefix = "AGENTCONSOLE"

// PathEnv points at an alternative config file.
const PathEnv = "AGENTCONSOLE_CONFIG"

// Config holds non-sensitive CLI settings.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
	Keyring KeyringConfig `mapstructure:"keyring"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// KeyringConfig selects where the access token is stored.
type KeyringConfig struct {
	Backend string `mapstructure:"backend"`
	FileDir string `mapstructure:"file_dir"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"api.base_url",
	"api.timeout",
	"log.level",
	"log.format",
	"keyring.backend",
	"keyring.file_dir",
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8001")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", logging.FormatConsole)
	v.SetDefault("keyring.backend", "auto")
	keyringDir := ""
	if dir, err := xdg.StateDir(); err == nil {
		keyringDir = filepath.Join(dir, "keyring")
	}
	v.SetDefault("keyring.file_dir", keyringDir)
}

// fileViper returns a viper bound to the config file and nothing else.
func fileViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetConfigPermissions(0o600)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

// Load reads configuration; a missing file yields defaults.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	v, err := fileViper(path)
	if err != nil {
		return Config{}, err
	}
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		return apperr.New(apperr.InvalidInput, "api.timeout must be positive")
	}
	if !slices.Contains([]string{logging.FormatConsole, logging.FormatJSON}, c.Log.Format) {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("log.format must be console or json, got %q", c.Log.Format))
	}
	return nil
}

// Get returns the value of key formatted for display.
func (c Config) Get(key string) (string, bool) {
	switch key {
	case "api.base_url":
		return c.API.BaseURL, true
	case "api.timeout":
		return c.API.Timeout.String(), true
	case "log.level":
		return c.Log.Level, true
	case "log.format":
		return c.Log.Format, true
	case "keyring.backend":
		return c.Keyring.Backend, true
	case "keyring.file_dir":
		return c.Keyring.FileDir, true
	}
	return "", false
}

// Save writes every setting of c to the config file with 0600 permissions.
func Save(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigPermissions(0o600)
	for _, k := range Keys {
		val, _ := c.Get(k)
		v.Set(k, val)
	}
	return write(v, path)
}

// Set stores a single key in the config file, leaving other file values untouched.
func Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return apperr.New(apperr.InvalidInput, fmt.Sprintf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", ")))
	}
	if key == "api.timeout" {
		if _, err := time.ParseDuration(value); err != nil {
			return apperr.Wrap(apperr.InvalidInput, "api.timeout must be a duration such as 30s", err)
		}
	}
	path, err := Path()
	if err != nil {
		return err
	}
	v, err := fileViper(path)
	if err != nil {
		return err
	}
	v.Set(key, value)

	// validate the merged result before touching the file
	check, err := fileViper(path)
	if err != nil {
		return err
	}
	setDefaults(check)
	check.Set(key, value)
	var c Config
	if err := check.Unmarshal(&c); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return write(v, path)
}

func write(v *viper.Viper, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(path, 0o600)
}
