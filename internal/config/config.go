// Package config provides configuration loading for vtcli.
// The config file is INI formatted with the API key under the [vt] section.
// Values may be overridden by environment variables (VTCLI_VT_*).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/buemura/vtcli/internal/vtapi"
	"github.com/spf13/viper"
)

const (
	// DefaultPath is the config file used when --config is not given.
	DefaultPath = "~/.vtapi"

	// DefaultBaseURL is the VirusTotal private API v2 endpoint.
	DefaultBaseURL = vtapi.DefaultBaseURL

	// DefaultTimeout bounds every HTTP call made by the API client.
	DefaultTimeout = 60 * time.Second
)

var (
	ErrConfigNotFound = errors.New("config file does not exist")
	ErrMissingAPIKey  = errors.New("an API key must be specified")
)

// Section holds the keys of the [vt] section.
type Section struct {
	APIKey  string        `mapstructure:"apikey"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type fileLayout struct {
	VT Section `mapstructure:"vt"`
}

// Config is the resolved, read-only configuration for a single run.
type Config struct {
	Path    string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Defaults returns a Config populated with default values.
func Defaults() Config {
	return Config{
		Path:    DefaultPath,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Load reads the INI config file at path (a leading ~ is expanded) and
// applies VTCLI_VT_* environment overrides. The file must exist and must
// provide a non-empty [vt] apikey.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	path = ExpandPath(path)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: '%s'", ErrConfigNotFound, path)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("ini")

	v.SetEnvPrefix("VTCLI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"vt.apikey", "vt.base_url", "vt.timeout"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file '%s': %w", path, err)
	}

	var layout fileLayout
	if err := v.Unmarshal(&layout); err != nil {
		return nil, fmt.Errorf("unmarshaling config file '%s': %w", path, err)
	}

	cfg := Defaults()
	cfg.Path = path
	cfg.APIKey = strings.TrimSpace(layout.VT.APIKey)
	if layout.VT.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(layout.VT.BaseURL, "/")
	}
	if layout.VT.Timeout > 0 {
		cfg.Timeout = layout.VT.Timeout
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w in '%s'", ErrMissingAPIKey, path)
	}

	return &cfg, nil
}

// ExpandPath replaces a leading ~ with the current user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("vt.base_url", DefaultBaseURL)
	v.SetDefault("vt.timeout", DefaultTimeout)
}
