package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/catalystcommunity/livedns/internal/credentials"
	"github.com/catalystcommunity/livedns/internal/livedns"
	"github.com/catalystcommunity/livedns/internal/logging"
	"github.com/catalystcommunity/livedns/internal/output"
	"github.com/catalystcommunity/livedns/internal/zonefile"
)

// Config holds everything a command needs, built once before it runs
type Config struct {
	APIURL   string    `yaml:"api_url,omitempty"`
	KeyFile  string    `yaml:"key_file,omitempty"`
	ZonesDir string    `yaml:"zones_dir,omitempty"`
	Color    string    `yaml:"color,omitempty"`
	Log      LogConfig `yaml:"log,omitempty"`

	// APIKey is resolved at startup, never read from or written to the file
	APIKey string `yaml:"-"`
}

// LogConfig defines diagnostic logging settings
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns a Config with every field set to its default
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields
func (c *Config) ApplyDefaults() {
	if c.APIURL == "" {
		c.APIURL = livedns.DefaultBaseURL
	}
	if c.KeyFile == "" {
		c.KeyFile = credentials.DefaultKeyFile
	}
	if c.ZonesDir == "" {
		c.ZonesDir = zonefile.DefaultDir
	}
	if c.Color == "" {
		c.Color = output.ColorAuto
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = logging.FormatText
	}
}

// Validate performs validation on the Config struct
func (c *Config) Validate() error {
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil {
			return fmt.Errorf("invalid api_url %q: %w", c.APIURL, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api_url must be an absolute http(s) URL, got %q", c.APIURL)
		}
	}

	if c.Color != "" && !output.ValidColorMode(c.Color) {
		return fmt.Errorf("color must be one of auto, always, never, got %q", c.Color)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}

	return nil
}
