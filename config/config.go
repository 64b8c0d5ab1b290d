package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/driverboard/core/fleet"
	"github.com/kilianp07/driverboard/core/poll"
	"github.com/kilianp07/driverboard/infra/metrics"
	"github.com/kilianp07/driverboard/infra/mqtt"
	"github.com/kilianp07/driverboard/infra/upstream"
)

// Config is the full service configuration. Sections are owned by the
// packages they configure.
type Config struct {
	Server   ServerConfig    `json:"server"`
	Auth     AuthConfig      `json:"auth"`
	Upstream upstream.Config `json:"upstream"`
	Poll     poll.Config     `json:"poll"`
	Fleet    fleet.Config    `json:"fleet"`
	Metrics  metrics.Config  `json:"metrics"`
	MQTT     mqtt.Config     `json:"mqtt"`
}

// ServerConfig defines the API listener.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// AuthConfig holds the session signing secret.
type AuthConfig struct {
	Secret string `json:"secret"`
}

// Validate checks mandatory fields. A missing secret fails startup; the
// service never falls back to a built-in signing key.
func (c AuthConfig) Validate() error {
	if c.Secret == "" {
		return errors.New("auth secret is required")
	}
	return nil
}

// Load reads the configuration file and applies DRV_-prefixed
// environment overrides (DRV_AUTH__SECRET, DRV_UPSTREAM__BLOCKS_URL, ...).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("DRV_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "drv_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Upstream.SetDefaults()
	cfg.Poll.SetDefaults()
	cfg.Fleet.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Upstream.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
