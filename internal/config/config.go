// Package config loads the server binary's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "75s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the on-disk server configuration. Every field has a working
// default so an empty file (or no file at all) yields a runnable server.
type Config struct {
	Listen  string  `yaml:"listen"`
	Redis   Redis   `yaml:"redis"`
	Session Session `yaml:"session"`
	Screen  Screen  `yaml:"screen"`
	Log     Log     `yaml:"log"`
}

type Redis struct {
	// URL takes precedence over Addr when set, e.g. redis://localhost:6379/0.
	URL      string `yaml:"url"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Session struct {
	KeyPrefix string   `yaml:"key_prefix"`
	TTL       Duration `yaml:"ttl"`
	StateTTL  Duration `yaml:"state_ttl"`
}

type Screen struct {
	MaxPageLength int `yaml:"max_page_length"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen: ":8080",
		Redis: Redis{
			Addr: "localhost:6379",
		},
		Session: Session{
			KeyPrefix: "ussd.app.session",
			TTL:       Duration(75 * time.Second),
			StateTTL:  Duration(120 * time.Second),
		},
		Screen: Screen{
			MaxPageLength: 182,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads path and overlays it on the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.Redis.URL == "" && c.Redis.Addr == "" {
		return fmt.Errorf("redis url or addr is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Screen.MaxPageLength <= 4 {
		return fmt.Errorf("max page length must exceed the response tag")
	}
	return nil
}
