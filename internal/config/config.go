package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"taskloop/internal/carousel"
)

type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Log      LogConfig      `yaml:"log" json:"log"`
	Store    StoreConfig    `yaml:"store" json:"store"`
	Carousel CarouselConfig `yaml:"carousel" json:"carousel"`
	Client   ClientConfig   `yaml:"client" json:"client"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" json:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	// File switches output from stderr to a rotating file.
	File       string `yaml:"file" json:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

type StoreConfig struct {
	Seed bool `yaml:"seed" json:"seed"`
}

type CarouselConfig struct {
	Duration    time.Duration `yaml:"duration" json:"duration"`
	Easing      string        `yaml:"easing" json:"easing"`
	LockTimeout time.Duration `yaml:"lock_timeout" json:"lock_timeout"`
	NarrowBelow float64       `yaml:"narrow_below" json:"narrow_below"`
	NarrowSlots int           `yaml:"narrow_slots" json:"narrow_slots"`
	WideSlots   int           `yaml:"wide_slots" json:"wide_slots"`
}

type ClientConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

func Default() *Config {
	bp := carousel.DefaultBreakpoints()
	return &Config{
		Server: ServerConfig{
			Addr:            ":5000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Store: StoreConfig{Seed: true},
		Carousel: CarouselConfig{
			Duration:    carousel.DefaultDuration,
			Easing:      carousel.DefaultEasing,
			NarrowBelow: bp.NarrowBelow,
			NarrowSlots: bp.Narrow,
			WideSlots:   bp.Wide,
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 10 * time.Second,
		},
	}
}

// CarouselOptions converts the carousel section into engine options.
func (c CarouselConfig) CarouselOptions() carousel.Options {
	return carousel.Options{
		Breakpoints: carousel.Breakpoints{
			NarrowBelow: c.NarrowBelow,
			Narrow:      c.NarrowSlots,
			Wide:        c.WideSlots,
		},
		Duration:    c.Duration,
		Easing:      c.Easing,
		LockTimeout: c.LockTimeout,
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	for name, d := range map[string]time.Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"client.timeout":          c.Client.Timeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}

	if c.Carousel.Duration < 0 {
		errs = append(errs, errors.New("carousel.duration must not be negative"))
	}
	if c.Carousel.NarrowSlots < 1 || c.Carousel.WideSlots < 1 {
		errs = append(errs, errors.New("carousel slot counts must be at least 1"))
	}
	if c.Carousel.NarrowBelow < 0 {
		errs = append(errs, errors.New("carousel.narrow_below must not be negative"))
	}

	if u, err := url.Parse(c.Client.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("client.base_url %q must be an absolute URL", c.Client.BaseURL))
	}

	return errors.Join(errs...)
}
