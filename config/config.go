// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads controller configuration from defaults, YAML and
// the process environment.
//
// Sources are layered with later sources taking priority:
//
//  1. Built-in defaults
//  2. YAML files, in the order given by WithFile
//  3. YAML bytes, in the order given by WithYAML
//  4. Environment variables with the APIX_ prefix
//
// Environment variable names are mapped to keys by dropping the prefix,
// lowercasing, and turning underscores into dots, so APIX_RETRY_BACKOFF
// sets retry.backoff.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"golang.org/x/net/http/httpguts"
)

// DefaultEnvPrefix is the environment variable prefix used unless
// WithEnvPrefix says otherwise.
const DefaultEnvPrefix = "APIX_"

// Environment names.
const (
	EnvLive    = "live"
	EnvTest    = "test"
	EnvPreview = "preview"
)

// Config is the complete controller configuration.
type Config struct {
	Environment string          `koanf:"environment" validate:"oneof=live test preview"`
	Transport   TransportConfig `koanf:"transport"`
	Retry       RetryConfig     `koanf:"retry"`
	Preview     PreviewConfig   `koanf:"preview"`
	Log         LogConfig       `koanf:"log"`
	Request     RequestConfig   `koanf:"request"`
	RateLimit   RateLimitConfig `koanf:"ratelimit"`
}

// TransportConfig configures the HTTP transport.
type TransportConfig struct {
	// Timeout is the per-attempt timeout. Zero means no timeout.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

// RetryConfig configures retry backoff. The number of retries is a
// property of each endpoint.
type RetryConfig struct {
	// Backoff is the linear backoff unit. Retry n waits Backoff*(n+1).
	Backoff time.Duration `koanf:"backoff" validate:"gte=0"`
}

// PreviewConfig configures the preview environment.
type PreviewConfig struct {
	// Delay is how long sample data executions wait before returning.
	// A negative delay disables it.
	Delay time.Duration `koanf:"delay"`
}

// LogConfig configures request logging.
type LogConfig struct {
	Level   string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Pretty  bool   `koanf:"pretty"`
	Enabled bool   `koanf:"enabled"`
	// Buffer is the capacity of the log dispatcher.
	Buffer int `koanf:"buffer" validate:"gte=1"`
}

// RequestConfig configures outgoing requests.
type RequestConfig struct {
	// IDHeader, if not empty, names a header which carries the
	// execution ID on every attempt.
	IDHeader string `koanf:"idheader" validate:"omitempty,headername"`
}

// RateLimitConfig limits the attempt rate of one controller.
type RateLimitConfig struct {
	// RPS is the sustained attempts per second. Zero means unlimited.
	RPS float64 `koanf:"rps" validate:"gte=0"`
	// Burst is the bucket size. Values below one are treated as one
	// when RPS is set.
	Burst int `koanf:"burst" validate:"gte=0"`
}

// Defaults returns the built-in defaults as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"environment":       EnvLive,
		"transport.timeout": "0s",
		"retry.backoff":     "500ms",
		"preview.delay":     "1s",
		"log.level":         "info",
		"log.pretty":        false,
		"log.enabled":       true,
		"log.buffer":        256,
		"request.idheader":  "",
		"ratelimit.rps":     0,
		"ratelimit.burst":   0,
	}
}

// An Option changes how Load assembles its sources.
type Option func(*loader)

type loader struct {
	files     []string
	yaml      [][]byte
	envPrefix string
}

// WithFile adds a YAML file source. The file must exist.
func WithFile(path string) Option {
	return func(l *loader) {
		l.files = append(l.files, path)
	}
}

// WithYAML adds an in-memory YAML source.
func WithYAML(b []byte) Option {
	return func(l *loader) {
		l.yaml = append(l.yaml, b)
	}
}

// WithEnvPrefix changes the environment variable prefix. An empty
// prefix disables the environment source.
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}

// Load assembles and validates a Config.
func Load(opts ...Option) (*Config, error) {
	l := loader{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&l)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load defaults: %w", err)
	}
	for _, path := range l.files {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: failed to load %s: %w", path, err)
		}
	}
	for i, b := range l.yaml {
		if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: failed to parse YAML source %d: %w", i, err)
		}
	}
	if l.envPrefix != "" {
		prefix := l.envPrefix
		err := k.Load(envprovider.Provider(".", envprovider.Opt{
			Prefix: prefix,
			TransformFunc: func(key, value string) (string, any) {
				key = strings.TrimPrefix(key, prefix)
				return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
			},
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("config: failed to load environment variables: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("headername", func(fl validator.FieldLevel) bool {
		return httpguts.ValidHeaderFieldName(fl.Field().String())
	})
	return v
}

// Validate checks cfg and reports the first invalid field.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("config: invalid %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("config: %w", err)
}
