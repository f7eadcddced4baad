// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apix

import (
	"errors"

	"github.com/gogama/apix/config"
	"github.com/gogama/apix/fault"
	"github.com/gogama/apix/logger"
	"github.com/gogama/apix/retry"
	"github.com/gogama/apix/timeout"
	"golang.org/x/time/rate"
)

// An Option customizes a Controller built by NewFromConfig. Options
// are applied in order after the configuration, so they take priority
// over it.
type Option func(*Controller)

// WithInterceptor sets the controller's Interceptor.
func WithInterceptor(ic Interceptor) Option {
	return func(c *Controller) {
		c.Interceptor = ic
	}
}

// WithHTTPDoer sets the controller's HTTPDoer.
func WithHTTPDoer(d HTTPDoer) Option {
	return func(c *Controller) {
		c.HTTPDoer = d
	}
}

// WithHandlers sets the controller's handler group.
func WithHandlers(h *HandlerGroup) Option {
	return func(c *Controller) {
		c.Handlers = h
	}
}

// WithLogger replaces the logger built from the configuration. A nil
// logger disables logging.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		c.Logger = l
	}
}

// WithLogFilter sets the filter which masks sensitive log values.
func WithLogFilter(f *logger.Filter) Option {
	return func(c *Controller) {
		c.LogFilter = f
	}
}

// WithRetryPolicy replaces the linear backoff retry policy built from
// the configuration.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Controller) {
		c.RetryPolicy = p
	}
}

// WithErrorBody sets the factory for application error bodies.
func WithErrorBody(f func() error) Option {
	return func(c *Controller) {
		c.ErrorBody = f
	}
}

// WithMapError sets the conversion from fault errors to application
// errors.
func WithMapError(f func(*fault.Error) error) Option {
	return func(c *Controller) {
		c.MapError = f
	}
}

// NewFromConfig builds a Controller from cfg. The configuration is
// validated first.
//
// The controller's timeout policy is a fixed policy of
// cfg.Transport.Timeout, where zero means no timeout. Its retry policy
// retries failed attempts up to each endpoint's retry count, waiting
// cfg.Retry.Backoff times the retry number between attempts. A logger
// is built unless logging is disabled.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("apix: nil config")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	env, err := ParseEnvironment(cfg.Environment)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		Environment:     env,
		RetryPolicy:     retry.Linear(cfg.Retry.Backoff),
		TimeoutPolicy:   timeout.Fixed(cfg.Transport.Timeout),
		PreviewDelay:    cfg.Preview.Delay,
		LogBuffer:       cfg.Log.Buffer,
		RequestIDHeader: cfg.Request.IDHeader,
	}
	if cfg.Log.Enabled && cfg.Log.Level != "disabled" {
		c.Logger = logger.New(cfg.Log.Level, cfg.Log.Pretty)
	}
	if cfg.RateLimit.RPS > 0 {
		burst := cfg.RateLimit.Burst
		if burst < 1 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), burst)
	}

	for _, opt := range opts {
		if opt == nil {
			return nil, errors.New("apix: nil option")
		}
		opt(c)
	}
	return c, nil
}
