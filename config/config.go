/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/juju/errors"

	"dirpx.dev/apikit/apis"
)

const (
	// DefaultTimeout is the default for the connect, write and read timeouts.
	DefaultTimeout = 10 * time.Second
	// DefaultBurst is the default limiter bucket size.
	DefaultBurst = 1
	// DefaultUserAgent is sent when no other user agent is configured.
	DefaultUserAgent = "apikit"
)

// NewTransport constructs an apis.Transport from the given options.
func NewTransport(opts ...Option) apis.Transport {
	cfg := DefaultTransport()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure timeouts are valid.
	if cfg.ConnectTimeout < 0 {
		cfg.ConnectTimeout = DefaultTimeout
	}
	if cfg.WriteTimeout < 0 {
		cfg.WriteTimeout = DefaultTimeout
	}
	if cfg.ReadTimeout < 0 {
		cfg.ReadTimeout = DefaultTimeout
	}
	return cfg
}

// DefaultTransport is the configuration used when none is provided:
// 10 second connect, write and read timeouts and no rate limit.
func DefaultTransport() apis.Transport {
	return apis.Transport{
		ConnectTimeout: DefaultTimeout,
		WriteTimeout:   DefaultTimeout,
		ReadTimeout:    DefaultTimeout,
		Burst:          DefaultBurst,
		UserAgent:      DefaultUserAgent,
	}
}

// Option is a functional option that mutates an apis.Transport during construction.
type Option func(*apis.Transport)

// WithTimeout sets connect, write and read timeouts at once.
func WithTimeout(d time.Duration) Option {
	return func(c *apis.Transport) {
		c.ConnectTimeout = d
		c.WriteTimeout = d
		c.ReadTimeout = d
	}
}

// WithConnectTimeout sets the ConnectTimeout option.
// A negative value resets to the default.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *apis.Transport) {
		c.ConnectTimeout = d
	}
}

// WithWriteTimeout sets the WriteTimeout option.
// A negative value resets to the default.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *apis.Transport) {
		c.WriteTimeout = d
	}
}

// WithReadTimeout sets the ReadTimeout option.
// A negative value resets to the default.
func WithReadTimeout(d time.Duration) Option {
	return func(c *apis.Transport) {
		c.ReadTimeout = d
	}
}

// WithRateLimit caps requests per second with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *apis.Transport) {
		c.RateLimit = perSecond
		c.Burst = burst
	}
}

// WithUserAgent sets the UserAgent option.
func WithUserAgent(ua string) Option {
	return func(c *apis.Transport) {
		c.UserAgent = ua
	}
}

// ParseBaseURL validates raw as a service base URL and parses it.
// It must be non-empty, end with "/", and be an absolute http or https URL.
// Every failure satisfies errors.Is(err, errors.NotValid).
func ParseBaseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.NotValidf("empty base URL")
	}
	if !strings.HasSuffix(raw, "/") {
		return nil, errors.NotValidf("base URL %q without trailing /", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.NotValidf("base URL %q (%v)", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.NotValidf("base URL %q scheme", raw)
	}
	if u.Host == "" {
		return nil, errors.NotValidf("base URL %q without host", raw)
	}
	return u, nil
}
