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

package builder

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/client"
	"dirpx.dev/apikit/logging"
	"dirpx.dev/apikit/metrics"
	"dirpx.dev/apikit/transport"
)

// Option configures the default builder.
type Option func(*builder)

// WithLogger sets the logger handed to built clients.
func WithLogger(l *zap.Logger) Option {
	return func(b *builder) {
		b.log = logging.OrNop(l)
	}
}

// WithMetrics instruments built HTTP clients.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *builder) {
		b.metrics = m
	}
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// builder builds dialing HTTP clients through the transport package and JSON
// clients through the client package.
type builder struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

// BuildHTTPClient builds a new HTTP client honoring the timeouts and rate
// limit in cfg.
func (b *builder) BuildHTTPClient(cfg apis.Transport) *http.Client {
	return transport.New(cfg, transport.WithMetrics(b.metrics))
}

// BuildClient binds hc to base. The configured user agent is applied to
// every request.
func (b *builder) BuildClient(base *url.URL, hc *http.Client, cfg apis.Transport) apis.Client {
	return client.New(base, hc,
		client.WithUserAgent(cfg.UserAgent),
		client.WithLogger(b.log.With(zap.String("base_url", base.String()))),
	)
}
