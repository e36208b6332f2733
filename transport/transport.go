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

// Package transport builds the HTTP clients service clients are bound to.
package transport

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/metrics"
)

const (
	// keepAlive is the TCP keep-alive period of dialed connections.
	keepAlive = 30 * time.Second
	// idleConnTimeout bounds how long an idle pooled connection is kept.
	idleConnTimeout = 90 * time.Second
)

// Option configures New.
type Option func(*options)

type options struct {
	metrics *metrics.Metrics
	base    http.RoundTripper
}

// WithMetrics instruments the client with request counters and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithRoundTripper replaces the dialing transport. Timeouts in cfg that are
// enforced by the dialer no longer apply; rate limiting and metrics still do.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) {
		o.base = rt
	}
}

// New builds an HTTP client from cfg.
//
// ConnectTimeout bounds dialing and the TLS handshake. ReadTimeout and
// WriteTimeout bound each individual read or write on a connection, so a slow
// but steady response does not fail while a stalled one does. A zero timeout
// disables the corresponding bound. Timeouts are fixed for the client's life.
func New(cfg apis.Transport, opts ...Option) *http.Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rt := o.base
	if rt == nil {
		rt = newTransport(cfg)
	}
	if cfg.RateLimit > 0 {
		rt = NewRateLimited(rt, cfg.RateLimit, cfg.Burst)
	}
	rt = o.metrics.InstrumentRoundTripper(rt)

	return &http.Client{Transport: rt}
}

// newTransport creates the dialing transport.
func newTransport(cfg apis.Transport) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: keepAlive,
	}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &deadlineConn{Conn: conn, read: cfg.ReadTimeout, write: cfg.WriteTimeout}, nil
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ExpectContinueTimeout: time.Second,
	}
}

// deadlineConn arms a fresh deadline before every read and write.
type deadlineConn struct {
	net.Conn
	read  time.Duration
	write time.Duration
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if c.read > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.read)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if c.write > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.write)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(b)
}

// rateLimited delays requests to respect a token bucket.
type rateLimited struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

// NewRateLimited wraps next so that at most perSecond requests start per
// second, with bursts up to burst. A burst below one is treated as one.
func NewRateLimited(next http.RoundTripper, perSecond float64, burst int) http.RoundTripper {
	if burst < 1 {
		burst = 1
	}
	return &rateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// RoundTrip waits for a token, or for the request context to end.
func (r *rateLimited) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := r.limiter.Wait(req.Context()); err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}
	return r.next.RoundTrip(req)
}
