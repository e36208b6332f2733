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

// Package client is a small JSON-over-HTTP client bound to a base URL.
// Service implementations wrap a *Client and expose typed methods.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/logging"
)

const (
	// HeaderRequestID carries a per-request identifier.
	HeaderRequestID = "X-Request-ID"
	// maxErrorBody caps how much of a failed response body is kept.
	maxErrorBody = 4 << 10
	contentJSON  = "application/json"
)

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	// Method and URL identify the request.
	Method string
	URL    string
	// Code is the HTTP status code.
	Code int
	// Body is the beginning of the response body.
	Body string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = logging.OrNop(l)
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// Client sends JSON requests relative to a base URL. It is safe for
// concurrent use.
type Client struct {
	base      *url.URL
	hc        *http.Client
	userAgent string
	header    http.Header
	log       *zap.Logger
}

// Ensure Client implements apis.Client.
var _ apis.Client = (*Client)(nil)

// New binds hc to base. base should end with "/" so that relative paths
// resolve below it. A nil hc means http.DefaultClient.
func New(base *url.URL, hc *http.Client, opts ...Option) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	c := &Client{
		base:   base,
		hc:     hc,
		header: make(http.Header),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the URL requests are resolved against.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.hc
}

// Get sends a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

// Put sends in as JSON and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, in, out)
}

// Delete sends a DELETE and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends a request for path, resolved against the base URL. Leading "/"
// are dropped, and a path that carries a scheme or host or whose dot segments
// climb above the base fails with an errors.NotValid error before anything is
// sent. A nil in sends no body; a nil out discards the response body. Non-2xx
// responses yield *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	target, err := c.resolve(path)
	if err != nil {
		return errors.Trace(err)
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Annotatef(err, "encode %s %s", method, target)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return errors.Trace(err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", contentJSON)
	if in != nil {
		req.Header.Set("Content-Type", contentJSON)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	reqID := uuid.NewString()
	req.Header.Set(HeaderRequestID, reqID)

	log := c.log.With(zap.String("method", method), zap.String("url", target.String()), zap.String("request_id", reqID))
	log.Debug("sending request")

	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.Annotatef(err, "%s %s", method, target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Debug("request failed", zap.Int("status", resp.StatusCode))
		return &StatusError{
			Method: method,
			URL:    target.String(),
			Code:   resp.StatusCode,
			Body:   string(snippet),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Annotatef(err, "decode %s %s", method, target)
	}
	return nil
}

// resolve turns path into an absolute URL below the base.
func (c *Client) resolve(path string) (*url.URL, error) {
	rel, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, errors.NotValidf("path %q", path)
	}
	if rel.IsAbs() || rel.Host != "" || rel.User != nil {
		return nil, errors.NotValidf("path %q with scheme or host", path)
	}
	target := c.base.ResolveReference(rel)
	if !strings.HasPrefix(target.EscapedPath(), c.basePath()) {
		return nil, errors.NotValidf("path %q outside base URL %s", path, c.base)
	}
	return target, nil
}

// basePath is the escaped base path up to and including its last "/".
func (c *Client) basePath() string {
	p := c.base.EscapedPath()
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i+1]
	}
	return "/"
}
