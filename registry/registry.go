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

// Package registry caches constructed service clients keyed by service
// identity.
//
// A Registry holds at most one instance per key. Init validates the base URL,
// builds a transport and client through the active apis.Builder, runs the
// service factory and stores the result, overwriting any previous instance
// for that key. Get returns the cached instance and never initializes on a
// miss. Entries are never removed.
package registry

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/builder"
	"dirpx.dev/apikit/config"
	"dirpx.dev/apikit/logging"
	"dirpx.dev/apikit/metrics"
)

// ErrNotInitialized is returned by Get for a key that was never initialized.
const ErrNotInitialized = errors.ConstError("service not initialized")

// Option configures how a Registry builds new entries.
type Option func(*policy)

// WithBuilder sets the builder used for new entries. Nil is ignored.
func WithBuilder(b apis.Builder) Option {
	return func(p *policy) {
		if b != nil {
			p.bld = b
		}
	}
}

// WithTransport sets the transport configuration used when Init is given no
// HTTP client.
func WithTransport(t apis.Transport) Option {
	return func(p *policy) {
		p.tr = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *policy) {
		p.log = logging.OrNop(l)
	}
}

// WithMetrics records initializations and lookups.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *policy) {
		p.metrics = m
	}
}

// policy is an immutable snapshot of construction settings. Writers build a
// new policy and swap it in; Init loads it once.
type policy struct {
	bld     apis.Builder
	tr      apis.Transport
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Registry is a concurrency-safe service cache backed by sync.Map.
type Registry struct {
	// pol is the current construction policy.
	pol atomic.Pointer[policy]
	// polMu serializes policy writers.
	polMu sync.Mutex
	// mu guards write-side consistency and counter.
	mu sync.Mutex
	// m maps apis.Key to *entry.
	m sync.Map
	// count tracks the number of cached services.
	count int
}

// entry is a cached service. Immutable once stored.
type entry struct {
	baseURL string
	svc     any
	// typ is the service type the entry was initialized as.
	typ reflect.Type
}

// Ensure Registry implements apis.Registry.
var _ apis.Registry = (*Registry)(nil)

// New constructs an empty Registry using the default builder and transport
// configuration unless overridden by opts.
func New(opts ...Option) *Registry {
	p := &policy{
		bld: builder.New(),
		tr:  config.DefaultTransport(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	r := &Registry{}
	r.pol.Store(p)
	return r
}

// Configure applies opts to the construction policy. Entries already cached
// keep the client they were built with.
func (r *Registry) Configure(opts ...Option) {
	r.polMu.Lock()
	defer r.polMu.Unlock()

	// Copy the old policy and apply opts to the copy.
	np := *r.pol.Load()
	for _, opt := range opts {
		opt(&np)
	}
	r.pol.Store(&np)
}

// Builder returns the builder used for new entries.
func (r *Registry) Builder() apis.Builder {
	return r.pol.Load().bld
}

// Transport returns the transport configuration used for new entries.
func (r *Registry) Transport() apis.Transport {
	return r.pol.Load().tr
}

// Lookup returns the cached service for key if present.
func (r *Registry) Lookup(key apis.Key) (any, bool) {
	e, ok := r.load(key)
	if !ok {
		return nil, false
	}
	return e.svc, true
}

// Entries returns a snapshot for diagnostics (order is unspecified).
func (r *Registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		e := value.(*entry)
		entries = append(entries, apis.Entry{
			Key:     key.(apis.Key),
			BaseURL: e.baseURL,
			Service: e.svc,
		})
		return true
	})
	return entries
}

// Count returns the number of cached services.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// load returns the entry cached for key.
func (r *Registry) load(key apis.Key) (*entry, bool) {
	v, ok := r.m.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

// store publishes svc of type typ under key, replacing any previous entry.
func (r *Registry) store(key apis.Key, baseURL string, svc any, typ reflect.Type) (replaced bool) {
	// Guard with a mutex to keep the counter consistent with the map.
	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced = r.m.Swap(key, &entry{baseURL: baseURL, svc: svc, typ: typ})
	if !replaced {
		r.count++
	}
	return replaced
}
