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

// Package disposable provides cancellation groups: ordered bags of
// apis.Disposable handles released together with a single Dispose call.
package disposable

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/logging"
	"dirpx.dev/apikit/metrics"
)

// Option configures a Group.
type Option func(*Group)

// WithLogger sets the logger used to report swallowed dispose failures.
func WithLogger(l *zap.Logger) Option {
	return func(g *Group) {
		g.log = logging.OrNop(l)
	}
}

// WithMetrics records canceled operations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Group) {
		g.metrics = m
	}
}

// Group is an ordered container of disposables with a single Dispose that
// cancels every member. It is safe for concurrent use.
//
// Once disposed, a Group stays disposed: members added later are disposed
// immediately instead of being tracked.
type Group struct {
	// mu guards items and disposed.
	mu sync.Mutex
	// items are the tracked members in insertion order. May contain nils.
	items []apis.Disposable
	// disposed is set by the first Dispose call.
	disposed bool

	log     *zap.Logger
	metrics *metrics.Metrics
}

// Ensure Group implements apis.Disposable.
var _ apis.Disposable = (*Group)(nil)

// NewGroup creates an empty Group.
func NewGroup(opts ...Option) *Group {
	g := &Group{log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add appends ds to the group. There is no deduplication. If the group was
// already disposed, ds are disposed right away.
func (g *Group) Add(ds ...apis.Disposable) {
	g.mu.Lock()
	if !g.disposed {
		g.items = append(g.items, ds...)
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	g.release(ds)
}

// Len returns the number of tracked members, nils included.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.items)
}

// Dispose cancels every tracked member exactly once and empties the group.
// Nil members are skipped. A member whose Dispose panics is logged and the
// remaining members are still disposed. Subsequent calls are no-ops.
func (g *Group) Dispose() {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		return
	}
	g.disposed = true
	items := g.items
	g.items = nil
	g.mu.Unlock()

	g.release(items)
}

// IsDisposed reports whether Dispose has been called.
func (g *Group) IsDisposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposed
}

// release disposes ds outside the lock so members may call back into g.
func (g *Group) release(ds []apis.Disposable) {
	n := 0
	for _, d := range ds {
		if isNil(d) {
			continue
		}
		if g.safeDispose(d) {
			n++
		}
	}
	g.metrics.Disposed(n)
}

// safeDispose calls d.Dispose and reports whether it returned normally.
func (g *Group) safeDispose(d apis.Disposable) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Warn("dispose panicked", zap.Any("panic", r), zap.String("type", reflect.TypeOf(d).String()))
			ok = false
		}
	}()
	d.Dispose()
	return true
}

// isNil reports whether d is a nil interface or wraps a nil pointer.
func isNil(d apis.Disposable) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Chan, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}
