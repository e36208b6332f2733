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

// Package presenter provides the base presenter that ties background work to
// the lifetime of an attached view.
//
// Concrete presenters embed Rx and register every subscription they start
// through AddDisposable (or start it with Subscribe, which does so). Rx has
// no way to see work that was never registered.
package presenter

import (
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/disposable"
	"dirpx.dev/apikit/logging"
	"dirpx.dev/apikit/metrics"
)

// Option configures an Rx.
type Option func(*options)

type options struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.log = logging.OrNop(l)
	}
}

// WithMetrics records disposed operations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Rx is a presenter base that tracks disposables and releases them when the
// view detaches. The zero value is ready to use.
type Rx[V apis.View] struct {
	// mu guards view, attached, gen and group.
	mu sync.Mutex
	// view is the attached view, valid only while attached is true.
	view     V
	attached bool
	// gen changes on every attach and detach.
	gen uint64
	// group holds the tracked operations. Nil until attach or the first add,
	// and again after Dispose.
	group *disposable.Group

	opts options
}

// Ensure Rx implements apis.Presenter.
var _ apis.Presenter[apis.View] = (*Rx[apis.View])(nil)

// New creates an Rx with options applied. Embedding the zero value is
// equivalent to New() with no options.
func New[V apis.View](opts ...Option) *Rx[V] {
	p := &Rx[V]{}
	p.Configure(opts...)
	return p
}

// Configure applies opts. Intended for presenters that embed Rx by value.
func (p *Rx[V]) Configure(opts ...Option) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, opt := range opts {
		opt(&p.opts)
	}
}

// AttachView stores v and starts a fresh, empty set of tracked operations.
//
// Operations tracked before a re-attach are not disposed; they are dropped
// from tracking and keep running. Call DetachView first to release them.
func (p *Rx[V]) AttachView(v V) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.group != nil {
		if n := p.group.Len(); n > 0 {
			p.logger().Warn("attach dropped tracked operations without disposing them", zap.Int("count", n))
		}
	}
	p.view = v
	p.attached = true
	p.gen++
	p.group = p.newGroup()
}

// DetachView clears the view and disposes every tracked operation.
// It is safe to call without a prior attach and to call more than once.
func (p *Rx[V]) DetachView() {
	p.mu.Lock()
	var zero V
	p.view = zero
	p.attached = false
	p.gen++
	p.mu.Unlock()

	p.Dispose()
}

// View returns the attached view.
func (p *Rx[V]) View() (V, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view, p.attached
}

// attachment returns the attached view with its generation.
func (p *Rx[V]) attachment() (V, uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view, p.gen, p.attached
}

// AddDisposable tracks d until the next Dispose or DetachView.
func (p *Rx[V]) AddDisposable(d apis.Disposable) {
	p.mu.Lock()
	if p.group == nil {
		p.group = p.newGroup()
	}
	g := p.group
	p.mu.Unlock()

	g.Add(d)
}

// Dispose cancels all tracked operations and discards the set. The view stays
// attached. Embedding presenters may call it for early cleanup.
func (p *Rx[V]) Dispose() {
	p.mu.Lock()
	g := p.group
	p.group = nil
	p.mu.Unlock()

	if g != nil {
		g.Dispose()
	}
}

// Tracked returns the number of tracked operations.
func (p *Rx[V]) Tracked() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.group == nil {
		return 0
	}
	return p.group.Len()
}

// newGroup must be called with mu held.
func (p *Rx[V]) newGroup() *disposable.Group {
	return disposable.NewGroup(
		disposable.WithLogger(p.opts.log),
		disposable.WithMetrics(p.opts.metrics),
	)
}

// logger must be called with mu held.
func (p *Rx[V]) logger() *zap.Logger {
	return logging.OrNop(p.opts.log)
}
