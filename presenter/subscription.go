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

package presenter

import (
	"context"
	"sync/atomic"

	"github.com/juju/errors"

	"dirpx.dev/apikit/apis"
)

// Subscription is a unit of background work started by Subscribe.
// Disposing it cancels the context passed to the work function.
type Subscription struct {
	cancel   context.CancelFunc
	done     chan struct{}
	err      error
	disposed atomic.Bool
}

// Ensure Subscription implements apis.Disposable.
var _ apis.Disposable = (*Subscription)(nil)

// Dispose cancels the work. Idempotent.
func (s *Subscription) Dispose() {
	s.disposed.Store(true)
	s.cancel()
}

// IsDisposed reports whether Dispose has been called.
func (s *Subscription) IsDisposed() bool {
	return s.disposed.Load()
}

// Done is closed when the work function returns.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the work function returns and reports its error.
func (s *Subscription) Wait() error {
	<-s.done
	return s.err
}

// Subscribe runs fn on a new goroutine and tracks it as a disposable.
//
// The context handed to fn derives from the attached view's context and is
// canceled when the subscription is disposed, directly or through Dispose or
// DetachView. The view attached at subscribe time is shown progress, and
// DismissProgress goes to that same attachment only, so a view attached
// while fn runs never sees an unmatched dismiss. If fn fails and the
// subscription was not disposed, the error goes to the OnError of whichever
// view is attached when fn returns.
func (p *Rx[V]) Subscribe(fn func(ctx context.Context) error) *Subscription {
	parent := context.Background()
	view, gen, attached := p.attachment()
	if attached {
		if vc := view.Context(); vc != nil {
			parent = vc
		}
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Subscription{cancel: cancel, done: make(chan struct{})}
	p.AddDisposable(s)

	if attached {
		view.ShowProgress()
	}

	go func() {
		defer close(s.done)
		defer cancel()

		s.err = fn(ctx)

		v, g, ok := p.attachment()
		if !ok {
			return
		}
		if attached && g == gen {
			v.DismissProgress()
		}
		if s.err != nil && !s.IsDisposed() && !errors.Is(s.err, context.Canceled) {
			v.OnError(s.err)
		}
	}()
	return s
}

// Load runs fetch as a subscription of p and hands its result to deliver
// with the view attached at completion time. Nothing is delivered if the view
// has detached or the subscription was disposed.
func Load[V apis.View, T any](p *Rx[V], fetch func(ctx context.Context) (T, error), deliver func(view V, val T)) *Subscription {
	return p.Subscribe(func(ctx context.Context) error {
		val, err := fetch(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if v, ok := p.View(); ok {
			deliver(v, val)
		}
		return nil
	})
}
