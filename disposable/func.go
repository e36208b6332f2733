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

package disposable

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/logging"
)

// action runs fn at most once. Errors from fn are logged and dropped.
type action struct {
	once     sync.Once
	disposed atomic.Bool
	fn       func() error
	log      *zap.Logger
}

func (a *action) Dispose() {
	a.once.Do(func() {
		a.disposed.Store(true)
		if err := a.fn(); err != nil {
			a.log.Debug("dispose failed", zap.Error(err))
		}
	})
}

func (a *action) IsDisposed() bool {
	return a.disposed.Load()
}

// Func wraps fn as a Disposable that runs fn on the first Dispose.
func Func(fn func()) apis.Disposable {
	return &action{
		fn: func() error {
			fn()
			return nil
		},
		log: zap.NewNop(),
	}
}

// Cancel wraps a context cancel function.
func Cancel(cancel context.CancelFunc) apis.Disposable {
	return Func(cancel)
}

// Closer wraps c as a Disposable. A Close error is logged at debug level on l
// and otherwise ignored.
func Closer(c io.Closer, l *zap.Logger) apis.Disposable {
	return &action{fn: c.Close, log: logging.OrNop(l)}
}

// Disposed returns a Disposable that is already disposed.
func Disposed() apis.Disposable {
	a := &action{fn: func() error { return nil }, log: zap.NewNop()}
	a.Dispose()
	return a
}
