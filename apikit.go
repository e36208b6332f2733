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

package apikit

import (
	"net/http"
	"sync/atomic"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/registry"
)

// init publishes the process-wide registry.
func init() {
	global.Store(registry.New())
}

// global holds the process-wide registry. It is stored once in init and
// never replaced, so every caller of Instance gets the same pointer.
var global atomic.Pointer[registry.Registry]

// Instance returns the process-wide service registry.
func Instance() *registry.Registry {
	return global.Load()
}

// Init builds the service described by svc against baseURL and caches it in
// the process-wide registry. See registry.Init.
func Init[S any](svc registry.Service[S], baseURL string, hc *http.Client) error {
	return registry.Init(Instance(), svc, baseURL, hc)
}

// Get returns the instance cached for svc in the process-wide registry.
// It fails with registry.ErrNotInitialized if Init was never called for it.
func Get[S any](svc registry.Service[S]) (S, error) {
	return registry.Get(Instance(), svc)
}

// MustGet is like Get but panics on error.
func MustGet[S any](svc registry.Service[S]) S {
	return registry.MustGet(Instance(), svc)
}

// Configure applies opts to the process-wide registry. Services already
// initialized keep the clients they were built with.
func Configure(opts ...registry.Option) {
	Instance().Configure(opts...)
}

// Builder returns the builder of the process-wide registry.
func Builder() apis.Builder {
	return Instance().Builder()
}

// SetBuilder replaces the builder of the process-wide registry. Nil is
// ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	Configure(registry.WithBuilder(b))
}

// Transport returns the transport configuration of the process-wide
// registry.
func Transport() apis.Transport {
	return Instance().Transport()
}

// SetTransport replaces the transport configuration used for services
// initialized without an HTTP client.
func SetTransport(t apis.Transport) {
	Configure(registry.WithTransport(t))
}
