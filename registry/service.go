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

package registry

import (
	"net/http"
	"reflect"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"dirpx.dev/apikit/apis"
	"dirpx.dev/apikit/config"
	uref "dirpx.dev/apikit/utils/reflect"
)

// Factory turns a client bound to a base URL into a service implementation.
type Factory[S any] func(c apis.Client) S

// Service describes a service of type S: its key and how to build it.
// The type parameter makes Get type-safe at the call site.
type Service[S any] struct {
	key     apis.Key
	factory Factory[S]
}

// NewService describes a service with an explicit key.
func NewService[S any](key apis.Key, factory Factory[S]) Service[S] {
	return Service[S]{key: key, factory: factory}
}

// ServiceFor describes a service keyed by the fully qualified name of S,
// e.g. "example.com/users.Service". S must be a named, non-builtin type.
func ServiceFor[S any](factory Factory[S]) (Service[S], error) {
	name, err := uref.NameOf[S]()
	if err != nil {
		return Service[S]{}, errors.NotValidf("service type (%v)", err)
	}
	return NewService(apis.Key(name), factory), nil
}

// MustServiceFor is like ServiceFor but panics on error. Intended for
// package-level service declarations.
func MustServiceFor[S any](factory Factory[S]) Service[S] {
	s, err := ServiceFor(factory)
	if err != nil {
		panic(err)
	}
	return s
}

// Key returns the service identity.
func (s Service[S]) Key() apis.Key {
	return s.key
}

// Init builds the service described by svc against baseURL and caches it in
// r, replacing any previous instance for the same key.
//
// baseURL must be a non-empty absolute http(s) URL ending in "/"; otherwise
// Init fails with an errors.NotValid error before anything is built. If hc is
// nil, an HTTP client is built from the registry's transport configuration
// (10 second connect, write and read timeouts unless configured otherwise).
func Init[S any](r *Registry, svc Service[S], baseURL string, hc *http.Client) error {
	if svc.key == "" {
		return errors.NotValidf("empty service key")
	}
	if svc.factory == nil {
		return errors.NotValidf("nil factory for service %q", svc.key)
	}
	base, err := config.ParseBaseURL(baseURL)
	if err != nil {
		return errors.Annotatef(err, "init service %q", svc.key)
	}

	p := r.pol.Load()
	if hc == nil {
		hc = p.bld.BuildHTTPClient(p.tr)
	}
	c := p.bld.BuildClient(base, hc, p.tr)
	instance := svc.factory(c)

	replaced := r.store(svc.key, base.String(), instance, reflect.TypeFor[S]())
	p.metrics.ServiceInitialized(svc.key.String())
	p.log.Info("service initialized",
		zap.String("service", svc.key.String()),
		zap.String("base_url", base.String()),
		zap.Bool("replaced", replaced),
	)
	return nil
}

// Get returns the cached instance for svc. It fails with ErrNotInitialized
// if Init was never called for the key; it never initializes on a miss.
// The entry must have been initialized with the same service type S;
// structurally compatible interfaces under the same key are rejected with
// an errors.NotValid error.
func Get[S any](r *Registry, svc Service[S]) (S, error) {
	var zero S

	e, ok := r.load(svc.key)
	r.pol.Load().metrics.ServiceLookup(svc.key.String(), ok)
	if !ok {
		return zero, errors.Annotatef(ErrNotInitialized, "you must init %q first", svc.key)
	}
	if want := reflect.TypeFor[S](); e.typ != want {
		return zero, errors.NotValidf("cached service %q of type %v requested as %v", svc.key, e.typ, want)
	}
	s, ok := e.svc.(S)
	if !ok {
		return zero, errors.NotValidf("cached service %q of type %T", svc.key, e.svc)
	}
	return s, nil
}

// MustGet is like Get but panics on error, for call sites where a missing
// service is an integration mistake.
func MustGet[S any](r *Registry, svc Service[S]) S {
	s, err := Get(r, svc)
	if err != nil {
		panic(err)
	}
	return s
}
