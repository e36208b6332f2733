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

// Package metrics holds the Prometheus collectors exported by apikit.
//
// A nil *Metrics is valid everywhere and records nothing, so components can
// take it as an optional dependency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "apikit"

// Lookup results recorded by ServiceLookups.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Metrics groups the collectors registered by New.
type Metrics struct {
	// ServicesInitialized counts registry Init calls that stored an entry.
	ServicesInitialized *prometheus.CounterVec
	// ServiceLookups counts registry lookups by result.
	ServiceLookups *prometheus.CounterVec
	// DisposablesDisposed counts disposables canceled by groups.
	DisposablesDisposed prometheus.Counter
	// HTTPRequests counts outgoing requests made by service clients.
	HTTPRequests *prometheus.CounterVec
	// HTTPRequestDuration observes outgoing request latency.
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ServicesInitialized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "services_initialized_total",
			Help:      "Number of service clients built and stored in a registry.",
		}, []string{"service"}),
		ServiceLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_lookups_total",
			Help:      "Number of registry lookups by result.",
		}, []string{"service", "result"}),
		DisposablesDisposed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disposables_disposed_total",
			Help:      "Number of tracked operations canceled.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of outgoing HTTP requests by status code and method.",
		}, []string{"code", "method"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of outgoing HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.ServicesInitialized,
			m.ServiceLookups,
			m.DisposablesDisposed,
			m.HTTPRequests,
			m.HTTPRequestDuration,
		)
	}
	return m
}

// ServiceInitialized records a stored registry entry.
func (m *Metrics) ServiceInitialized(service string) {
	if m == nil {
		return
	}
	m.ServicesInitialized.WithLabelValues(service).Inc()
}

// ServiceLookup records a registry lookup.
func (m *Metrics) ServiceLookup(service string, hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.ServiceLookups.WithLabelValues(service, result).Inc()
}

// Disposed records n canceled operations.
func (m *Metrics) Disposed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DisposablesDisposed.Add(float64(n))
}

// InstrumentRoundTripper wraps next with request counting and latency
// observation. It returns next unchanged on a nil receiver.
func (m *Metrics) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if m == nil {
		return next
	}
	return promhttp.InstrumentRoundTripperCounter(m.HTTPRequests,
		promhttp.InstrumentRoundTripperDuration(m.HTTPRequestDuration, next))
}
