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

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/apikit/metrics"
)

func TestNew_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ServiceInitialized("svc")
	m.ServiceLookup("svc", true)
	m.Disposed(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["apikit_services_initialized_total"])
	assert.True(t, names["apikit_service_lookups_total"])
	assert.True(t, names["apikit_disposables_disposed_total"])
}

func TestCounters(t *testing.T) {
	m := metrics.New(nil)

	m.ServiceInitialized("a")
	m.ServiceInitialized("a")
	m.ServiceLookup("a", true)
	m.ServiceLookup("a", false)
	m.ServiceLookup("a", false)
	m.Disposed(3)
	m.Disposed(0)
	m.Disposed(-1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ServicesInitialized.WithLabelValues("a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceLookups.WithLabelValues("a", metrics.ResultHit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ServiceLookups.WithLabelValues("a", metrics.ResultMiss)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DisposablesDisposed))
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ServiceInitialized("a")
		m.ServiceLookup("a", true)
		m.Disposed(5)
	})
	assert.Equal(t, http.DefaultTransport, m.InstrumentRoundTripper(http.DefaultTransport))
}

func TestInstrumentRoundTripper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	m := metrics.New(nil)
	hc := &http.Client{Transport: m.InstrumentRoundTripper(http.DefaultTransport)}

	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("418", "get")))
}
