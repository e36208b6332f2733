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

package config_test

import (
	"testing"
	"time"

	"github.com/juju/errors"

	"dirpx.dev/apikit/config"
)

func TestDefaultTransportValues(t *testing.T) {
	got := config.DefaultTransport()

	if got.ConnectTimeout != 10*time.Second {
		t.Fatalf("ConnectTimeout = %v, want %v", got.ConnectTimeout, 10*time.Second)
	}
	if got.WriteTimeout != config.DefaultTimeout {
		t.Fatalf("WriteTimeout = %v, want %v", got.WriteTimeout, config.DefaultTimeout)
	}
	if got.ReadTimeout != config.DefaultTimeout {
		t.Fatalf("ReadTimeout = %v, want %v", got.ReadTimeout, config.DefaultTimeout)
	}
	if got.RateLimit != 0 {
		t.Fatalf("RateLimit = %v, want 0", got.RateLimit)
	}
	if got.UserAgent != config.DefaultUserAgent {
		t.Fatalf("UserAgent = %q, want %q", got.UserAgent, config.DefaultUserAgent)
	}
}

func TestNewTransport_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultTransport()
	got := config.NewTransport()
	if got != def {
		t.Fatalf("NewTransport() = %+v, want default %+v", got, def)
	}
}

func TestWithTimeout(t *testing.T) {
	c := config.NewTransport(config.WithTimeout(time.Second))
	if c.ConnectTimeout != time.Second || c.WriteTimeout != time.Second || c.ReadTimeout != time.Second {
		t.Fatalf("timeouts = %v/%v/%v, want 1s each", c.ConnectTimeout, c.WriteTimeout, c.ReadTimeout)
	}
}

func TestWithIndividualTimeouts(t *testing.T) {
	c := config.NewTransport(
		config.WithConnectTimeout(time.Second),
		config.WithWriteTimeout(2*time.Second),
		config.WithReadTimeout(3*time.Second),
	)
	if c.ConnectTimeout != time.Second {
		t.Errorf("ConnectTimeout = %v, want 1s", c.ConnectTimeout)
	}
	if c.WriteTimeout != 2*time.Second {
		t.Errorf("WriteTimeout = %v, want 2s", c.WriteTimeout)
	}
	if c.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout = %v, want 3s", c.ReadTimeout)
	}
}

func TestWithTimeout_Negative_ResetsToDefault(t *testing.T) {
	c := config.NewTransport(config.WithReadTimeout(-1), config.WithConnectTimeout(-time.Second))
	if c.ReadTimeout != config.DefaultTimeout {
		t.Fatalf("ReadTimeout = %v, want default %v", c.ReadTimeout, config.DefaultTimeout)
	}
	if c.ConnectTimeout != config.DefaultTimeout {
		t.Fatalf("ConnectTimeout = %v, want default %v", c.ConnectTimeout, config.DefaultTimeout)
	}
}

func TestNewTransport_Guardrails_ZeroTimeoutAllowed(t *testing.T) {
	// Only negative values are reset. Zero disables the bound.
	c := config.NewTransport(config.WithTimeout(0))
	if c.ReadTimeout != 0 {
		t.Fatalf("ReadTimeout = %v, want 0 (zero is allowed)", c.ReadTimeout)
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewTransport(
		config.WithUserAgent("a"),
		config.WithUserAgent("b"),
		config.WithRateLimit(1, 1),
		config.WithRateLimit(5, 10),
	)
	if c.UserAgent != "b" {
		t.Errorf("UserAgent = %q, want b (last option wins)", c.UserAgent)
	}
	if c.RateLimit != 5 || c.Burst != 10 {
		t.Errorf("RateLimit/Burst = %v/%d, want 5/10 (last option wins)", c.RateLimit, c.Burst)
	}
}

func TestParseBaseURL(t *testing.T) {
	valid := []string{
		"https://x/",
		"http://localhost:8080/api/v1/",
	}
	for _, raw := range valid {
		u, err := config.ParseBaseURL(raw)
		if err != nil {
			t.Fatalf("ParseBaseURL(%q): unexpected error: %v", raw, err)
		}
		if u.String() != raw {
			t.Fatalf("ParseBaseURL(%q) = %q", raw, u.String())
		}
	}

	invalid := []string{
		"",
		"   ",
		"https://x",
		"https://x/api",
		"ftp://x/",
		"/relative/",
		"https:///",
		"://bad/",
	}
	for _, raw := range invalid {
		_, err := config.ParseBaseURL(raw)
		if err == nil {
			t.Fatalf("ParseBaseURL(%q): expected error", raw)
		}
		if !errors.Is(err, errors.NotValid) {
			t.Fatalf("ParseBaseURL(%q): error %v is not NotValid", raw, err)
		}
	}
}
