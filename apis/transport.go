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

package apis

import "time"

// Transport carries the knobs used to build an HTTP client for a service.
// It is passed by value and read only while a registry entry is built.
type Transport struct {
	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// WriteTimeout bounds every single write on a connection.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ReadTimeout bounds every single read on a connection.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// RateLimit caps outgoing requests per second. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// Burst is the limiter bucket size. Ignored when RateLimit is zero.
	Burst int `koanf:"burst"`

	// UserAgent is sent with every request when non-empty.
	UserAgent string `koanf:"user_agent"`
}
