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

// Key identifies a service in a Registry. It is either chosen explicitly or
// derived from the Go type of the service ("pkg/path.Type").
type Key string

// String returns the key as a plain string.
func (k Key) String() string { return string(k) }

// Registry is the read side of a service cache.
// Implementations must be safe for concurrent use.
type Registry interface {
	// Lookup returns the cached service for key if present.
	Lookup(key Key) (svc any, ok bool)
	// Entries returns a snapshot for diagnostics (order is unspecified).
	Entries() []Entry
	// Count returns the number of cached services.
	Count() int
}

// Entry is a single cached service in a Registry snapshot.
type Entry struct {
	// Key is the service identity.
	Key Key
	// BaseURL is the base URL the service client was bound to.
	BaseURL string
	// Service is the constructed service instance.
	Service any
}
