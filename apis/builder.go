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

import (
	"net/http"
	"net/url"
)

// Builder constructs the transport and client a service is bound to.
// Swapping the Builder lets a process replace how services reach the network
// (custom round trippers, test doubles) without touching the registry.
type Builder interface {
	// BuildHTTPClient constructs an HTTP client honoring the timeouts and
	// limits in cfg.
	BuildHTTPClient(cfg Transport) *http.Client
	// BuildClient binds hc to base. cfg carries request-level defaults such
	// as the user agent.
	BuildClient(base *url.URL, hc *http.Client, cfg Transport) Client
}
