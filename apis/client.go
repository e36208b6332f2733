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
	"context"
	"net/url"
)

// Client sends JSON requests relative to a base URL. Service implementations
// wrap a Client and expose typed methods on top of it.
type Client interface {
	// BaseURL returns a copy of the URL paths are resolved against.
	BaseURL() *url.URL
	// Do sends a request for path and decodes the response into out.
	Do(ctx context.Context, method, path string, in, out any) error
	// Get sends a GET and decodes the response into out.
	Get(ctx context.Context, path string, out any) error
	// Post sends in as the body of a POST and decodes the response into out.
	Post(ctx context.Context, path string, in, out any) error
	// Put sends in as the body of a PUT and decodes the response into out.
	Put(ctx context.Context, path string, in, out any) error
	// Delete sends a DELETE and decodes the response into out.
	Delete(ctx context.Context, path string, out any) error
}
