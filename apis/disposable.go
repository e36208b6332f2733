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

// Disposable is a handle to an in-flight asynchronous operation that can be
// told to stop and release its resources.
type Disposable interface {
	// Dispose cancels the operation. It must be idempotent and must not panic;
	// failures of the underlying cancel mechanism are swallowed.
	Dispose()
	// IsDisposed reports whether Dispose has been called.
	IsDisposed() bool
}
