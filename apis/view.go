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

import "context"

// View is the capability set a presenter expects from its attached UI surface.
// Implementations are owned by the host; presenters only call into them.
type View interface {
	// ShowProgress signals that background work started.
	ShowProgress()
	// DismissProgress signals that background work finished.
	DismissProgress()
	// Context returns the context the view lives in. Work started on behalf
	// of the view derives from it.
	Context() context.Context
	// OnError reports a failure of background work to the user.
	OnError(err error)
}

// Presenter binds to a single view at a time.
type Presenter[V View] interface {
	// AttachView stores v as the current view.
	AttachView(v V)
	// DetachView clears the current view and releases tracked work.
	DetachView()
}
