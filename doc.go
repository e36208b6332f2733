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

// Package apikit is application glue for programs that talk to typed HTTP
// services and run cancelable background work on behalf of a view.
//
// It has two independent halves that application code wires together.
//
// # Presenters
//
// Package presenter provides Rx, a presenter base that embeds into concrete
// presenters. It remembers the attached apis.View and a group of
// apis.Disposable handles for in-flight work. DetachView clears the view and
// disposes every tracked handle exactly once:
//
//	type UsersPresenter struct {
//		presenter.Rx[UsersView]
//	}
//
//	func (p *UsersPresenter) Refresh() {
//		presenter.Load(&p.Rx, fetchUsers, UsersView.ShowUsers)
//	}
//
// # Service registry
//
// Package registry caches one constructed client per service key. A service
// is described once, initialized once against a base URL, and fetched many
// times:
//
//	var Users = registry.MustServiceFor[users.Service](users.New)
//
//	if err := apikit.Init(Users, "https://api.example.com/v1/", nil); err != nil {
//		return err
//	}
//	svc := apikit.MustGet(Users)
//
// Get never initializes on a miss; it fails with registry.ErrNotInitialized.
// Init validates the base URL (absolute http(s), trailing "/") before it
// builds anything and overwrites a previous entry for the same key.
//
// # Process-wide registry
//
// Instance returns the single registry shared by the package-level helpers.
// It is published once when the package initializes and is safe for
// concurrent use. Configure, SetBuilder and SetTransport change how later
// entries are built; entries already cached are left as they are.
//
// # Scope
//
// apikit does not evict or refresh registry entries and has no stream
// operators. Work is plain goroutines under a context.
package apikit
