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

package disposable_test

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/apikit/disposable"
)

// TestGroup_ConcurrentAddAndDispose verifies that every member added from any
// goroutine is disposed exactly once, whether it was added before or after
// the group was disposed.
func TestGroup_ConcurrentAddAndDispose(t *testing.T) {
	g := disposable.NewGroup()

	workers := runtime.GOMAXPROCS(0) * 4
	const perWorker = 500

	var disposed atomic.Int64
	counts := make([]atomic.Int32, workers*perWorker)

	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				idx := id*perWorker + i
				g.Add(disposable.Func(func() {
					counts[idx].Add(1)
					disposed.Add(1)
				}))
			}
		}(w)
	}

	// Dispose concurrently with the writers.
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Dispose()
	}()

	wg.Wait()
	g.Dispose()

	assert.Equal(t, int64(workers*perWorker), disposed.Load())
	for i := range counts {
		if got := counts[i].Load(); got != 1 {
			t.Fatalf("member %d disposed %d times, want 1", i, got)
		}
	}
}
