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

package reflect_test

import (
	"errors"
	"reflect"
	"runtime"
	"sync"
	"testing"

	uref "dirpx.dev/apikit/utils/reflect"
)

// Local test types.
type A struct{}
type G[T any] struct{}
type Users []A

type UserService interface {
	Get(id int) (A, error)
}

const pkg = "dirpx.dev/apikit/utils/reflect_test"

func TestNormalize_BasicContainers(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
	}{
		{"plain", reflect.TypeOf(A{}), reflect.TypeOf(A{})},
		{"ptr", reflect.TypeOf(&A{}), reflect.TypeOf(A{})},
		{"slice", reflect.TypeOf([]A{}), reflect.TypeOf(A{})},
		{"array", reflect.TypeOf([2]A{}), reflect.TypeOf(A{})},
		{"chan", reflect.TypeOf((chan A)(nil)), reflect.TypeOf(A{})},
		{"map", reflect.TypeOf(map[string]A{}), reflect.TypeOf(A{})},
		{"named slice", reflect.TypeOf(Users{}), reflect.TypeOf(Users{})},
		{"interface", reflect.TypeFor[UserService](), reflect.TypeFor[UserService]()},
		{"ptr to interface", reflect.TypeFor[*UserService](), reflect.TypeFor[UserService]()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.Normalize(tc.typ, 0)
			if err != nil {
				t.Fatalf("Normalize(%v) returned error: %v", tc.typ, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%v) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}
}

func TestNormalize_MaxUnwrap(t *testing.T) {
	// **A with low maxUnwrap should fail, with larger maxUnwrap should succeed.
	tPP := reflect.TypeFor[**A]()

	if _, err := uref.Normalize(tPP, 1); err == nil {
		t.Fatalf("maxUnwrap=1: expected error, got nil")
	}
	if got, err := uref.Normalize(tPP, 8); err != nil || got != reflect.TypeOf(A{}) {
		t.Fatalf("maxUnwrap=8: got (%v,%v), want (A,nil)", got, err)
	}
}

func TestNormalize_Errors(t *testing.T) {
	if _, err := uref.Normalize(nil, 0); !errors.Is(err, uref.ErrReflectNilType) {
		t.Fatalf("nil type: want ErrReflectNilType, got %v", err)
	}

	var anon = struct{ X int }{}
	if _, err := uref.Normalize(reflect.TypeOf(anon), 0); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
		t.Fatalf("anonymous struct: want ErrReflectTypeNotNamed, got %v", err)
	}
	if _, err := uref.Normalize(reflect.TypeOf(func() {}), 0); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
		t.Fatalf("func: want ErrReflectTypeNotNamed, got %v", err)
	}
}

func TestName(t *testing.T) {
	cases := []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeOf(A{}), pkg + ".A"},
		{reflect.TypeOf(&A{}), pkg + ".A"},
		{reflect.TypeFor[UserService](), pkg + ".UserService"},
		{reflect.TypeOf(G[int]{}), pkg + ".G[int]"},
	}
	for _, tc := range cases {
		got, err := uref.Name(tc.typ)
		if err != nil {
			t.Fatalf("Name(%v): unexpected error: %v", tc.typ, err)
		}
		if got != tc.want {
			t.Fatalf("Name(%v) = %q, want %q", tc.typ, got, tc.want)
		}
	}
}

func TestName_DistinguishesInstantiations(t *testing.T) {
	a, _ := uref.Name(reflect.TypeOf(G[int]{}))
	b, _ := uref.Name(reflect.TypeOf(G[string]{}))
	if a == b {
		t.Fatalf("G[int] and G[string] share name %q", a)
	}
}

func TestName_RejectsBuiltins(t *testing.T) {
	for _, tt := range []reflect.Type{reflect.TypeOf(""), reflect.TypeOf(0), reflect.TypeFor[error]()} {
		if _, err := uref.Name(tt); !errors.Is(err, uref.ErrReflectBuiltinType) {
			t.Fatalf("Name(%v): want ErrReflectBuiltinType, got %v", tt, err)
		}
	}
	if _, err := uref.Name(nil); !errors.Is(err, uref.ErrReflectNilType) {
		t.Fatalf("Name(nil): want ErrReflectNilType, got %v", err)
	}
}

func TestNameOf(t *testing.T) {
	got, err := uref.NameOf[UserService]()
	if err != nil {
		t.Fatalf("NameOf[UserService]: %v", err)
	}
	if got != pkg+".UserService" {
		t.Fatalf("NameOf[UserService] = %q", got)
	}
}

// This test stresses Name concurrently to smoke-test the memoization cache.
func TestName_Concurrent(t *testing.T) {
	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeFor[UserService](),
	}

	workers := runtime.GOMAXPROCS(0) * 4
	iters := 2000

	var wg sync.WaitGroup
	wg.Add(workers)

	errCh := make(chan error, workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				name, err := uref.Name(types[i%len(types)])
				if err != nil {
					errCh <- err
					return
				}
				if name == "" {
					errCh <- errors.New("got empty name")
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatal(e)
	}
}

func BenchmarkName(b *testing.B) {
	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(G[int]{}),
	}
	for _, t0 := range types {
		_, _ = uref.Name(t0)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = uref.Name(types[i%len(types)])
	}
}
