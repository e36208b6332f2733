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

// Package reflect derives stable service keys from Go types.
package reflect

import (
	"errors"
	"reflect"
	"sync"
)

// DefaultMaxUnwrap limits container unwrapping depth when none is given.
const DefaultMaxUnwrap = 8

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping containers)
	// does not contain a named type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no name")
	// ErrReflectBuiltinType indicates that the nearest named type is a builtin
	// such as string or int, which cannot identify a service.
	ErrReflectBuiltinType = errors.New("reflect: builtin type cannot identify a service")
)

// Normalize unwraps containers and returns the nearest named inner type,
// or an error if none is found within maxUnwrap steps.
//
// Unwrapping policy:
//   - ptr/slice/array/chan/map -> Elem()
//   - default: if t.Name() != "", return t; otherwise ErrReflectTypeNotNamed.
//
// If maxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, maxUnwrap int) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if maxUnwrap <= 0 {
		maxUnwrap = DefaultMaxUnwrap
	}

	for i := 0; t != nil && i < maxUnwrap; i++ {
		// Named types stop unwrapping, even when they are containers
		// (type Users []User names Users, not User).
		if t.Name() != "" {
			return t, nil
		}
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan, reflect.Map:
			t = t.Elem()
		default:
			return nil, ErrReflectTypeNotNamed
		}
	}

	// After reaching max depth, ensure we ended on a named type.
	if t != nil && t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// nameCache caches resolved names by type.
var nameCache sync.Map // key: reflect.Type, val: string

// Name returns the fully qualified name ("import/path.Type") of the nearest
// named type of t. Builtin types are rejected. Results are memoized.
func Name(t reflect.Type) (string, error) {
	if t == nil {
		return "", ErrReflectNilType
	}
	if v, ok := nameCache.Load(t); ok {
		return v.(string), nil
	}

	base, err := Normalize(t, DefaultMaxUnwrap)
	if err != nil {
		return "", err
	}
	p := base.PkgPath()
	if p == "" {
		return "", ErrReflectBuiltinType
	}

	name := p + "." + base.Name()
	nameCache.Store(t, name)
	return name, nil
}

// NameOf returns Name for the type argument T. It works for interface types,
// which reflect.TypeOf cannot see through a value.
func NameOf[T any]() (string, error) {
	return Name(reflect.TypeFor[T]())
}
