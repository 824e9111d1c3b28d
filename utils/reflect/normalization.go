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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/mrx/apis"
	"dirpx.dev/mrx/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping containers)
	// does not contain a named type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no registered name")
)

// Normalize unwraps containers according to cfg (MaxUnwrap/MapPreferElem)
// and returns the nearest named inner type, or an error if none is found.
// Class registrations and lookups both pass through Normalize, so *C, []C,
// map[string]C etc. all resolve to C's registration.
//
// Unwrapping policy:
//   - ptr/slice/array/chan  -> Elem()
//   - map[K]V: the preferred side (Elem if MapPreferElem, otherwise Key) is
//     returned if named; else the other side if named; else unwrapping
//     continues through Elem().
//   - anything else: returned if named, ErrReflectTypeNotNamed otherwise.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; t != nil && i < maxUnwrap; i++ {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan:
			t = t.Elem()

		case reflect.Map:
			if named, ok := mapSide(t, cfg.MapPreferElem); ok {
				return named, nil
			}
			// Neither side named: keep unwrapping the element.
			t = t.Elem()

		default:
			if t.Name() != "" {
				return t, nil
			}
			return nil, ErrReflectTypeNotNamed
		}
	}

	// After reaching max depth, ensure we ended on a named type.
	if t != nil && t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// mapSide picks the nearest named type out of a map's key/elem pair,
// trying the preferred side first.
func mapSide(t reflect.Type, preferElem bool) (reflect.Type, bool) {
	first, second := t.Key(), t.Elem()
	if preferElem {
		first, second = second, first
	}
	if first != nil && first.Name() != "" {
		return first, true
	}
	if second != nil && second.Name() != "" {
		return second, true
	}
	return nil, false
}
