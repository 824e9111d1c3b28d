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

package mrx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dirpx.dev/mrx/apis"
	"dirpx.dev/mrx/member"
)

// ErrMemberNotFound is returned by the name-driven get/set helpers when no
// member matches the requested name (and, where applicable, type). Callers
// are expected to handle it as a normal condition: skip, default, or report.
var ErrMemberNotFound = errors.New("mrx: member not found")

// RegisterMembers registers the member factory of class C with the global
// registry. The factory runs at most once, on first need, and its returned
// order is the canonical member order of C:
//
//	mrx.RegisterMembers[Point](func() []apis.Member {
//		return []apis.Member{
//			member.Field("x", func(p *Point) *int { return &p.X }),
//			member.Field("y", func(p *Point) *int { return &p.Y }),
//		}
//	})
func RegisterMembers[C any](f apis.Factory) error {
	return st.Load().reg.Register(reflect.TypeOf((*C)(nil)).Elem(), f)
}

// RegisterName registers a display name for class C with the global registry.
func RegisterName[C any](name string) error {
	return st.Load().reg.RegisterName(reflect.TypeOf((*C)(nil)).Elem(), name)
}

// Name resolves the display name of class C using the global resolver chain.
func Name[C any]() string {
	return EntityType(reflect.TypeOf((*C)(nil)).Elem())
}

// Members returns the ordered member collection of class C, building it on
// first call. The returned slice is shared and must not be modified.
// Unregistered classes yield nil.
func Members[C any]() []apis.Member {
	return st.Load().reg.Members(reflect.TypeOf((*C)(nil)).Elem())
}

// MembersOf is the non-generic variant of Members for callers that only
// hold a reflect.Type.
func MembersOf(t reflect.Type) []apis.Member {
	return st.Load().reg.Members(t)
}

// IsRegistered reports whether class C has a registered member factory.
func IsRegistered[C any]() bool {
	return st.Load().reg.IsRegistered(reflect.TypeOf((*C)(nil)).Elem())
}

// HasMember reports whether class C registered a member under name.
func HasMember[C any](name string) bool {
	_, ok := st.Load().reg.Lookup(reflect.TypeOf((*C)(nil)).Elem(), name)
	return ok
}

// DoForAllMembers applies f to every member of class C in registration
// order. For unregistered classes f is never invoked.
func DoForAllMembers[C any](f func(apis.Member)) {
	for _, m := range Members[C]() {
		f(m)
	}
}

// DoForMember applies f to the first member of class C that is named name
// AND declares value type T. A name match with a mismatched type is treated
// as not found, never as an error on the wrong type. The return value
// reports whether a member was found and f applied.
func DoForMember[C any, T any](name string, f func(*member.Member[C, T])) bool {
	s := st.Load()
	for _, m := range s.reg.Members(reflect.TypeOf((*C)(nil)).Elem()) {
		if !nameEq(s.cfg, m.Name(), name) {
			continue
		}
		tm, ok := member.As[C, T](m)
		if !ok {
			continue
		}
		f(tm)
		return true
	}
	return false
}

// GetMemberValue returns a copy of the member named name of obj.
// The member must declare value type T; otherwise ErrMemberNotFound.
func GetMemberValue[T any, C any](obj *C, name string) (T, error) {
	var out T
	found := DoForMember[C, T](name, func(m *member.Member[C, T]) {
		out = m.GetCopy(obj)
	})
	if !found {
		return out, notFound[C, T](name)
	}
	return out, nil
}

// SetMemberValue sets the member named name of obj to value.
// The member must declare value type T; otherwise ErrMemberNotFound.
func SetMemberValue[T any, C any](obj *C, name string, value T) error {
	found := DoForMember[C, T](name, func(m *member.Member[C, T]) {
		m.Set(obj, value)
	})
	if !found {
		return notFound[C, T](name)
	}
	return nil
}

// SetMemberAny sets the member named name of obj from value, converting it
// to the member's declared type when necessary. Unlike SetMemberValue, the
// member is located by name alone; conversion failures are returned as
// errors.
func SetMemberAny[C any](obj *C, name string, value any) error {
	s := st.Load()
	m, ok := s.reg.Lookup(reflect.TypeOf((*C)(nil)).Elem(), name)
	if !ok {
		return fmt.Errorf("%w: %q of %s", ErrMemberNotFound, name, reflect.TypeOf((*C)(nil)).Elem())
	}
	return m.SetAny(obj, value)
}

// GetEnumMemberValueString reads the enum member named name of obj and
// returns its registered display name. A missing member is a recoverable
// ErrMemberNotFound; a member that is not an enum is a registration bug
// and panics.
func GetEnumMemberValueString[C any](obj *C, name string) (string, error) {
	s := st.Load()
	m, ok := s.reg.Lookup(reflect.TypeOf((*C)(nil)).Elem(), name)
	if !ok {
		return "", fmt.Errorf("%w: %q of %s", ErrMemberNotFound, name, reflect.TypeOf((*C)(nil)).Elem())
	}
	return m.AsEnum().GetString(obj)
}

// SetEnumMemberValueString sets the enum member named name of obj from a
// registered display name. A missing member is a recoverable
// ErrMemberNotFound; a member that is not an enum panics.
func SetEnumMemberValueString[C any](obj *C, name, value string) error {
	s := st.Load()
	m, ok := s.reg.Lookup(reflect.TypeOf((*C)(nil)).Elem(), name)
	if !ok {
		return fmt.Errorf("%w: %q of %s", ErrMemberNotFound, name, reflect.TypeOf((*C)(nil)).Elem())
	}
	return m.AsEnum().SetString(obj, value)
}

// notFound builds the standard lookup-miss error for (name, C, T).
func notFound[C any, T any](name string) error {
	return fmt.Errorf("%w: %q of %s with type %s",
		ErrMemberNotFound, name, reflect.TypeOf((*C)(nil)).Elem(), reflect.TypeOf((*T)(nil)).Elem())
}

// nameEq compares member names according to Config.FoldNames.
func nameEq(cfg apis.Config, a, b string) bool {
	if cfg.FoldNames {
		return strings.EqualFold(a, b)
	}
	return a == b
}
