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

// Package member defines the typed member descriptors that class
// registrations are built from.
//
// A Member[C, T] describes one named field of class C with value type T and
// up to three access strategies:
//
//   - a direct field accessor (Field), reaching into the struct's storage;
//   - a value accessor pair (Accessor), a by-value getter and setter;
//   - a reference accessor pair (RefAccessor), a read-only reference getter
//     and a setter.
//
// Strategies are tracked by an explicit capability bitset; "no direct field"
// is simply the CapField bit being unset, never a sentinel value. When a
// member carries both accessors and a direct field, the accessors take
// precedence for both reads and writes: an accessor exists specifically to
// intercept raw access.
//
// Capability misuse (e.g. Get on a member with no get-capable strategy)
// indicates a bug in the registration or the call site and panics.
// Recoverable conditions (wrong object type, non-convertible value) are
// returned as errors from the type-erased GetAny/SetAny surface.
package member

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/mrx/apis"
)

var (
	// ErrClassMismatch is returned when an object is not a pointer to the
	// member's owning class.
	ErrClassMismatch = errors.New("mrx(member): object is not a pointer to the member's class")
	// ErrNotConvertible is returned when a value cannot be converted to the
	// member's value type.
	ErrNotConvertible = errors.New("mrx(member): value is not convertible to the member type")
)

// Caps is the capability bitset of a member's populated access strategies.
type Caps uint8

const (
	// CapField indicates a direct field accessor is present.
	CapField Caps = 1 << iota
	// CapValueGetter indicates a by-value getter is present.
	CapValueGetter
	// CapValueSetter indicates a by-value setter is present.
	CapValueSetter
	// CapRefGetter indicates a read-only reference getter is present.
	CapRefGetter
	// CapRefSetter indicates a reference-pair setter is present.
	CapRefSetter
	// CapMutGetter indicates a mutable reference getter is present.
	CapMutGetter
)

// Member is a named, typed descriptor for one field of class C.
// Construct it with Field, Accessor or RefAccessor; zero values are invalid.
type Member[C any, T any] struct {
	name string
	caps Caps

	field  func(*C) *T // direct field accessor
	valGet func(*C) T
	valSet func(*C, T)
	refGet func(*C) *T // read-only by convention
	refSet func(*C, T)
	mutGet func(*C) *T
}

// Field constructs a member backed by direct field storage.
// The accessor typically returns the address of a struct field:
//
//	member.Field("x", func(p *Point) *int { return &p.X })
func Field[C any, T any](name string, field func(*C) *T) *Member[C, T] {
	if name == "" {
		panic("mrx(member): empty member name")
	}
	if field == nil {
		panic(fmt.Sprintf("mrx(member): %q: nil field accessor", name))
	}
	return &Member[C, T]{name: name, caps: CapField, field: field}
}

// Accessor constructs a member backed by a by-value getter/setter pair.
func Accessor[C any, T any](name string, get func(*C) T, set func(*C, T)) *Member[C, T] {
	if name == "" {
		panic("mrx(member): empty member name")
	}
	if get == nil || set == nil {
		panic(fmt.Sprintf("mrx(member): %q: nil accessor", name))
	}
	return &Member[C, T]{name: name, caps: CapValueGetter | CapValueSetter, valGet: get, valSet: set}
}

// RefAccessor constructs a member backed by a reference getter/setter pair.
// The getter's result is read-only by contract; use WithMutableGetter to
// additionally allow GetRef.
func RefAccessor[C any, T any](name string, get func(*C) *T, set func(*C, T)) *Member[C, T] {
	if name == "" {
		panic("mrx(member): empty member name")
	}
	if get == nil || set == nil {
		panic(fmt.Sprintf("mrx(member): %q: nil accessor", name))
	}
	return &Member[C, T]{name: name, caps: CapRefGetter | CapRefSetter, refGet: get, refSet: set}
}

// WithField attaches direct field storage to an accessor-backed member.
// Accessors keep precedence for Get/GetCopy/Set; the field serves
// CanGetConstRef/CanGetRef and GetRef.
func (m *Member[C, T]) WithField(field func(*C) *T) *Member[C, T] {
	if field == nil {
		panic(fmt.Sprintf("mrx(member): %q: nil field accessor", m.name))
	}
	m.field = field
	m.caps |= CapField
	return m
}

// WithMutableGetter attaches a mutable reference getter, enabling GetRef for
// members whose other strategies are accessor pairs.
func (m *Member[C, T]) WithMutableGetter(get func(*C) *T) *Member[C, T] {
	if get == nil {
		panic(fmt.Sprintf("mrx(member): %q: nil mutable getter", m.name))
	}
	m.mutGet = get
	m.caps |= CapMutGetter
	return m
}

// Name returns the member's display/lookup identifier.
func (m *Member[C, T]) Name() string { return m.name }

// Class returns the reflect.Type of the owning class C.
func (m *Member[C, T]) Class() reflect.Type { return reflect.TypeOf((*C)(nil)).Elem() }

// Type returns the reflect.Type of the value type T.
func (m *Member[C, T]) Type() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// Caps returns the raw capability bitset.
func (m *Member[C, T]) Caps() Caps { return m.caps }

// HasField reports whether a direct field accessor is present.
func (m *Member[C, T]) HasField() bool { return m.caps&CapField != 0 }

// HasGetter reports whether a value or reference getter is present.
func (m *Member[C, T]) HasGetter() bool { return m.caps&(CapValueGetter|CapRefGetter) != 0 }

// HasSetter reports whether a value or reference setter is present.
func (m *Member[C, T]) HasSetter() bool { return m.caps&(CapValueSetter|CapRefSetter) != 0 }

// CanGetConstRef reports whether Get is satisfiable
// (reference getter or direct field).
func (m *Member[C, T]) CanGetConstRef() bool { return m.caps&(CapField|CapRefGetter) != 0 }

// CanGetRef reports whether GetRef is satisfiable
// (direct field or mutable getter).
func (m *Member[C, T]) CanGetRef() bool { return m.caps&(CapField|CapMutGetter) != 0 }

// CanRead reports whether GetCopy is satisfiable by any strategy.
func (m *Member[C, T]) CanRead() bool { return m.caps&(CapField|CapValueGetter|CapRefGetter) != 0 }

// CanWrite reports whether Set is satisfiable by any strategy.
func (m *Member[C, T]) CanWrite() bool { return m.caps&(CapField|CapValueSetter|CapRefSetter) != 0 }

// Get returns the member's current value read through a reference-capable
// strategy: the reference getter if present, else the direct field.
// Requires CanGetConstRef; panics otherwise.
func (m *Member[C, T]) Get(obj *C) T {
	switch {
	case m.caps&CapRefGetter != 0:
		return *m.refGet(obj)
	case m.caps&CapField != 0:
		return *m.field(obj)
	}
	panic(fmt.Sprintf("mrx(member): Get %q: no reference-capable get strategy", m.name))
}

// GetCopy returns a value copy through any get-capable strategy, preferring
// accessors over the direct field. Requires CanRead; panics otherwise.
func (m *Member[C, T]) GetCopy(obj *C) T {
	switch {
	case m.caps&CapRefGetter != 0:
		return *m.refGet(obj)
	case m.caps&CapValueGetter != 0:
		return m.valGet(obj)
	case m.caps&CapField != 0:
		return *m.field(obj)
	}
	panic(fmt.Sprintf("mrx(member): GetCopy %q: no get strategy", m.name))
}

// GetRef returns a mutable reference to the member's storage. Only the
// mutable getter or the direct field can satisfy it; accessor pairs without
// a mutable getter cannot. Requires CanGetRef; panics otherwise.
func (m *Member[C, T]) GetRef(obj *C) *T {
	switch {
	case m.caps&CapMutGetter != 0:
		return m.mutGet(obj)
	case m.caps&CapField != 0:
		return m.field(obj)
	}
	panic(fmt.Sprintf("mrx(member): GetRef %q: no mutable-reference strategy", m.name))
}

// Set writes value through a set-capable strategy, preferring accessor
// setters over a direct field write. Requires CanWrite; panics otherwise.
func (m *Member[C, T]) Set(obj *C, value T) {
	switch {
	case m.caps&CapRefSetter != 0:
		m.refSet(obj, value)
	case m.caps&CapValueSetter != 0:
		m.valSet(obj, value)
	case m.caps&CapField != 0:
		*m.field(obj) = value
	default:
		panic(fmt.Sprintf("mrx(member): Set %q: no set strategy", m.name))
	}
}

// IsEnum reports whether this member carries an enum name table.
func (m *Member[C, T]) IsEnum() bool { return false }

// AsEnum panics: a plain Member carries no enum name table.
// Check IsEnum before calling.
func (m *Member[C, T]) AsEnum() apis.EnumMember {
	panic(fmt.Sprintf("mrx(member): AsEnum on non-enum member %q", m.name))
}

// Base returns the member itself. It exists so that the typed descriptor can
// be recovered from the apis.Member interface regardless of whether the
// concrete value is a Member or an EnumMember embedding it (see As).
func (m *Member[C, T]) Base() *Member[C, T] { return m }

// GetAny implements apis.Member. obj must be a *C.
func (m *Member[C, T]) GetAny(obj any) (any, error) {
	c, ok := obj.(*C)
	if !ok {
		return nil, fmt.Errorf("%w: member %q of %s, got %T", ErrClassMismatch, m.name, m.Class(), obj)
	}
	return m.GetCopy(c), nil
}

// SetAny implements apis.Member. obj must be a *C; value is converted to T
// when it is not already a T.
func (m *Member[C, T]) SetAny(obj any, value any) error {
	c, ok := obj.(*C)
	if !ok {
		return fmt.Errorf("%w: member %q of %s, got %T", ErrClassMismatch, m.name, m.Class(), obj)
	}
	v, err := convert[T](value)
	if err != nil {
		return fmt.Errorf("member %q: %w", m.name, err)
	}
	m.Set(c, v)
	return nil
}

// As recovers the typed descriptor from a type-erased member. It succeeds
// only when both the owning class and the declared value type match, so a
// name match with a mismatched type naturally reads as "not found" at call
// sites.
func As[C any, T any](m apis.Member) (*Member[C, T], bool) {
	if tm, ok := m.(interface{ Base() *Member[C, T] }); ok {
		return tm.Base(), true
	}
	return nil, false
}

// convert coerces value to T, falling back to reflect conversion for
// compatible underlying types (e.g. untyped ints decoded as float64).
func convert[T any](value any) (T, error) {
	if v, ok := value.(T); ok {
		return v, nil
	}
	var zero T
	tt := reflect.TypeOf((*T)(nil)).Elem()
	rv := reflect.ValueOf(value)
	if rv.IsValid() && rv.Type().ConvertibleTo(tt) {
		return rv.Convert(tt).Interface().(T), nil
	}
	return zero, fmt.Errorf("%w: %T to %s", ErrNotConvertible, value, tt)
}

// Compile-time interface checks.
var (
	_ apis.Member = (*Member[struct{}, int])(nil)
)
