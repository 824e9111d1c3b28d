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

package member

import (
	"errors"
	"fmt"
	"slices"

	"dirpx.dev/mrx/apis"
)

var (
	// ErrEnumValueUnknown is returned by ToString/ToName for values that were
	// never registered via Value.
	ErrEnumValueUnknown = errors.New("mrx(member): enum value has no registered name")
	// ErrEnumNameUnknown is returned by FromString/FromName for names that
	// were never registered via Value.
	ErrEnumNameUnknown = errors.New("mrx(member): enum name has no registered value")
)

// EnumMember is a Member specialization for enumeration-typed fields. It
// carries a bidirectional value<->name table, populated during registration
// with fluent Value calls:
//
//	member.EnumField("color", func(s *Shape) *Color { return &s.Color }).
//		Value("RED", Red).
//		Value("GREEN", Green)
//
// The table belongs to the member instance. Because a class's registration
// factory runs exactly once per process, the table is shared by every holder
// of the class's member collection and is immutable after registration.
//
// Unregistered values and names are reported as explicit errors, never as a
// silently default-constructed result.
type EnumMember[C any, T comparable] struct {
	Member[C, T]

	order    []string
	toName   map[T]string
	fromName map[string]T
}

// EnumField constructs an enum member backed by direct field storage.
func EnumField[C any, T comparable](name string, field func(*C) *T) *EnumMember[C, T] {
	return enumOf(Field[C, T](name, field))
}

// EnumAccessor constructs an enum member backed by a by-value accessor pair.
func EnumAccessor[C any, T comparable](name string, get func(*C) T, set func(*C, T)) *EnumMember[C, T] {
	return enumOf(Accessor(name, get, set))
}

// EnumRefAccessor constructs an enum member backed by a reference accessor pair.
func EnumRefAccessor[C any, T comparable](name string, get func(*C) *T, set func(*C, T)) *EnumMember[C, T] {
	return enumOf(RefAccessor(name, get, set))
}

func enumOf[C any, T comparable](m *Member[C, T]) *EnumMember[C, T] {
	return &EnumMember[C, T]{
		Member:   *m,
		toName:   make(map[T]string),
		fromName: make(map[string]T),
	}
}

// Value registers a (display name, enum value) pair and returns the member
// for chaining. Re-registering a name or a value overwrites the previous
// mapping on that side (last write wins, map semantics).
func (e *EnumMember[C, T]) Value(name string, value T) *EnumMember[C, T] {
	if _, seen := e.fromName[name]; !seen {
		e.order = append(e.order, name)
	}
	e.toName[value] = name
	e.fromName[name] = value
	return e
}

// ToString maps an enum value to its registered display name.
func (e *EnumMember[C, T]) ToString(value T) (string, error) {
	if n, ok := e.toName[value]; ok {
		return n, nil
	}
	return "", fmt.Errorf("member %q: %w: %v", e.name, ErrEnumValueUnknown, value)
}

// FromString maps a registered display name back to the enum value.
func (e *EnumMember[C, T]) FromString(name string) (T, error) {
	if v, ok := e.fromName[name]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("member %q: %w: %q", e.name, ErrEnumNameUnknown, name)
}

// IsEnum reports true: this member carries an enum name table.
func (e *EnumMember[C, T]) IsEnum() bool { return true }

// AsEnum returns the member's enum view.
func (e *EnumMember[C, T]) AsEnum() apis.EnumMember { return e }

// ToName implements apis.EnumMember.
func (e *EnumMember[C, T]) ToName(value any) (string, error) {
	v, err := convert[T](value)
	if err != nil {
		return "", fmt.Errorf("member %q: %w", e.name, err)
	}
	return e.ToString(v)
}

// FromName implements apis.EnumMember.
func (e *EnumMember[C, T]) FromName(name string) (any, error) {
	v, err := e.FromString(name)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetString reads the member from obj and returns its display name.
func (e *EnumMember[C, T]) GetString(obj any) (string, error) {
	c, ok := obj.(*C)
	if !ok {
		return "", fmt.Errorf("%w: member %q of %s, got %T", ErrClassMismatch, e.name, e.Class(), obj)
	}
	return e.ToString(e.GetCopy(c))
}

// SetString parses name and writes the resulting value into obj.
// Unknown names leave obj untouched and return an error.
func (e *EnumMember[C, T]) SetString(obj any, name string) error {
	c, ok := obj.(*C)
	if !ok {
		return fmt.Errorf("%w: member %q of %s, got %T", ErrClassMismatch, e.name, e.Class(), obj)
	}
	v, err := e.FromString(name)
	if err != nil {
		return err
	}
	e.Set(c, v)
	return nil
}

// Names returns the registered display names in registration order.
func (e *EnumMember[C, T]) Names() []string { return slices.Clone(e.order) }

// Compile-time interface check.
var _ apis.EnumMember = (*EnumMember[struct{}, int])(nil)
