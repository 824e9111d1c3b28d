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

import "reflect"

// Factory builds the ordered member collection of one class. It is supplied
// by registering code and invoked by a Registry at most once per class.
// The returned slice defines the canonical member order for that class.
type Factory func() []Member

// Member is the type-erased view of one registered class member.
//
// The concrete implementations live in package member and are strongly typed
// (Member[C, T]); this interface is what registries hand out so that generic
// code (enumeration, serialization, UI binding) can operate on members of
// arbitrary classes.
//
// Error model: lookup-style failures (wrong object type, value not
// convertible) are returned as errors. Capability misuse (calling a get on a
// member with no get-capable strategy, AsEnum on a non-enum member) is a
// registration bug and panics.
type Member interface {
	// Name returns the member's display/lookup identifier,
	// unique within one class's registration.
	Name() string
	// Class returns the reflect.Type of the owning class.
	Class() reflect.Type
	// Type returns the reflect.Type of the member's value.
	Type() reflect.Type

	// HasField reports whether a direct field accessor is present.
	HasField() bool
	// HasGetter reports whether a value or reference getter is present.
	HasGetter() bool
	// HasSetter reports whether a value or reference setter is present.
	HasSetter() bool
	// CanGetConstRef reports whether a read-only reference can be obtained
	// (direct field or reference getter).
	CanGetConstRef() bool
	// CanGetRef reports whether a mutable reference can be obtained
	// (direct field or mutable getter).
	CanGetRef() bool
	// CanRead reports whether any get-capable strategy is present.
	CanRead() bool
	// CanWrite reports whether any set-capable strategy is present.
	CanWrite() bool

	// IsEnum reports whether this member carries an enum name table.
	IsEnum() bool
	// AsEnum reinterprets the member as an EnumMember.
	// Calling AsEnum when IsEnum() is false is a contract violation and panics.
	AsEnum() EnumMember

	// GetAny returns a copy of the member's current value in obj.
	// obj must be a pointer to the member's class.
	GetAny(obj any) (any, error)
	// SetAny sets the member's value in obj from value, converting it to the
	// member's type when necessary. obj must be a pointer to the member's class.
	SetAny(obj any, value any) error
}

// EnumMember extends Member with a bidirectional display-name mapping for
// enumeration-typed members. The table is populated during registration via
// the fluent Value calls on the concrete member.EnumMember type.
type EnumMember interface {
	Member

	// ToName maps an enum value to its registered display name.
	// Unregistered values yield an explicit not-found error.
	ToName(value any) (string, error)
	// FromName maps a registered display name back to the enum value.
	// Unregistered names yield an explicit not-found error.
	FromName(name string) (any, error)

	// GetString reads the member from obj and returns its display name.
	GetString(obj any) (string, error)
	// SetString parses name and writes the resulting value into obj.
	SetString(obj any, name string) error

	// Names returns the registered display names in registration order.
	Names() []string
}
