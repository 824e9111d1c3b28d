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

// Registry is the process-wide cache mapping a class type to its member
// collection and, optionally, a display name.
//
// Member collections are built lazily: the Factory registered for a class
// runs at most once, on first need, and the built collection is immutable
// and safe for unsynchronized concurrent reads thereafter. Classes without
// a registered Factory are not an error; their collection is empty.
type Registry interface {
	// Register associates a (nearest named) reflect.Type with the factory
	// that builds its ordered member collection. The factory is not invoked
	// here; it runs on first Members/Lookup for the class.
	Register(t reflect.Type, f Factory) error
	// RegisterName associates a fixed display name with the class type.
	// Implementations should be idempotent for the same (type, name) pair.
	RegisterName(t reflect.Type, name string) error

	// Members returns the ordered member collection of the class, building
	// it on first call. The returned slice is shared and must not be
	// modified. Unregistered classes yield a nil slice.
	Members(t reflect.Type) []Member
	// Lookup returns the first member registered under the given name,
	// if any. Name folding is configuration-dependent.
	Lookup(t reflect.Type, name string) (Member, bool)
	// IsRegistered reports whether a member factory exists for the class.
	IsRegistered(t reflect.Type) bool
	// LookupName returns the registered display name of the class, if any.
	LookupName(t reflect.Type) (name string, ok bool)

	// Entries returns a snapshot for diagnostics and state migration
	// (order is unspecified).
	Entries() []Entry
	// Count returns the number of classes with a registered member factory.
	Count() int
	// Reset clears all registrations.
	Reset()
}

// Entry is a single class registration in a Registry snapshot.
type Entry struct {
	// Type is the registered class type.
	Type reflect.Type
	// Name is the registered display name, or "" if none.
	Name string
	// Factory builds the class's member collection, or nil if only a
	// display name was registered.
	Factory Factory
}
