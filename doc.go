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

// Package mrx provides a global, process-wide member reflection layer.
//
// mrx lets application code declare, once per class type, an ordered set of
// named members (fields) together with an access strategy, and thereafter
// perform name-driven, type-checked get/set operations, enumerate members
// generically, and convert enum-typed members to and from display strings.
// It is a building block for generic serialization, UI binding, editors and
// debugging tools that need to operate on arbitrary registered types without
// per-type boilerplate.
//
// # Design
//
// The core of mrx is a read-mostly global snapshot (state). The snapshot
// holds four things:
//
//   - Config: rules that control registries and resolvers (normalization
//     depth, member-name folding, redefinition policy, logging).
//
//   - Registry: the process-wide cache mapping a class type to its ordered
//     member collection and, optionally, a display name. Member collections
//     are built lazily: the registration factory supplied by the application
//     runs at most once per class, on first need, and the built collection
//     is immutable and safe for unsynchronized concurrent reads thereafter.
//     Classes without a registration are not an error; every generic
//     operation degrades to a no-op over the empty collection.
//
//   - Resolver: a read-only object that answers "what is the display name
//     of this class?". It tries multiple strategies in priority order:
//     1. If the value implements apis.Namer, use v.EntityName().
//     2. If a name was registered via RegisterName, use that.
//     3. Otherwise fall back to a reflect-derived "pkg.Type" identifier.
//
//   - Builder: a pluggable factory that constructs Registry and Resolver
//     instances for a given Config, migrating class registrations from
//     previous instances across rebuilds.
//
// Readers load the current snapshot atomically and never take locks; writers
// (SetConfig, SetRegistry, ...) build a brand-new state under a short build
// mutex and publish it with an atomic pointer swap.
//
// # Members
//
// A member descriptor (package member) carries one of three access
// strategies, or a superset:
//
//   - direct field storage:      member.Field("x", func(p *Point) *int { return &p.X })
//   - a by-value accessor pair:  member.Accessor("x", (*Point).GetX, (*Point).SetX)
//   - a reference accessor pair: member.RefAccessor(...), optionally with
//     .WithMutableGetter(...) to allow GetRef.
//
// Accessors always take precedence over direct field storage for both reads
// and writes: an accessor exists specifically to intercept raw access.
// Capability predicates (HasGetter, HasSetter, CanGetConstRef, CanGetRef)
// reflect exactly which strategies are populated, and invoking an operation
// no strategy can satisfy is a registration bug that panics. Name lookup
// misses, in contrast, are ordinary recoverable errors (ErrMemberNotFound).
//
// Enum-typed members are declared with member.EnumField (and friends) and a
// fluent name table:
//
//	member.EnumField("color", func(s *Shape) *Color { return &s.Color }).
//		Value("RED", Red).
//		Value("GREEN", Green)
//
// The table maps both directions; values and names never registered resolve
// to explicit errors rather than silent defaults.
//
// # Usage pattern in a binary
//
//  1. Register each reflectable class once, typically from an init function:
//
//     mrx.RegisterMembers[Point](func() []apis.Member { ... })
//     mrx.RegisterName[Point]("geometry.point")
//
//  2. Use the generic dispatch layer everywhere else:
//
//     v, err := mrx.GetMemberValue[int](p, "x")
//     err = mrx.SetMemberValue(p, "x", 5)
//     mrx.DoForAllMembers[Point](func(m apis.Member) { ... })
//     s, err := mrx.GetEnumMemberValueString(shape, "color")
//
//  3. In tests, call mrx.SetAll(...) to get deterministic snapshots and to
//     inject a mock Builder.
//
// The expected lifecycle is registration-then-use: registrations happen
// during startup, reads dominate afterwards. Racing first reads of the same
// class are safe (the factory still runs exactly once); racing a Register
// against reads of the same class is not meaningful and is not supported.
//
// # Scope
//
// mrx is intentionally small. It does not walk type hierarchies, create
// types at runtime, or version registered members. Concrete serialization
// sits on top (see package codec); everything else belongs to higher layers.
package mrx
