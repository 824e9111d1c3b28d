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

// Namer identifies application-level entities by a stable, canonical name.
//
// Namer is the zero-reflection fast path for class display-name resolution:
// when a value implements Namer, resolvers MUST prefer it and skip registry
// lookups and reflect-based fallbacks for that value.
//
// EntityName is a type-level contract: it describes the kind of entity, not
// a particular instance. Implementations:
//
//   - MUST return a non-empty, deterministic name for a given concrete type.
//   - MUST NOT depend on mutable instance state.
//   - MUST be safe for concurrent calls and cheap (no I/O, no blocking;
//     returning a constant string literal is RECOMMENDED).
type Namer interface {
	// EntityName returns the canonical, type-level name for this entity.
	EntityName() string
}
