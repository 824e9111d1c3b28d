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
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/mrx/apis"
	"dirpx.dev/mrx/builder"
	"dirpx.dev/mrx/config"
)

// init initializes the global state with default cfg, registry and resolver.
func init() {
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.res = b.BuildResolver(s.cfg, s.reg, nil, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("mrx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("mrx: builder returned nil resolver")
)

// Entity resolves the display name of the class of v using the global
// resolver chain: Namer fast path, registered class name, reflect fallback.
func Entity(v any) string {
	s := st.Load()
	return s.res.Resolve(v, s.cfg)
}

// EntityType resolves the display name of the class t using the global
// resolver chain.
func EntityType(t reflect.Type) string {
	s := st.Load()
	return s.res.ResolveType(t, s.cfg)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg and rebuilds the global
// registry and resolver with the current builder. Class registrations
// (member factories and display names) are migrated; member sets are
// rebuilt lazily on first use.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	b := old.bld

	nreg := b.BuildRegistry(cfg, old.reg, old.ext)
	nres := b.BuildResolver(cfg, nreg, old.res, old.ext)
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	st.Store(&state{cfg: cfg, ext: old.ext, reg: nreg, res: nres, bld: b})
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global registry to reg and rebuilds the resolver
// on top of it. Nil registries are ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nres := old.bld.BuildResolver(old.cfg, reg, old.res, old.ext)
	if nres == nil {
		panic(ErrNilResolver)
	}

	st.Store(&state{cfg: old.cfg, ext: old.ext, reg: reg, res: nres, bld: old.bld})
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets the global resolver to res. Nil resolvers are ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, ext: old.ext, reg: old.reg, res: res, bld: old.bld})
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds registry and
// resolver through it. Nil builders are ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nreg := b.BuildRegistry(old.cfg, old.reg, old.ext)
	nres := b.BuildResolver(old.cfg, nreg, old.res, old.ext)
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	st.Store(&state{cfg: old.cfg, ext: old.ext, reg: nreg, res: nres, bld: b})
}

// SetExt replaces the opaque extension payload and rebuilds registry and
// resolver so the builder can observe it.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	b := old.bld

	nreg := b.BuildRegistry(old.cfg, old.reg, ext)
	nres := b.BuildResolver(old.cfg, nreg, old.res, ext)
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	st.Store(&state{cfg: old.cfg, ext: ext, reg: nreg, res: nres, bld: b})
}

// ExtAs returns the global extension payload as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// SetAll explicitly sets all global state components in one shot.
//
// Nil cfg keeps the current configuration; nil reg/res are rebuilt through
// the builder; nil bld keeps the current builder. ext is always replaced.
// This is primarily a test hook for deterministic snapshots.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	nreg := reg
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, nil, ext)
	}
	nres := res
	if nres == nil {
		nres = nbld.BuildResolver(ncfg, nreg, nil, ext)
	}

	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	st.Store(&state{cfg: ncfg, ext: ext, reg: nreg, res: nres, bld: nbld})
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global mrx state.
var st atomic.Pointer[state]

// state is the global mrx state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is an opaque extension payload handed to the builder on rebuilds.
	ext any
	// reg is the global class registry.
	reg apis.Registry
	// res is the global class-name resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
}
