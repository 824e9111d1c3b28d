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

package registry

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/mrx/apis"
	"dirpx.dev/mrx/config"
	uref "dirpx.dev/mrx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("mrx(registry): nil reflect.Type provided")
	// ErrNilFactory is returned when a nil member factory is provided.
	ErrNilFactory = errors.New("mrx(registry): nil member factory provided")
	// ErrEmptyName is returned when an empty display name is provided.
	ErrEmptyName = errors.New("mrx(registry): empty name provided")
	// ErrAlreadyRegistered indicates an attempt to re-register a class's
	// member factory while Config.AllowRedefine is false.
	ErrAlreadyRegistered = errors.New("mrx(registry): class already registered")
	// ErrConflictingName indicates an attempt to re-register a class
	// display name with a different value.
	ErrConflictingName = errors.New("mrx(registry): conflicting class name registration")
)

// New constructs a Registry that normalizes class types according to cfg.
// MaxUnwrap, MapPreferElem, FoldNames and AllowRedefine are consulted here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &registry{cfg: cfg, log: log}
}

// registry is a Registry implementation backed by sync.Map, with a
// once-guarded lazy build per class entry.
type registry struct {
	// cfg is the configuration used for type normalization and name folding.
	cfg apis.Config
	// log receives debug events.
	log *zap.Logger
	// mu guards write-side consistency and counter.
	mu sync.Mutex
	// classes maps reflect.Type to *classEntry.
	classes sync.Map
	// names maps reflect.Type to a registered display name (string).
	names sync.Map
	// count tracks the number of registered member factories.
	count int
}

// classEntry holds one class's factory and its lazily built member set.
// Fields written inside once.Do are immutable afterwards; unsynchronized
// concurrent reads are safe.
type classEntry struct {
	factory apis.Factory
	once    sync.Once
	members []apis.Member
	byName  map[string]apis.Member
}

// build runs the factory exactly once and indexes members by (folded) name.
// Nil members are dropped; on duplicate names the first registration wins
// for lookup while enumeration keeps every entry in order.
func (e *classEntry) build(r *registry, t reflect.Type) {
	e.once.Do(func() {
		raw := e.factory()
		members := make([]apis.Member, 0, len(raw))
		byName := make(map[string]apis.Member, len(raw))
		for _, m := range raw {
			if m == nil {
				continue
			}
			members = append(members, m)
			key := r.fold(m.Name())
			if _, dup := byName[key]; dup {
				r.log.Warn("mrx: duplicate member name in registration",
					zap.String("class", t.String()),
					zap.String("member", m.Name()))
				continue
			}
			byName[key] = m
		}
		e.members = members
		e.byName = byName
		r.log.Debug("mrx: built member set",
			zap.String("class", t.String()),
			zap.Int("members", len(members)))
	})
}

// Register associates the nearest named type of t with the member factory f.
// The factory is not invoked; it runs on first need. Re-registration fails
// with ErrAlreadyRegistered unless Config.AllowRedefine is set, in which
// case the previous entry (built or not) is replaced.
func (r *registry) Register(t reflect.Type, f apis.Factory) error {
	if t == nil {
		return ErrNilType
	}
	if f == nil {
		return ErrNilFactory
	}

	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes.Load(b); exists {
		if !r.cfg.AllowRedefine {
			return ErrAlreadyRegistered
		}
		r.classes.Store(b, &classEntry{factory: f})
		r.log.Debug("mrx: replaced member factory", zap.String("class", b.String()))
		return nil
	}

	r.classes.Store(b, &classEntry{factory: f})
	r.count++
	r.log.Debug("mrx: registered member factory", zap.String("class", b.String()))
	return nil
}

// RegisterName associates a display name with the class.
// It is idempotent for the same (type, name) pair.
func (r *registry) RegisterName(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}

	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.names.Load(b); ok {
		if old.(string) == name {
			return nil
		}
		return ErrConflictingName
	}
	r.names.Store(b, name)
	return nil
}

// Members returns the class's ordered member collection, building it on
// first call. The returned slice is the registry's cached collection and
// must not be modified. Unregistered or unresolvable classes yield nil.
func (r *registry) Members(t reflect.Type) []apis.Member {
	e, b := r.entry(t)
	if e == nil {
		return nil
	}
	e.build(r, b)
	return e.members
}

// Lookup returns the first member registered under name, honoring
// Config.FoldNames.
func (r *registry) Lookup(t reflect.Type, name string) (apis.Member, bool) {
	e, b := r.entry(t)
	if e == nil {
		return nil, false
	}
	e.build(r, b)
	m, ok := e.byName[r.fold(name)]
	return m, ok
}

// IsRegistered reports whether a member factory exists for the class.
func (r *registry) IsRegistered(t reflect.Type) bool {
	e, _ := r.entry(t)
	return e != nil
}

// LookupName returns the registered display name of the class, if any.
func (r *registry) LookupName(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return "", false
	}
	if v, ok := r.names.Load(b); ok {
		return v.(string), true
	}
	return "", false
}

// Entries returns a snapshot for diagnostics and migration (order is
// unspecified). Factories are included so builders can carry registrations
// across a rebuild.
func (r *registry) Entries() []apis.Entry {
	seen := make(map[reflect.Type]*apis.Entry)
	r.classes.Range(func(key, value any) bool {
		t := key.(reflect.Type)
		seen[t] = &apis.Entry{Type: t, Factory: value.(*classEntry).factory}
		return true
	})
	r.names.Range(func(key, value any) bool {
		t := key.(reflect.Type)
		if e, ok := seen[t]; ok {
			e.Name = value.(string)
		} else {
			seen[t] = &apis.Entry{Type: t, Name: value.(string)}
		}
		return true
	})

	entries := make([]apis.Entry, 0, len(seen))
	for _, e := range seen {
		entries = append(entries, *e)
	}
	return entries
}

// Count returns the number of classes with a registered member factory.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registrations.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes = sync.Map{}
	r.names = sync.Map{}
	r.count = 0
}

// entry resolves t to its classEntry and normalized class type, or nil when
// t is nil, unresolvable, or unregistered.
func (r *registry) entry(t reflect.Type) (*classEntry, reflect.Type) {
	if t == nil {
		return nil, nil
	}
	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return nil, nil
	}
	if v, ok := r.classes.Load(b); ok {
		return v.(*classEntry), b
	}
	return nil, b
}

// fold canonicalizes a member name for lookup according to Config.FoldNames.
func (r *registry) fold(name string) string {
	if r.cfg.FoldNames {
		return strings.ToLower(name)
	}
	return name
}
