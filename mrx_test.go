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

package mrx_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mrx"
	"dirpx.dev/mrx/apis"
	"dirpx.dev/mrx/config"
	"dirpx.dev/mrx/member"
)

type color int

const (
	red color = iota
	green
	blue
)

type point struct {
	x, y  int
	tint  color
	label string
}

func (p *point) GetLabel() string  { return p.label }
func (p *point) SetLabel(s string) { p.label = s }

// unregistered never gets a member factory; the generic layer must treat it
// as an empty class.
type unregistered struct {
	N int
}

// named implements apis.Namer.
type named struct{}

func (named) EntityName() string { return "hot-named" }

// reset gives each test a pristine default snapshot.
func reset(t *testing.T) {
	t.Helper()
	cfg := config.DefaultConfig()
	mrx.SetAll(&cfg, nil, nil, nil, nil)
	t.Cleanup(func() {
		c := config.DefaultConfig()
		mrx.SetAll(&c, nil, nil, nil, nil)
	})
}

func registerPoint(t *testing.T) {
	t.Helper()
	err := mrx.RegisterMembers[point](func() []apis.Member {
		return []apis.Member{
			member.Field("x", func(p *point) *int { return &p.x }),
			member.Field("y", func(p *point) *int { return &p.y }),
			member.EnumField("tint", func(p *point) *color { return &p.tint }).
				Value("RED", red).
				Value("GREEN", green).
				Value("BLUE", blue),
			member.Accessor("label", (*point).GetLabel, (*point).SetLabel),
		}
	})
	require.NoError(t, err)
}

func TestRegisterAndEnumerate(t *testing.T) {
	reset(t)
	registerPoint(t)

	require.True(t, mrx.IsRegistered[point]())
	require.False(t, mrx.IsRegistered[unregistered]())

	ms := mrx.Members[point]()
	require.Len(t, ms, 4)

	var names []string
	mrx.DoForAllMembers[point](func(m apis.Member) {
		names = append(names, m.Name())
	})
	assert.Equal(t, []string{"x", "y", "tint", "label"}, names)

	assert.True(t, mrx.HasMember[point]("x"))
	assert.False(t, mrx.HasMember[point]("z"))
}

func TestGetSetMemberValue(t *testing.T) {
	reset(t)
	registerPoint(t)

	p := &point{x: 1, y: 2}

	x, err := mrx.GetMemberValue[int](p, "x")
	require.NoError(t, err)
	assert.Equal(t, 1, x)

	require.NoError(t, mrx.SetMemberValue(p, "y", 20))
	assert.Equal(t, 20, p.y)

	// Accessor-backed member routes through the setter.
	require.NoError(t, mrx.SetMemberValue(p, "label", "origin"))
	l, err := mrx.GetMemberValue[string](p, "label")
	require.NoError(t, err)
	assert.Equal(t, "origin", l)
}

func TestLookupMisses_AreErrorsNotPanics(t *testing.T) {
	reset(t)
	registerPoint(t)

	p := &point{}

	// Unknown name.
	_, err := mrx.GetMemberValue[int](p, "z")
	assert.ErrorIs(t, err, mrx.ErrMemberNotFound)
	assert.ErrorIs(t, mrx.SetMemberValue(p, "z", 1), mrx.ErrMemberNotFound)

	// Name matches but the requested type does not: treated as not found.
	_, err = mrx.GetMemberValue[string](p, "x")
	assert.ErrorIs(t, err, mrx.ErrMemberNotFound)
	assert.ErrorIs(t, mrx.SetMemberValue(p, "x", "one"), mrx.ErrMemberNotFound)
}

func TestUnregisteredClass_DegradesToNoop(t *testing.T) {
	reset(t)

	assert.Nil(t, mrx.Members[unregistered]())
	assert.False(t, mrx.HasMember[unregistered]("n"))

	invoked := false
	mrx.DoForAllMembers[unregistered](func(apis.Member) { invoked = true })
	assert.False(t, invoked)

	u := &unregistered{N: 1}
	_, err := mrx.GetMemberValue[int](u, "n")
	assert.ErrorIs(t, err, mrx.ErrMemberNotFound)
	assert.Equal(t, 1, u.N)
}

func TestDoForMember_TypedAccess(t *testing.T) {
	reset(t)
	registerPoint(t)

	p := &point{x: 5}
	found := mrx.DoForMember[point, int]("x", func(m *member.Member[point, int]) {
		assert.Equal(t, 5, m.GetCopy(p))
		m.Set(p, 6)
	})
	require.True(t, found)
	assert.Equal(t, 6, p.x)

	// Type mismatch: the callback never runs.
	found = mrx.DoForMember[point, string]("x", func(*member.Member[point, string]) {
		t.Fatal("callback must not run for a type mismatch")
	})
	assert.False(t, found)
}

func TestSetMemberAny_Converts(t *testing.T) {
	reset(t)
	registerPoint(t)

	p := &point{}
	require.NoError(t, mrx.SetMemberAny(p, "x", float64(7)))
	assert.Equal(t, 7, p.x)

	err := mrx.SetMemberAny(p, "x", "seven")
	assert.ErrorIs(t, err, member.ErrNotConvertible)

	assert.ErrorIs(t, mrx.SetMemberAny(p, "z", 1), mrx.ErrMemberNotFound)
}

func TestEnumMemberStrings(t *testing.T) {
	reset(t)
	registerPoint(t)

	p := &point{tint: green}

	s, err := mrx.GetEnumMemberValueString(p, "tint")
	require.NoError(t, err)
	assert.Equal(t, "GREEN", s)

	require.NoError(t, mrx.SetEnumMemberValueString(p, "tint", "BLUE"))
	assert.Equal(t, blue, p.tint)

	// Unknown enum name: explicit error, object untouched.
	err = mrx.SetEnumMemberValueString(p, "tint", "MAGENTA")
	assert.ErrorIs(t, err, member.ErrEnumNameUnknown)
	assert.Equal(t, blue, p.tint)

	// Missing member: recoverable error.
	_, err = mrx.GetEnumMemberValueString(p, "hue")
	assert.ErrorIs(t, err, mrx.ErrMemberNotFound)

	// Non-enum member: registration bug, panics.
	assert.Panics(t, func() { _, _ = mrx.GetEnumMemberValueString(p, "x") })
}

func TestDisplayNames_ResolverChain(t *testing.T) {
	reset(t)
	registerPoint(t)
	require.NoError(t, mrx.RegisterName[point]("geometry.point"))

	// Namer fast path beats everything.
	assert.Equal(t, "hot-named", mrx.Entity(named{}))

	// Registered display name.
	assert.Equal(t, "geometry.point", mrx.Name[point]())
	assert.Equal(t, "geometry.point", mrx.Entity(&point{}))
	assert.Equal(t, "geometry.point", mrx.EntityType(reflect.TypeOf([]point{})))

	// Reflect fallback for everything else.
	assert.Contains(t, mrx.Entity(unregistered{}), "unregistered")
}

func TestSetConfig_MigratesRegistrations(t *testing.T) {
	reset(t)
	registerPoint(t)
	require.NoError(t, mrx.RegisterName[point]("geometry.point"))

	// Flip name folding; registrations must survive the rebuild.
	mrx.SetConfig(config.NewConfig(config.WithFoldNames(true)))

	require.True(t, mrx.IsRegistered[point]())
	assert.Equal(t, "geometry.point", mrx.Name[point]())

	p := &point{x: 3}
	x, err := mrx.GetMemberValue[int](p, "X") // folded lookup
	require.NoError(t, err)
	assert.Equal(t, 3, x)
}

func TestSetAll_ResetsState(t *testing.T) {
	reset(t)
	registerPoint(t)
	require.True(t, mrx.IsRegistered[point]())

	cfg := config.DefaultConfig()
	mrx.SetAll(&cfg, nil, nil, nil, nil)

	assert.False(t, mrx.IsRegistered[point]())
	assert.Equal(t, cfg, mrx.Config())
	assert.NotNil(t, mrx.Registry())
	assert.NotNil(t, mrx.Resolver())
	assert.NotNil(t, mrx.Builder())
}

func TestSetRegistry_NilIgnored(t *testing.T) {
	reset(t)

	before := mrx.Registry()
	mrx.SetRegistry(nil)
	assert.Same(t, before, mrx.Registry())

	mrx.SetResolver(nil)
	mrx.SetBuilder(nil)
	assert.NotNil(t, mrx.Resolver())
	assert.NotNil(t, mrx.Builder())
}

func TestExtPayload(t *testing.T) {
	reset(t)

	type payload struct{ tag string }
	mrx.SetExt(payload{tag: "aux"})

	got, ok := mrx.ExtAs[payload]()
	require.True(t, ok)
	assert.Equal(t, "aux", got.tag)

	_, ok = mrx.ExtAs[int]()
	assert.False(t, ok)
}
