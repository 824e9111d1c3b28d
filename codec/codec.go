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

// Package codec serializes registered classes through the global member
// registry, without per-type marshaling code.
//
// Encoding walks the class's member collection in registration order, so
// output is deterministic. Enum-typed members are written as their
// registered display names. Decoding is lenient the same way the generic
// dispatch layer is: unknown document keys are skipped, members absent from
// the document are left untouched, and members without a set-capable
// strategy are never written to. Unregistered classes encode to an empty
// document.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/goccy/go-yaml"

	"dirpx.dev/mrx"
	"dirpx.dev/mrx/apis"
)

var (
	// ErrNilObject is returned when a nil value is passed for encoding.
	ErrNilObject = errors.New("mrx(codec): nil object")
	// ErrNotPointer is returned when a decode target is not a non-nil pointer.
	ErrNotPointer = errors.New("mrx(codec): decode target must be a non-nil pointer")
)

// Marshal encodes obj as a JSON object with one key per readable member,
// in registration order. obj may be a registered class value or a pointer
// to one.
func Marshal(obj any) ([]byte, error) {
	ptr, members, err := source(obj)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	for _, m := range members {
		if !m.CanRead() {
			continue
		}
		v, err := memberValue(m, ptr)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("mrx(codec): member %q: %w", m.Name(), err)
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(m.Name())
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		n++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON object into obj, which must be a non-nil pointer
// to a registered class.
func Unmarshal(data []byte, obj any) error {
	ptr, members, err := target(obj)
	if err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("mrx(codec): %w", err)
	}

	for _, m := range members {
		raw, ok := fields[m.Name()]
		if !ok || !m.CanWrite() {
			continue
		}
		if m.IsEnum() {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("mrx(codec): enum member %q: %w", m.Name(), err)
			}
			if err := m.AsEnum().SetString(ptr, s); err != nil {
				return err
			}
			continue
		}
		pv := reflect.New(m.Type())
		if err := json.Unmarshal(raw, pv.Interface()); err != nil {
			return fmt.Errorf("mrx(codec): member %q: %w", m.Name(), err)
		}
		if err := m.SetAny(ptr, pv.Elem().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// MarshalYAML encodes obj as a YAML mapping with one key per readable
// member, in registration order.
func MarshalYAML(obj any) ([]byte, error) {
	ptr, members, err := source(obj)
	if err != nil {
		return nil, err
	}

	doc := make(yaml.MapSlice, 0, len(members))
	for _, m := range members {
		if !m.CanRead() {
			continue
		}
		v, err := memberValue(m, ptr)
		if err != nil {
			return nil, err
		}
		doc = append(doc, yaml.MapItem{Key: m.Name(), Value: v})
	}
	return yaml.Marshal(doc)
}

// UnmarshalYAML decodes a YAML mapping into obj, which must be a non-nil
// pointer to a registered class.
func UnmarshalYAML(data []byte, obj any) error {
	ptr, members, err := target(obj)
	if err != nil {
		return err
	}

	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("mrx(codec): %w", err)
	}

	for _, m := range members {
		v, ok := fields[m.Name()]
		if !ok || !m.CanWrite() {
			continue
		}
		if m.IsEnum() {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("mrx(codec): enum member %q: expected string, got %T", m.Name(), v)
			}
			if err := m.AsEnum().SetString(ptr, s); err != nil {
				return err
			}
			continue
		}
		// Round-trip through YAML to coerce the untyped node into the
		// member's declared type (handles nested mappings and numbers).
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("mrx(codec): member %q: %w", m.Name(), err)
		}
		pv := reflect.New(m.Type())
		if err := yaml.Unmarshal(b, pv.Interface()); err != nil {
			return fmt.Errorf("mrx(codec): member %q: %w", m.Name(), err)
		}
		if err := m.SetAny(ptr, pv.Elem().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// memberValue reads one member for encoding; enums encode as display names.
func memberValue(m apis.Member, ptr any) (any, error) {
	if m.IsEnum() {
		s, err := m.AsEnum().GetString(ptr)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return m.GetAny(ptr)
}

// source resolves obj into a pointer suitable for member access plus the
// class's member collection. Values are copied into addressable storage.
func source(obj any) (any, []apis.Member, error) {
	if obj == nil {
		return nil, nil, ErrNilObject
	}
	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil, ErrNilObject
		}
	} else {
		pv := reflect.New(rv.Type())
		pv.Elem().Set(rv)
		rv = pv
	}
	return rv.Interface(), mrx.MembersOf(rv.Type()), nil
}

// target validates a decode destination and resolves its member collection.
func target(obj any) (any, []apis.Member, error) {
	if obj == nil {
		return nil, nil, ErrNotPointer
	}
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, nil, ErrNotPointer
	}
	return obj, mrx.MembersOf(rv.Type()), nil
}
