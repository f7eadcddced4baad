// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gogama/apix/fault"
)

var (
	timeType          = reflect.TypeOf(time.Time{})
	marshalerType     = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// leafKey marks a single-entry map standing in for a struct-typed
// field which must not be flattened into an object, such as a
// time.Time or a json.Marshaler.
const leafKey = "\x00apix.leaf"

// Encode serializes v to JSON, spelling object keys according to keys
// and representing every time.Time according to dates.
//
// Field names follow encoding/json rules: the json struct tag name if
// present, otherwise the Go field name. The omitempty and "-" tag
// options are honored and embedded struct values are flattened. Values
// which implement json.Marshaler are emitted verbatim, without key
// rewriting. Object keys are written in sorted order.
//
// A failure is returned as a *fault.Error of kind Encoding.
func Encode(v any, dates DateStrategy, keys KeyStrategy) ([]byte, error) {
	if raw, ok := v.(Raw); ok {
		return []byte(raw), nil
	}
	if dates.IsDefault() && keys.IsDefault() {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fault.NewEncoding(err.Error())
		}
		return b, nil
	}
	enc := encoder{dates: dates, keys: keys}
	tree, err := enc.value(reflect.ValueOf(v))
	if err != nil {
		return nil, fault.NewEncoding(err.Error())
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return nil, fault.NewEncoding(err.Error())
	}
	return b, nil
}

// An encoder turns a Go value into a tree of maps, slices and scalars
// which encoding/json can marshal directly. Struct fields are selected
// and named by mapstructure; the encoder walks everything mapstructure
// leaves as is (pointers, slices, maps) and applies the strategies.
type encoder struct {
	dates DateStrategy
	keys  KeyStrategy
	depth int
}

const maxDepth = 1000

func (enc *encoder) value(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	enc.depth++
	defer func() { enc.depth-- }()
	if enc.depth > maxDepth {
		return nil, fmt.Errorf("value nested deeper than %d levels, possible cycle", maxDepth)
	}

	t := v.Type()
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		if x, ok, err := enc.leaf(v); ok {
			return x, err
		}
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return enc.value(v.Elem())
	case reflect.Struct:
		return enc.structValue(v)
	case reflect.Map:
		return enc.mapValue(v)
	case reflect.Slice:
		if v.IsNil() {
			return nil, nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return v.Bytes(), nil
		}
		fallthrough
	case reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			x, err := enc.value(v.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case reflect.Func, reflect.Chan, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return nil, fmt.Errorf("unsupported type: %s", t)
	default:
		return v.Interface(), nil
	}
}

// leaf encodes values which have their own wire form: times, and
// implementations of json.Marshaler or encoding.TextMarshaler.
func (enc *encoder) leaf(v reflect.Value) (any, bool, error) {
	t := v.Type()
	switch {
	case t == timeType:
		x, err := enc.dates.encodeTime(v.Interface().(time.Time))
		return x, true, err
	case t.Implements(marshalerType):
		x, err := marshalJSON(v.Interface().(json.Marshaler))
		return x, true, err
	case v.CanAddr() && reflect.PointerTo(t).Implements(marshalerType):
		x, err := marshalJSON(v.Addr().Interface().(json.Marshaler))
		return x, true, err
	case t.Kind() != reflect.String && t.Implements(textMarshalerType):
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		return string(b), true, err
	}
	return nil, false, nil
}

func marshalJSON(m json.Marshaler) (any, error) {
	b, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

func (enc *encoder) structValue(v reflect.Value) (any, error) {
	var fields map[string]any
	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: enc.leafHook,
		Result:     &fields,
		TagName:    "json",
		Squash:     true,
	})
	if err != nil {
		return nil, err
	}
	if err = md.Decode(v.Interface()); err != nil {
		return nil, err
	}
	return enc.mapValue(reflect.ValueOf(fields))
}

// leafHook stops mapstructure from flattening struct-typed fields which
// have their own wire form. The encoded value is wrapped in a
// single-entry map under leafKey, which mapValue unwraps.
func (enc *encoder) leafHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Map || from.Kind() != reflect.Pointer || from.Elem().Kind() != reflect.Struct {
		return data, nil
	}
	v := reflect.ValueOf(data)
	if v.IsNil() {
		return data, nil
	}
	x, ok, err := enc.leaf(v.Elem())
	if !ok {
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{leafKey: x}, nil
}

func (enc *encoder) mapValue(v reflect.Value) (any, error) {
	if v.IsNil() {
		return nil, nil
	}
	if m, ok := v.Interface().(map[string]any); ok && len(m) == 1 {
		if x, ok := m[leafKey]; ok {
			return x, nil
		}
	}
	out := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := mapKey(iter.Key())
		if err != nil {
			return nil, err
		}
		x, err := enc.value(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[enc.keys.encodeKey(k)] = x
	}
	return out, nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		return string(b), err
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fmt.Sprint(k.Interface()), nil
	}
	return "", fmt.Errorf("unsupported map key type: %s", k.Type())
}
