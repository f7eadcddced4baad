// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gogama/apix/fault"
)

var (
	unmarshalerType     = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	anyType             = reflect.TypeOf((*any)(nil)).Elem()
)

// Decode parses the JSON in b into target, which must be a non-nil
// pointer. Wire keys are mapped back to Go names according to keys,
// and time.Time destinations are parsed according to dates.
//
// Struct fields are matched against wire keys case-insensitively, by
// json tag name when present and by Go field name otherwise. A wire
// key also matches a field when it is the field name as Encode would
// write it, so a field tagged `json:"user_id"` reads back under
// SnakeCase. Unknown keys are ignored.
//
// As with encoding/json, []byte destinations are read from base64
// strings, and map keys are parsed into integer and
// encoding.TextUnmarshaler key types.
//
// If target is a *Raw, the bytes are copied into it unparsed. If
// target is an *Empty, b is ignored entirely.
//
// A failure is returned as a *fault.Error of kind Decoding.
func Decode(b []byte, target any, dates DateStrategy, keys KeyStrategy) error {
	switch t := target.(type) {
	case *Empty:
		return nil
	case *Raw:
		if t == nil {
			return fault.NewDecoding("nil *codec.Raw target")
		}
		*t = append((*t)[:0], b...)
		return nil
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fault.NewDecoding(fmt.Sprintf("target must be a non-nil pointer, found %T", target))
	}
	if dates.IsDefault() && keys.IsDefault() {
		if err := json.Unmarshal(b, target); err != nil {
			return decodingError(err)
		}
		return nil
	}
	if u, ok := target.(json.Unmarshaler); ok {
		if err := u.UnmarshalJSON(b); err != nil {
			return decodingError(err)
		}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return decodingError(err)
	}
	if dec.More() {
		return fault.NewDecoding("invalid character after top-level value")
	}
	tree = rekey(tree, keys)

	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			dateHook(dates),
			numberHook,
			unmarshalerHook,
			bytesHook,
			mapKeyHook,
		),
		Result:    target,
		TagName:   "json",
		Squash:    true,
		MatchName: matchName(keys),
	})
	if err != nil {
		return decodingError(err)
	}
	if err = md.Decode(tree); err != nil {
		return decodingError(err)
	}
	return nil
}

func decodingError(err error) error {
	var syn *json.SyntaxError
	detail := err.Error()
	if errors.As(err, &syn) {
		detail = fmt.Sprintf("%s (offset %d)", detail, syn.Offset)
	}
	return fault.NewDecoding(detail)
}

func rekey(v any, keys KeyStrategy) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[keys.decodeKey(k)] = rekey(val, keys)
		}
		return out
	case []any:
		for i := range x {
			x[i] = rekey(x[i], keys)
		}
		return x
	default:
		return v
	}
}

// matchName matches rekeyed wire keys to field names. Decoding the
// encoded field name covers names which the key strategy does not
// invert, like a snake_case tag under SnakeCase.
func matchName(keys KeyStrategy) func(mapKey, fieldName string) bool {
	return func(mapKey, fieldName string) bool {
		return strings.EqualFold(mapKey, fieldName) ||
			strings.EqualFold(mapKey, keys.decodeKey(keys.encodeKey(fieldName)))
	}
}

func dateHook(dates DateStrategy) mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if to != timeType || from == timeType || data == nil {
			return data, nil
		}
		return dates.decodeTime(data)
	}
}

func numberHook(from, to reflect.Type, data any) (any, error) {
	n, ok := data.(json.Number)
	if !ok {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Interface, reflect.Float32, reflect.Float64:
		return n.Float64()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return n.Int64()
	case reflect.String:
		if to == reflect.TypeOf(json.Number("")) {
			return n, nil
		}
	}
	return data, nil
}

// unmarshalerHook hands nested values to their own UnmarshalJSON when
// the destination type has one.
func unmarshalerHook(from, to reflect.Type, data any) (any, error) {
	if from == to || to == timeType || to.Kind() == reflect.Interface {
		return data, nil
	}
	if !reflect.PointerTo(to).Implements(unmarshalerType) {
		return data, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	ptr := reflect.New(to)
	if err = ptr.Interface().(json.Unmarshaler).UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

func bytesHook(from, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.Uint8 {
		return data, nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("illegal base64 data: %w", err)
	}
	return b, nil
}

// mapKeyHook parses the string keys of a JSON object into the key type
// of a destination map whose keys are not strings.
func mapKeyHook(from, to reflect.Type, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok || to.Kind() != reflect.Map || to.Key().Kind() == reflect.String {
		return data, nil
	}
	kt := to.Key()
	out := reflect.MakeMapWithSize(reflect.MapOf(kt, anyType), len(m))
	for s, v := range m {
		k, err := parseMapKey(s, kt)
		if err != nil {
			return nil, err
		}
		if v == nil {
			out.SetMapIndex(k, reflect.Zero(anyType))
		} else {
			out.SetMapIndex(k, reflect.ValueOf(v))
		}
	}
	return out.Interface(), nil
}

func parseMapKey(s string, kt reflect.Type) (reflect.Value, error) {
	k := reflect.New(kt)
	if kt.Kind() != reflect.Pointer && reflect.PointerTo(kt).Implements(textUnmarshalerType) {
		if err := k.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, fmt.Errorf("map key %q: %w", s, err)
		}
		return k.Elem(), nil
	}
	k = k.Elem()
	switch kt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("map key %q: %w", s, err)
		}
		k.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(s, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("map key %q: %w", s, err)
		}
		k.SetUint(n)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported map key type: %s", kt)
	}
	return k, nil
}
