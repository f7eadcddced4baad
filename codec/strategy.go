// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type keyKind int

const (
	keyDefault keyKind = iota
	keySnake
	keyCustom
)

// A KeyStrategy decides how object keys are spelled on the wire. The
// zero value leaves keys exactly as encoding/json would spell them.
type KeyStrategy struct {
	kind   keyKind
	encode func(string) string
	decode func(string) string
}

// DefaultKeys is the zero KeyStrategy.
var DefaultKeys = KeyStrategy{}

// SnakeCase writes camelCase keys as snake_case when encoding, and
// reads snake_case keys as camelCase when decoding. For example
// "userID" is written "user_id" and "user_id" is read as "userId",
// which matches a field tagged `json:"userID"` since field matching is
// case-insensitive.
var SnakeCase = KeyStrategy{kind: keySnake}

// CustomKeys builds a KeyStrategy from a pair of key transforms. The
// encode function maps Go-side key names to wire keys, and the decode
// function maps wire keys back to Go-side names. Either may be nil, in
// which case keys pass through unchanged in that direction.
func CustomKeys(encode, decode func(string) string) KeyStrategy {
	return KeyStrategy{kind: keyCustom, encode: encode, decode: decode}
}

// IsDefault reports whether k is the default key strategy.
func (k KeyStrategy) IsDefault() bool {
	return k.kind == keyDefault
}

// String returns the name of the strategy.
func (k KeyStrategy) String() string {
	switch k.kind {
	case keySnake:
		return "snake_case"
	case keyCustom:
		return "custom"
	default:
		return "default"
	}
}

func (k KeyStrategy) encodeKey(s string) string {
	switch k.kind {
	case keySnake:
		return ToSnakeCase(s)
	case keyCustom:
		if k.encode != nil {
			return k.encode(s)
		}
	}
	return s
}

func (k KeyStrategy) decodeKey(s string) string {
	switch k.kind {
	case keySnake:
		return FromSnakeCase(s)
	case keyCustom:
		if k.decode != nil {
			return k.decode(s)
		}
	}
	return s
}

// ToSnakeCase converts a camelCase or PascalCase identifier into
// snake_case. Runs of capitals are treated as one word, so "myURLPath"
// becomes "my_url_path".
func ToSnakeCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// FromSnakeCase converts a snake_case identifier into camelCase.
// Leading and trailing underscores are preserved, and a key with no
// inner underscore is returned unchanged.
func FromSnakeCase(s string) string {
	if !strings.Contains(strings.Trim(s, "_"), "_") {
		return s
	}
	start := 0
	for start < len(s) && s[start] == '_' {
		start++
	}
	end := len(s)
	for end > start && s[end-1] == '_' {
		end--
	}
	parts := strings.Split(s[start:end], "_")
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:start])
	first := true
	for _, part := range parts {
		if part == "" {
			continue
		}
		if first {
			b.WriteString(part)
			first = false
			continue
		}
		r, n := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(strings.ToLower(part[n:]))
	}
	b.WriteString(s[end:])
	return b.String()
}

type dateKind int

const (
	dateDefault dateKind = iota
	dateISO8601
	dateUnixSeconds
	dateUnixMillis
	dateFormatted
	dateCustom
)

// A DateStrategy decides how time.Time values are represented on the
// wire. The zero value uses the RFC 3339 representation with
// nanoseconds that encoding/json uses.
type DateStrategy struct {
	kind   dateKind
	layout string
	encode func(time.Time) (any, error)
	decode func(any) (time.Time, error)
}

var (
	// DefaultDates is the zero DateStrategy.
	DefaultDates = DateStrategy{}
	// ISO8601 writes dates as RFC 3339 strings in UTC with whole
	// seconds, for example "2021-03-04T05:06:07Z".
	ISO8601 = DateStrategy{kind: dateISO8601}
	// UnixSeconds writes dates as a JSON number of seconds since the
	// Unix epoch. Fractional seconds are kept.
	UnixSeconds = DateStrategy{kind: dateUnixSeconds}
	// UnixMillis writes dates as a JSON number of milliseconds since
	// the Unix epoch.
	UnixMillis = DateStrategy{kind: dateUnixMillis}
)

// Formatted returns a DateStrategy which writes and reads dates as
// strings using the time package layout given.
func Formatted(layout string) DateStrategy {
	return DateStrategy{kind: dateFormatted, layout: layout}
}

// CustomDates returns a DateStrategy backed by caller-supplied
// functions. The encode function returns any value encoding/json can
// marshal. The decode function receives the raw JSON value, which is a
// string, json.Number, bool, nil, []any, or map[string]any.
func CustomDates(encode func(time.Time) (any, error), decode func(any) (time.Time, error)) DateStrategy {
	return DateStrategy{kind: dateCustom, encode: encode, decode: decode}
}

// IsDefault reports whether d is the default date strategy.
func (d DateStrategy) IsDefault() bool {
	return d.kind == dateDefault
}

// String returns the name of the strategy.
func (d DateStrategy) String() string {
	switch d.kind {
	case dateISO8601:
		return "iso8601"
	case dateUnixSeconds:
		return "unix_seconds"
	case dateUnixMillis:
		return "unix_millis"
	case dateFormatted:
		return "formatted(" + d.layout + ")"
	case dateCustom:
		return "custom"
	default:
		return "default"
	}
}

func (d DateStrategy) encodeTime(t time.Time) (any, error) {
	switch d.kind {
	case dateISO8601:
		return t.UTC().Format(time.RFC3339), nil
	case dateUnixSeconds:
		return decimal(t.Unix(), int64(t.Nanosecond()), 9), nil
	case dateUnixMillis:
		ns := int64(t.Nanosecond())
		return decimal(t.Unix()*1000+ns/1_000_000, ns%1_000_000, 6), nil
	case dateFormatted:
		return t.Format(d.layout), nil
	case dateCustom:
		if d.encode == nil {
			return nil, errors.New("custom date strategy has no encoder")
		}
		return d.encode(t)
	default:
		return t.Format(time.RFC3339Nano), nil
	}
}

func (d DateStrategy) decodeTime(v any) (time.Time, error) {
	switch d.kind {
	case dateUnixSeconds:
		sec, ns, err := parseDecimal(v, 9)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(sec, ns), nil
	case dateUnixMillis:
		ms, ns, err := parseDecimal(v, 6)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(ms/1000, ms%1000*1_000_000+ns), nil
	case dateCustom:
		if d.decode == nil {
			return time.Time{}, errors.New("custom date strategy has no decoder")
		}
		return d.decode(v)
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("expected date string, found %T", v)
	}
	switch d.kind {
	case dateISO8601:
		return time.Parse(time.RFC3339, s)
	case dateFormatted:
		return time.Parse(d.layout, s)
	default:
		return time.Parse(time.RFC3339Nano, s)
	}
}

// decimal writes whole+frac/10^digits exactly, where 0 <= frac <
// 10^digits, without trailing zeros in the fraction.
func decimal(whole, frac int64, digits int) json.Number {
	neg := whole < 0
	if neg && frac > 0 {
		whole++
		frac = pow10(digits) - frac
	}
	s := strconv.FormatInt(whole, 10)
	if neg && whole == 0 {
		s = "-0"
	}
	if frac > 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%0*d", digits, frac), "0")
	}
	return json.Number(s)
}

// parseDecimal reads a JSON number as a whole part and a fraction
// scaled to digits places, both carrying the sign of the number.
// Digits beyond the scale are truncated. Exponent notation is read
// through float64.
func parseDecimal(v any, digits int) (int64, int64, error) {
	var s string
	switch x := v.(type) {
	case json.Number:
		s = string(x)
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return 0, 0, fmt.Errorf("expected date number, found %T", v)
	}
	if strings.ContainsAny(s, "eE") {
		f, err := toFloat(v)
		if err != nil {
			return 0, 0, err
		}
		whole, frac := math.Modf(f)
		return int64(whole), int64(math.Round(frac * float64(pow10(digits)))), nil
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	if len(fracPart) > digits {
		fracPart = fracPart[:digits]
	}
	var frac int64
	if fracPart != "" {
		frac, err = strconv.ParseInt(fracPart+strings.Repeat("0", digits-len(fracPart)), 10, 64)
		if err != nil || frac < 0 {
			return 0, 0, fmt.Errorf("invalid date number %q", s)
		}
	}
	if strings.HasPrefix(intPart, "-") {
		frac = -frac
	}
	return whole, frac, nil
}

func pow10(n int) int64 {
	p := int64(1)
	for range n {
		p *= 10
	}
	return p
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case json.Number:
		return x.Float64()
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("expected date number, found %T", v)
	}
}
