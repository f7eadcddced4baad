// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSnakeCase(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{"", ""},
		{"simple", "simple"},
		{"userID", "user_id"},
		{"UserName", "user_name"},
		{"myURLPath", "my_url_path"},
		{"id2Name", "id2_name"},
		{"already_snake", "already_snake"},
		{"HTTP", "http"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.in, func(t *testing.T) {
			assert.Equal(t, testCase.out, ToSnakeCase(testCase.in))
		})
	}
}

func TestFromSnakeCase(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{"", ""},
		{"simple", "simple"},
		{"user_name", "userName"},
		{"my_url_path", "myUrlPath"},
		{"_private_key_", "_privateKey_"},
		{"a__b", "aB"},
		{"__", "__"},
		{"_leading", "_leading"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.in, func(t *testing.T) {
			assert.Equal(t, testCase.out, FromSnakeCase(testCase.in))
		})
	}
}

func TestKeyStrategy(t *testing.T) {
	assert.True(t, DefaultKeys.IsDefault())
	assert.True(t, KeyStrategy{}.IsDefault())
	assert.False(t, SnakeCase.IsDefault())
	assert.Equal(t, "default", DefaultKeys.String())
	assert.Equal(t, "snake_case", SnakeCase.String())

	upper := CustomKeys(func(s string) string { return "x-" + s }, nil)
	assert.Equal(t, "custom", upper.String())
	assert.Equal(t, "x-name", upper.encodeKey("name"))
	assert.Equal(t, "x-name", upper.decodeKey("x-name"))
}

func TestDateStrategy_String(t *testing.T) {
	assert.Equal(t, "default", DefaultDates.String())
	assert.Equal(t, "iso8601", ISO8601.String())
	assert.Equal(t, "unix_seconds", UnixSeconds.String())
	assert.Equal(t, "unix_millis", UnixMillis.String())
	assert.Equal(t, "formatted(2006-01-02)", Formatted("2006-01-02").String())
	assert.Equal(t, "custom", CustomDates(nil, nil).String())
	assert.True(t, DateStrategy{}.IsDefault())
}

func TestDateStrategy_RoundTrip(t *testing.T) {
	when := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	testCases := []struct {
		name     string
		strategy DateStrategy
		wire     any
	}{
		{"default", DefaultDates, "2021-03-04T05:06:07Z"},
		{"iso8601", ISO8601, "2021-03-04T05:06:07Z"},
		{"unix seconds", UnixSeconds, json.Number("1614834367")},
		{"unix millis", UnixMillis, json.Number("1614834367000")},
		{"formatted", Formatted("2006-01-02 15:04:05"), "2021-03-04 05:06:07"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			enc, err := testCase.strategy.encodeTime(when)
			require.NoError(t, err)
			assert.Equal(t, testCase.wire, enc)
			dec, err := testCase.strategy.decodeTime(enc)
			require.NoError(t, err)
			assert.True(t, when.Equal(dec), "expected %v, got %v", when, dec)
		})
	}
}

func TestDateStrategy_UnixPrecision(t *testing.T) {
	testCases := []struct {
		name     string
		strategy DateStrategy
		when     time.Time
		wire     json.Number
	}{
		{"seconds nanos", UnixSeconds, time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.UTC), "1714979289.123456789"},
		{"seconds trailing zeros", UnixSeconds, time.Unix(10, 500000000), "10.5"},
		{"seconds negative", UnixSeconds, time.Unix(-2, 500000000), "-1.5"},
		{"seconds negative under one", UnixSeconds, time.Unix(-1, 750000000), "-0.25"},
		{"seconds year 3000", UnixSeconds, time.Date(3000, 1, 1, 0, 0, 0, 1, time.UTC), "32503680000.000000001"},
		{"millis nanos", UnixMillis, time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.UTC), "1714979289123.456789"},
		{"millis negative", UnixMillis, time.Unix(0, -1500000), "-1.5"},
		{"millis whole", UnixMillis, time.Unix(1, 0), "1000"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			enc, err := testCase.strategy.encodeTime(testCase.when)
			require.NoError(t, err)
			assert.Equal(t, testCase.wire, enc)
			dec, err := testCase.strategy.decodeTime(enc)
			require.NoError(t, err)
			assert.True(t, testCase.when.Equal(dec), "expected %v, got %v", testCase.when, dec)
		})
	}
	dec, err := UnixSeconds.decodeTime(json.Number("1.5e3"))
	require.NoError(t, err)
	assert.True(t, time.Unix(1500, 0).Equal(dec))
	dec, err = UnixMillis.decodeTime(1500.25)
	require.NoError(t, err)
	assert.True(t, time.Unix(1, 500250000).Equal(dec))
}

func TestDateStrategy_Custom(t *testing.T) {
	s := CustomDates(
		func(t time.Time) (any, error) { return t.Year(), nil },
		func(v any) (time.Time, error) {
			n, err := v.(json.Number).Int64()
			return time.Date(int(n), 1, 1, 0, 0, 0, 0, time.UTC), err
		},
	)
	enc, err := s.encodeTime(time.Date(1999, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1999, enc)
	dec, err := s.decodeTime(json.Number("2001"))
	require.NoError(t, err)
	assert.Equal(t, 2001, dec.Year())

	_, err = CustomDates(nil, nil).encodeTime(time.Now())
	assert.Error(t, err)
	_, err = CustomDates(nil, nil).decodeTime("x")
	assert.Error(t, err)
}

func TestDateStrategy_DecodeErrors(t *testing.T) {
	_, err := ISO8601.decodeTime(json.Number("12"))
	assert.EqualError(t, err, "expected date string, found json.Number")
	_, err = UnixSeconds.decodeTime(true)
	assert.EqualError(t, err, "expected date number, found bool")
	_, err = DefaultDates.decodeTime("yesterday")
	assert.Error(t, err)
}
