// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package decorator

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxExactInt is the largest integer magnitude a float64 holds exactly.
const MaxExactInt = 1 << 53

var (
	// ErrDecode is wrapped by every Denormalize failure.
	ErrDecode = errors.New("decorator: decode failed")
	// ErrEncode is wrapped by every Normalize failure.
	ErrEncode = errors.New("decorator: encode failed")
)

// Decorator normalizes values before a write and denormalizes them after a
// read. Denormalize(Normalize(v)) must equal Canonical(v).
type Decorator interface {
	Normalize(value any) ([]byte, error)
	Denormalize(data []byte) (any, error)
	Name() string
}

// New returns the decorator registered under name.
func New(name string) (Decorator, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	}
	return nil, fmt.Errorf("unknown decorator %q (want one of %v)", name, Names())
}

// Names lists the supported decorator names.
func Names() []string {
	return []string{"json", "yaml"}
}

// Canonical maps v onto the value domain shared by all decorators. Integers
// become float64, typed slices become []any and maps with string keys become
// map[string]any. Integers beyond MaxExactInt, strings that are not valid
// UTF-8 and anything else are encode errors.
func Canonical(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return t, nil
	case string:
		return canonicalString(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("%w: non-finite number %v", ErrEncode, t)
		}
		return t, nil
	case float32:
		return Canonical(float64(t))
	case int:
		return canonicalInt(int64(t))
	case int8:
		return float64(t), nil
	case int16:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return canonicalInt(t)
	case uint:
		return canonicalUint(uint64(t))
	case uint8:
		return float64(t), nil
	case uint16:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return canonicalUint(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			c, err := Canonical(e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if err := validKey(k); err != nil {
				return nil, err
			}
			c, err := Canonical(e)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			key := fmt.Sprint(k)
			if err := validKey(key); err != nil {
				return nil, err
			}
			c, err := Canonical(e)
			if err != nil {
				return nil, err
			}
			out[key] = c
		}
		return out, nil
	}

	// Fall back to reflection for typed slices and string-keyed maps.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			c, err := Canonical(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrEncode, rv.Type().Key())
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			if err := validKey(iter.Key().String()); err != nil {
				return nil, err
			}
			c, err := Canonical(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = c
		}
		return out, nil
	case reflect.String:
		return canonicalString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return canonicalInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return canonicalUint(rv.Uint())
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, nil
		}
		return Canonical(rv.Elem().Interface())
	}

	return nil, fmt.Errorf("%w: unsupported type %T", ErrEncode, v)
}

func canonicalInt(i int64) (any, error) {
	if i > MaxExactInt || i < -MaxExactInt {
		return nil, fmt.Errorf("%w: integer %d is not exact as a float64", ErrEncode, i)
	}
	return float64(i), nil
}

func canonicalUint(u uint64) (any, error) {
	if u > MaxExactInt {
		return nil, fmt.Errorf("%w: integer %d is not exact as a float64", ErrEncode, u)
	}
	return float64(u), nil
}

func canonicalString(s string) (any, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: string %q is not valid UTF-8", ErrEncode, s)
	}
	return s, nil
}

func validKey(k string) error {
	if !utf8.ValidString(k) {
		return fmt.Errorf("%w: key %q is not valid UTF-8", ErrEncode, k)
	}
	return nil
}

// Keys returns the keys of m in sorted order.
func Keys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
