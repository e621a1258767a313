// Package codec maps entities to and from the raw key/value payloads stored
// in the cloud document store.
//
// Encoding writes optional fields only when set: the remote store
// distinguishes an absent key from a null value, and the pull path treats
// absence as "keep the local value or use the default". Timestamps are
// written as native time values, never strings. Binary payloads are never
// encoded.
//
// Decoding never fails. A remote document may have been partially written by
// an interrupted sync, so every missing or type-mismatched field is repaired
// with a type-appropriate default: enums fall back to their designated
// variant, numbers to zero, required timestamps to the current time.
package codec

import "time"

// Fields is the raw key/value payload of one remote document.
type Fields map[string]any

// String returns the string value at key, reporting false when the key is
// absent or holds a non-string.
func (f Fields) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

// Time returns the timestamp value at key, reporting false when the key is
// absent or holds a non-timestamp.
func (f Fields) Time(key string) (time.Time, bool) {
	t, ok := f[key].(time.Time)
	return t, ok
}

// Number returns the numeric value at key coerced to float64. The document
// store hands back integers as int64, so both widths are accepted.
func (f Fields) Number(key string) (float64, bool) {
	switch n := f[key].(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Bool returns the boolean value at key, reporting false when the key is
// absent or holds a non-bool.
func (f Fields) Bool(key string) (bool, bool) {
	b, ok := f[key].(bool)
	return b, ok
}

// --- defaulted accessors used by the decoders --------------------------------

func (f Fields) str(key, def string) string {
	if s, ok := f.String(key); ok {
		return s
	}
	return def
}

func (f Fields) optStr(key string) *string {
	if s, ok := f.String(key); ok {
		return &s
	}
	return nil
}

func (f Fields) num(key string, def float64) float64 {
	if n, ok := f.Number(key); ok {
		return n
	}
	return def
}

func (f Fields) optNum(key string) *float64 {
	if n, ok := f.Number(key); ok {
		return &n
	}
	return nil
}

func (f Fields) integer(key string, def int) int {
	if n, ok := f.Number(key); ok {
		return int(n)
	}
	return def
}

func (f Fields) optInt(key string) *int {
	if n, ok := f.Number(key); ok {
		i := int(n)
		return &i
	}
	return nil
}

func (f Fields) boolean(key string, def bool) bool {
	if b, ok := f.Bool(key); ok {
		return b
	}
	return def
}

func (f Fields) timestamp(key string, def time.Time) time.Time {
	if t, ok := f.Time(key); ok {
		return t
	}
	return def
}

func (f Fields) optTimestamp(key string) *time.Time {
	if t, ok := f.Time(key); ok {
		return &t
	}
	return nil
}

// --- conditional setters used by the encoders --------------------------------

func (f Fields) setStr(key string, v *string) {
	if v != nil {
		f[key] = *v
	}
}

func (f Fields) setNum(key string, v *float64) {
	if v != nil {
		f[key] = *v
	}
}

func (f Fields) setInt(key string, v *int) {
	if v != nil {
		f[key] = *v
	}
}

func (f Fields) setTime(key string, v *time.Time) {
	if v != nil {
		f[key] = *v
	}
}
