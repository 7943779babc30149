// Package message decodes raw daemon payloads into typed events.
//
// Daemon responses are loosely typed trees. Decoding never fails: every field
// read is a defaulting lookup, and an unrecognised "type" tag yields a record
// that carries only the raw tag.
package message

import (
	"encoding/json"
	"math"
	"strconv"
)

// Payload is one daemon response: string-keyed records with string, number
// and bool leaves.
type Payload map[string]any

// String returns the string field at key, or "".
func (p Payload) String(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// floatToInt64 truncates f, saturating outside the int64 range. NaN reads as 0.
func floatToInt64(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f < math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// Int64 returns the numeric field at key, or 0. Bools read as 0/1.
func (p Payload) Int64(key string) int64 {
	switch v := p[key].(type) {
	case float64:
		return floatToInt64(v)
	case float32:
		return floatToInt64(float64(v))
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint32:
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0
			}
			return floatToInt64(f)
		}
		return n
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// Bool returns the bool field at key, or false. The daemon sends some flags
// as integers, so any non-zero number reads as true.
func (p Payload) Bool(key string) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return p.Int64(key) != 0
}

// Record returns the nested record at key, or an empty payload.
func (p Payload) Record(key string) Payload {
	switch v := p[key].(type) {
	case map[string]any:
		return Payload(v)
	case Payload:
		return v
	}
	return Payload{}
}

// Has reports whether key is present.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Type returns the "type" discriminator.
func (p Payload) Type() string {
	return p.String("type")
}

// PayloadList converts a decoded list into payloads, skipping entries that
// are not records.
func PayloadList(items []any) []Payload {
	out := make([]Payload, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case map[string]any:
			out = append(out, Payload(v))
		case Payload:
			out = append(out, v)
		}
	}
	return out
}
