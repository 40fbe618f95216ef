package board

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// RawPriority: ingestion-side tagged union
// ─────────────────────────────────────────────────────────────────────────────

// RawPriority is a priority exactly as the record source sent it.  It is one
// of StringPriority, NumberPriority or WrappedPriority; a nil RawPriority
// stands for a missing or unrecognised value.
type RawPriority interface {
	isRawPriority()
}

// StringPriority is a textual priority such as "High" or "7".
type StringPriority string

// NumberPriority is a numeric priority, usually on the 1–10 scale.
type NumberPriority float64

// WrappedPriority is an object carrying the real priority under "value".
type WrappedPriority struct {
	Value RawPriority
}

func (StringPriority) isRawPriority()  {}
func (NumberPriority) isRawPriority()  {}
func (WrappedPriority) isRawPriority() {}

// ─────────────────────────────────────────────────────────────────────────────
// PriorityBucket
// ─────────────────────────────────────────────────────────────────────────────

// PriorityBucket is the tri-level priority used by project cards and filters.
type PriorityBucket string

const (
	PriorityLow    PriorityBucket = "low"
	PriorityMedium PriorityBucket = "medium"
	PriorityHigh   PriorityBucket = "high"
)

// Raw returns the bucket as a RawPriority, so a normalized value can be fed
// back through NormalizePriority.
func (b PriorityBucket) Raw() RawPriority {
	return StringPriority(b)
}

// Task priority scale bounds.
const (
	MinTaskPriority = 1
	MaxTaskPriority = 10
)

// NormalizePriority maps any RawPriority to low, medium or high:
//
//   - strings are trimmed and lower-cased; a bucket name is returned as is,
//     a finite numeric string is normalized as a number, anything else is
//     medium
//   - numbers >= 8 are high, <= 3 are low, the rest medium
//   - wrapped values are unwrapped and normalized
//   - nil is medium
//
// The function is idempotent: normalizing a bucket yields the same bucket.
func NormalizePriority(raw RawPriority) PriorityBucket {
	switch v := raw.(type) {
	case StringPriority:
		s := strings.ToLower(strings.TrimSpace(string(v)))
		switch PriorityBucket(s) {
		case PriorityLow, PriorityMedium, PriorityHigh:
			return PriorityBucket(s)
		}
		if f, ok := parseFinite(s); ok {
			return NormalizePriority(NumberPriority(f))
		}
		return PriorityMedium
	case NumberPriority:
		switch f := float64(v); {
		case f >= 8:
			return PriorityHigh
		case f <= 3:
			return PriorityLow
		default:
			return PriorityMedium
		}
	case WrappedPriority:
		return NormalizePriority(v.Value)
	case *WrappedPriority:
		if v == nil {
			return PriorityMedium
		}
		return NormalizePriority(v.Value)
	}
	return PriorityMedium
}

// TaskPriorityLevel maps a RawPriority to the 1–10 task scale.  Finite
// numeric input (including numeric strings and wrapped numbers) is rounded and
// clamped into [1, 10].  Non-numeric or non-finite input reports false: the
// task has no priority level, which is distinct from the medium bucket.
func TaskPriorityLevel(raw RawPriority) (int, bool) {
	var f float64
	switch v := raw.(type) {
	case NumberPriority:
		f = float64(v)
	case StringPriority:
		parsed, ok := parseFinite(strings.TrimSpace(string(v)))
		if !ok {
			return 0, false
		}
		f = parsed
	case WrappedPriority:
		return TaskPriorityLevel(v.Value)
	case *WrappedPriority:
		if v == nil {
			return 0, false
		}
		return TaskPriorityLevel(v.Value)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(clamp(roundHalfUp(f), MinTaskPriority, MaxTaskPriority)), true
}

func parseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ─────────────────────────────────────────────────────────────────────────────
// PriorityField: JSON carrier for RawPriority
// ─────────────────────────────────────────────────────────────────────────────

// PriorityField holds a RawPriority inside a record.  It decodes strings,
// numbers, {"value": ...} objects and null; any other JSON shape decodes to
// a nil RawPriority without error.
type PriorityField struct {
	Raw RawPriority
}

// Bucket is shorthand for NormalizePriority(f.Raw).
func (f PriorityField) Bucket() PriorityBucket {
	return NormalizePriority(f.Raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *PriorityField) UnmarshalJSON(data []byte) error {
	f.Raw = decodeRawPriority(data)
	return nil
}

// MarshalJSON writes the value back in its original shape.
func (f PriorityField) MarshalJSON() ([]byte, error) {
	return encodeRawPriority(f.Raw)
}

func decodeRawPriority(data []byte) RawPriority {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		return StringPriority(s)
	case c == '{':
		obj, ok := decodeObject(data)
		if !ok {
			return nil
		}
		inner, ok := obj["value"]
		if !ok {
			return nil
		}
		return WrappedPriority{Value: decodeRawPriority(inner)}
	case c == '-' || (c >= '0' && c <= '9'):
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return nil
		}
		return NumberPriority(n)
	}
	return nil
}

func encodeRawPriority(raw RawPriority) ([]byte, error) {
	switch v := raw.(type) {
	case StringPriority:
		return json.Marshal(string(v))
	case NumberPriority:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return jsonNull, nil
		}
		return json.Marshal(f)
	case WrappedPriority:
		inner, err := encodeRawPriority(v.Value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]json.RawMessage{"value": inner})
	case *WrappedPriority:
		if v == nil {
			return jsonNull, nil
		}
		return encodeRawPriority(*v)
	}
	return jsonNull, nil
}

//Personal.AI order the ending
