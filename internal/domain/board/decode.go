package board

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// rawObject is a decoded JSON object whose members are inspected lazily.
// Record decoding goes through rawObject so that a missing, null or
// mistyped optional member degrades to its zero value instead of failing the
// whole document.
type rawObject map[string]json.RawMessage

var jsonNull = []byte("null")

func isNull(data []byte) bool {
	return len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), jsonNull)
}

// decodeObject returns the members of data, or false when data is not a JSON
// object.
func decodeObject(data []byte) (rawObject, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, false
	}
	var obj rawObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// lookup returns the first non-null member among keys.
func (o rawObject) lookup(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := o[k]; ok && !isNull(v) {
			return v, true
		}
	}
	return nil, false
}

// text reads a scalar member as a string.  Numbers and booleans keep their
// JSON literal form; arrays and objects read as "".
func (o rawObject) text(keys ...string) string {
	v, ok := o.lookup(keys...)
	if !ok {
		return ""
	}
	return scalarText(v)
}

// number reads a member that is a JSON number.  Strings are not coerced.
func (o rawObject) number(keys ...string) *float64 {
	v, ok := o.lookup(keys...)
	if !ok {
		return nil
	}
	v = bytes.TrimSpace(v)
	if len(v) == 0 || !(v[0] == '-' || (v[0] >= '0' && v[0] <= '9')) {
		return nil
	}
	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func scalarText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return ""
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f':
		return string(v)
	case '{', '[', 'n':
		return ""
	default:
		return string(v)
	}
}

//Personal.AI order the ending
