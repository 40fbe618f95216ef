package board

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DueDate is a deadline as it arrives from the record source.  Three wire
// shapes are accepted:
//
//   - an ISO-8601 string ("2025-06-30", "2025-06-30T12:00:00Z", ...)
//   - an epoch-seconds object ({"seconds": 1719705600, "nanoseconds": 0},
//     also with underscore-prefixed keys)
//   - a JSON number holding epoch milliseconds
//
// Anything else, including strings that do not parse, yields an absent date.
// An absent date is never overdue and sorts last by deadline.
type DueDate struct {
	t     time.Time
	valid bool
}

// maxEpochMillis bounds numeric dates to ±100,000,000 days around the epoch.
const maxEpochMillis = 8.64e15

// dueDateLayouts are tried in order.  Zone-less layouts are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// NewDueDate wraps t.  The zero time is treated as absent.
func NewDueDate(t time.Time) DueDate {
	if t.IsZero() {
		return DueDate{}
	}
	return DueDate{t: t, valid: true}
}

// ParseDueDate parses an ISO-8601 date or date-time string.
func ParseDueDate(s string) DueDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return DueDate{}
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return DueDate{t: t, valid: true}
		}
	}
	return DueDate{}
}

// Time returns the instant and whether the date is present.
func (d DueDate) Time() (time.Time, bool) {
	return d.t, d.valid
}

// Valid reports whether the date is present.
func (d DueDate) Valid() bool {
	return d.valid
}

// sortKey returns the epoch-millisecond value, or +Inf when absent.
func (d DueDate) sortKey() float64 {
	if !d.valid {
		return math.Inf(1)
	}
	return float64(d.t.UnixMilli())
}

// String renders the date as RFC 3339 in UTC, or "" when absent.
func (d DueDate) String() string {
	if !d.valid {
		return ""
	}
	return d.t.UTC().Format(time.RFC3339)
}

// MarshalJSON writes an RFC 3339 string, or null when absent.
func (d DueDate) MarshalJSON() ([]byte, error) {
	if !d.valid {
		return jsonNull, nil
	}
	return json.Marshal(d.t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON never fails: unrecognised input decodes to an absent date.
func (d *DueDate) UnmarshalJSON(data []byte) error {
	*d = decodeDueDate(data)
	return nil
}

func decodeDueDate(data []byte) DueDate {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return DueDate{}
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return DueDate{}
		}
		return ParseDueDate(s)
	case '{':
		obj, ok := decodeObject(data)
		if !ok {
			return DueDate{}
		}
		secs := obj.number("seconds", "_seconds")
		if secs == nil {
			return DueDate{}
		}
		var nanos float64
		if n := obj.number("nanoseconds", "_nanoseconds"); n != nil {
			nanos = *n
		}
		ms := *secs*1000 + nanos/1e6
		if math.Abs(*secs) > maxEpochMillis/1000 || math.Abs(ms) > maxEpochMillis {
			return DueDate{}
		}
		if math.Abs(nanos) >= 1e18 {
			return NewDueDate(time.UnixMilli(int64(ms)).UTC())
		}
		return NewDueDate(time.Unix(int64(*secs), int64(nanos)).UTC())
	default:
		ms, err := strconv.ParseFloat(string(data), 64)
		if err != nil || math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
			return DueDate{}
		}
		return NewDueDate(time.UnixMilli(int64(ms)).UTC())
	}
}

//Personal.AI order the ending
