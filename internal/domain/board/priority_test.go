package board

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePriority(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  RawPriority
		want PriorityBucket
	}{
		{"bucket name", StringPriority("High"), PriorityHigh},
		{"padded bucket", StringPriority("  low "), PriorityLow},
		{"numeric string high", StringPriority("9"), PriorityHigh},
		{"numeric string low", StringPriority("2"), PriorityLow},
		{"numeric string mid", StringPriority("5.5"), PriorityMedium},
		{"garbage string", StringPriority("urgent!!"), PriorityMedium},
		{"empty string", StringPriority(""), PriorityMedium},
		{"number 8", NumberPriority(8), PriorityHigh},
		{"number 3", NumberPriority(3), PriorityLow},
		{"number 3.5", NumberPriority(3.5), PriorityMedium},
		{"number 7.99", NumberPriority(7.99), PriorityMedium},
		{"negative", NumberPriority(-4), PriorityLow},
		{"NaN", NumberPriority(math.NaN()), PriorityMedium},
		{"wrapped number", WrappedPriority{Value: NumberPriority(10)}, PriorityHigh},
		{"wrapped string", WrappedPriority{Value: StringPriority("low")}, PriorityLow},
		{"nested wrap", WrappedPriority{Value: WrappedPriority{Value: NumberPriority(1)}}, PriorityLow},
		{"wrapped nil", WrappedPriority{}, PriorityMedium},
		{"pointer wrap", &WrappedPriority{Value: NumberPriority(9)}, PriorityHigh},
		{"nil pointer wrap", (*WrappedPriority)(nil), PriorityMedium},
		{"nil", nil, PriorityMedium},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizePriority(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizePriority(got.Raw()), "normalizing twice must not change the bucket")
		})
	}
}

func TestTaskPriorityLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		raw    RawPriority
		want   int
		wantOK bool
	}{
		{"in range", NumberPriority(7), 7, true},
		{"rounds half up", NumberPriority(4.5), 5, true},
		{"clamps high", NumberPriority(42), 10, true},
		{"clamps low", NumberPriority(-3), 1, true},
		{"huge", NumberPriority(1e300), 10, true},
		{"huge negative", NumberPriority(-1e300), 1, true},
		{"huge string", StringPriority("1e20"), 10, true},
		{"zero clamps to one", NumberPriority(0), 1, true},
		{"numeric string", StringPriority(" 6 "), 6, true},
		{"wrapped", WrappedPriority{Value: NumberPriority(2)}, 2, true},
		{"word", StringPriority("high"), 0, false},
		{"infinite", NumberPriority(math.Inf(1)), 0, false},
		{"NaN", NumberPriority(math.NaN()), 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := TaskPriorityLevel(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriorityField_Decode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want RawPriority
	}{
		{`"High"`, StringPriority("High")},
		{`8`, NumberPriority(8)},
		{`-1.5`, NumberPriority(-1.5)},
		{`{"value": 2}`, WrappedPriority{Value: NumberPriority(2)}},
		{`{"label": "x"}`, nil},
		{`null`, nil},
		{`true`, nil},
		{`[1, 2]`, nil},
	}
	for _, tt := range tests {
		var f PriorityField
		require.NoError(t, json.Unmarshal([]byte(tt.in), &f), tt.in)
		assert.Equal(t, tt.want, f.Raw, tt.in)
	}
}

func TestPriorityField_EncodeKeepsShape(t *testing.T) {
	out, err := json.Marshal(PriorityField{Raw: WrappedPriority{Value: StringPriority("low")}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"low"}`, string(out))

	out, err = json.Marshal(PriorityField{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

//Personal.AI order the ending
