package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Validate(t *testing.T) {
	assert.NoError(t, ID("550e8400-e29b-41d4-a716-446655440000").Validate())

	err := ID("").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	err = ID("not-a-uuid").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ID format")

	assert.NoError(t, NewID().Validate())
}

func TestGenerateID_Prefix(t *testing.T) {
	assert.Regexp(t, `^snap-[0-9a-f-]{36}$`, GenerateID("snap"))
	assert.Len(t, GenerateID(""), 36)
}

func TestParseSortOrder(t *testing.T) {
	cases := []struct {
		in      string
		def     SortOrder
		want    SortOrder
		wantErr bool
	}{
		{"asc", SortDesc, SortAsc, false},
		{" DESC ", SortAsc, SortDesc, false},
		{"", SortDesc, SortDesc, false},
		{"sideways", SortAsc, SortAsc, true},
	}
	for _, tc := range cases {
		got, err := ParseSortOrder(tc.in, tc.def)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.wantErr, err != nil, tc.in)
	}
	assert.False(t, SortOrder("up").Valid())
}

func TestTimestamp_JSON(t *testing.T) {
	ts := Timestamp(time.Date(2023, 10, 27, 10, 0, 0, 0, time.UTC))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2023-10-27T10:00:00Z"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2023-10-27T12:00:00+02:00"`), &back))
	assert.Equal(t, time.Time(ts), time.Time(back))

	assert.Error(t, json.Unmarshal([]byte(`"invalid-date"`), &back))
}

func TestTimestamp_UnixMilli(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	assert.Equal(t, Timestamp(now), FromUnixMilli(Timestamp(now).ToUnixMilli()))
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse([]string{"a"})
	assert.Equal(t, []string{"a"}, resp.Data)
	assert.Nil(t, resp.Error)
	assert.False(t, time.Time(resp.Timestamp).IsZero())
}

func TestBaseEvent(t *testing.T) {
	e := NewBaseEvent("project-1")
	var de DomainEvent = e
	assert.Equal(t, "project-1", de.AggregateID())
	assert.NotEmpty(t, de.EventID())
	assert.WithinDuration(t, time.Now(), de.OccurredAt(), time.Minute)
}

//Personal.AI order the ending
