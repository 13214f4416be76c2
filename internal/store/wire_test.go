package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Unmarshal(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
	}{
		{"rfc3339", `"2024-03-01T12:30:00Z"`},
		{"rfc3339 with offset", `"2024-03-01T14:30:00+02:00"`},
		{"rfc3339 millis", `"2024-03-01T12:30:00.000Z"`},
		{"epoch millis", `1709296200000`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, want.Equal(time.Time(ts)), "got %v", time.Time(ts))
		})
	}
}

func TestTimestamp_UnmarshalInvalid(t *testing.T) {
	var ts timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`true`), &ts))
}

func TestTimestamp_MarshalUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	data, err := json.Marshal(timestamp(time.Date(2024, 3, 1, 13, 30, 0, 5, loc)))
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-03-01T12:30:00.000000005Z"`, string(data))
}

func TestDecode_Versions(t *testing.T) {
	boards, version, err := decode([]byte(`[{"id":"b1","name":"ML","description":"","items":[],"createdAt":"2024-01-01T00:00:00.000Z"}]`))
	require.NoError(t, err)
	assert.Equal(t, 0, version)
	require.Len(t, boards, 1)
	assert.Equal(t, "ML", boards[0].Name)

	_, _, err = decode([]byte(`{"version":2,"boards":[]}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, _, err = decode([]byte(`{"boards":[]}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, _, err = decode([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, _, err = decode([]byte("  "))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_UnknownTypeMapsToOther(t *testing.T) {
	boards, _, err := decode([]byte(`{"version":1,"saved_at":"2024-01-01T00:00:00Z","boards":[
		{"id":"b1","name":"x","description":"","createdAt":0,"items":[
			{"id":"i1","type":"podcast","title":"t","url":"https://a.b","description":"","createdAt":0,"boardIds":["b1"]}
		]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "other", string(boards[0].Items[0].Type))
}
