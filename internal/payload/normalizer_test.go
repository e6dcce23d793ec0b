package payload

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocanhngo/signalsender/internal/model"
)

func intPtr(v int) *int { return &v }

func TestParse_JSON(t *testing.T) {
	sig, err := Parse([]byte(`{"door_status":"open","alert":true,"duration":12}`))
	require.NoError(t, err)
	assert.Equal(t, "open", sig.DoorStatus)
	assert.True(t, sig.Alert)
	require.NotNil(t, sig.Duration)
	assert.Equal(t, 12, *sig.Duration)
}

func TestParse_JSONWithoutDuration(t *testing.T) {
	sig, err := Parse([]byte(`  {"door_status":"closed","alert":false}  `))
	require.NoError(t, err)
	assert.Equal(t, model.Signal{DoorStatus: "closed", Alert: false}, sig)
}

func TestParse_JSONIgnoresUnknownFields(t *testing.T) {
	sig, err := Parse([]byte(`{"door_status":"open","alert":false,"device":"esp-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "open", sig.DoorStatus)
}

func TestParse_Delimited(t *testing.T) {
	sig, err := Parse([]byte("open:true:7"))
	require.NoError(t, err)
	assert.Equal(t, model.Signal{DoorStatus: "open", Alert: true, Duration: intPtr(7)}, sig)
}

func TestParse_DelimitedAlertTokens(t *testing.T) {
	cases := map[string]bool{
		"open:true":  true,
		"open:1":     true,
		"open:false": false,
		"open:0":     false,
		"open:yes":   false,
		"open:TRUE":  false,
		"open:":      false,
	}
	for line, want := range cases {
		t.Run(line, func(t *testing.T) {
			sig, err := Parse([]byte(line))
			require.NoError(t, err)
			assert.Equal(t, want, sig.Alert)
			assert.Nil(t, sig.Duration)
		})
	}
}

func TestParse_DelimitedEmptyDurationSegment(t *testing.T) {
	sig, err := Parse([]byte("closed:0:"))
	require.NoError(t, err)
	assert.Nil(t, sig.Duration)
}

func TestParse_DelimitedWithTrailingNewline(t *testing.T) {
	sig, err := Parse([]byte("open:1:30\r\n"))
	require.NoError(t, err)
	assert.Equal(t, model.Signal{DoorStatus: "open", Alert: true, Duration: intPtr(30)}, sig)
}

func TestParse_QuotedDelimitedLine(t *testing.T) {
	sig, err := Parse([]byte(`"open:true:3"`))
	require.NoError(t, err)
	assert.Equal(t, model.Signal{DoorStatus: "open", Alert: true, Duration: intPtr(3)}, sig)
}

func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		field string
	}{
		{"empty", "   ", ""},
		{"single segment", "open", ""},
		{"missing alert", `{"door_status":"open"}`, "alert"},
		{"null alert", `{"door_status":"open","alert":null}`, "alert"},
		{"missing status", `{"alert":true}`, "door_status"},
		{"empty status", `{"door_status":"  ","alert":true}`, "door_status"},
		{"alert wrong type", `{"door_status":"open","alert":"yes"}`, "alert"},
		{"status wrong type", `{"door_status":5,"alert":true}`, "door_status"},
		{"negative duration", `{"door_status":"open","alert":true,"duration":-1}`, "duration"},
		{"fractional duration", `{"door_status":"open","alert":true,"duration":1.5}`, "duration"},
		{"duration wrong type", `{"door_status":"open","alert":true,"duration":"7"}`, "duration"},
		{"delimited bad duration", "open:true:abc", "duration"},
		{"delimited empty status", ":true", "door_status"},
		{"broken json", `{"door_status":"open",`, ""},
		{"json array", `[1,2]`, ""},
		{"json number", `42`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig, err := Parse([]byte(tc.raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSignal))
			assert.Equal(t, model.Signal{}, sig)

			var mErr *MalformedSignalError
			require.True(t, errors.As(err, &mErr))
			assert.Equal(t, tc.field, mErr.Field)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	signals := []model.Signal{
		{DoorStatus: "open", Alert: true, Duration: intPtr(12)},
		{DoorStatus: "closed", Alert: false},
		{DoorStatus: "ajar", Alert: true, Duration: intPtr(0)},
	}
	for _, want := range signals {
		encoded, err := json.Marshal(want)
		require.NoError(t, err)

		got, err := Parse(encoded)
		require.NoError(t, err)
		assert.Equal(t, want, got, "json form %s", encoded)

		got, err = Parse([]byte(want.Delimited()))
		require.NoError(t, err)
		assert.Equal(t, want, got, "delimited form %s", want.Delimited())
	}
}
