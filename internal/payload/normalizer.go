// Package payload turns raw hardware telemetry into canonical signals.
//
// Firmware variants emit either a JSON object
//
//	{"door_status":"open","alert":true,"duration":12}
//
// or a colon-delimited line such as "open:true:12". Parse accepts both.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/quocanhngo/signalsender/internal/model"
)

// ErrMalformedSignal matches every *MalformedSignalError via errors.Is.
var ErrMalformedSignal = errors.New("malformed signal")

const maxDuration = math.MaxInt32

// MalformedSignalError reports input that cannot be normalized. Field is the
// offending field path, empty when the input as a whole is unusable.
type MalformedSignalError struct {
	Field   string
	Message string
}

func (e *MalformedSignalError) Error() string {
	if e.Field == "" {
		return "malformed signal: " + e.Message
	}
	return fmt.Sprintf("malformed signal: %s: %s", e.Field, e.Message)
}

func (e *MalformedSignalError) Is(target error) bool {
	return target == ErrMalformedSignal
}

func malformed(field, msg string) error {
	return &MalformedSignalError{Field: field, Message: msg}
}

// wireSignal uses pointers so that missing fields can be told apart from
// zero values.
type wireSignal struct {
	DoorStatus *string  `json:"door_status"`
	Alert      *bool    `json:"alert"`
	Duration   *float64 `json:"duration"`
}

// Parse normalizes raw telemetry. It never returns a partially filled signal:
// either the whole record is valid or a *MalformedSignalError is returned.
func Parse(raw []byte) (model.Signal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return model.Signal{}, malformed("", "empty signal")
	}

	if json.Valid(trimmed) {
		return parseJSON(trimmed)
	}

	// Looks like JSON but does not parse; splitting it on colons would
	// produce garbage.
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return model.Signal{}, malformed("", "invalid JSON")
	}

	return ParseDelimited(string(trimmed))
}

func parseJSON(data []byte) (model.Signal, error) {
	switch data[0] {
	case '{':
	case '"':
		// A bridge that quoted the firmware line.
		var line string
		if err := json.Unmarshal(data, &line); err != nil {
			return model.Signal{}, malformed("", "invalid JSON string")
		}
		return ParseDelimited(line)
	default:
		return model.Signal{}, malformed("", "expected a JSON object")
	}

	var w wireSignal
	if err := json.Unmarshal(data, &w); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return model.Signal{}, malformed(typeErr.Field, "expected "+typeErr.Type.String())
		}
		return model.Signal{}, malformed("", err.Error())
	}

	if w.DoorStatus == nil {
		return model.Signal{}, malformed("door_status", "Required")
	}
	status := strings.TrimSpace(*w.DoorStatus)
	if status == "" {
		return model.Signal{}, malformed("door_status", "must not be empty")
	}
	if w.Alert == nil {
		return model.Signal{}, malformed("alert", "Required")
	}

	sig := model.Signal{DoorStatus: status, Alert: *w.Alert}
	if w.Duration != nil {
		d, err := toDuration(*w.Duration)
		if err != nil {
			return model.Signal{}, err
		}
		sig.Duration = &d
	}
	return sig, nil
}

// ParseDelimited parses the "status:alertFlag[:duration]" firmware format.
// The alert flag is true only for the literal tokens "true" and "1".
func ParseDelimited(line string) (model.Signal, error) {
	parts := strings.Split(strings.TrimSpace(line), ":")
	if len(parts) < 2 {
		return model.Signal{}, malformed("", "expected status:alert[:duration]")
	}

	status := strings.TrimSpace(parts[0])
	if status == "" {
		return model.Signal{}, malformed("door_status", "must not be empty")
	}

	flag := strings.TrimSpace(parts[1])
	sig := model.Signal{
		DoorStatus: status,
		Alert:      flag == "true" || flag == "1",
	}

	if len(parts) > 2 {
		if raw := strings.TrimSpace(parts[2]); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return model.Signal{}, malformed("duration", "expected number")
			}
			d, err := toDuration(v)
			if err != nil {
				return model.Signal{}, err
			}
			sig.Duration = &d
		}
	}
	return sig, nil
}

func toDuration(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, malformed("duration", "expected number")
	}
	if v < 0 {
		return 0, malformed("duration", "must be non-negative")
	}
	if v != math.Trunc(v) {
		return 0, malformed("duration", "must be a whole number of seconds")
	}
	if v > maxDuration {
		return 0, malformed("duration", "too large")
	}
	return int(v), nil
}
