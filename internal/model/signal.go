package model

import (
	"strconv"
	"strings"
)

// Signal is the canonical form of one hardware event after normalization.
type Signal struct {
	DoorStatus string `json:"door_status"`
	Alert      bool   `json:"alert"`
	Duration   *int   `json:"duration,omitempty"`
}

// Delimited renders the signal in the colon-separated firmware format,
// e.g. "open:true:12".
func (s Signal) Delimited() string {
	parts := []string{s.DoorStatus, strconv.FormatBool(s.Alert)}
	if s.Duration != nil {
		parts = append(parts, strconv.Itoa(*s.Duration))
	}
	return strings.Join(parts, ":")
}
