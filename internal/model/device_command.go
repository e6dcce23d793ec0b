package model

// DeviceAction is an instruction a polling device can execute
type DeviceAction string

const (
	DeviceActionNone    DeviceAction = "none"
	DeviceActionBuzzOn  DeviceAction = "buzz_on"
	DeviceActionBuzzOff DeviceAction = "buzz_off"
)

// Valid reports whether a is one of the known actions.
func (a DeviceAction) Valid() bool {
	switch a {
	case DeviceActionNone, DeviceActionBuzzOn, DeviceActionBuzzOff:
		return true
	}
	return false
}

// DeviceCommand is a one-shot command waiting for a device poll.
// CreatedAt is unix milliseconds; zero on the none sentinel.
type DeviceCommand struct {
	Action    DeviceAction `json:"action"`
	CreatedAt int64        `json:"createdAt"`
}

// NoCommand is what a poll observes when nothing is pending.
var NoCommand = DeviceCommand{Action: DeviceActionNone}
