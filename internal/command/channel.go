package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/quocanhngo/signalsender/internal/model"
	"go.uber.org/zap"
)

const maxDeviceIDLen = 128

var (
	// ErrInvalidAction is returned for an action outside the known set
	ErrInvalidAction = errors.New("invalid device action")
	// ErrInvalidDevice is returned for an empty or oversized device id
	ErrInvalidDevice = errors.New("invalid device id")
)

// Channel is the command mailbox devices poll
type Channel struct {
	store Store
	now   func() time.Time
	log   *zap.Logger
}

func NewChannel(store Store, log *zap.Logger) *Channel {
	return &Channel{store: store, now: time.Now, log: log}
}

// SetCommand replaces any pending command for the device
func (c *Channel) SetCommand(ctx context.Context, deviceID string, action model.DeviceAction) (model.DeviceCommand, error) {
	deviceID, err := normalizeDeviceID(deviceID)
	if err != nil {
		return model.DeviceCommand{}, err
	}
	if !action.Valid() {
		return model.DeviceCommand{}, ErrInvalidAction
	}

	cmd := model.DeviceCommand{Action: action, CreatedAt: c.now().UnixMilli()}
	if err := c.store.Set(ctx, deviceID, cmd); err != nil {
		return model.DeviceCommand{}, err
	}
	c.log.Info("📟 Device command queued", zap.String("device_id", deviceID), zap.String("action", string(action)))
	return cmd, nil
}

// Consume returns and removes the pending command, or model.NoCommand
func (c *Channel) Consume(ctx context.Context, deviceID string) (model.DeviceCommand, error) {
	deviceID, err := normalizeDeviceID(deviceID)
	if err != nil {
		return model.DeviceCommand{}, err
	}

	cmd, ok, err := c.store.Take(ctx, deviceID)
	if err != nil {
		return model.DeviceCommand{}, err
	}
	if !ok {
		return model.NoCommand, nil
	}
	c.log.Debug("Device command delivered", zap.String("device_id", deviceID), zap.String("action", string(cmd.Action)))
	return cmd, nil
}

// Peek returns the pending command without removing it
func (c *Channel) Peek(ctx context.Context, deviceID string) (model.DeviceCommand, error) {
	deviceID, err := normalizeDeviceID(deviceID)
	if err != nil {
		return model.DeviceCommand{}, err
	}

	cmd, ok, err := c.store.Get(ctx, deviceID)
	if err != nil {
		return model.DeviceCommand{}, err
	}
	if !ok {
		return model.NoCommand, nil
	}
	return cmd, nil
}

func normalizeDeviceID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxDeviceIDLen {
		return "", ErrInvalidDevice
	}
	return id, nil
}
