// Package command holds one-shot commands for polling devices. Each device
// has at most one pending command; a newer one replaces it, and a consuming
// poll removes it.
package command

import (
	"context"

	"github.com/quocanhngo/signalsender/internal/model"
)

// Store keeps the pending command per device. Take must be atomic: two
// concurrent takes never both observe the same command.
type Store interface {
	Set(ctx context.Context, deviceID string, cmd model.DeviceCommand) error
	Take(ctx context.Context, deviceID string) (model.DeviceCommand, bool, error)
	Get(ctx context.Context, deviceID string) (model.DeviceCommand, bool, error)
}
