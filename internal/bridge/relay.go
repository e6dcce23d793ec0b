package bridge

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/quocanhngo/signalsender/internal/model"
	"github.com/quocanhngo/signalsender/internal/payload"
	"go.uber.org/zap"
)

// Sink delivers one signal upstream
type Sink interface {
	Forward(ctx context.Context, sig model.Signal) (string, error)
}

// Stats counts what happened to the lines read
type Stats struct {
	Lines     int
	Skipped   int
	Forwarded int
	Failed    int
}

// Relay reads newline-delimited firmware output from r and forwards every
// line that parses. Blank and malformed lines are skipped; delivery failures
// are logged and do not stop the relay. It returns at EOF or when ctx ends.
func Relay(ctx context.Context, r io.Reader, sink Sink, logger *zap.Logger) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		relayLine(ctx, scanner.Text(), sink, &stats, logger)
	}
	if ctx.Err() != nil {
		return stats, ctx.Err()
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return stats, err
	}
	return stats, nil
}

// relayLine parses one unit of firmware output and forwards it
func relayLine(ctx context.Context, line string, sink Sink, stats *Stats, logger *zap.Logger) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	stats.Lines++
	logger.Debug("Serial line", zap.String("line", line))

	sig, err := payload.Parse([]byte(line))
	if err != nil {
		stats.Skipped++
		logger.Warn("Unrecognized serial format, skipping", zap.String("line", line), zap.Error(err))
		return
	}

	if _, err := sink.Forward(ctx, sig); err != nil {
		stats.Failed++
		logger.Error("Signal dropped", zap.String("line", line), zap.Error(err))
		return
	}
	stats.Forwarded++
}

// CommandSource yields the pending command for a device
type CommandSource interface {
	PollCommand(ctx context.Context, deviceID string) (model.DeviceCommand, error)
}

// PollCommands polls src every interval and writes each real command to w as
// one line holding the action name. It returns when ctx ends.
func PollCommands(ctx context.Context, src CommandSource, deviceID string, interval time.Duration, w io.Writer, logger *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cmd, err := src.PollCommand(ctx, deviceID)
			if err != nil {
				logger.Warn("Command poll failed", zap.String("device_id", deviceID), zap.Error(err))
				continue
			}
			if cmd.Action == model.DeviceActionNone {
				continue
			}
			if _, err := io.WriteString(w, string(cmd.Action)+"\n"); err != nil {
				return err
			}
			logger.Info("Command sent to device", zap.String("device_id", deviceID), zap.String("action", string(cmd.Action)))
		}
	}
}
