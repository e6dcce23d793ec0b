// Package bridge relays firmware lines from a serial device to the ingest
// API and relays queued device commands back.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/quocanhngo/signalsender/internal/model"
	"go.uber.org/zap"
)

// DefaultAttemptTimeout bounds one POST to one endpoint
const DefaultAttemptTimeout = 5 * time.Second

// ErrNotDelivered is returned when every endpoint refused the signal
var ErrNotDelivered = errors.New("signal not delivered")

// Forwarder posts signals to the ingest API. Endpoints are tried in order
// and the first 2xx wins.
type Forwarder struct {
	httpClient *resty.Client
	endpoints  []string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewForwarder creates a forwarder for the server at baseURL. The hardware
// path is tried first, then the /api one.
func NewForwarder(baseURL string, timeout time.Duration, logger *zap.Logger) *Forwarder {
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Forwarder{
		httpClient: client,
		endpoints:  []string{"/door-alert", "/api/door-alert"},
		timeout:    timeout,
		logger:     logger,
	}
}

// Forward delivers one signal. It returns the endpoint that accepted it.
func (f *Forwarder) Forward(ctx context.Context, sig model.Signal) (string, error) {
	var errs []error
	for _, ep := range f.endpoints {
		err := f.post(ctx, ep, sig)
		if err == nil {
			f.logger.Info("Signal forwarded",
				zap.String("endpoint", ep),
				zap.String("door_status", sig.DoorStatus),
				zap.Bool("alert", sig.Alert),
			)
			return ep, nil
		}
		f.logger.Warn("Failed to post signal", zap.String("endpoint", ep), zap.Error(err))
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: %w", ErrNotDelivered, errors.Join(errs...))
}

func (f *Forwarder) post(ctx context.Context, endpoint string, sig model.Signal) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.httpClient.R().
		SetContext(ctx).
		SetBody(sig).
		Post(endpoint)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%s: status %d: %s", endpoint, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

// PollCommand takes the pending command for deviceID from the server
func (f *Forwarder) PollCommand(ctx context.Context, deviceID string) (model.DeviceCommand, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var cmd model.DeviceCommand
	resp, err := f.httpClient.R().
		SetContext(ctx).
		SetPathParam("deviceId", deviceID).
		SetResult(&cmd).
		Get("/devices/{deviceId}/command")
	if err != nil {
		return model.DeviceCommand{}, err
	}
	if !resp.IsSuccess() {
		return model.DeviceCommand{}, fmt.Errorf("poll command: status %d", resp.StatusCode())
	}
	return cmd, nil
}
