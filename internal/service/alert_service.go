package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/quocanhngo/signalsender/internal/model"
	"github.com/quocanhngo/signalsender/internal/payload"
	"github.com/quocanhngo/signalsender/pkg/mailer"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const displayTimeLayout = "02/01/2006, 15:04:05 MST"

// AlertLogStore persists the alert audit trail
type AlertLogStore interface {
	Create(ctx context.Context, entry *model.AlertLog) error
	List(ctx context.Context) ([]model.AlertLog, error)
	MarkEmailSent(ctx context.Context, id uint) (*model.AlertLog, error)
}

// Notifier delivers an alert to one address and reports whether it went out
type Notifier interface {
	SendAlert(ctx context.Context, to string, alert mailer.Alert) bool
}

// EventPublisher pushes events to live feed subscribers
type EventPublisher interface {
	Publish(event *model.WSEvent)
}

// CommandSetter queues a command for a polling device
type CommandSetter interface {
	SetCommand(ctx context.Context, deviceID string, action model.DeviceAction) (model.DeviceCommand, error)
}

// NotifyResult describes what happened to the notification step of an ingest
type NotifyResult string

const (
	NotifySkippedNonAlert    NotifyResult = "skipped_non_alert"
	NotifySkippedNoRecipient NotifyResult = "skipped_no_recipient"
	NotifySent               NotifyResult = "sent"
	NotifyFailed             NotifyResult = "failed"
	NotifyMarkFailed         NotifyResult = "mark_failed"
)

// IngestResult is the outcome of one accepted signal
type IngestResult struct {
	Log    *model.AlertLog
	Notify NotifyResult
}

// AlertOptions tunes the ingest pipeline
type AlertOptions struct {
	StoreTimeout  time.Duration
	NotifyTimeout time.Duration
	DisplayZone   *time.Location
	// BuzzerDevice, when set, gets a buzz_on command for every alert
	BuzzerDevice string
}

// AlertService runs the ingest pipeline: normalize, log, notify
type AlertService struct {
	logs       AlertLogStore
	recipients RecipientStore
	notifier   Notifier
	events     EventPublisher
	commands   CommandSetter
	opts       AlertOptions
	log        *zap.Logger
}

func NewAlertService(
	logs AlertLogStore,
	recipients RecipientStore,
	notifier Notifier,
	opts AlertOptions,
	log *zap.Logger,
) *AlertService {
	if opts.DisplayZone == nil {
		opts.DisplayZone = time.Local
	}
	return &AlertService{
		logs:       logs,
		recipients: recipients,
		notifier:   notifier,
		opts:       opts,
		log:        log,
	}
}

// WithEvents attaches a live feed publisher
func (s *AlertService) WithEvents(p EventPublisher) *AlertService {
	s.events = p
	return s
}

// WithCommands attaches the device command channel used for the buzzer
func (s *AlertService) WithCommands(c CommandSetter) *AlertService {
	s.commands = c
	return s
}

// Ingest accepts one raw payload. A malformed payload is rejected before
// anything is written. Once the log row exists the call succeeds; notification
// problems only show up in the returned NotifyResult and the logs.
func (s *AlertService) Ingest(ctx context.Context, raw []byte) (*IngestResult, error) {
	sig, err := payload.Parse(raw)
	if err != nil {
		return nil, err
	}

	entry := &model.AlertLog{
		DoorStatus: sig.DoorStatus,
		IsAlert:    sig.Alert,
		Duration:   sig.Duration,
		RawPayload: rawPayloadJSON(raw),
	}
	if err := s.withTimeout(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		return s.logs.Create(ctx, entry)
	}); err != nil {
		return nil, err
	}
	s.log.Info("📥 Signal logged",
		zap.Uint("log_id", entry.ID),
		zap.String("door_status", entry.DoorStatus),
		zap.Bool("alert", entry.IsAlert),
	)
	s.publish(model.WSEventAlertLogged, entry)

	result := &IngestResult{Log: entry, Notify: NotifySkippedNonAlert}
	if !sig.Alert {
		return result, nil
	}

	// The row is committed, so the caller hanging up must not abort the
	// buzzer or the email. Each step keeps its own timeout.
	detached := context.WithoutCancel(ctx)
	s.buzz(detached)
	result.Notify = s.notify(detached, entry)
	return result, nil
}

// Logs returns the audit trail, newest first
func (s *AlertService) Logs(ctx context.Context) ([]model.AlertLog, error) {
	var logs []model.AlertLog
	err := s.withTimeout(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		var err error
		logs, err = s.logs.List(ctx)
		return err
	})
	return logs, err
}

func (s *AlertService) notify(ctx context.Context, entry *model.AlertLog) NotifyResult {
	var recipient *model.Recipient
	if err := s.withTimeout(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		var err error
		recipient, err = s.recipients.FindActive(ctx)
		return err
	}); err != nil {
		s.log.Error("Failed to look up recipient, skipping notification", zap.Uint("log_id", entry.ID), zap.Error(err))
		return NotifySkippedNoRecipient
	}
	if recipient == nil {
		s.log.Warn("⚠️  Alert received but no recipient registered", zap.Uint("log_id", entry.ID))
		return NotifySkippedNoRecipient
	}

	alert := mailer.Alert{
		DoorStatus: entry.DoorStatus,
		Duration:   entry.Duration,
		Time:       entry.Timestamp.In(s.opts.DisplayZone).Format(displayTimeLayout),
	}

	var sent bool
	_ = s.withTimeout(ctx, s.opts.NotifyTimeout, func(ctx context.Context) error {
		sent = s.notifier.SendAlert(ctx, recipient.Email, alert)
		return nil
	})
	if !sent {
		return NotifyFailed
	}

	var updated *model.AlertLog
	if err := s.withTimeout(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		var err error
		updated, err = s.logs.MarkEmailSent(ctx, entry.ID)
		return err
	}); err != nil {
		s.log.Error("Failed to mark alert email as sent", zap.Uint("log_id", entry.ID), zap.Error(err))
		return NotifyMarkFailed
	}

	entry.EmailSent = updated.EmailSent
	s.publish(model.WSEventAlertEmailSent, updated)
	return NotifySent
}

// buzz queues the buzzer for the configured device. Failures are logged only.
func (s *AlertService) buzz(ctx context.Context) {
	if s.commands == nil || s.opts.BuzzerDevice == "" {
		return
	}
	if err := s.withTimeout(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		_, err := s.commands.SetCommand(ctx, s.opts.BuzzerDevice, model.DeviceActionBuzzOn)
		return err
	}); err != nil {
		s.log.Warn("Failed to queue buzzer command", zap.String("device_id", s.opts.BuzzerDevice), zap.Error(err))
	}
}

func (s *AlertService) publish(eventType string, body interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(&model.WSEvent{Type: eventType, Payload: body})
}

func (s *AlertService) withTimeout(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	if d <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(ctx)
}

// rawPayloadJSON keeps the body as received. JSON bodies are stored as-is,
// anything else as a JSON string.
func rawPayloadJSON(raw []byte) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if json.Valid(trimmed) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return datatypes.JSON(buf.Bytes())
		}
	}
	b, _ := json.Marshal(string(trimmed))
	return datatypes.JSON(b)
}

// IsClientError reports whether err was caused by the request input
func IsClientError(err error) bool {
	return errors.Is(err, payload.ErrMalformedSignal) || errors.Is(err, ErrValidation)
}
