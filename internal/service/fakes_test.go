package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/quocanhngo/signalsender/internal/model"
	"github.com/quocanhngo/signalsender/internal/repository"
	"github.com/quocanhngo/signalsender/pkg/mailer"
)

var errDown = errors.New("connection refused")

type fakeLogStore struct {
	mu        sync.Mutex
	logs      []model.AlertLog
	createErr error
	markErr   error
}

func (f *fakeLogStore) Create(_ context.Context, entry *model.AlertLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	entry.ID = uint(len(f.logs) + 1)
	entry.EmailSent = false
	entry.Timestamp = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeLogStore) List(context.Context) ([]model.AlertLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := make([]model.AlertLog, 0, len(f.logs))
	for i := len(f.logs) - 1; i >= 0; i-- {
		out = append(out, f.logs[i])
	}
	return out, nil
}

func (f *fakeLogStore) MarkEmailSent(_ context.Context, id uint) (*model.AlertLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return nil, f.markErr
	}
	if id == 0 || int(id) > len(f.logs) {
		return nil, repository.ErrNotFound
	}
	f.logs[id-1].EmailSent = true
	entry := f.logs[id-1]
	return &entry, nil
}

func (f *fakeLogStore) snapshot() []model.AlertLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.AlertLog(nil), f.logs...)
}

type fakeRecipients struct {
	mu      sync.Mutex
	all     []model.Recipient
	findErr error
}

func (f *fakeRecipients) Create(_ context.Context, email string) (*model.Recipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := model.Recipient{ID: uint(len(f.all) + 1), Email: email, IsActive: true, UpdatedAt: time.Now()}
	f.all = append(f.all, r)
	return &r, nil
}

func (f *fakeRecipients) FindActive(context.Context) (*model.Recipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	if len(f.all) == 0 {
		return nil, nil
	}
	r := f.all[len(f.all)-1]
	return &r, nil
}

func (f *fakeRecipients) List(context.Context) ([]model.Recipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Recipient, 0, len(f.all))
	for i := len(f.all) - 1; i >= 0; i-- {
		out = append(out, f.all[i])
	}
	return out, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	result   bool
	delay    time.Duration
	sent     []string
	alerts   []mailer.Alert
	deadline bool
}

func (f *fakeNotifier) SendAlert(ctx context.Context, to string, alert mailer.Alert) bool {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return false
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, f.deadline = ctx.Deadline()
	f.sent = append(f.sent, to)
	f.alerts = append(f.alerts, alert)
	return f.result
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (f *fakePublisher) Publish(event *model.WSEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event.Type)
}

type fakeCommands struct {
	mu      sync.Mutex
	devices []string
	err     error
}

func (f *fakeCommands) SetCommand(_ context.Context, deviceID string, action model.DeviceAction) (model.DeviceCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.DeviceCommand{}, f.err
	}
	f.devices = append(f.devices, deviceID+"="+string(action))
	return model.DeviceCommand{Action: action, CreatedAt: 1}, nil
}
