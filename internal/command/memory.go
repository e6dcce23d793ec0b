package command

import (
	"context"
	"sync"
	"time"

	"github.com/quocanhngo/signalsender/internal/model"
)

type memoryEntry struct {
	cmd     model.DeviceCommand
	expires time.Time
}

// MemoryStore keeps commands in process memory. Commands are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store. A zero ttl keeps commands until consumed.
// With a ttl, every Set also drops expired commands of devices that stopped
// polling.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Set(_ context.Context, deviceID string, cmd model.DeviceCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{cmd: cmd}
	if s.ttl > 0 {
		now := s.now()
		s.sweep(now)
		entry.expires = now.Add(s.ttl)
	}
	s.entries[deviceID] = entry
	return nil
}

func (s *MemoryStore) Take(_ context.Context, deviceID string) (model.DeviceCommand, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(deviceID)
	if ok {
		delete(s.entries, deviceID)
	}
	return entry.cmd, ok, nil
}

func (s *MemoryStore) Get(_ context.Context, deviceID string) (model.DeviceCommand, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(deviceID)
	return entry.cmd, ok, nil
}

// lookup returns the live entry for deviceID, dropping it if expired.
// Caller holds mu.
func (s *MemoryStore) lookup(deviceID string) (memoryEntry, bool) {
	entry, ok := s.entries[deviceID]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expires.IsZero() && !s.now().Before(entry.expires) {
		delete(s.entries, deviceID)
		return memoryEntry{}, false
	}
	return entry, true
}

// sweep drops every expired entry. Caller holds mu.
func (s *MemoryStore) sweep(now time.Time) {
	for id, entry := range s.entries {
		if !entry.expires.IsZero() && !now.Before(entry.expires) {
			delete(s.entries, id)
		}
	}
}
