// Package storetest provides an in-memory slot for engine tests.
package storetest

import (
	"context"
	"sync"
)

// MemorySlot keeps the serialized collection in memory. Set ReadErr or
// WriteErr to simulate an unavailable backend.
type MemorySlot struct {
	mu sync.Mutex

	Data     []byte
	Exists   bool
	ReadErr  error
	WriteErr error
	Writes   int
}

// NewMemorySlot returns a slot pre-filled with data. Pass nil for an empty slot.
func NewMemorySlot(data []byte) *MemorySlot {
	return &MemorySlot{Data: data, Exists: data != nil}
}

func (m *MemorySlot) Name() string { return "memory" }

func (m *MemorySlot) Read(context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, false, m.ReadErr
	}
	if !m.Exists {
		return nil, false, nil
	}
	return append([]byte(nil), m.Data...), true, nil
}

func (m *MemorySlot) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Data = append([]byte(nil), data...)
	m.Exists = true
	m.Writes++
	return nil
}

// Snapshot returns a copy of the last written data.
func (m *MemorySlot) Snapshot() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.Data...)
}
