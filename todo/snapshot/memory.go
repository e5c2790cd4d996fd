package snapshot

import (
	"context"
	"sync"
)

// Memory A in memory snapshot. It exists mainly to simplify testing and examples,
// nothing survives the process
type Memory struct {
	mu    sync.RWMutex
	data  []byte
	saved bool
	saves int
	err   error
}

// NewMemory Create a new [Memory] snapshot, optionally seeded with data
func NewMemory(seed []byte) *Memory {
	m := &Memory{}
	if seed != nil {
		m.data = clone(seed)
		m.saved = true
	}

	return m
}

func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.saved {
		return nil, ErrNotExist
	}

	return clone(m.data), nil
}

func (m *Memory) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.data = clone(data)
	m.saved = true
	m.saves++

	return nil
}

// FailSaves Makes every following Save return err, nil restores normal saves
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

// Saves The number of successful saves
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.saves
}

func clone(data []byte) []byte {
	return append([]byte(nil), data...)
}
