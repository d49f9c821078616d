package storage

import (
	"context"
	"sync"

	"carbonwise/internal"
)

// MemoryStore keeps the encoded snapshot in process memory. It goes through
// the same encode/validate path as DB.
type MemoryStore struct {
	mu   sync.Mutex
	blob []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) LoadSnapshot(_ context.Context) (*internal.AnalysisSnapshot, error) {
	m.mu.Lock()
	blob := m.blob
	m.mu.Unlock()
	if blob == nil {
		return nil, nil
	}
	return decodeSnapshot(blob)
}

func (m *MemoryStore) SaveSnapshot(_ context.Context, snap internal.AnalysisSnapshot) error {
	blob, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blob = blob
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) DeleteSnapshot(_ context.Context) error {
	m.mu.Lock()
	m.blob = nil
	m.mu.Unlock()
	return nil
}
