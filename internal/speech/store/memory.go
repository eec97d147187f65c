package store

import "sync"

// MemoryStore is a map-backed Store used as a test double and for
// environments without a writable cache directory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Exists(fingerprint string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[fingerprint]
	return ok
}

func (m *MemoryStore) Read(fingerprint string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.entries[fingerprint]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Write(fingerprint string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[fingerprint] = stored
	return nil
}

func (m *MemoryStore) Delete(fingerprint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, fingerprint)
	return nil
}

// Len reports the number of cached entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
