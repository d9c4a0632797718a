package services

import (
	"fmt"
	"io"
	"sync"
)

// MockFileStorage is an in-memory FileStorage for testing. The failure
// switches let tests exercise the rollback paths.
type MockFileStorage struct {
	mu         sync.RWMutex
	files      map[string][]byte
	FailWrite  bool
	FailDelete bool
}

// NewMockFileStorage creates a new in-memory storage mock
func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{
		files: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global storage instance
func (m *MockFileStorage) SetAsMockForTesting() {
	SetFileStorage(m)
}

// Write stores the content in memory
func (m *MockFileStorage) Write(key string, r io.Reader) error {
	if m.FailWrite {
		return fmt.Errorf("mock storage: write failure")
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()
	return nil
}

// Delete removes the content from memory
func (m *MockFileStorage) Delete(key string) error {
	if m.FailDelete {
		return fmt.Errorf("mock storage: delete failure")
	}

	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

// URL returns a stable mock URL
func (m *MockFileStorage) URL(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return "mock://" + key, nil
}

// Has reports whether a file exists under key
func (m *MockFileStorage) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[key]
	return ok
}

// Count returns the number of stored files
func (m *MockFileStorage) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
