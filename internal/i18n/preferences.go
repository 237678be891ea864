package i18n

import (
	"errors"
	"sync"
)

// ErrPreferenceNotFound is returned by Get for keys that were never set.
var ErrPreferenceNotFound = errors.New("i18n: preference not found")

// MemoryPreferences keeps preferences in process memory. GetErr and SetErr simulate an
// unavailable backend.
type MemoryPreferences struct {
	mu     sync.Mutex
	values map[string]string
	GetErr error
	SetErr error
}

// NewMemoryPreferences returns storage pre-populated with values.
func NewMemoryPreferences(values map[string]string) *MemoryPreferences {
	m := &MemoryPreferences{values: map[string]string{}}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *MemoryPreferences) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrPreferenceNotFound
	}
	return v, nil
}

func (m *MemoryPreferences) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}
