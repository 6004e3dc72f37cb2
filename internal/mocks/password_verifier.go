package mocks

import (
	"sync"

	"github.com/phrazzld/texdrill-api/internal/service/auth"
)

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// MockPasswordVerifier implements auth.PasswordVerifier and records the
// passwords it was asked to compare.
type MockPasswordVerifier struct {
	// ShouldSucceed selects the result when CompareFn is nil.
	ShouldSucceed bool
	CompareFn     func(hashedPassword, password string) error

	mu    sync.Mutex
	calls []string
}

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.calls = append(m.calls, password)
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return auth.ErrInvalidCredentials
}

// Calls returns the plaintext passwords passed to Compare, in order.
func (m *MockPasswordVerifier) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
