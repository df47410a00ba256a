package mocks

import (
	"strings"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// MockSecretGenerator implements domain.SecretGenerator interface for testing
type MockSecretGenerator struct {
	TokenFunc func() (string, error)
	CodeFunc  func(digits int) (string, error)
}

// NewMockSecretGenerator creates a new MockSecretGenerator with default behaviors
func NewMockSecretGenerator() *MockSecretGenerator {
	return &MockSecretGenerator{}
}

// Token returns an opaque recovery token
func (m *MockSecretGenerator) Token() (string, error) {
	if m.TokenFunc != nil {
		return m.TokenFunc()
	}
	// Default behavior: fixed 64-char token
	return strings.Repeat("ab", 32), nil
}

// Code returns a numeric code of the given length
func (m *MockSecretGenerator) Code(digits int) (string, error) {
	if m.CodeFunc != nil {
		return m.CodeFunc(digits)
	}
	// Default behavior: repeating digits
	return strings.Repeat("4", digits), nil
}

// Compile-time interface compliance verification
var _ domain.SecretGenerator = (*MockSecretGenerator)(nil)
