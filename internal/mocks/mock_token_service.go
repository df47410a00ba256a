package mocks

import (
	"fmt"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueFunc    func(userID uint, role string, tokenVersion int, sessionID string) (string, error)
	ValidateFunc func(token string) (*domain.SessionClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Issue mints a session credential
func (m *MockTokenService) Issue(userID uint, role string, tokenVersion int, sessionID string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userID, role, tokenVersion, sessionID)
	}
	// Default behavior: deterministic fake token
	return fmt.Sprintf("token_%d_%s_%d_%s", userID, role, tokenVersion, sessionID), nil
}

// Validate verifies a session credential
func (m *MockTokenService) Validate(token string) (*domain.SessionClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	// Default behavior: invalid token
	return nil, domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
