package mocks

import "github.com/NutriScanU/nutriscanu-backend/domain"

// MockMailer implements domain.Mailer interface for testing
type MockMailer struct {
	SendPasswordResetLinkFunc func(to, fullName, token string) error
	SendPasswordResetCodeFunc func(to, code string) error
	SendLoginCodeFunc         func(to, fullName, code string) error
	SendWelcomeFunc           func(to, fullName, tempPassword string) error
}

// NewMockMailer creates a new MockMailer with default behaviors
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SendPasswordResetLink delivers a reset link
func (m *MockMailer) SendPasswordResetLink(to, fullName, token string) error {
	if m.SendPasswordResetLinkFunc != nil {
		return m.SendPasswordResetLinkFunc(to, fullName, token)
	}
	// Default behavior: success
	return nil
}

// SendPasswordResetCode delivers a reset code
func (m *MockMailer) SendPasswordResetCode(to, code string) error {
	if m.SendPasswordResetCodeFunc != nil {
		return m.SendPasswordResetCodeFunc(to, code)
	}
	// Default behavior: success
	return nil
}

// SendLoginCode delivers a one-time sign-in code
func (m *MockMailer) SendLoginCode(to, fullName, code string) error {
	if m.SendLoginCodeFunc != nil {
		return m.SendLoginCodeFunc(to, fullName, code)
	}
	// Default behavior: success
	return nil
}

// SendWelcome delivers the provisioning notice with a temporary password
func (m *MockMailer) SendWelcome(to, fullName, tempPassword string) error {
	if m.SendWelcomeFunc != nil {
		return m.SendWelcomeFunc(to, fullName, tempPassword)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.Mailer = (*MockMailer)(nil)
