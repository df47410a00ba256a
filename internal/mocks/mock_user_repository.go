package mocks

import (
	"context"
	"time"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc           func(ctx context.Context, account *domain.Account) error
	FindByEmailFunc      func(ctx context.Context, email string) (*domain.Account, error)
	FindByDocumentFunc   func(ctx context.Context, document string) (*domain.Account, error)
	FindByIDFunc         func(ctx context.Context, id uint) (*domain.Account, error)
	FindByResetTokenFunc func(ctx context.Context, token string, now time.Time) (*domain.Account, error)
	UpdateFunc           func(ctx context.Context, account *domain.Account) error
	SoftDeleteFunc       func(ctx context.Context, id uint) error
	RestoreFunc          func(ctx context.Context, id uint) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new account
func (m *MockUserRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	// Default behavior: success
	return nil
}

// FindByEmail finds an account by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByDocument finds an account by document number
func (m *MockUserRepository) FindByDocument(ctx context.Context, document string) (*domain.Account, error) {
	if m.FindByDocumentFunc != nil {
		return m.FindByDocumentFunc(ctx, document)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByID finds an account by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByResetToken finds an account by a live reset token
func (m *MockUserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.Account, error) {
	if m.FindByResetTokenFunc != nil {
		return m.FindByResetTokenFunc(ctx, token, now)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// Update updates an existing account
func (m *MockUserRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	// Default behavior: success
	return nil
}

// SoftDelete soft-deletes an account
func (m *MockUserRepository) SoftDelete(ctx context.Context, id uint) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	// Default behavior: success
	return nil
}

// Restore restores a soft-deleted account
func (m *MockUserRepository) Restore(ctx context.Context, id uint) error {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, id)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
