package services

import (
	"context"
	"testing"
	"time"

	"github.com/NutriScanU/nutriscanu-backend/domain"
	"github.com/NutriScanU/nutriscanu-backend/internal/mocks"
)

// createTestContext creates a context for service tests
func createTestContext(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}

// createTestAccount builds a realistic account fixture
func createTestAccount(t *testing.T) *domain.Account {
	t.Helper()
	return &domain.Account{
		ID:             1,
		FirstName:      "Ana",
		MiddleName:     "Cruz",
		LastName:       "Lopez",
		DocumentNumber: "12345678",
		Email:          "a@x.com",
		PasswordHash:   "hashed_Secret1",
		Role:           domain.RoleStudent,
		TokenVersion:   0,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

// validRegisterInput returns a registration payload that passes every rule
func validRegisterInput(t *testing.T) domain.RegisterInput {
	t.Helper()
	return domain.RegisterInput{
		FirstName:      "ana",
		MiddleName:     "cruz",
		LastName:       "lopez",
		DocumentNumber: "12345678",
		Email:          "a@x.com",
		Password:       "Secret1",
		Confirm:        "Secret1",
	}
}

// createAuthServiceForTest wires an AuthService with mocks
func createAuthServiceForTest(
	t *testing.T,
	userRepo *mocks.MockUserRepository,
	sessionRepo *mocks.MockSessionRepository,
	passwordSvc *mocks.MockPasswordService,
	tokenSvc *mocks.MockTokenService,
) domain.AuthService {
	t.Helper()
	if userRepo == nil {
		userRepo = mocks.NewMockUserRepository()
	}
	if sessionRepo == nil {
		sessionRepo = mocks.NewMockSessionRepository()
	}
	if passwordSvc == nil {
		passwordSvc = mocks.NewMockPasswordService()
	}
	if tokenSvc == nil {
		tokenSvc = mocks.NewMockTokenService()
	}
	return NewAuthService(userRepo, sessionRepo, passwordSvc, tokenSvc, time.Hour)
}

// testRecoveryConfig returns the lifecycle settings used across recovery tests
func testRecoveryConfig(t *testing.T) RecoveryConfig {
	t.Helper()
	return RecoveryConfig{
		TokenTTL:             15 * time.Minute,
		CodeTTL:              10 * time.Minute,
		CodeLength:           6,
		ResendWindow:         0, // throttle off unless a test opts in
		RejectReusedPassword: true,
	}
}

// createRecoveryServiceForTest wires a RecoveryService with mocks and no
// Redis-backed throttle.
func createRecoveryServiceForTest(
	t *testing.T,
	userRepo *mocks.MockUserRepository,
	passwordSvc *mocks.MockPasswordService,
	secrets *mocks.MockSecretGenerator,
	mailer *mocks.MockMailer,
) domain.RecoveryService {
	t.Helper()
	if userRepo == nil {
		userRepo = mocks.NewMockUserRepository()
	}
	if passwordSvc == nil {
		passwordSvc = mocks.NewMockPasswordService()
	}
	if secrets == nil {
		secrets = mocks.NewMockSecretGenerator()
	}
	if mailer == nil {
		mailer = mocks.NewMockMailer()
	}
	return NewRecoveryService(userRepo, passwordSvc, secrets, mailer, nil, testRecoveryConfig(t))
}

// createLoginCodeServiceForTest wires a LoginCodeService with mocks
func createLoginCodeServiceForTest(
	t *testing.T,
	userRepo *mocks.MockUserRepository,
	sessionRepo *mocks.MockSessionRepository,
	tokenSvc *mocks.MockTokenService,
	secrets *mocks.MockSecretGenerator,
	mailer *mocks.MockMailer,
) domain.LoginCodeService {
	t.Helper()
	if userRepo == nil {
		userRepo = mocks.NewMockUserRepository()
	}
	if sessionRepo == nil {
		sessionRepo = mocks.NewMockSessionRepository()
	}
	if tokenSvc == nil {
		tokenSvc = mocks.NewMockTokenService()
	}
	if secrets == nil {
		secrets = mocks.NewMockSecretGenerator()
	}
	if mailer == nil {
		mailer = mocks.NewMockMailer()
	}
	return NewLoginCodeService(userRepo, sessionRepo, tokenSvc, secrets, mailer, nil, LoginCodeConfig{
		CodeTTL:      10 * time.Minute,
		CodeLength:   6,
		ResendWindow: 0,
		SessionTTL:   time.Hour,
	})
}

func strPtr(s string) *string { return &s }

func timePtr(tm time.Time) *time.Time { return &tm }
