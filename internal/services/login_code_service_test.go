package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NutriScanU/nutriscanu-backend/domain"
	"github.com/NutriScanU/nutriscanu-backend/internal/mocks"
)

func TestLoginCodeService_SendLoginCode(t *testing.T) {
	tests := []struct {
		name           string
		email          string
		setupMocks     func(userRepo *mocks.MockUserRepository, mailer *mocks.MockMailer)
		expectError    bool
		expectedMasked string
		expectSend     bool
	}{
		{
			name:  "known account receives a login-purpose code",
			email: "a@x.com",
			setupMocks: func(userRepo *mocks.MockUserRepository, mailer *mocks.MockMailer) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return createTestAccount(t), nil
				}
			},
			expectedMasked: "*@x.com",
			expectSend:     true,
		},
		{
			name:           "unknown account gets identical receipt and no mail",
			email:          "ghost@x.com",
			expectedMasked: "g****@x.com",
			expectSend:     false,
		},
		{
			name:  "delivery failure surfaces as error",
			email: "a@x.com",
			setupMocks: func(userRepo *mocks.MockUserRepository, mailer *mocks.MockMailer) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return createTestAccount(t), nil
				}
				mailer.SendLoginCodeFunc = func(to, fullName, code string) error {
					return errors.New("smtp unreachable")
				}
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := mocks.NewMockUserRepository()
			mailer := mocks.NewMockMailer()
			sent := false
			if tt.setupMocks != nil {
				tt.setupMocks(userRepo, mailer)
			}
			prevSend := mailer.SendLoginCodeFunc
			mailer.SendLoginCodeFunc = func(to, fullName, code string) error {
				sent = true
				if prevSend != nil {
					return prevSend(to, fullName, code)
				}
				return nil
			}
			svc := createLoginCodeServiceForTest(t, userRepo, nil, nil, nil, mailer)

			masked, err := svc.SendLoginCode(createTestContext(t), tt.email)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if masked != tt.expectedMasked {
				t.Errorf("expected masked %q, got %q", tt.expectedMasked, masked)
			}
			if sent != tt.expectSend {
				t.Errorf("expected send=%v, got %v", tt.expectSend, sent)
			}
		})
	}
}

func TestLoginCodeService_SendLoginCode_TagsPurpose(t *testing.T) {
	account := createTestAccount(t)
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
		return account, nil
	}
	svc := createLoginCodeServiceForTest(t, userRepo, nil, nil, nil, nil)

	if _, err := svc.SendLoginCode(createTestContext(t), account.Email); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.RecoveryCodePurpose != domain.CodePurposeLogin {
		t.Errorf("expected login purpose tag, got %q", account.RecoveryCodePurpose)
	}
	if account.RecoveryCode == nil || len(*account.RecoveryCode) != 6 {
		t.Error("expected a stored 6-digit code")
	}
}

func TestLoginCodeService_LoginWithCode(t *testing.T) {
	account := createTestAccount(t)
	account.RecoveryCode = strPtr("444444")
	account.RecoveryCodeExpires = timePtr(time.Now().Add(5 * time.Minute))
	account.RecoveryCodePurpose = domain.CodePurposeLogin

	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
		if email == account.Email {
			return account, nil
		}
		return nil, domain.ErrUserNotFound
	}
	svc := createLoginCodeServiceForTest(t, userRepo, nil, nil, nil, nil)
	ctx := createTestContext(t)

	result, err := svc.LoginWithCode(ctx, account.Email, "444444")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" || result.SessionID == "" {
		t.Error("expected a full session from code login")
	}
	if account.RecoveryCode != nil || account.RecoveryCodePurpose != "" {
		t.Error("login must consume the code")
	}

	// The consumed code is dead.
	if _, err := svc.LoginWithCode(ctx, account.Email, "444444"); !errors.Is(err, domain.ErrInvalidRecoveryCode) {
		t.Errorf("expected ErrInvalidRecoveryCode on reuse, got %v", err)
	}
}

func TestLoginCodeService_LoginWithCode_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		code    string
		account func(t *testing.T) *domain.Account
	}{
		{
			name:  "reset-purpose code cannot open a session",
			email: "a@x.com",
			code:  "444444",
			account: func(t *testing.T) *domain.Account {
				account := createTestAccount(t)
				account.RecoveryCode = strPtr("444444")
				account.RecoveryCodeExpires = timePtr(time.Now().Add(5 * time.Minute))
				account.RecoveryCodePurpose = domain.CodePurposeReset
				return account
			},
		},
		{
			name:  "expired code",
			email: "a@x.com",
			code:  "444444",
			account: func(t *testing.T) *domain.Account {
				account := createTestAccount(t)
				account.RecoveryCode = strPtr("444444")
				account.RecoveryCodeExpires = timePtr(time.Now().Add(-time.Second))
				account.RecoveryCodePurpose = domain.CodePurposeLogin
				return account
			},
		},
		{
			name:  "wrong code",
			email: "a@x.com",
			code:  "000000",
			account: func(t *testing.T) *domain.Account {
				account := createTestAccount(t)
				account.RecoveryCode = strPtr("444444")
				account.RecoveryCodeExpires = timePtr(time.Now().Add(5 * time.Minute))
				account.RecoveryCodePurpose = domain.CodePurposeLogin
				return account
			},
		},
		{
			name:    "unknown email",
			email:   "ghost@x.com",
			code:    "444444",
			account: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := mocks.NewMockUserRepository()
			if tt.account != nil {
				account := tt.account(t)
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					if email == account.Email {
						return account, nil
					}
					return nil, domain.ErrUserNotFound
				}
			}
			svc := createLoginCodeServiceForTest(t, userRepo, nil, nil, nil, nil)

			if _, err := svc.LoginWithCode(createTestContext(t), tt.email, tt.code); !errors.Is(err, domain.ErrInvalidRecoveryCode) {
				t.Errorf("expected ErrInvalidRecoveryCode, got %v", err)
			}
		})
	}
}

func TestLoginCodeService_LoginWithCode_SessionEmbedsEpoch(t *testing.T) {
	account := createTestAccount(t)
	account.TokenVersion = 2
	account.RecoveryCode = strPtr("444444")
	account.RecoveryCodeExpires = timePtr(time.Now().Add(5 * time.Minute))
	account.RecoveryCodePurpose = domain.CodePurposeLogin

	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
		return account, nil
	}
	var issuedVersion int
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.IssueFunc = func(userID uint, role string, tokenVersion int, sessionID string) (string, error) {
		issuedVersion = tokenVersion
		return "signed", nil
	}
	svc := createLoginCodeServiceForTest(t, userRepo, nil, tokenSvc, nil, nil)

	if _, err := svc.LoginWithCode(createTestContext(t), account.Email, "444444"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issuedVersion != 2 {
		t.Errorf("token must embed the current invalidation epoch, got %d", issuedVersion)
	}
}
