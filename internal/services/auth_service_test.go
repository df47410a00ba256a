package services

import (
	"context"
	"errors"
	"testing"

	"github.com/NutriScanU/nutriscanu-backend/domain"
	"github.com/NutriScanU/nutriscanu-backend/internal/mocks"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name            string
		input           func(t *testing.T) domain.RegisterInput
		setupMocks      func(userRepo *mocks.MockUserRepository, passwordSvc *mocks.MockPasswordService)
		expectedError   error
		validationField string
		validateAccount func(t *testing.T, account *domain.Account)
	}{
		{
			name:  "successful registration normalizes names and defaults role",
			input: validRegisterInput,
			validateAccount: func(t *testing.T, account *domain.Account) {
				if account.FirstName != "Ana" || account.MiddleName != "Cruz" || account.LastName != "Lopez" {
					t.Errorf("names not normalized: %q %q %q", account.FirstName, account.MiddleName, account.LastName)
				}
				if account.Role != domain.RoleStudent {
					t.Errorf("expected default role %q, got %q", domain.RoleStudent, account.Role)
				}
				if account.PasswordHash != "hashed_Secret1" {
					t.Errorf("expected hashed password, got %q", account.PasswordHash)
				}
				if account.MustChangePassword {
					t.Error("self-registered account should not be forced to rotate")
				}
			},
		},
		{
			name: "short first name fails before anything else",
			input: func(t *testing.T) domain.RegisterInput {
				in := validRegisterInput(t)
				in.FirstName = "a"
				in.Email = "not-an-email" // later rule must not be the one reported
				return in
			},
			validationField: "first_name",
		},
		{
			name: "digits in middle name rejected",
			input: func(t *testing.T) domain.RegisterInput {
				in := validRegisterInput(t)
				in.MiddleName = "cr2z"
				return in
			},
			validationField: "middle_name",
		},
		{
			name: "document must be exactly 8 digits",
			input: func(t *testing.T) domain.RegisterInput {
				in := validRegisterInput(t)
				in.DocumentNumber = "1234567"
				return in
			},
			validationField: "document_number",
		},
		{
			name: "malformed email rejected",
			input: func(t *testing.T) domain.RegisterInput {
				in := validRegisterInput(t)
				in.Email = "a@x"
				return in
			},
			validationField: "email",
		},
		{
			name: "short password rejected",
			input: func(t *testing.T) domain.RegisterInput {
				in := validRegisterInput(t)
				in.Password = "abc"
				in.Confirm = "abc"
				return in
			},
			validationField: "password",
		},
		{
			name: "mismatched confirmation rejected",
			input: func(t *testing.T) domain.RegisterInput {
				in := validRegisterInput(t)
				in.Confirm = "Secret2"
				return in
			},
			validationField: "confirm_password",
		},
		{
			name: "unknown role rejected",
			input: func(t *testing.T) domain.RegisterInput {
				in := validRegisterInput(t)
				in.Role = "superuser"
				return in
			},
			validationField: "role",
		},
		{
			name:  "duplicate email yields conflict",
			input: validRegisterInput,
			setupMocks: func(userRepo *mocks.MockUserRepository, passwordSvc *mocks.MockPasswordService) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return createTestAccount(t), nil
				}
			},
			expectedError: domain.ErrEmailTaken,
		},
		{
			name:  "duplicate document yields conflict",
			input: validRegisterInput,
			setupMocks: func(userRepo *mocks.MockUserRepository, passwordSvc *mocks.MockPasswordService) {
				userRepo.FindByDocumentFunc = func(ctx context.Context, document string) (*domain.Account, error) {
					return createTestAccount(t), nil
				}
			},
			expectedError: domain.ErrDocumentTaken,
		},
		{
			name:  "hash failure surfaces as error",
			input: validRegisterInput,
			setupMocks: func(userRepo *mocks.MockUserRepository, passwordSvc *mocks.MockPasswordService) {
				passwordSvc.HashFunc = func(password string) (string, error) {
					return "", errors.New("bcrypt failure")
				}
			},
			expectedError: errors.New("failed to hash password"),
		},
		{
			name:  "unique violation at insert maps to conflict",
			input: validRegisterInput,
			setupMocks: func(userRepo *mocks.MockUserRepository, passwordSvc *mocks.MockPasswordService) {
				userRepo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
					return domain.ErrEmailTaken
				}
			},
			expectedError: domain.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := mocks.NewMockUserRepository()
			passwordSvc := mocks.NewMockPasswordService()
			if tt.setupMocks != nil {
				tt.setupMocks(userRepo, passwordSvc)
			}
			svc := createAuthServiceForTest(t, userRepo, nil, passwordSvc, nil)

			account, err := svc.Register(createTestContext(t), tt.input(t))

			if tt.validationField != "" {
				var vErr *domain.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if vErr.Field != tt.validationField {
					t.Errorf("expected violation on %q, got %q", tt.validationField, vErr.Field)
				}
				return
			}
			if tt.expectedError != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if errors.Is(tt.expectedError, domain.ErrEmailTaken) || errors.Is(tt.expectedError, domain.ErrDocumentTaken) {
					if !errors.Is(err, tt.expectedError) {
						t.Errorf("expected %v, got %v", tt.expectedError, err)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validateAccount != nil {
				tt.validateAccount(t, account)
			}
		})
	}
}

func TestAuthService_Register_NoSideEffectsOnValidationFailure(t *testing.T) {
	created := false
	userRepo := mocks.NewMockUserRepository()
	userRepo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
		created = true
		return nil
	}
	svc := createAuthServiceForTest(t, userRepo, nil, nil, nil)

	in := validRegisterInput(t)
	in.Password = "abc"
	in.Confirm = "abc"
	if _, err := svc.Register(createTestContext(t), in); err == nil {
		t.Fatal("expected validation error")
	}
	if created {
		t.Error("account must not be created when validation fails")
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name           string
		email          string
		password       string
		setupMocks     func(userRepo *mocks.MockUserRepository)
		expectedError  error
		validateResult func(t *testing.T, result *domain.AuthResult)
	}{
		{
			name:     "successful login issues session",
			email:    "a@x.com",
			password: "Secret1",
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return createTestAccount(t), nil
				}
			},
			validateResult: func(t *testing.T, result *domain.AuthResult) {
				if result.Token == "" {
					t.Error("expected a token")
				}
				if result.SessionID == "" {
					t.Error("expected a session id")
				}
				if result.ExpiresIn != 3600 {
					t.Errorf("expected 3600s expiry, got %d", result.ExpiresIn)
				}
				if result.MustChangePassword {
					t.Error("unexpected forced rotation flag")
				}
			},
		},
		{
			name:          "unknown email",
			email:         "nobody@x.com",
			password:      "Secret1",
			expectedError: domain.ErrUserNotFound,
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "WrongPass",
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return createTestAccount(t), nil
				}
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:     "provisioned account logs in but carries the rotation flag",
			email:    "a@x.com",
			password: "Secret1",
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					account := createTestAccount(t)
					account.MustChangePassword = true
					return account, nil
				}
			},
			validateResult: func(t *testing.T, result *domain.AuthResult) {
				if !result.MustChangePassword {
					t.Error("expected forced rotation flag in result")
				}
				if result.Token == "" {
					t.Error("login must still succeed with a token")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := mocks.NewMockUserRepository()
			if tt.setupMocks != nil {
				tt.setupMocks(userRepo)
			}
			svc := createAuthServiceForTest(t, userRepo, nil, nil, nil)

			result, err := svc.Login(createTestContext(t), tt.email, tt.password)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validateResult != nil {
				tt.validateResult(t, result)
			}
		})
	}
}

func TestAuthService_Login_TokenCarriesAccountClaims(t *testing.T) {
	account := createTestAccount(t)
	account.TokenVersion = 3

	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
		return account, nil
	}

	var issuedVersion int
	var issuedRole string
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.IssueFunc = func(userID uint, role string, tokenVersion int, sessionID string) (string, error) {
		issuedVersion = tokenVersion
		issuedRole = role
		return "signed", nil
	}

	svc := createAuthServiceForTest(t, userRepo, nil, nil, tokenSvc)
	if _, err := svc.Login(createTestContext(t), account.Email, "Secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issuedVersion != 3 {
		t.Errorf("token must embed the current invalidation epoch, got %d", issuedVersion)
	}
	if issuedRole != domain.RoleStudent {
		t.Errorf("token must embed the role, got %q", issuedRole)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name            string
		current         string
		newPassword     string
		confirm         string
		setupMocks      func(userRepo *mocks.MockUserRepository)
		expectedError   error
		validationField string
		validateAccount func(t *testing.T, updated *domain.Account)
	}{
		{
			name:        "successful change clears rotation flag and bumps epoch",
			current:     "Secret1",
			newPassword: "NewSecret2",
			confirm:     "NewSecret2",
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Account, error) {
					account := createTestAccount(t)
					account.MustChangePassword = true
					return account, nil
				}
			},
			validateAccount: func(t *testing.T, updated *domain.Account) {
				if updated.PasswordHash != "hashed_NewSecret2" {
					t.Errorf("hash not replaced: %q", updated.PasswordHash)
				}
				if updated.MustChangePassword {
					t.Error("rotation flag must clear on change")
				}
				if updated.TokenVersion != 1 {
					t.Errorf("epoch must bump, got %d", updated.TokenVersion)
				}
			},
		},
		{
			name:            "short new password rejected before lookup",
			current:         "Secret1",
			newPassword:     "abc",
			confirm:         "abc",
			validationField: "password",
		},
		{
			name:            "mismatched confirmation rejected",
			current:         "Secret1",
			newPassword:     "NewSecret2",
			confirm:         "NewSecret3",
			validationField: "confirm_password",
		},
		{
			name:        "wrong current password",
			current:     "WrongPass",
			newPassword: "NewSecret2",
			confirm:     "NewSecret2",
			setupMocks: func(userRepo *mocks.MockUserRepository) {
				userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Account, error) {
					return createTestAccount(t), nil
				}
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:          "unknown user",
			current:       "Secret1",
			newPassword:   "NewSecret2",
			confirm:       "NewSecret2",
			expectedError: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := mocks.NewMockUserRepository()
			var updated *domain.Account
			userRepo.UpdateFunc = func(ctx context.Context, account *domain.Account) error {
				updated = account
				return nil
			}
			if tt.setupMocks != nil {
				tt.setupMocks(userRepo)
			}
			svc := createAuthServiceForTest(t, userRepo, nil, nil, nil)

			err := svc.ChangePassword(createTestContext(t), 1, tt.current, tt.newPassword, tt.confirm)

			if tt.validationField != "" {
				var vErr *domain.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if vErr.Field != tt.validationField {
					t.Errorf("expected violation on %q, got %q", tt.validationField, vErr.Field)
				}
				if updated != nil {
					t.Error("account must not be updated when validation fails")
				}
				return
			}
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected %v, got %v", tt.expectedError, err)
				}
				if updated != nil {
					t.Error("account must not be updated on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated == nil {
				t.Fatal("expected account update")
			}
			if tt.validateAccount != nil {
				tt.validateAccount(t, updated)
			}
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	var deletedID string
	sessionRepo := mocks.NewMockSessionRepository()
	sessionRepo.DeleteFunc = func(ctx context.Context, sessionID string) error {
		deletedID = sessionID
		return nil
	}
	svc := createAuthServiceForTest(t, nil, sessionRepo, nil, nil)

	if err := svc.Logout(createTestContext(t), "sess-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedID != "sess-123" {
		t.Errorf("expected session sess-123 deleted, got %q", deletedID)
	}
}
