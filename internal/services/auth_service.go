package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	sessionTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	sessionTTL time.Duration,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		sessionTTL:  sessionTTL,
	}
}

// Register implements domain.AuthService. Validation is fail-fast and runs
// before any side effect; success returns the created account but no
// session, the caller logs in separately.
func (s *AuthServiceImpl) Register(ctx context.Context, input domain.RegisterInput) (*domain.Account, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if existing, err := s.userRepo.FindByDocument(ctx, input.DocumentNumber); err == nil && existing != nil {
		return nil, domain.ErrDocumentTaken
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check document: %w", err)
	}

	hashedPassword, err := s.passwordSvc.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleStudent
	}

	account := &domain.Account{
		FirstName:      titleCase(input.FirstName),
		MiddleName:     titleCase(input.MiddleName),
		LastName:       titleCase(input.LastName),
		DocumentNumber: input.DocumentNumber,
		Email:          input.Email,
		PasswordHash:   hashedPassword,
		Role:           role,
	}

	if err := s.userRepo.Create(ctx, account); err != nil {
		if domain.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// Login implements domain.AuthService. An unknown email yields
// ErrUserNotFound without revealing whether other fields were valid; a bad
// password yields ErrInvalidCredentials after a constant-time comparison.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !s.passwordSvc.Verify(account.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return issueSession(ctx, s.sessionRepo, s.tokenSvc, account, s.sessionTTL)
}

// ChangePassword implements domain.AuthService. Replacing the hash clears
// the force-rotation flag and bumps the invalidation epoch so that sessions
// issued before the change stop verifying.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uint, current, newPassword, confirm string) error {
	if err := validatePasswordPair(newPassword, confirm); err != nil {
		return err
	}

	account, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.passwordSvc.Verify(account.PasswordHash, current) {
		return domain.ErrInvalidCredentials
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account.PasswordHash = hashedPassword
	account.MustChangePassword = false
	account.TokenVersion++

	if err := s.userRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uint) (*domain.Account, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

// issueSession creates the server-side session record and mints the signed
// credential. Shared by password login and code login.
func issueSession(
	ctx context.Context,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	account *domain.Account,
	ttl time.Duration,
) (*domain.AuthResult, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    account.ID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	if err := sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := tokenSvc.Issue(account.ID, account.Role, account.TokenVersion, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.AuthResult{
		Account:            account,
		Token:              token,
		SessionID:          session.ID,
		ExpiresIn:          int64(ttl.Seconds()),
		MustChangePassword: account.MustChangePassword,
	}, nil
}
