package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// LoginCodeConfig tunes the passwordless login code lifecycle.
type LoginCodeConfig struct {
	CodeTTL      time.Duration
	CodeLength   int
	ResendWindow time.Duration
	SessionTTL   time.Duration
}

// LoginCodeServiceImpl implements domain.LoginCodeService. Login codes share
// the recovery code storage but carry their own purpose tag, so a password
// reset code can never be replayed to obtain a session.
type LoginCodeServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	tokenSvc    domain.TokenService
	secrets     domain.SecretGenerator
	mailer      domain.Mailer
	redisClient *redis.Client
	config      LoginCodeConfig
}

// NewLoginCodeService creates a new passwordless login service
func NewLoginCodeService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	secrets domain.SecretGenerator,
	mailer domain.Mailer,
	redisClient *redis.Client,
	config LoginCodeConfig,
) domain.LoginCodeService {
	return &LoginCodeServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenSvc:    tokenSvc,
		secrets:     secrets,
		mailer:      mailer,
		redisClient: redisClient,
		config:      config,
	}
}

// SendLoginCode implements domain.LoginCodeService. Same enumeration
// resistance as the recovery requests: the receipt looks identical whether
// or not the account exists.
func (s *LoginCodeServiceImpl) SendLoginCode(ctx context.Context, email string) (string, error) {
	masked := maskEmail(email)

	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return masked, nil
		}
		return "", fmt.Errorf("failed to look up account: %w", err)
	}

	if !allowResend(ctx, s.redisClient, s.config.ResendWindow, "login-code", email) {
		log.Printf("LOGIN_CODE_THROTTLED: email=%s", masked)
		return masked, nil
	}

	code, err := s.secrets.Code(s.config.CodeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	expires := time.Now().Add(s.config.CodeTTL)
	account.RecoveryCode = &code
	account.RecoveryCodeExpires = &expires
	account.RecoveryCodePurpose = domain.CodePurposeLogin

	if err := s.userRepo.Update(ctx, account); err != nil {
		return "", fmt.Errorf("failed to store login code: %w", err)
	}

	if err := s.mailer.SendLoginCode(account.Email, account.FullName(), code); err != nil {
		return "", fmt.Errorf("failed to send login code email: %w", err)
	}

	return masked, nil
}

// LoginWithCode implements domain.LoginCodeService. A valid code yields a
// full session without password verification; the code is consumed before
// the session is issued.
func (s *LoginCodeServiceImpl) LoginWithCode(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	account, err := findAccountByLiveCode(ctx, s.userRepo, email, code, domain.CodePurposeLogin)
	if err != nil {
		return nil, err
	}

	account.ClearRecoveryCode()
	if err := s.userRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to consume login code: %w", err)
	}

	return issueSession(ctx, s.sessionRepo, s.tokenSvc, account, s.config.SessionTTL)
}
