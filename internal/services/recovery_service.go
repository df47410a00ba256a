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

// RecoveryConfig tunes the token/code lifecycle.
type RecoveryConfig struct {
	TokenTTL             time.Duration
	CodeTTL              time.Duration
	CodeLength           int
	ResendWindow         time.Duration
	RejectReusedPassword bool
}

// RecoveryServiceImpl implements domain.RecoveryService. Both flows share
// the same shape: request always answers with a masked receipt, confirm
// verifies the secret against stored state and consumes it atomically with
// the password replacement.
type RecoveryServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	secrets     domain.SecretGenerator
	mailer      domain.Mailer
	redisClient *redis.Client
	config      RecoveryConfig
}

// NewRecoveryService creates a new recovery service
func NewRecoveryService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	secrets domain.SecretGenerator,
	mailer domain.Mailer,
	redisClient *redis.Client,
	config RecoveryConfig,
) domain.RecoveryService {
	return &RecoveryServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		secrets:     secrets,
		mailer:      mailer,
		redisClient: redisClient,
		config:      config,
	}
}

// RequestReset implements domain.RecoveryService. The response shape is
// identical whether or not the account exists; only delivery failures
// surface as errors.
func (s *RecoveryServiceImpl) RequestReset(ctx context.Context, email string) (string, error) {
	masked := maskEmail(email)

	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return masked, nil
		}
		return "", fmt.Errorf("failed to look up account: %w", err)
	}

	if !s.allowResend(ctx, "reset-link", email) {
		log.Printf("RESET_LINK_THROTTLED: email=%s", masked)
		return masked, nil
	}

	token, err := s.secrets.Token()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	expires := time.Now().Add(s.config.TokenTTL)
	account.ResetToken = &token
	account.ResetTokenExpires = &expires

	// Persist before dispatch: a token the user receives must already be the
	// stored one.
	if err := s.userRepo.Update(ctx, account); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetLink(account.Email, account.FullName(), token); err != nil {
		return "", fmt.Errorf("failed to send reset email: %w", err)
	}

	return masked, nil
}

// ResetByToken implements domain.RecoveryService
func (s *RecoveryServiceImpl) ResetByToken(ctx context.Context, token, newPassword, confirm string) error {
	if err := validatePasswordPair(newPassword, confirm); err != nil {
		return err
	}

	account, err := s.userRepo.FindByResetToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidRecoveryToken
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}

	if s.config.RejectReusedPassword && s.passwordSvc.Verify(account.PasswordHash, newPassword) {
		return domain.ErrPasswordReused
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account.PasswordHash = hashedPassword
	account.ClearResetToken()
	account.MustChangePassword = false
	account.TokenVersion++

	if err := s.userRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

// RequestResetCode implements domain.RecoveryService
func (s *RecoveryServiceImpl) RequestResetCode(ctx context.Context, email string) (string, error) {
	masked := maskEmail(email)

	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return masked, nil
		}
		return "", fmt.Errorf("failed to look up account: %w", err)
	}

	if !s.allowResend(ctx, "reset-code", email) {
		log.Printf("RESET_CODE_THROTTLED: email=%s", masked)
		return masked, nil
	}

	code, err := s.secrets.Code(s.config.CodeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	expires := time.Now().Add(s.config.CodeTTL)
	account.RecoveryCode = &code
	account.RecoveryCodeExpires = &expires
	account.RecoveryCodePurpose = domain.CodePurposeReset

	if err := s.userRepo.Update(ctx, account); err != nil {
		return "", fmt.Errorf("failed to store reset code: %w", err)
	}

	if err := s.mailer.SendPasswordResetCode(account.Email, code); err != nil {
		return "", fmt.Errorf("failed to send reset code email: %w", err)
	}

	return masked, nil
}

// VerifyResetCode implements domain.RecoveryService. Pure check; the code
// stays live for the subsequent commit.
func (s *RecoveryServiceImpl) VerifyResetCode(ctx context.Context, email, code string) error {
	_, err := s.findByLiveCode(ctx, email, code, domain.CodePurposeReset)
	return err
}

// ResetByCode implements domain.RecoveryService. Single-step commit: the
// code is re-validated and cleared together with the hash replacement, so a
// committed code is never accepted twice.
func (s *RecoveryServiceImpl) ResetByCode(ctx context.Context, email, code, newPassword, confirm string) error {
	if err := validatePasswordPair(newPassword, confirm); err != nil {
		return err
	}

	account, err := s.findByLiveCode(ctx, email, code, domain.CodePurposeReset)
	if err != nil {
		return err
	}

	if s.config.RejectReusedPassword && s.passwordSvc.Verify(account.PasswordHash, newPassword) {
		return domain.ErrPasswordReused
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account.PasswordHash = hashedPassword
	account.ClearRecoveryCode()
	account.MustChangePassword = false
	account.TokenVersion++

	if err := s.userRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

func (s *RecoveryServiceImpl) findByLiveCode(ctx context.Context, email, code, purpose string) (*domain.Account, error) {
	return findAccountByLiveCode(ctx, s.userRepo, email, code, purpose)
}

func (s *RecoveryServiceImpl) allowResend(ctx context.Context, purpose, email string) bool {
	return allowResend(ctx, s.redisClient, s.config.ResendWindow, purpose, email)
}

// findAccountByLiveCode resolves an account whose stored code matches, is
// unexpired, and was issued for the given purpose. Everything else collapses
// into ErrInvalidRecoveryCode so callers cannot distinguish the cases.
func findAccountByLiveCode(ctx context.Context, userRepo domain.UserRepository, email, code, purpose string) (*domain.Account, error) {
	account, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidRecoveryCode
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !account.HasLiveRecoveryCode(purpose, time.Now()) || *account.RecoveryCode != code {
		return nil, domain.ErrInvalidRecoveryCode
	}

	return account, nil
}

// allowResend enforces the per-address resend throttle. Redis SETNX gives
// the atomic check-and-set; when Redis is unreachable the request is allowed
// rather than failing the flow.
func allowResend(ctx context.Context, client *redis.Client, window time.Duration, purpose, email string) bool {
	if client == nil || window <= 0 {
		return true
	}
	key := fmt.Sprintf("resend:%s:%s", purpose, email)
	ok, err := client.SetNX(ctx, key, 1, window).Result()
	if err != nil {
		log.Printf("RESEND_THROTTLE_CHECK_FAILED: purpose=%s error=%v", purpose, err)
		return true
	}
	return ok
}
