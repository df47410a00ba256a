package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// tempPasswordLength sizes the generated temporary password for provisioned
// accounts (hex characters).
const tempPasswordLength = 12

// AdminServiceImpl implements domain.AdminService
type AdminServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	secrets     domain.SecretGenerator
	mailer      domain.Mailer
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	secrets domain.SecretGenerator,
	mailer domain.Mailer,
) domain.AdminService {
	return &AdminServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		secrets:     secrets,
		mailer:      mailer,
	}
}

// ProvisionUser implements domain.AdminService. The account receives a
// generated temporary password, delivered out-of-band, and must rotate it
// before normal use.
func (s *AdminServiceImpl) ProvisionUser(ctx context.Context, input domain.ProvisionInput) (*domain.Account, error) {
	tempPassword, err := s.secrets.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to generate temporary password: %w", err)
	}
	tempPassword = tempPassword[:tempPasswordLength]

	registration := domain.RegisterInput{
		FirstName:      input.FirstName,
		MiddleName:     input.MiddleName,
		LastName:       input.LastName,
		DocumentNumber: input.DocumentNumber,
		Email:          input.Email,
		Password:       tempPassword,
		Confirm:        tempPassword,
		Role:           input.Role,
	}
	if err := validateRegisterInput(registration); err != nil {
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

	hashedPassword, err := s.passwordSvc.Hash(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleStudent
	}

	account := &domain.Account{
		FirstName:          titleCase(input.FirstName),
		MiddleName:         titleCase(input.MiddleName),
		LastName:           titleCase(input.LastName),
		DocumentNumber:     input.DocumentNumber,
		Email:              input.Email,
		PasswordHash:       hashedPassword,
		Role:               role,
		MustChangePassword: true,
	}

	if err := s.userRepo.Create(ctx, account); err != nil {
		if domain.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if err := s.mailer.SendWelcome(account.Email, account.FullName(), tempPassword); err != nil {
		return nil, fmt.Errorf("failed to send welcome email: %w", err)
	}

	return account, nil
}

// GetUser implements domain.AdminService
func (s *AdminServiceImpl) GetUser(ctx context.Context, id uint) (*domain.Account, error) {
	return s.userRepo.FindByID(ctx, id)
}

// UpdateUser implements domain.AdminService. Demoting an existing admin to
// student is refused outright; the record stays unchanged.
func (s *AdminServiceImpl) UpdateUser(ctx context.Context, id uint, input domain.AdminUpdateInput) (*domain.Account, error) {
	account, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		if *input.Role != domain.RoleStudent && *input.Role != domain.RoleAdmin {
			return nil, domain.NewValidationError("role", "must be one of: student, admin")
		}
		if account.Role == domain.RoleAdmin && *input.Role == domain.RoleStudent {
			return nil, domain.ErrRoleDemotion
		}
		account.Role = *input.Role
	}

	if input.FirstName != nil {
		if err := validateName("first_name", *input.FirstName); err != nil {
			return nil, err
		}
		account.FirstName = titleCase(*input.FirstName)
	}

	if input.LastName != nil {
		if err := validateName("last_name", *input.LastName); err != nil {
			return nil, err
		}
		account.LastName = titleCase(*input.LastName)
	}

	if input.Email != nil {
		if !emailPattern.MatchString(*input.Email) {
			return nil, domain.NewValidationError("email", "must be a valid email address")
		}
		account.Email = *input.Email
	}

	if err := s.userRepo.Update(ctx, account); err != nil {
		if domain.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return account, nil
}

// DeleteUser implements domain.AdminService
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, id uint) error {
	return s.userRepo.SoftDelete(ctx, id)
}

// RestoreUser implements domain.AdminService
func (s *AdminServiceImpl) RestoreUser(ctx context.Context, id uint) error {
	return s.userRepo.Restore(ctx, id)
}
