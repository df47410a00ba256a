package domain

import (
	"context"
	"time"
)

// UserRepository defines account data access operations. Lookups exclude
// soft-deleted rows; uniqueness on email and document number is enforced at
// the storage layer.
type UserRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByDocument(ctx context.Context, document string) (*Account, error)
	FindByID(ctx context.Context, id uint) (*Account, error)
	// FindByResetToken only matches a live, unexpired link-recovery token.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*Account, error)
	Update(ctx context.Context, account *Account) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
}

// SessionRepository defines session data access operations.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// AuthService defines the password-based authentication flows.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*Account, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	ChangePassword(ctx context.Context, userID uint, current, newPassword, confirm string) error
	GetProfile(ctx context.Context, userID uint) (*Account, error)
	Logout(ctx context.Context, sessionID string) error
}

// RegisterInput carries the typed registration payload. Validation happens
// before any side effect.
type RegisterInput struct {
	FirstName      string
	MiddleName     string
	LastName       string
	DocumentNumber string
	Email          string
	Password       string
	Confirm        string
	Role           string
}

// RecoveryService defines both password-recovery flows: link/token based and
// short-code based.
type RecoveryService interface {
	// RequestReset always succeeds with a masked receipt; work only happens
	// when the account exists.
	RequestReset(ctx context.Context, email string) (string, error)
	ResetByToken(ctx context.Context, token, newPassword, confirm string) error

	RequestResetCode(ctx context.Context, email string) (string, error)
	// VerifyResetCode is a pure check; it does not consume the code.
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetByCode(ctx context.Context, email, code, newPassword, confirm string) error
}

// LoginCodeService defines passwordless login via one-time code.
type LoginCodeService interface {
	SendLoginCode(ctx context.Context, email string) (string, error)
	LoginWithCode(ctx context.Context, email, code string) (*AuthResult, error)
}

// AdminService defines account provisioning and lifecycle administration.
type AdminService interface {
	ProvisionUser(ctx context.Context, input ProvisionInput) (*Account, error)
	GetUser(ctx context.Context, id uint) (*Account, error)
	UpdateUser(ctx context.Context, id uint, input AdminUpdateInput) (*Account, error)
	DeleteUser(ctx context.Context, id uint) error
	RestoreUser(ctx context.Context, id uint) error
}

// ProvisionInput carries an admin-created account. The service generates a
// temporary password and forces rotation on first login.
type ProvisionInput struct {
	FirstName      string
	MiddleName     string
	LastName       string
	DocumentNumber string
	Email          string
	Role           string
}

// AdminUpdateInput carries admin edits to an existing account. Nil fields
// are left untouched.
type AdminUpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Role      *string
}

// PasswordService defines the one-way password hash primitive.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// SecretGenerator produces unguessable single-use secrets.
type SecretGenerator interface {
	// Token returns an opaque hex string with at least 128 bits of entropy.
	Token() (string, error)
	// Code returns a numeric string of the given length.
	Code(digits int) (string, error)
}

// TokenService defines session credential issuance and verification.
type TokenService interface {
	Issue(userID uint, role string, tokenVersion int, sessionID string) (string, error)
	Validate(token string) (*SessionClaims, error)
}

// Mailer delivers recovery secrets and account notices out-of-band. The core
// only depends on delivery succeeding or failing.
type Mailer interface {
	SendPasswordResetLink(to, fullName, token string) error
	SendPasswordResetCode(to, code string) error
	SendLoginCode(to, fullName, code string) error
	SendWelcome(to, fullName, tempPassword string) error
}

// CasbinEnforcer is the subset of the casbin enforcer the middleware needs.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
