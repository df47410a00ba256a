package domain

import "time"

// Account roles. The set is closed; anything else is rejected at the edge.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Purposes a recovery code can be issued for. A code minted for one purpose
// must never be accepted for the other.
const (
	CodePurposeReset = "reset"
	CodePurposeLogin = "login"
)

// Account is the authentication record for a user: credentials, role and
// pending recovery state.
type Account struct {
	ID             uint
	FirstName      string
	MiddleName     string
	LastName       string
	DocumentNumber string
	Email          string
	PasswordHash   string `gorm:"column:password"`

	Role               string
	MustChangePassword bool

	// Link-based recovery. Both nil when no reset is pending.
	ResetToken        *string
	ResetTokenExpires *time.Time

	// Code-based recovery / passwordless login. The purpose tag records what
	// the code was issued for.
	RecoveryCode        *string
	RecoveryCodeExpires *time.Time
	RecoveryCodePurpose string

	// TokenVersion is the session invalidation epoch. It is incremented on
	// every credential-affecting change and checked on session verification.
	TokenVersion int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins the stored name parts for email templates.
func (a *Account) FullName() string {
	name := a.FirstName
	if a.MiddleName != "" {
		name += " " + a.MiddleName
	}
	if a.LastName != "" {
		name += " " + a.LastName
	}
	return name
}

// HasLiveResetToken reports whether a link-recovery token is pending and
// unexpired at the given instant.
func (a *Account) HasLiveResetToken(now time.Time) bool {
	return a.ResetToken != nil && a.ResetTokenExpires != nil && now.Before(*a.ResetTokenExpires)
}

// HasLiveRecoveryCode reports whether a recovery code with the given purpose
// is pending and unexpired at the given instant.
func (a *Account) HasLiveRecoveryCode(purpose string, now time.Time) bool {
	return a.RecoveryCode != nil && a.RecoveryCodeExpires != nil &&
		a.RecoveryCodePurpose == purpose && now.Before(*a.RecoveryCodeExpires)
}

// ClearResetToken drops any pending link-recovery state.
func (a *Account) ClearResetToken() {
	a.ResetToken = nil
	a.ResetTokenExpires = nil
}

// ClearRecoveryCode drops any pending code-recovery state.
func (a *Account) ClearRecoveryCode() {
	a.RecoveryCode = nil
	a.RecoveryCodeExpires = nil
	a.RecoveryCodePurpose = ""
}

// AuthResult represents a successful authentication outcome.
type AuthResult struct {
	Account            *Account
	Token              string
	SessionID          string
	ExpiresIn          int64
	MustChangePassword bool
}

// Session represents a server-side session record backing an issued token.
type Session struct {
	ID        string
	UserID    uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionClaims are the verified contents of a session credential.
type SessionClaims struct {
	UserID       uint   `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	SessionID    string `json:"session_id,omitempty"`
	IssuedAt     int64  `json:"iat"`
	ExpiresAt    int64  `json:"exp"`
}
