package services

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// MinPasswordLength is the policy floor for every password-accepting flow.
const MinPasswordLength = 6

var (
	documentPattern = regexp.MustCompile(`^\d{8}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// validateRegisterInput applies the registration rules fail-fast, in a fixed
// order, and returns the first violation.
func validateRegisterInput(input domain.RegisterInput) error {
	if err := validateName("first_name", input.FirstName); err != nil {
		return err
	}
	if err := validateName("middle_name", input.MiddleName); err != nil {
		return err
	}
	if err := validateName("last_name", input.LastName); err != nil {
		return err
	}
	if !documentPattern.MatchString(input.DocumentNumber) {
		return domain.NewValidationError("document_number", "must be exactly 8 digits")
	}
	if !emailPattern.MatchString(input.Email) {
		return domain.NewValidationError("email", "must be a valid email address")
	}
	if err := validatePasswordPair(input.Password, input.Confirm); err != nil {
		return err
	}
	if input.Role != "" && input.Role != domain.RoleStudent && input.Role != domain.RoleAdmin {
		return domain.NewValidationError("role", "must be one of: student, admin")
	}
	return nil
}

// validateName requires a non-empty, letters-and-spaces value of at least
// two characters. Letters are locale-aware, not just ASCII.
func validateName(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if len([]rune(trimmed)) < 2 {
		return domain.NewValidationError(field, "must be at least 2 characters")
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && r != ' ' {
			return domain.NewValidationError(field, "must contain only letters and spaces")
		}
	}
	return nil
}

// validatePasswordPair checks the password policy and the confirmation copy.
func validatePasswordPair(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return domain.NewValidationError("password", "must be at least 6 characters")
	}
	if password != confirm {
		return domain.NewValidationError("confirm_password", "passwords do not match")
	}
	return nil
}

// titleCase normalizes a name part: first rune upper, rest lower.
func titleCase(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	runes := []rune(trimmed)
	out := string(unicode.ToUpper(runes[0]))
	if len(runes) > 1 {
		out += strings.ToLower(string(runes[1:]))
	}
	return out
}

// maskEmail obfuscates the local part of an address for recovery receipts,
// e.g. "ana.lopez@x.com" becomes "a*******@x.com".
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	local, rest := email[:at], email[at:]
	if len(local) == 1 {
		return "*" + rest
	}
	return local[:1] + strings.Repeat("*", len(local)-1) + rest
}
