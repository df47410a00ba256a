package notifications

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// EmailConfig holds SMTP transport settings and the frontend base URL used
// to build reset links.
type EmailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string
}

// EmailServiceImpl implements domain.Mailer over SMTP
type EmailServiceImpl struct {
	cfg EmailConfig
}

// NewEmailService creates a new SMTP notification service
func NewEmailService(cfg EmailConfig) domain.Mailer {
	return &EmailServiceImpl{cfg: cfg}
}

// SendPasswordResetLink implements domain.Mailer
func (s *EmailServiceImpl) SendPasswordResetLink(to, fullName, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password/%s", s.cfg.FrontendURL, token)
	body := fmt.Sprintf(`
		<h2>Reset your password</h2>
		<p>Hi <strong>%s</strong>, we received a request to change your password.</p>
		<p><a href="%s">Change your password</a></p>
		<p>This link expires in 15 minutes. If you did not request a password
		change, you can safely ignore this message.</p>`, fullName, resetLink)

	return s.send(to, "Reset your password", body)
}

// SendPasswordResetCode implements domain.Mailer
func (s *EmailServiceImpl) SendPasswordResetCode(to, code string) error {
	body := fmt.Sprintf(`
		<h2>Hello,</h2>
		<p>Your recovery code is:</p>
		<h1 style="letter-spacing: 4px;">%s</h1>
		<p>This code expires in 10 minutes.</p>`, code)

	return s.send(to, "Your password recovery code", body)
}

// SendLoginCode implements domain.Mailer
func (s *EmailServiceImpl) SendLoginCode(to, fullName, code string) error {
	body := fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Here is your one-time sign-in code:</p>
		<h1 style="letter-spacing: 4px;">%s</h1>
		<p>The code is valid for 10 minutes. Enter it on the sign-in screen.</p>
		<p>If you did not request this, you can ignore this message.</p>`, fullName, code)

	return s.send(to, "Your one-time sign-in code", body)
}

// SendWelcome implements domain.Mailer
func (s *EmailServiceImpl) SendWelcome(to, fullName, tempPassword string) error {
	body := fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Your account has been created.</p>
		<p><strong>Temporary password:</strong> %s</p>
		<p>You will be asked to choose a new password the first time you
		sign in.</p>`, fullName, tempPassword)

	return s.send(to, "Welcome to NutriScanU", body)
}

func (s *EmailServiceImpl) send(to, subject, htmlBody string) error {
	// Without SMTP credentials (local development) log instead of sending.
	if s.cfg.Host == "" {
		fmt.Printf("[MOCK EMAIL] To: %s, Subject: %s\n", to, subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
