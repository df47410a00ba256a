package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/NutriScanU/nutriscanu-backend/domain"
	"github.com/NutriScanU/nutriscanu-backend/internal/config"
	"github.com/NutriScanU/nutriscanu-backend/internal/infrastructure/auth"
	"github.com/NutriScanU/nutriscanu-backend/internal/infrastructure/database"
	"github.com/NutriScanU/nutriscanu-backend/internal/infrastructure/notifications"
	"github.com/NutriScanU/nutriscanu-backend/internal/infrastructure/repositories"
	"github.com/NutriScanU/nutriscanu-backend/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config

	DB          *gorm.DB
	RedisClient *redis.Client

	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository

	PasswordSvc  domain.PasswordService
	TokenSvc     domain.TokenService
	Secrets      domain.SecretGenerator
	Mailer       domain.Mailer
	AuthSvc      domain.AuthService
	RecoverySvc  domain.RecoveryService
	LoginCodeSvc domain.LoginCodeService
	AdminSvc     domain.AdminService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	container.initRedis()
	container.initRepositories()
	container.initServices()

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.SessionTTL)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.Secrets = auth.NewSecretGenerator()
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.SessionTTL)
	c.Mailer = notifications.NewEmailService(notifications.EmailConfig{
		Host:        c.Config.SMTPHost,
		Port:        c.Config.SMTPPort,
		Username:    c.Config.SMTPUsername,
		Password:    c.Config.SMTPPassword,
		From:        c.Config.SMTPFrom,
		FrontendURL: c.Config.FrontendURL,
	})

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.Config.SessionTTL,
	)

	recoveryConfig := services.RecoveryConfig{
		TokenTTL:             c.Config.ResetTokenTTL,
		CodeTTL:              c.Config.RecoveryCodeTTL,
		CodeLength:           c.Config.RecoveryCodeLength,
		ResendWindow:         c.Config.ResendWindow,
		RejectReusedPassword: c.Config.RejectReusedPassword,
	}
	c.RecoverySvc = services.NewRecoveryService(
		c.UserRepo,
		c.PasswordSvc,
		c.Secrets,
		c.Mailer,
		c.RedisClient,
		recoveryConfig,
	)

	loginCodeConfig := services.LoginCodeConfig{
		CodeTTL:      c.Config.RecoveryCodeTTL,
		CodeLength:   c.Config.RecoveryCodeLength,
		ResendWindow: c.Config.ResendWindow,
		SessionTTL:   c.Config.SessionTTL,
	}
	c.LoginCodeSvc = services.NewLoginCodeService(
		c.UserRepo,
		c.SessionRepo,
		c.TokenSvc,
		c.Secrets,
		c.Mailer,
		c.RedisClient,
		loginCodeConfig,
	)

	c.AdminSvc = services.NewAdminService(c.UserRepo, c.PasswordSvc, c.Secrets, c.Mailer)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
