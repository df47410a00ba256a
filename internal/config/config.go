package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type RecoveryConfig struct {
	TokenTTL             string `yaml:"token_ttl"`
	CodeTTL              string `yaml:"code_ttl"`
	CodeLength           int    `yaml:"code_length"`
	ResendWindow         string `yaml:"resend_window"`
	RejectReusedPassword bool   `yaml:"reject_reused_password"`
}

type SMTPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	From        string `yaml:"from"`
	FrontendURL string `yaml:"frontend_url"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Recovery RecoveryConfig `yaml:"recovery"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port          string
	GinMode       string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	ResetTokenTTL        time.Duration
	RecoveryCodeTTL      time.Duration
	RecoveryCodeLength   int
	ResendWindow         time.Duration
	RejectReusedPassword bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	FrontendURL  string

	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml and applies environment overrides for the
// secrets that should not live in the file.
func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	sessionTTL, err := time.ParseDuration(configFile.JWT.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT TTL: %w", err)
	}

	tokenTTL, err := time.ParseDuration(configFile.Recovery.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid recovery token TTL: %w", err)
	}

	codeTTL, err := time.ParseDuration(configFile.Recovery.CodeTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid recovery code TTL: %w", err)
	}

	resendWindow, err := time.ParseDuration(configFile.Recovery.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid resend window: %w", err)
	}

	return &Config{
		Port:          fmt.Sprintf("%d", configFile.App.Port),
		GinMode:       configFile.App.GinMode,
		DSN:           env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		JWTSecret:  env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:  configFile.JWT.Issuer,
		SessionTTL: sessionTTL,

		ResetTokenTTL:        tokenTTL,
		RecoveryCodeTTL:      codeTTL,
		RecoveryCodeLength:   configFile.Recovery.CodeLength,
		ResendWindow:         resendWindow,
		RejectReusedPassword: configFile.Recovery.RejectReusedPassword,

		SMTPHost:     env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:     configFile.SMTP.Port,
		SMTPUsername: env("SMTP_USERNAME", configFile.SMTP.Username),
		SMTPPassword: env("SMTP_PASSWORD", configFile.SMTP.Password),
		SMTPFrom:     env("SMTP_FROM", configFile.SMTP.From),
		FrontendURL:  env("FRONTEND_URL", configFile.SMTP.FrontendURL),

		CasbinModelPath: configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
