// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// BaseURL is the externally visible base URL of this service, used to build
	// OAuth redirect URLs and confirmation links (e.g. https://auth.example.com).
	BaseURL string `mapstructure:"BASE_URL"`

	// SessionPrivateKey is the PEM-encoded private key (RSA or ECDSA) used to sign session cookies.
	SessionPrivateKey string `mapstructure:"SESSION_PRIVATE_KEY"`
	// SessionPublicKey is the PEM-encoded public key matching SESSION_PRIVATE_KEY.
	SessionPublicKey string `mapstructure:"SESSION_PUBLIC_KEY"`
	// SessionIssuer is the iss claim on session cookies.
	SessionIssuer string `mapstructure:"SESSION_ISSUER"`
	// SessionTTL is the session cookie lifetime (e.g. "24h").
	SessionTTL string `mapstructure:"SESSION_TTL"`

	// TokenSealKey is a hex-encoded 32-byte key used to encrypt provider access and
	// refresh tokens at rest.
	TokenSealKey string `mapstructure:"TOKEN_SEAL_KEY"`

	// CanCreateUsers allows the user directory to create accounts for unknown
	// external identities during registration.
	CanCreateUsers bool `mapstructure:"CAN_CREATE_USERS"`
	// CanAssociateToLoggedInUser links a new identity directly to the
	// authenticated user instead of matching by email.
	CanAssociateToLoggedInUser bool `mapstructure:"CAN_ASSOCIATE_TO_LOGGED_IN_USER"`
	// ConfirmIdentityForNewUser asks freshly created users to confirm their first
	// identity by email instead of logging them in immediately.
	ConfirmIdentityForNewUser bool `mapstructure:"CONFIRM_IDENTITY_FOR_NEW_USER"`
	// LoginAfterConfirm logs the user in right after a successful confirmation.
	LoginAfterConfirm bool `mapstructure:"LOGIN_AFTER_CONFIRM"`

	// GoogleClientID / GoogleClientSecret configure the Google provider driver.
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	// GitHubClientID / GitHubClientSecret configure the GitHub provider driver.
	GitHubClientID     string `mapstructure:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `mapstructure:"GITHUB_CLIENT_SECRET"`

	// NotifyKafkaBrokers is a comma-separated list of Kafka broker addresses.
	// When empty, confirmation notifications are logged and dropped.
	NotifyKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// NotifyKafkaTopic is the Kafka topic for confirmation notifications.
	NotifyKafkaTopic string `mapstructure:"NOTIFY_KAFKA_TOPIC"`
	// KafkaGroupID is the consumer group ID for the notification worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	// Worker-only: mail API settings for delivering confirmation emails.
	MailAPIKey  string `mapstructure:"MAIL_API_KEY"`
	MailBaseURL string `mapstructure:"MAIL_BASE_URL"`
	MailFrom    string `mapstructure:"MAIL_FROM"`

	// OTLPEndpoint enables tracing/metrics export when set (e.g. http://localhost:4317).
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export regardless of endpoint scheme.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	// Every key needs a default (even empty) so AutomaticEnv picks it up
	// during Unmarshal; unregistered keys are ignored.
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("SESSION_PRIVATE_KEY", "")
	v.SetDefault("SESSION_PUBLIC_KEY", "")
	v.SetDefault("SESSION_ISSUER", "social-link")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("TOKEN_SEAL_KEY", "")
	v.SetDefault("CAN_CREATE_USERS", false)
	v.SetDefault("CAN_ASSOCIATE_TO_LOGGED_IN_USER", false)
	v.SetDefault("CONFIRM_IDENTITY_FOR_NEW_USER", true)
	v.SetDefault("LOGIN_AFTER_CONFIRM", false)
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GITHUB_CLIENT_ID", "")
	v.SetDefault("GITHUB_CLIENT_SECRET", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("NOTIFY_KAFKA_TOPIC", "social-link-confirmations")
	v.SetDefault("KAFKA_GROUP_ID", "social-link-notify-worker")
	v.SetDefault("MAIL_API_KEY", "")
	v.SetDefault("MAIL_BASE_URL", "")
	v.SetDefault("MAIL_FROM", "no-reply@localhost")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("config: BASE_URL must be set")
	}
	if cfg.TokenSealKey != "" {
		key, err := hex.DecodeString(cfg.TokenSealKey)
		if err != nil || len(key) != 32 {
			return nil, errors.New("config: TOKEN_SEAL_KEY must be 64 hex characters (32 bytes)")
		}
	}
	if cfg.DatabaseURL != "" && cfg.TokenSealKey == "" && cfg.Env == "production" {
		return nil, errors.New("config: TOKEN_SEAL_KEY is required when APP_ENV=production")
	}

	return &cfg, nil
}

// SessionTTLDuration parses SessionTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// SealKey returns the decoded token seal key, or nil when unset.
// Load has already validated the length.
func (c *Config) SealKey() *[32]byte {
	if c == nil || c.TokenSealKey == "" {
		return nil
	}
	raw, err := hex.DecodeString(c.TokenSealKey)
	if err != nil || len(raw) != 32 {
		return nil
	}
	var key [32]byte
	copy(key[:], raw)
	return &key
}

// NotifyKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if notifications are enabled (non-empty list) and to create the producer.
func (c *Config) NotifyKafkaBrokersList() []string {
	if c == nil || c.NotifyKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.NotifyKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
