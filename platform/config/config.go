// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthConfig provides settings needed by the admin auth module.
type AuthConfig interface {
	JWTConfig
	GetAdminEmail() string
	GetAdminPasswordHash() string
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides Redis connection settings for the recovery store
// and the tracking delivery queue.
type RedisConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// RecoveryConfig provides settings for funnel recovery snapshots.
type RecoveryConfig interface {
	GetRecoveryTTL() time.Duration
}

// CampaignConfig provides settings for the active-campaign cache.
type CampaignConfig interface {
	GetCampaignCacheTTL() time.Duration
}

// TrackingConfig provides credentials for the ad-tracking sinks.
type TrackingConfig interface {
	GetFacebookPixelID() string
	GetFacebookAccessToken() string
	GetGAMeasurementID() string
	GetGAAPISecret() string
	GetFacebookTestEventCode() string
}

// EmailConfig provides settings for the completion notification email.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetSalesInbox() string
}

// WhatsAppConfig provides settings for the outbound messaging collaborator.
type WhatsAppConfig interface {
	GetWhatsAppNumber() string
	GetWhatsAppURL() string
	GetWhatsAppKey() string
}

// CatalogConfig provides settings for the catalog module.
type CatalogConfig interface {
	GetCatalogSeedFile() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	JWTAccessSecret       string
	AccessTokenTTL        time.Duration
	AdminEmail            string
	AdminPasswordHash     string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	RedisURL              string
	AsynqQueueName        string
	AsynqConcurrency      int
	RecoveryTTL           time.Duration
	CampaignCacheTTL      time.Duration
	FacebookPixelID       string
	FacebookAccessToken   string
	FacebookTestEventCode string
	GAMeasurementID       string
	GAAPISecret           string
	EmailEnabled          bool
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	EmailFromName         string
	EmailFromAddress      string
	SalesInbox            string
	WhatsAppNumber        string
	WhatsAppURL           string
	WhatsAppKey           string
	CatalogSeedFile       string
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// AuthConfig implementation
func (c *Config) GetAdminEmail() string            { return c.AdminEmail }
func (c *Config) GetAdminPasswordHash() string     { return c.AdminPasswordHash }
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// RecoveryConfig implementation
func (c *Config) GetRecoveryTTL() time.Duration { return c.RecoveryTTL }

// CampaignConfig implementation
func (c *Config) GetCampaignCacheTTL() time.Duration { return c.CampaignCacheTTL }

// TrackingConfig implementation
func (c *Config) GetFacebookPixelID() string       { return c.FacebookPixelID }
func (c *Config) GetFacebookAccessToken() string   { return c.FacebookAccessToken }
func (c *Config) GetFacebookTestEventCode() string { return c.FacebookTestEventCode }
func (c *Config) GetGAMeasurementID() string       { return c.GAMeasurementID }
func (c *Config) GetGAAPISecret() string           { return c.GAAPISecret }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetSalesInbox() string       { return c.SalesInbox }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppNumber() string { return c.WhatsAppNumber }
func (c *Config) GetWhatsAppURL() string    { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string    { return c.WhatsAppKey }

// CatalogConfig implementation
func (c *Config) GetCatalogSeedFile() string { return c.CatalogSeedFile }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTAccessSecret:       getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:        mustDuration(getEnv("JWT_ACCESS_TTL", "12h")),
		AdminEmail:            getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash:     getEnv("ADMIN_PASSWORD_HASH", ""),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:              getEnv("REDIS_URL", ""),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "tracking"),
		AsynqConcurrency:      mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		RecoveryTTL:           mustDuration(getEnv("RECOVERY_TTL", "168h")),
		CampaignCacheTTL:      mustDuration(getEnv("CAMPAIGN_CACHE_TTL", "5m")),
		FacebookPixelID:       getEnv("FB_PIXEL_ID", ""),
		FacebookAccessToken:   getEnv("FB_CAPI_ACCESS_TOKEN", ""),
		FacebookTestEventCode: getEnv("FB_TEST_EVENT_CODE", ""),
		GAMeasurementID:       getEnv("GA_MEASUREMENT_ID", ""),
		GAAPISecret:           getEnv("GA_API_SECRET", ""),
		EmailEnabled:          emailEnabled && smtpHost != "",
		SMTPHost:              smtpHost,
		SMTPPort:              mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		EmailFromName:         getEnv("EMAIL_FROM_NAME", "WebExpress"),
		EmailFromAddress:      getEnv("EMAIL_FROM_ADDRESS", ""),
		SalesInbox:            getEnv("SALES_INBOX", ""),
		WhatsAppNumber:        getEnv("WHATSAPP_NUMBER", ""),
		WhatsAppURL:           getEnv("WHATSAPP_API_URL", ""),
		WhatsAppKey:           getEnv("WHATSAPP_API_KEY", ""),
		CatalogSeedFile:       getEnv("CATALOG_SEED_FILE", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required")
	}
	if cfg.WhatsAppNumber == "" {
		return nil, fmt.Errorf("WHATSAPP_NUMBER is required")
	}
	if cfg.EmailEnabled && (cfg.EmailFromAddress == "" || cfg.SalesInbox == "") {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS and SALES_INBOX are required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
