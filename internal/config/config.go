package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	Push      PushConfig      `yaml:"push"`
	Payments  PaymentsConfig  `yaml:"payments"`
	Booking   BookingConfig   `yaml:"booking"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// PushConfig contains Firebase Cloud Messaging settings
type PushConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

// PaymentsConfig contains payments-processor and fee settings. Percentages are
// basis points so the config never carries floats for money.
type PaymentsConfig struct {
	StripeKey             string `yaml:"stripe_key"`
	Currency              string `yaml:"currency"`
	ServiceFeeBps         int64  `yaml:"service_fee_bps"`    // of rental fee
	InsuranceFeeBps       int64  `yaml:"insurance_fee_bps"`  // of rental fee
	CommissionBps         int64  `yaml:"commission_bps"`     // platform cut on payout
	PointValueCents       int64  `yaml:"point_value_cents"`  // credit per loyalty point
}

// BookingConfig contains lifecycle policy settings
type BookingConfig struct {
	ApprovalDeadlineHours int   `yaml:"approval_deadline_hours"`
	HoldExpiryHours       int   `yaml:"hold_expiry_hours"`
	MinPickupPhotos       int   `yaml:"min_pickup_photos"`
	FreeCancelDays        int   `yaml:"free_cancel_days"`
	LateCancelRentalBps   int64 `yaml:"late_cancel_rental_bps"` // share of rental fee retained
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireApprovalDeadlines string `yaml:"expire_approval_deadlines"`
	ReleaseExpiredHolds     string `yaml:"release_expired_holds"`
	SendReviewReminders     string `yaml:"send_review_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	// Push
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Push.CredentialsFile = val
	}

	// Payments
	if val := os.Getenv("STRIPE_API_KEY"); val != "" {
		c.Payments.StripeKey = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Email validation
	if c.Email.APIKey == "" {
		return fmt.Errorf("SendGrid API key is required")
	}
	if c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}

	// Payments validation
	if c.Payments.StripeKey == "" {
		return fmt.Errorf("Stripe API key is required")
	}
	if c.Payments.Currency == "" {
		c.Payments.Currency = "usd"
	}
	if c.Payments.ServiceFeeBps == 0 {
		c.Payments.ServiceFeeBps = 1000 // 10%
	}
	if c.Payments.InsuranceFeeBps == 0 {
		c.Payments.InsuranceFeeBps = 500 // 5%
	}
	if c.Payments.CommissionBps == 0 {
		c.Payments.CommissionBps = 1500 // 15%
	}
	if c.Payments.PointValueCents == 0 {
		c.Payments.PointValueCents = 1 // 1 point = 1 cent
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 60 * 24 * 7
	}

	// Booking policy defaults
	if c.Booking.ApprovalDeadlineHours == 0 {
		c.Booking.ApprovalDeadlineHours = 48
	}
	if c.Booking.HoldExpiryHours == 0 {
		c.Booking.HoldExpiryHours = 72
	}
	if c.Booking.MinPickupPhotos == 0 {
		c.Booking.MinPickupPhotos = 1
	}
	if c.Booking.FreeCancelDays == 0 {
		c.Booking.FreeCancelDays = 7
	}
	if c.Booking.LateCancelRentalBps == 0 {
		c.Booking.LateCancelRentalBps = 5000 // 50%
	}

	// Scheduler defaults
	if c.Scheduler.ExpireApprovalDeadlines == "" {
		c.Scheduler.ExpireApprovalDeadlines = "0 */10 * * * *" // every 10 minutes
	}
	if c.Scheduler.ReleaseExpiredHolds == "" {
		c.Scheduler.ReleaseExpiredHolds = "0 5 * * * *" // hourly at :05
	}
	if c.Scheduler.SendReviewReminders == "" {
		c.Scheduler.SendReviewReminders = "0 0 9 * * *" // daily at 9 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
