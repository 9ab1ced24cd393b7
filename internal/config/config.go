package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	Database                  DatabaseConfig
	Mailer                    MailerConfig
	Admin                     AdminSeedConfig
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	InitDBOnStartup           bool
	DispatchWorkers           int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
	DSN      string
}

// MailerConfig holds SMTP transport configuration
type MailerConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	Sender         string
	TimeoutSeconds int
}

// AdminSeedConfig holds the initial-admin seed pair. When either value is
// empty, bootstrap skips seeding entirely.
type AdminSeedConfig struct {
	Username string
	Password string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Username: getEnv("DB_USERNAME", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinic"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// DATABASE_URL wins when set (managed Postgres providers hand out a
	// single connection string); otherwise the DSN is assembled from parts.
	if url := getEnv("DATABASE_URL", ""); url != "" {
		dbConfig.DSN = url
	} else {
		dbConfig.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			dbConfig.Host, dbConfig.Port, dbConfig.Username, dbConfig.Password, dbConfig.Name, dbConfig.SSLMode)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	sendTimeout, err := strconv.Atoi(getEnv("SEND_TIMEOUT_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEND_TIMEOUT_SECONDS: %w", err)
	}

	mailerConfig := MailerConfig{
		Host:           getEnv("SMTP_SERVER", "smtp.gmail.com"),
		Port:           smtpPort,
		Username:       getEnv("SMTP_USERNAME", ""),
		Password:       getEnv("SMTP_PASSWORD", ""),
		Sender:         getEnv("EMAIL_SENDER", ""),
		TimeoutSeconds: sendTimeout,
	}
	if mailerConfig.Sender == "" {
		mailerConfig.Sender = mailerConfig.Username
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	dispatchWorkers, err := strconv.Atoi(getEnv("DISPATCH_WORKERS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPATCH_WORKERS: %w", err)
	}
	if dispatchWorkers < 1 {
		dispatchWorkers = 1
	}

	adminConfig := AdminSeedConfig{
		Username: getEnv("ADMIN_USER", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
	}

	// Return complete configuration
	return &Config{
		Port:                      getEnv("PORT", "8080"),
		Origin:                    getEnv("ORIGIN", "http://localhost:4200"),
		Environment:               getEnv("APP_ENV", "development"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		Database:                  dbConfig,
		Mailer:                    mailerConfig,
		Admin:                     adminConfig,
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		InitDBOnStartup:           getEnv("INIT_DB_ON_STARTUP", "1") == "1",
		DispatchWorkers:           dispatchWorkers,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
