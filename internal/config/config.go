package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Redis    RedisConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	RunMigrations bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// RedisConfig is optional. An empty Addr disables idempotency caching.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

type PayrollConfig struct {
	BonusPerDay          decimal.Decimal
	ExcludedRoleKeywords []string
	LeaderboardWorkers   int
	AccrualInterval      time.Duration
	WeeklyOffDay         time.Weekday
}

// Load reads the environment, after an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	runMigrations, err := strconv.ParseBool(getEnv("RUN_MIGRATIONS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_MIGRATIONS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          dbPort,
		User:          getEnv("DB_USER", "postgres"),
		Password:      getEnv("DB_PASSWORD", ""),
		Name:          getEnv("DB_NAME", "payroll"),
		SSLMode:       getEnv("DB_SSL_MODE", "disable"),
		RunMigrations: runMigrations,
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	idempotencyTTL, err := time.ParseDuration(getEnv("IDEMPOTENCY_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:           getEnv("REDIS_ADDR", ""),
		Password:       getEnv("REDIS_PASSWORD", ""),
		DB:             redisDB,
		IdempotencyTTL: idempotencyTTL,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	bonusPerDay, err := decimal.NewFromString(getEnv("BONUS_PER_DAY", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid BONUS_PER_DAY: %w", err)
	}
	workers, err := strconv.Atoi(getEnv("LEADERBOARD_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEADERBOARD_WORKERS: %w", err)
	}
	accrualInterval, err := time.ParseDuration(getEnv("BONUS_ACCRUAL_INTERVAL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid BONUS_ACCRUAL_INTERVAL: %w", err)
	}
	offDay, err := parseWeekday(getEnv("WEEKLY_OFF_DAY", "sunday"))
	if err != nil {
		return nil, err
	}

	config.Payroll = PayrollConfig{
		BonusPerDay:          bonusPerDay,
		ExcludedRoleKeywords: getEnvSlice("LEADERBOARD_EXCLUDED_ROLE_KEYWORDS", "developer,engineer,development,engineering"),
		LeaderboardWorkers:   workers,
		AccrualInterval:      accrualInterval,
		WeeklyOffDay:         offDay,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Payroll.BonusPerDay.IsNegative() {
		return fmt.Errorf("BONUS_PER_DAY must not be negative")
	}
	if c.Payroll.LeaderboardWorkers < 1 {
		return fmt.Errorf("LEADERBOARD_WORKERS must be at least 1")
	}
	if c.Payroll.AccrualInterval <= 0 {
		return fmt.Errorf("BONUS_ACCRUAL_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid WEEKLY_OFF_DAY: %q", s)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
