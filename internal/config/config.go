package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration. It is loaded once in main and
// handed to the components that need it; nothing reads the environment later.
type Config struct {
	Port   int    `mapstructure:"PORT"`
	Env    string `mapstructure:"APP_ENV"`
	LogLvl string `mapstructure:"LOG_LEVEL"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBPort      string `mapstructure:"DB_PORT"`

	// Redis (empty disables login throttling)
	RedisURL       string `mapstructure:"REDIS_URL"`
	LoginRateLimit int    `mapstructure:"LOGIN_RATE_LIMIT"`

	// Auth
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	JWTExpirationMinutes int    `mapstructure:"JWT_EXPIRATION_MINUTES"`
	JWTIssuer            string `mapstructure:"JWT_ISSUER"`

	// Default superadmin seeded on startup
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

var keys = []string{
	"PORT", "APP_ENV", "LOG_LEVEL",
	"DATABASE_URL", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PORT",
	"REDIS_URL", "LOGIN_RATE_LIMIT",
	"JWT_SECRET", "JWT_EXPIRATION_MINUTES", "JWT_ISSUER",
	"ADMIN_EMAIL", "ADMIN_PASSWORD",
}

// Load reads the optional .env file into the process environment and then
// resolves every key from the environment, falling back to defaults.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", 3000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "opta_erp")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("LOGIN_RATE_LIMIT", 20)
	v.SetDefault("JWT_SECRET", "your-super-secret-key-change-in-production")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 30)
	v.SetDefault("JWT_ISSUER", "opta-erp")
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("ADMIN_PASSWORD", "admin12345")

	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about during Unmarshal.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTExpirationMinutes <= 0 {
		return nil, fmt.Errorf("config: JWT_EXPIRATION_MINUTES must be positive, got %d", cfg.JWTExpirationMinutes)
	}
	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationMinutes) * time.Minute
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
