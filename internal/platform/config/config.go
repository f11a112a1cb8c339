package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment       string        `envconfig:"APP_ENV" default:"development"`
	Addr              string        `envconfig:"APP_ADDR" default:":8080"`
	LogFormat         string        `envconfig:"LOG_FORMAT" default:"text"`
	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	JWTSecret         string        `envconfig:"JWT_SECRET"`
	DataEncryptionKey string        `envconfig:"DATA_ENCRYPTION_KEY"`
	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	MigrationsDir     string        `envconfig:"MIGRATIONS_DIR"`
	RunMigrations     bool          `envconfig:"RUN_MIGRATIONS" default:"true"`
	RunSeed           bool          `envconfig:"RUN_SEED" default:"true"`
	SeedCompanyName   string        `envconfig:"SEED_COMPANY_NAME" default:"Default Company"`
	SeedCompanyRegNo  string        `envconfig:"SEED_COMPANY_REG_NO" default:"000000-X"`
	SeedAdminEmail    string        `envconfig:"SEED_ADMIN_EMAIL" default:"admin@company.com"`
	SeedAdminPassword string        `envconfig:"SEED_ADMIN_PASSWORD"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	MaxBodyBytes      int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	LoginRateLimit    int           `envconfig:"LOGIN_RATE_LIMIT" default:"20"`
	ReadTimeout       time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	WriteTimeout      time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	Gov               GovConfig
}

// GovConfig points each government gateway at an upstream. An empty URL
// keeps the gateway in acknowledge-only mode.
type GovConfig struct {
	HRDFURL     string        `envconfig:"GOV_HRDF_URL"`
	KWSPURL     string        `envconfig:"GOV_KWSP_URL"`
	LHDNURL     string        `envconfig:"GOV_LHDN_URL"`
	MyWorkIDURL string        `envconfig:"GOV_MYWORKID_URL"`
	PERKESOURL  string        `envconfig:"GOV_PERKESO_URL"`
	Timeout     time.Duration `envconfig:"GOV_TIMEOUT" default:"10s"`
}

// Load reads .env (when present) and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return errors.New("DATA_ENCRYPTION_KEY must be set in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return errors.New("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return errors.New("MAX_BODY_BYTES must be at least 1024")
	}
	if c.LoginRateLimit <= 0 {
		return errors.New("LOGIN_RATE_LIMIT must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}
