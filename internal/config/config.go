package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr          string        `yaml:"addr"`
	DatabaseURL   string        `yaml:"database_url"`
	RedisURL      string        `yaml:"redis_url"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TaxRate       string        `yaml:"tax_rate"`
	UploadDir     string        `yaml:"upload_dir"`
	CacheTTL      time.Duration `yaml:"catalog_cache_ttl"`
	LogLevel      string        `yaml:"log_level"`
	Tracing       bool          `yaml:"tracing"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
	SeedCatalog   bool          `yaml:"seed_catalog"`
	// AllowReset enables POST /dev/reset-products.
	AllowReset bool `yaml:"allow_reset_products"`
}

func defaults() Config {
	return Config{
		Addr:        ":8080",
		TaxRate:     "0.08",
		UploadDir:   "./uploads",
		CacheTTL:    30 * time.Second,
		LogLevel:    "info",
		SeedCatalog: true,
	}
}

// Load reads .env (if present), then an optional YAML file named by CONFIG_FILE,
// then environment variables. Later sources win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Addr, "GROCERY_ADDR")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.TaxRate, "TAX_RATE")
	setString(&cfg.UploadDir, "UPLOAD_DIR")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.AdminPassword, "ADMIN_PASSWORD")

	if v := os.Getenv("CATALOG_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: CATALOG_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}
	if err := setBool(&cfg.Tracing, "TRACING"); err != nil {
		return err
	}
	if err := setBool(&cfg.AllowReset, "ALLOW_RESET_PRODUCTS"); err != nil {
		return err
	}
	return setBool(&cfg.SeedCatalog, "SEED_CATALOG")
}

// Validate checks values that would otherwise fail later at request time.
func (c Config) Validate() error {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return fmt.Errorf("config: tax rate %q is not a number", c.TaxRate)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("config: tax rate %s must be in [0, 1)", c.TaxRate)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config: catalog cache ttl must not be negative")
	}
	return nil
}

// Tax returns the parsed tax rate. Validate has already accepted it.
func (c Config) Tax() decimal.Decimal {
	return decimal.RequireFromString(c.TaxRate)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = b
	return nil
}
