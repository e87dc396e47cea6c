package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Uploads  UploadConfig
	Pricing  PricingConfig

	StorageDriver string
	DemoSeed      bool
	CatalogFile   string
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	URL             string
	Migrate         bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

type UploadConfig struct {
	Dir           string
	PublicBaseURL string
	MaxBytes      int64
}

type PricingConfig struct {
	RoadPreparationFee  float64
	VATRate             float64
	DealerStockLocation string
}

// Load reads configuration from the environment. godotenv is expected to
// have populated the environment from .env beforehand.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	_ = v.BindEnv("APP_PORT", "APP_PORT", "PORT")

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORAGE_DRIVER", DriverMemory)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DEMO_SEED", true)
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("ADMIN_EMAIL", "admin@dealer.local")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("PUBLIC_BASE_URL", "/uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	v.SetDefault("ROAD_PREPARATION_FEE", 350)
	v.SetDefault("VAT_RATE", 22)
	v.SetDefault("DEALER_STOCK_LOCATION", "Stock Dealer")

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("APP_PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Migrate:         v.GetBool("DB_MIGRATE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenTTL:      time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
		Uploads: UploadConfig{
			Dir:           v.GetString("UPLOAD_DIR"),
			PublicBaseURL: strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
			MaxBytes:      v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Pricing: PricingConfig{
			RoadPreparationFee:  v.GetFloat64("ROAD_PREPARATION_FEE"),
			VATRate:             v.GetFloat64("VAT_RATE"),
			DealerStockLocation: v.GetString("DEALER_STOCK_LOCATION"),
		},
		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DemoSeed:      v.GetBool("DEMO_SEED"),
		CatalogFile:   v.GetString("CATALOG_FILE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=%s", DriverPostgres)
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverMemory, DriverPostgres, c.StorageDriver)
	}
	if c.Server.Env == "production" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL_HOURS must be positive")
	}
	if c.Pricing.RoadPreparationFee < 0 {
		return fmt.Errorf("ROAD_PREPARATION_FEE must not be negative")
	}
	if c.Pricing.VATRate < 0 {
		return fmt.Errorf("VAT_RATE must not be negative")
	}
	// uploads are served by this process under the same path they are linked with
	if !strings.HasPrefix(c.Uploads.PublicBaseURL, "/") {
		return fmt.Errorf("PUBLIC_BASE_URL must be a path below the server root such as /uploads, got %q", c.Uploads.PublicBaseURL)
	}
	return nil
}

// IsDevelopment reports whether the service runs outside production.
func (c *Config) IsDevelopment() bool { return c.Server.Env != "production" }

// LogSummary prints the effective configuration without secrets.
func (c *Config) LogSummary() {
	set := func(s string) string {
		if s != "" {
			return "SET"
		}
		return "NOT SET"
	}
	log.Printf("Configuration loaded:")
	log.Printf("- Server Port: %s", c.Server.Port)
	log.Printf("- Server Env: %s", c.Server.Env)
	log.Printf("- Storage Driver: %s", c.StorageDriver)
	log.Printf("- Database URL: %s", set(c.Database.URL))
	log.Printf("- JWT Secret: %s", set(c.Auth.JWTSecret))
	log.Printf("- Admin Password: %s", set(c.Auth.AdminPassword))
	log.Printf("- Upload Dir: %s", c.Uploads.Dir)
	log.Printf("- Catalog File: %s", set(c.CatalogFile))
	log.Printf("- Demo Seed: %t", c.DemoSeed)
}
