package config

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone database for minimal container images

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultCountriesAPIURL     = "https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies"
	DefaultExchangeRatesAPIURL = "https://open.er-api.com/v6/latest/USD"
	DefaultReportingTimezone   = "Africa/Lagos"

	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Port         string `validate:"required,numeric"`
	IsProduction bool
	LogLevel     string `validate:"oneof=debug info warn error"`

	StorageDriver string `validate:"oneof=postgres memory"`
	DatabaseURL   string `validate:"required_if=StorageDriver postgres"`
	RunMigrations bool

	CountriesAPIURL      string        `validate:"required,url"`
	ExchangeRatesAPIURL  string        `validate:"required,url"`
	ExternalAPITimeout   time.Duration `validate:"gt=0"`
	ExternalAPIUserAgent string

	ReportingTimezone string `validate:"required"`
	ReportingLocation *time.Location

	ImageCacheDir string `validate:"required"`

	RateLimit          string `validate:"required"`
	CORSAllowedOrigins []string

	// AdminJWTSecret, when set, protects refresh and delete with HS256 bearer tokens.
	AdminJWTSecret string
	// RefreshSchedule, when set, is a cron spec for background refreshes.
	RefreshSchedule string

	// PosthogAPIKey, when set, enables API usage analytics.
	PosthogAPIKey   string
	PosthogEndpoint string `validate:"omitempty,url"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("COUNTRIES_API_URL", DefaultCountriesAPIURL)
	v.SetDefault("EXCHANGE_RATES_API_URL", DefaultExchangeRatesAPIURL)
	v.SetDefault("EXTERNAL_API_TIMEOUT", "2m")
	v.SetDefault("EXTERNAL_API_USER_AGENT", "CountriesAPI/1.0")
	v.SetDefault("REPORTING_TIMEZONE", DefaultReportingTimezone)
	v.SetDefault("IMAGE_CACHE_DIR", "cache")
	v.SetDefault("RATE_LIMIT", "60-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("ADMIN_JWT_SECRET", "")
	v.SetDefault("REFRESH_SCHEDULE", "")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")

	v.AutomaticEnv()

	cfg := &Config{
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		StorageDriver:        strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:          v.GetString("PGSQL_URL"),
		RunMigrations:        v.GetBool("RUN_MIGRATIONS"),
		CountriesAPIURL:      v.GetString("COUNTRIES_API_URL"),
		ExchangeRatesAPIURL:  v.GetString("EXCHANGE_RATES_API_URL"),
		ExternalAPIUserAgent: v.GetString("EXTERNAL_API_USER_AGENT"),
		ReportingTimezone:    v.GetString("REPORTING_TIMEZONE"),
		ImageCacheDir:        v.GetString("IMAGE_CACHE_DIR"),
		RateLimit:            v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AdminJWTSecret:       v.GetString("ADMIN_JWT_SECRET"),
		RefreshSchedule:      strings.TrimSpace(v.GetString("REFRESH_SCHEDULE")),
		PosthogAPIKey:        v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:      v.GetString("POSTHOG_ENDPOINT"),
	}

	timeoutStr := v.GetString("EXTERNAL_API_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 2 * time.Minute
		log.Printf("Warning: Invalid value for EXTERNAL_API_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.ExternalAPITimeout = timeout

	if cfg.StorageDriver == StorageDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := ParseLocation(cfg.ReportingTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORTING_TIMEZONE: %w", err)
	}
	cfg.ReportingLocation = loc

	return cfg, nil
}

var offsetPattern = regexp.MustCompile(`^(?:UTC|GMT)?([+-])(\d{1,2})(?::?(\d{2}))?$`)

// ParseLocation resolves an IANA zone name (e.g. "Africa/Lagos") or a fixed
// offset (e.g. "+01:00", "UTC-05:30") into a location.
func ParseLocation(value string) (*time.Location, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("empty time zone")
	}
	if strings.EqualFold(value, "UTC") || value == "Z" {
		return time.UTC, nil
	}

	if m := offsetPattern.FindStringSubmatch(strings.ToUpper(value)); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes := 0
		if m[3] != "" {
			minutes, _ = strconv.Atoi(m[3])
		}
		if hours > 14 || minutes > 59 {
			return nil, fmt.Errorf("offset %q out of range", value)
		}
		seconds := hours*3600 + minutes*60
		if m[1] == "-" {
			seconds = -seconds
		}
		return time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", m[1], hours, minutes), seconds), nil
	}

	loc, err := time.LoadLocation(value)
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
