package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"mirai-scheduler/internal/slots"
)

// ErrInvalidConfiguration is returned by Load for missing or malformed values.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// WorkingDay is the bookable window of every day and the slot unit.
type WorkingDay struct {
	Start       slots.TimeOfDay
	End         slots.TimeOfDay
	UnitMinutes int
}

// Config holds all configuration values.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	Location   *time.Location
	WorkingDay WorkingDay

	// MaxPreviewDays bounds the span an availability preview may cover.
	MaxPreviewDays int

	BackendURL          string
	BackendSessionToken string
	DatabaseURL         string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	StaticTokens    []string
	RateLimitPerMin int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) MaxPreviewSpan() time.Duration {
	return time.Duration(c.MaxPreviewDays) * 24 * time.Hour
}

// GoogleEnabled reports whether all three OAuth2 values are present.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("SLOT_UNIT_MINUTES", "30")
	v.SetDefault("WORKDAY_START_HOUR", "9")
	v.SetDefault("WORKDAY_START_MINUTE", "0")
	v.SetDefault("WORKDAY_END_HOUR", "17")
	v.SetDefault("WORKDAY_END_MINUTE", "0")
	v.SetDefault("MAX_PREVIEW_DAYS", "7")
	v.SetDefault("REDIS_DB", "0")
	v.SetDefault("RATE_LIMIT_PER_MIN", "200")
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "TIMEZONE",
	"SLOT_UNIT_MINUTES", "WORKDAY_START_HOUR", "WORKDAY_START_MINUTE", "WORKDAY_END_HOUR", "WORKDAY_END_MINUTE",
	"MAX_PREVIEW_DAYS",
	"BACKEND_URL", "BACKEND_SESSION_TOKEN", "DATABASE_URL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"JWT_HMAC_SECRET", "STATIC_TOKENS", "RATE_LIMIT_PER_MIN",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// a missing .env is fine outside development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	setDefaults(v)
	return FromViper(v)
}

// FromViper validates and converts the raw values held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var errs []error
	intVal := func(key string, lo, hi int) int {
		raw := strings.TrimSpace(v.GetString(key))
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s must be an integer, got %q", key, raw))
			return 0
		}
		if n < lo || n > hi {
			errs = append(errs, fmt.Errorf("%s must be in [%d, %d], got %d", key, lo, hi, n))
		}
		return n
	}

	cfg := &Config{
		Port:                strings.TrimSpace(v.GetString("PORT")),
		Env:                 strings.TrimSpace(v.GetString("ENV")),
		LogLevel:            strings.TrimSpace(v.GetString("LOG_LEVEL")),
		BackendURL:          strings.TrimRight(strings.TrimSpace(v.GetString("BACKEND_URL")), "/"),
		BackendSessionToken: strings.TrimSpace(v.GetString("BACKEND_SESSION_TOKEN")),
		DatabaseURL:         strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisAddr:           strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		JWTSecret:           strings.TrimSpace(v.GetString("JWT_HMAC_SECRET")),
		GoogleClientID:      v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:   v.GetString("GOOGLE_REDIRECT_URL"),
	}

	for _, t := range strings.Split(v.GetString("STATIC_TOKENS"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			cfg.StaticTokens = append(cfg.StaticTokens, t)
		}
	}

	cfg.WorkingDay = WorkingDay{
		Start:       slots.TimeOfDay{Hour: intVal("WORKDAY_START_HOUR", 0, 23), Minute: intVal("WORKDAY_START_MINUTE", 0, 59)},
		End:         slots.TimeOfDay{Hour: intVal("WORKDAY_END_HOUR", 0, 23), Minute: intVal("WORKDAY_END_MINUTE", 0, 59)},
		UnitMinutes: intVal("SLOT_UNIT_MINUTES", 1, 24*60),
	}
	cfg.MaxPreviewDays = intVal("MAX_PREVIEW_DAYS", 1, 366)
	cfg.RedisDB = intVal("REDIS_DB", 0, 15)
	cfg.RateLimitPerMin = intVal("RATE_LIMIT_PER_MIN", 1, 1<<20)

	if len(errs) == 0 && !cfg.WorkingDay.Start.Before(cfg.WorkingDay.End) {
		errs = append(errs, fmt.Errorf("working day start %s must be before end %s", cfg.WorkingDay.Start, cfg.WorkingDay.End))
	}

	loc, err := time.LoadLocation(strings.TrimSpace(v.GetString("TIMEZONE")))
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %v", err))
	}
	cfg.Location = loc

	if p, err := strconv.Atoi(cfg.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid TCP port (got %q)", cfg.Port))
	}

	switch {
	case cfg.BackendURL == "" && cfg.DatabaseURL == "":
		errs = append(errs, errors.New("one of BACKEND_URL or DATABASE_URL is required"))
	case cfg.BackendURL != "" && cfg.DatabaseURL != "":
		errs = append(errs, errors.New("BACKEND_URL and DATABASE_URL are mutually exclusive"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, errors.Join(errs...))
	}
	return cfg, nil
}
