// Package config resolves runtime configuration in priority order:
// defaults, then an optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	VideoMemory = "memory"
	VideoRedis  = "redis"

	AuthJWT = "jwt"
	AuthDev = "dev"
)

type Config struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// Timezone is the IANA zone whose calendar day counts as "today".
	Timezone string `yaml:"timezone"`

	StorageBackend string `yaml:"storage_backend"`
	DatabaseURL    string `yaml:"database_url"`
	DBMaxConns     int32  `yaml:"db_max_conns"`

	VideoBackend string `yaml:"video_backend"`
	RedisURL     string `yaml:"redis_url"`

	AuthMode   string    `yaml:"auth_mode"`
	JWT        JWTConfig `yaml:"jwt"`
	DevSubject string    `yaml:"dev_subject"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	BcryptCost int `yaml:"bcrypt_cost"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func Defaults() Config {
	return Config{
		Port:            8080,
		LogLevel:        "info",
		Timezone:        "Asia/Kolkata",
		StorageBackend:  StorageMemory,
		DBMaxConns:      10,
		VideoBackend:    VideoMemory,
		AuthMode:        AuthJWT,
		JWT:             JWTConfig{ClockSkew: 30 * time.Second},
		RateLimitRPS:    20,
		RateLimitBurst:  40,
		BcryptCost:      12,
		ShutdownTimeout: 15 * time.Second,
	}
}

// Load reads .env (when present) into the process environment, then resolves the config.
// The YAML file named by CONFIG_FILE is optional.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Resolve(os.Getenv("CONFIG_FILE"), os.LookupEnv)
}

// Resolve applies defaults, the YAML file at path (if non-empty) and then env overrides
// read through lookup.
func Resolve(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	env := envReader{lookup: lookup}
	env.int("PORT", &cfg.Port)
	env.str("LOG_LEVEL", &cfg.LogLevel)
	env.str("GYM_TIMEZONE", &cfg.Timezone)
	env.str("STORAGE_BACKEND", &cfg.StorageBackend)
	env.str("DATABASE_URL", &cfg.DatabaseURL)
	env.int32("DB_MAX_CONNS", &cfg.DBMaxConns)
	env.str("VIDEO_BACKEND", &cfg.VideoBackend)
	env.str("REDIS_URL", &cfg.RedisURL)
	env.str("AUTH_MODE", &cfg.AuthMode)
	env.str("JWT_SECRET", &cfg.JWT.Secret)
	env.str("JWT_ISSUER", &cfg.JWT.Issuer)
	env.str("JWT_AUDIENCE", &cfg.JWT.Audience)
	env.duration("JWT_CLOCK_SKEW", &cfg.JWT.ClockSkew)
	env.str("DEV_SUBJECT", &cfg.DevSubject)
	env.float("RATE_LIMIT_RPS", &cfg.RateLimitRPS)
	env.int("RATE_LIMIT_BURST", &cfg.RateLimitBurst)
	env.int("BCRYPT_COST", &cfg.BcryptCost)
	env.duration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
	if env.err != nil {
		return Config{}, env.err
	}

	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.VideoBackend = strings.ToLower(strings.TrimSpace(cfg.VideoBackend))
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(cfg.AuthMode))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q", StorageMemory, StoragePostgres)
	}
	switch c.VideoBackend {
	case VideoMemory:
	case VideoRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("VIDEO_BACKEND=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("VIDEO_BACKEND must be %q or %q", VideoMemory, VideoRedis)
	}
	switch c.AuthMode {
	case AuthJWT:
		if err := c.JWT.validate(); err != nil {
			return err
		}
	case AuthDev:
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q", AuthJWT, AuthDev)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	return nil
}

// Location loads the gym timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("GYM_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// envReader records the first parse failure so Resolve can report it once.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *envReader) get(key string) (string, bool) {
	if r.err != nil || r.lookup == nil {
		return "", false
	}
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *envReader) str(key string, dst *string) {
	if v, ok := r.get(key); ok {
		*dst = v
	}
}

func (r *envReader) int(key string, dst *int) {
	if v, ok := r.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.err = fmt.Errorf("%s must be an integer: %w", key, err)
			return
		}
		*dst = n
	}
}

func (r *envReader) int32(key string, dst *int32) {
	if v, ok := r.get(key); ok {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			r.err = fmt.Errorf("%s must be an integer: %w", key, err)
			return
		}
		*dst = int32(n)
	}
}

func (r *envReader) float(key string, dst *float64) {
	if v, ok := r.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.err = fmt.Errorf("%s must be a number: %w", key, err)
			return
		}
		*dst = f
	}
}

func (r *envReader) duration(key string, dst *time.Duration) {
	if v, ok := r.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.err = fmt.Errorf("%s must be a duration (e.g. 30s): %w", key, err)
			return
		}
		*dst = d
	}
}
