package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App        AppConfig      `toml:"app"`
	Database   DatabaseConfig `toml:"database"`
	JWT        JWTConfig      `toml:"jwt"`
	Redis      RedisConfig    `toml:"redis"`
	Migrations string         `toml:"migrations_dir"`
}

type AppConfig struct {
	AppName     string `toml:"name"`
	Environment string `toml:"env"`
	HTTPPort    string `toml:"http_port"`
	LogLevel    string `toml:"log_level"`
}

type DatabaseConfig struct {
	DBHost     string `toml:"host"`
	DBPort     string `toml:"port"`
	DBName     string `toml:"name"`
	DBUser     string `toml:"user"`
	DBPassword string `toml:"password"`
	DBSSLMode  string `toml:"ssl_mode"`

	ConnectTimeout        time.Duration `toml:"-"`
	PoolMaxConns          int32         `toml:"pool_max_conns"`
	PoolMinConns          int32         `toml:"pool_min_conns"`
	PoolMaxConnLifetime   time.Duration `toml:"-"`
	PoolMaxConnIdleTime   time.Duration `toml:"-"`
	PoolHealthCheckPeriod time.Duration `toml:"-"`
}

type JWTConfig struct {
	AccessSecret    string        `toml:"access_secret"`
	AccessExpiresIn time.Duration `toml:"-"`
}

type RedisConfig struct {
	Host     string        `toml:"host"`
	Port     string        `toml:"port"`
	Password string        `toml:"password"`
	DB       int           `toml:"db"`
	TTL      time.Duration `toml:"-"`
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load builds the configuration from an optional TOML file named by CONFIG_FILE
// and the environment. Environment values win over file values.
func Load() (Config, error) {
	cfg := Config{}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	var missing []string
	req := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			v = fallback
		}
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME", cfg.App.AppName),
		Environment: req("APP_ENV", cfg.App.Environment),
		HTTPPort:    req("HTTP_PORT", cfg.App.HTTPPort),
		LogLevel:    opt("LOG_LEVEL", defaultString(cfg.App.LogLevel, "info")),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", cfg.Database.DBHost),
		DBPort:     opt("DB_PORT", cfg.Database.DBPort),
		DBName:     opt("DB_NAME", cfg.Database.DBName),
		DBUser:     opt("DB_USER", cfg.Database.DBUser),
		DBPassword: opt("DB_PASSWORD", cfg.Database.DBPassword),
		DBSSLMode:  opt("DB_SSL_MODE", defaultString(cfg.Database.DBSSLMode, "disable")),

		ConnectTimeout:        durationSeconds(opt("DB_CONNECT_TIMEOUT", ""), 5*time.Second),
		PoolMaxConns:          int32(intOr(opt("DB_POOL_MAX_CONNS", ""), int(cfg.Database.PoolMaxConns))),
		PoolMinConns:          int32(intOr(opt("DB_POOL_MIN_CONNS", ""), int(cfg.Database.PoolMinConns))),
		PoolMaxConnLifetime:   durationSeconds(opt("DB_POOL_MAX_CONN_LIFETIME", ""), 0),
		PoolMaxConnIdleTime:   durationSeconds(opt("DB_POOL_MAX_CONN_IDLE_TIME", ""), 0),
		PoolHealthCheckPeriod: durationSeconds(opt("DB_POOL_HEALTH_CHECK_PERIOD", ""), 0),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    req("JWT_ACCESS_SECRET", cfg.JWT.AccessSecret),
		AccessExpiresIn: durationSeconds(opt("JWT_ACCESS_EXPIRES_IN", ""), 8*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", defaultString(cfg.Redis.Host, "localhost")),
		Port:     opt("REDIS_PORT", defaultString(cfg.Redis.Port, "6379")),
		Password: opt("REDIS_PASSWORD", cfg.Redis.Password),
		DB:       intOr(opt("REDIS_DB", ""), cfg.Redis.DB),
		TTL:      durationSeconds(opt("REDIS_TTL", ""), 600*time.Second),
	}

	// Empty means the schema embedded in the binary.
	cfg.Migrations = opt("MIGRATIONS_DIR", cfg.Migrations)

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func intOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func durationSeconds(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return time.Duration(v) * time.Second
}
