package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Attendance AttendanceConfig `yaml:"attendance"`
	Auth       AuthConfig       `yaml:"auth"`
	Uploads    UploadsConfig    `yaml:"uploads"`
	Audit      AuditConfig      `yaml:"audit"`
	Reports    ReportsConfig    `yaml:"reports"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "postgres" or "sqlite"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
}

// AttendanceConfig controls the session trackers.
type AttendanceConfig struct {
	Timezone string `yaml:"timezone"`
	// AllowReentry permits several enter/exit cycles for one worker on the same day.
	AllowReentry *bool          `yaml:"allow_reentry"`
	Location     *time.Location `yaml:"-"`
}

// ReentryAllowed reports the effective re-entry policy.
func (a AttendanceConfig) ReentryAllowed() bool {
	return a.AllowReentry == nil || *a.AllowReentry
}

// AuthConfig holds token settings.
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	Required        bool   `yaml:"required"`

	// AdminRole may manage users and roles.
	AdminRole string `yaml:"admin_role"`
}

// TokenTTL returns the lifetime of issued tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// UploadsConfig holds document storage settings.
type UploadsConfig struct {
	Dir      string `yaml:"dir"`
	MaxBytes int64  `yaml:"max_bytes"`
}

// AuditConfig holds the configuration for the audit worker pool.
type AuditConfig struct {
	WorkerPoolSize int `yaml:"worker_pool_size"`
	QueueSize      int `yaml:"queue_size"`
}

// ReportsConfig holds PDF report settings.
type ReportsConfig struct {
	Company string `yaml:"company"`
}

// Load reads the configuration from the given path. A .env file in the working
// directory is loaded first so that DATABASE_DSN, JWT_SECRET and PORT can override
// the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied and an in-memory
// SQLite database. It is used by tests and by the CLI when no file exists.
func Default() *Config {
	cfg := &Config{Database: DatabaseConfig{Driver: "sqlite", DSN: "file::memory:?cache=shared"}}
	if err := cfg.applyDefaults(); err != nil {
		// UTC always loads.
		panic(err)
	}
	return cfg
}

func (cfg *Config) applyDefaults() error {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		} else {
			log.Printf("ignoring invalid PORT %q: %v", v, err)
		}
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Attendance.Timezone == "" {
		cfg.Attendance.Timezone = "America/Lima"
	}
	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		log.Printf("attendance.timezone %q could not be loaded (%v); falling back to UTC", cfg.Attendance.Timezone, err)
		loc, err = time.LoadLocation("UTC")
		if err != nil {
			return err
		}
	}
	cfg.Attendance.Location = loc

	if cfg.Auth.JWTSecret == "" {
		log.Printf("auth.jwt_secret is not set; using an insecure development secret")
		cfg.Auth.JWTSecret = "dev-secret"
	}
	if cfg.Auth.TokenTTLMinutes <= 0 {
		cfg.Auth.TokenTTLMinutes = 12 * 60
	}
	if cfg.Auth.AdminRole == "" {
		cfg.Auth.AdminRole = "Administrador"
	}

	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = "uploads/documents"
	}
	if cfg.Uploads.MaxBytes <= 0 {
		cfg.Uploads.MaxBytes = 5 << 20
	}

	if cfg.Audit.WorkerPoolSize <= 0 {
		log.Printf("audit.worker_pool_size is not set or invalid; defaulting to 1")
		cfg.Audit.WorkerPoolSize = 1
	}
	if cfg.Audit.QueueSize <= 0 {
		cfg.Audit.QueueSize = 256
	}

	if cfg.Reports.Company == "" {
		cfg.Reports.Company = "MineControl"
	}
	return nil
}
