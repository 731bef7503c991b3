package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Admin      AdminConfig
	Moderation ModerationConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// AdminConfig seeds the administrator account at boot.
type AdminConfig struct {
	Email    string
	Password string
}

// ModerationConfig holds the moderation subsystem knobs.
type ModerationConfig struct {
	// WarningThreshold is the warning count at which the admin UI
	// shows "threshold reached". Crossing it never auto-suspends.
	WarningThreshold int
	// RetentionDays is how long deleted-account violation history is
	// kept before the sweeper scrubs it.
	RetentionDays int
	// SweepInterval is how often the retention sweeper runs.
	SweepInterval time.Duration
	// SweepChunkSize bounds how many archive entries one sweep pass
	// processes per batch.
	SweepChunkSize int
}

// RetentionWindow returns the retention period as a duration.
func (m ModerationConfig) RetentionWindow() time.Duration {
	return time.Duration(m.RetentionDays) * 24 * time.Hour
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "root:@tcp(localhost:3306)/breezi?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "breezi",
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@breezi.app"),
			Password: getEnv("ADMIN_PASSWORD", "admin123456"),
		},
		Moderation: ModerationConfig{
			WarningThreshold: getEnvInt("WARNING_THRESHOLD", 5),
			RetentionDays:    getEnvInt("RETENTION_DAYS", 365),
			SweepInterval:    24 * time.Hour,
			SweepChunkSize:   getEnvInt("SWEEP_CHUNK_SIZE", 100),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
