package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type StorageBackend string

const (
	StorageBackendLocal StorageBackend = "local"
	StorageBackendS3    StorageBackend = "s3"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Storage
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver   DatabaseDriver
		Path     string // SQLite file path
		DSN      string // PostgreSQL connection string
		LogLevel string // silent, error, warn, info
	}
	UI struct {
		TemplatesPath string // Overrides the embedded templates when set
		StaticPath    string
	}
	Storage struct {
		Backend         StorageBackend
		UploadDir       string
		UploadURLPrefix string
		MaxUploadMB     int64

		S3Bucket          string
		S3Region          string
		S3AccessKeyID     string
		S3SecretAccessKey string
		S3PublicBaseURL   string // e.g. "https://cdn.example.com"; defaults to the bucket URL
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
)

// loadDotEnv populates the process environment from a .env file if present.
// Variables already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}
}

func NewConfig() *Config {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")

	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "./static")

	// Picture storage defaults
	v.SetDefault("storage_backend", string(StorageBackendLocal))
	v.SetDefault("upload_dir", DefaultUploadDir)
	v.SetDefault("upload_url_prefix", DefaultUploadURLPrefix)
	v.SetDefault("max_upload_mb", 10)
	v.SetDefault("aws_s3_bucket", "")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("s3_public_base_url", "")

	// Auth defaults
	v.SetDefault("auth_session_secret", "")       // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")  // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)          // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)     // HTTPS-only cookies
	v.SetDefault("auth_max_login_attempts", 5)    // Max failed attempts
	v.SetDefault("auth_rate_limit_window", "15m") // Window for counting attempts
	v.SetDefault("auth_lockout_duration", "30m")  // Lockout duration

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:     v.GetString("DATABASE_PATH"),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Storage: Storage{
			Backend:           StorageBackend(v.GetString("STORAGE_BACKEND")),
			UploadDir:         v.GetString("UPLOAD_DIR"),
			UploadURLPrefix:   v.GetString("UPLOAD_URL_PREFIX"),
			MaxUploadMB:       v.GetInt64("MAX_UPLOAD_MB"),
			S3Bucket:          v.GetString("AWS_S3_BUCKET"),
			S3Region:          v.GetString("AWS_REGION"),
			S3AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			S3SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			S3PublicBaseURL:   v.GetString("S3_PUBLIC_BASE_URL"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
	}
}

// MaxUploadBytes converts MaxUploadMB to bytes.
func (s Storage) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return s.MaxUploadMB << 20
}
