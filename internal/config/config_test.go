package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8000), cfg.Port)
	assert.Equal(t, DatabaseDriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, StorageBackendLocal, cfg.Storage.Backend)
	assert.Equal(t, DefaultUploadDir, cfg.Storage.UploadDir)
	assert.Equal(t, DefaultUploadURLPrefix, cfg.Storage.UploadURLPrefix)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.True(t, cfg.Auth.SecureCookies)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=localhost dbname=books")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("AWS_S3_BUCKET", "book-pictures")
	t.Setenv("AUTH_SECURE_COOKIES", "false")
	t.Setenv("AUTH_LOCKOUT_DURATION", "5m")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.Port)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "host=localhost dbname=books", cfg.Database.DSN)
	assert.Equal(t, StorageBackendS3, cfg.Storage.Backend)
	assert.Equal(t, "book-pictures", cfg.Storage.S3Bucket)
	assert.False(t, cfg.Auth.SecureCookies)
	assert.Equal(t, 5*time.Minute, cfg.Auth.LockoutDuration)
}

func TestStorage_MaxUploadBytes(t *testing.T) {
	assert.Equal(t, int64(10<<20), Storage{}.MaxUploadBytes())
	assert.Equal(t, int64(2<<20), Storage{MaxUploadMB: 2}.MaxUploadBytes())
}
