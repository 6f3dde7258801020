package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	CORS       CORSConfig
	Storage    StorageConfig
	S3         S3Config
	Redis      RedisConfig
	Onboarding OnboardingConfig
	Scheduler  SchedulerConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AuthConfig lists the identity tenants whose tokens are accepted.
type AuthConfig struct {
	Tenants []TenantConfig
}

type TenantConfig struct {
	Name     string // vendor, admin
	Issuer   string
	Secret   string
	Audience string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type StorageConfig struct {
	Driver string // s3, memory
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // S3-compatible endpoint (MinIO etc.)
	UsePathStyle    bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type OnboardingConfig struct {
	UploadURLExpiry     time.Duration
	ViewURLExpiry       time.Duration
	MaxFileSize         int64
	AllowedContentTypes []string
	LockBackend         string // local, redis
	LockTTL             time.Duration
}

type SchedulerConfig struct {
	PurgeSchedule      string
	WithdrawnRetention time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "vendor_onboarding"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			Tenants: loadTenants(parseSlice(getEnv("AUTH_TENANTS", "vendor,admin"))),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "s3"),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "af-south-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "vendor-onboarding-documents"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    parseBool(getEnv("AWS_S3_USE_PATH_STYLE", "false")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Onboarding: OnboardingConfig{
			UploadURLExpiry:     parseDuration(getEnv("UPLOAD_URL_EXPIRY", "5m"), 5*time.Minute),
			ViewURLExpiry:       parseDuration(getEnv("VIEW_URL_EXPIRY", "2m"), 2*time.Minute),
			MaxFileSize:         int64(parseInt(getEnv("MAX_DOCUMENT_SIZE_BYTES", "10485760"), 10485760)),
			AllowedContentTypes: parseSlice(getEnv("ALLOWED_DOCUMENT_TYPES", "application/pdf,image/jpeg,image/png,image/webp")),
			LockBackend:         getEnv("SLOT_LOCK_BACKEND", "local"),
			LockTTL:             parseDuration(getEnv("SLOT_LOCK_TTL", "10s"), 10*time.Second),
		},
		Scheduler: SchedulerConfig{
			PurgeSchedule:      getEnv("PURGE_SCHEDULE", "0 3 * * *"),
			WithdrawnRetention: parseDuration(getEnv("WITHDRAWN_RETENTION", "2160h"), 90*24*time.Hour),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// loadTenants reads AUTH_<NAME>_ISSUER, AUTH_<NAME>_SECRET and
// AUTH_<NAME>_AUDIENCE for every configured tenant name.
func loadTenants(names []string) []TenantConfig {
	tenants := make([]TenantConfig, 0, len(names))
	for _, name := range names {
		prefix := "AUTH_" + strings.ToUpper(name) + "_"
		tenants = append(tenants, TenantConfig{
			Name:     name,
			Issuer:   getEnv(prefix+"ISSUER", "https://auth.local/"+name),
			Secret:   getEnv(prefix+"SECRET", ""),
			Audience: getEnv(prefix+"AUDIENCE", ""),
		})
	}
	return tenants
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
