package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	petss3 "github.com/Apurer/petguard-api/internal/domains/pets/adapters/storage/s3"
	platformredis "github.com/Apurer/petguard-api/internal/platform/redis"
)

const (
	defaultSessionTTLHours           = 24
	defaultPhotoMaxBytes             = 1 << 20
	defaultIdempotencyRetentionHours = 24 * 7
)

// Config carries environment-driven settings shared by the API, the worker, and the purger.
type Config struct {
	Port                       string
	PostgresDSN                string
	TemporalAddress            string
	TemporalNamespace          string
	TemporalDisabled           bool
	SessionPurgeIntervalMinute int
	SessionTTL                 time.Duration
	IdempotencyRetention       time.Duration
	PhotoMaxBytes              int64
	// S3 is used for photos when S3.Bucket is set; otherwise photos stay in memory.
	S3 petss3.Config
	// Redis holds sessions when Redis.Addr is set.
	Redis platformredis.Config
}

// LoadDotEnv loads variables from the given files, or .env by default, without
// overriding the process environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		S3: petss3.Config{
			Region:        envDefault("S3_REGION", "us-east-1"),
			Bucket:        strings.TrimSpace(os.Getenv("S3_BUCKET")),
			AccessKey:     strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
			SecretKey:     strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
			Endpoint:      strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			UseSSL:        true,
			PublicBaseURL: strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
		},
		Redis: platformredis.Config{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}
	var err error
	if cfg.SessionPurgeIntervalMinute, err = positiveInt("SESSION_PURGE_INTERVAL_MINUTES", 0); err != nil {
		return Config{}, err
	}
	hours, err := positiveInt("SESSION_TTL_HOURS", defaultSessionTTLHours)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour
	if hours, err = positiveInt("IDEMPOTENCY_RETENTION_HOURS", defaultIdempotencyRetentionHours); err != nil {
		return Config{}, err
	}
	cfg.IdempotencyRetention = time.Duration(hours) * time.Hour
	maxBytes, err := positiveInt("PHOTO_MAX_BYTES", defaultPhotoMaxBytes)
	if err != nil {
		return Config{}, err
	}
	cfg.PhotoMaxBytes = int64(maxBytes)
	cfg.S3.MaxBytes = cfg.PhotoMaxBytes
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return Config{}, fmt.Errorf("REDIS_DB must be a non-negative integer")
		}
		cfg.Redis.DB = db
	}
	if raw := strings.TrimSpace(os.Getenv("S3_USE_SSL")); raw != "" {
		cfg.S3.UseSSL = isTruthy(raw)
	}
	return cfg, nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
