package animals

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrymomot/formkit/pkg/binder"
	"github.com/dmitrymomot/formkit/pkg/httpserver"
	"github.com/dmitrymomot/formkit/pkg/ratelimiter"
	"github.com/dmitrymomot/formkit/pkg/redis"
	"github.com/dmitrymomot/formkit/pkg/storage"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config is the is_animal service configuration, loaded with config.Load.
type Config struct {
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	// MaxBodySize caps a whole request body before any part is decoded.
	MaxBodySize int64 `env:"HTTP_MAX_BODY_SIZE" envDefault:"33554432"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"`
	LocalDir      string `env:"STORAGE_LOCAL_DIR" envDefault:"./data"`
	PublicURL     string `env:"STORAGE_PUBLIC_URL" envDefault:"/files/"`

	S3 S3Config

	// TrustedIPHeaders lists proxy headers carrying the client address,
	// e.g. "CF-Connecting-IP,X-Forwarded-For". Empty means RemoteAddr only.
	TrustedIPHeaders []string `env:"TRUSTED_IP_HEADERS" envSeparator:","`

	// RateLimit applies per client IP to both endpoints. Zero capacity disables it.
	RateLimit ratelimiter.Config
	// Redis, when REDIS_URL is set, shares rate limits between replicas.
	Redis redis.Config

	Server httpserver.Config
	Limits binder.Config
}

type S3Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint       string `env:"S3_ENDPOINT"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// NewStorage builds the storage backend selected by cfg.StorageDriver.
// Extra S3 options are passed through to storage.NewS3Storage.
func NewStorage(ctx context.Context, cfg Config, s3opts ...storage.S3Option) (storage.Storage, error) {
	switch strings.ToLower(cfg.StorageDriver) {
	case "", DriverLocal:
		return storage.NewLocalStorage(cfg.LocalDir, cfg.PublicURL)
	case DriverS3:
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:         cfg.S3.Bucket,
			Region:         cfg.S3.Region,
			Endpoint:       cfg.S3.Endpoint,
			AccessKeyID:    cfg.S3.AccessKeyID,
			SecretKey:      cfg.S3.SecretKey,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		}, s3opts...)
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", storage.ErrInvalidConfig, cfg.StorageDriver)
	}
}
