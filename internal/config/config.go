// Package config holds process configuration loaded once at startup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BlobBackendDisk = "disk"
	BlobBackendS3   = "s3"
)

// Config is centralized process configuration.
// Values are read from the environment once and passed by value into builders.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Port     string `env:"PORT" envDefault:"8080"`

	AdminPassword     string `env:"ADMIN_PASSWORD"`
	RequireSession    bool   `env:"REQUIRE_SESSION" envDefault:"false"`
	SessionSigningKey string `env:"SESSION_SIGNING_KEY"`

	BlobBackend       string `env:"BLOB_BACKEND" envDefault:"disk"`
	BlobDir           string `env:"BLOB_DIR" envDefault:"storage"`
	BlobPublicBaseURL string `env:"BLOB_PUBLIC_BASE_URL" envDefault:"/blobs"`
	S3Bucket          string `env:"S3_BUCKET"`
	AWSRegion         string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`

	ImageDir       string        `env:"IMAGE_DIR" envDefault:"public/images"`
	LedgerPath     string        `env:"LEDGER_PATH" envDefault:"brandcheck.db"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`
	TLSSelfSigned  bool          `env:"TLS_SELF_SIGNED" envDefault:"false"`
	DraftTTL       time.Duration `env:"DRAFT_TTL" envDefault:"2h"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch strings.ToLower(c.BlobBackend) {
	case BlobBackendDisk:
		if strings.TrimSpace(c.BlobDir) == "" {
			return fmt.Errorf("BLOB_DIR is required for the disk blob backend")
		}
	case BlobBackendS3:
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 blob backend")
		}
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q", c.BlobBackend)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// Addr returns the HTTP listen address for Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
