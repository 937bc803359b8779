package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Blob storage drivers
const (
	DriverFS    = "fs"
	DriverS3    = "s3"
	DriverMinio = "minio"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int    `yaml:"port" env:"PORT"`
	Host           string `yaml:"host" env:"HOST"`
	PublicURL      string `yaml:"public_url" env:"PUBLIC_URL"` // base for returned image URLs
	AssetsDir      string `yaml:"assets_dir" env:"ASSETS_DIR"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string `yaml:"url" env:"DATABASE"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string        `yaml:"secret" env:"ACCESS_TOKEN_SECRET"`
	TTL    time.Duration `yaml:"ttl" env:"TOKEN_TTL"`
}

// StorageConfig selects and configures the image blob store
type StorageConfig struct {
	Driver string      `yaml:"driver" env:"BLOB_DRIVER"`
	Dir    string      `yaml:"dir" env:"UPLOAD_DIR"`
	S3     S3Config    `yaml:"s3" envPrefix:"S3_"`
	Minio  MinioConfig `yaml:"minio" envPrefix:"MINIO_"`
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region    string `yaml:"region" env:"REGION"`
	Bucket    string `yaml:"bucket" env:"BUCKET"`
	AccessKey string `yaml:"access_key" env:"ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"SECRET_KEY"`
	Endpoint  string `yaml:"endpoint" env:"ENDPOINT"` // custom endpoint for S3-compatible hosts
}

// MinioConfig holds MinIO configuration
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint" env:"ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"BUCKET"`
	UseSSL    bool   `yaml:"use_ssl" env:"USE_SSL"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// Default returns the configuration used when neither file nor environment set a value
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           3000,
			PublicURL:      "http://localhost:3000",
			AssetsDir:      "./assets",
			MaxUploadBytes: 10 << 20,
		},
		JWT: JWTConfig{
			TTL: 72 * time.Hour,
		},
		Storage: StorageConfig{
			Driver: DriverFS,
			Dir:    "./uploads",
			S3:     S3Config{Region: "us-east-1"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from an optional YAML file and then from the environment.
// A missing file is not an error; environment variables always win.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the settings required to start are present
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database url is required (DATABASE)")
	}
	if c.JWT.Secret == "" {
		return errors.New("token secret is required (ACCESS_TOKEN_SECRET)")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.JWT.TTL)
	}

	switch c.Storage.Driver {
	case DriverFS:
		if c.Storage.Dir == "" {
			return errors.New("upload dir is required for fs storage")
		}
	case DriverS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("s3 bucket is required for s3 storage")
		}
	case DriverMinio:
		if c.Storage.Minio.Endpoint == "" || c.Storage.Minio.Bucket == "" {
			return errors.New("minio endpoint and bucket are required for minio storage")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
