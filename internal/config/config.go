// Package config loads the settings of the presign CLI and HTTP service from
// a .env file, the process environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/forestrie/go-presign/signer"
)

// DotEnvFile is loaded from the working directory when present.
const DotEnvFile = ".env"

// Config is the full application configuration.
type Config struct {
	AWS    AWSConfig    `yaml:"aws" json:"aws" toml:"aws"`
	S3     S3Config     `yaml:"s3" json:"s3" toml:"s3"`
	Upload UploadConfig `yaml:"upload" json:"upload" toml:"upload"`
	Server ServerConfig `yaml:"server" json:"server" toml:"server"`
	Log    LogConfig    `yaml:"log" json:"log" toml:"log"`
}

// AWSConfig holds the signing identity.
type AWSConfig struct {
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id" toml:"access_key_id" env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key" toml:"secret_access_key" env:"AWS_SECRET_ACCESS_KEY"`
	SessionToken    string `yaml:"session_token" json:"session_token" toml:"session_token" env:"AWS_SESSION_TOKEN"`
	Region          string `yaml:"region" json:"region" toml:"region" env:"AWS_REGION" env-default:"us-west-2"`
}

// S3Config addresses the bucket URLs are signed for.
type S3Config struct {
	Bucket string `yaml:"bucket" json:"bucket" toml:"bucket" env:"S3_BUCKET_NAME"`

	// Endpoint switches to path-style URLs against an S3-compatible server,
	// for example http://localhost:9000.
	Endpoint string `yaml:"endpoint" json:"endpoint" toml:"endpoint" env:"S3_ENDPOINT"`
	Domain   string `yaml:"domain" json:"domain" toml:"domain" env:"S3_DOMAIN" env-default:"amazonaws.com"`
	Scheme   string `yaml:"scheme" json:"scheme" toml:"scheme" env:"S3_SCHEME" env-default:"https"`
}

// UploadConfig holds the upload guardrails of the HTTP API.
type UploadConfig struct {
	// DefaultExpiresIn is the URL lifetime in seconds when a caller gives none.
	DefaultExpiresIn int `yaml:"default_expires_in" json:"default_expires_in" toml:"default_expires_in" env:"DEFAULT_EXPIRES_IN" env-default:"3600"`

	Prefix            string   `yaml:"prefix" json:"prefix" toml:"prefix" env:"UPLOAD_PREFIX" env-default:"uploads/"`
	MaxFileSizeMB     int64    `yaml:"max_file_size_mb" json:"max_file_size_mb" toml:"max_file_size_mb" env:"MAX_FILE_SIZE_MB" env-default:"100"`
	AllowedExtensions []string `yaml:"allowed_extensions" json:"allowed_extensions" toml:"allowed_extensions" env:"ALLOWED_EXTENSIONS" env-separator:","`
}

// ServerConfig configures the HTTP presign service.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr" toml:"addr" env:"LISTEN_ADDR" env-default:":8080"`
}

// LogConfig selects the logrus level and formatter ("text" or "json").
type LogConfig struct {
	Level  string `yaml:"level" json:"level" toml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" json:"format" toml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Load reads configuration with the following precedence: process
// environment, then DotEnvFile, then the file at path, then defaults.
// An empty path skips the file; a missing .env is not an error.
func Load(path string) (*Config, error) {
	return LoadFiles(path, DotEnvFile)
}

// LoadFiles is Load with explicit .env files.
func LoadFiles(path string, dotenv ...string) (*Config, error) {
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read environment: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once. Credentials are required
// because every command signs or verifies with them.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.AWS.AccessKeyID == "" {
		result = multierror.Append(result, errors.New("AWS_ACCESS_KEY_ID is required"))
	}
	if c.AWS.SecretAccessKey == "" {
		result = multierror.Append(result, errors.New("AWS_SECRET_ACCESS_KEY is required"))
	}
	if c.AWS.Region == "" {
		result = multierror.Append(result, errors.New("AWS_REGION is required"))
	}
	if c.S3.Bucket == "" {
		result = multierror.Append(result, errors.New("S3_BUCKET_NAME is required"))
	}
	switch strings.ToLower(c.S3.Scheme) {
	case "http", "https":
	default:
		result = multierror.Append(result, fmt.Errorf("S3_SCHEME %q must be http or https", c.S3.Scheme))
	}
	if c.Upload.DefaultExpiresIn < 1 || c.Upload.DefaultExpiresIn > signer.MaxExpires {
		result = multierror.Append(result, fmt.Errorf("DEFAULT_EXPIRES_IN %d must be between 1 and %d", c.Upload.DefaultExpiresIn, signer.MaxExpires))
	}
	if c.Upload.MaxFileSizeMB < 0 {
		result = multierror.Append(result, fmt.Errorf("MAX_FILE_SIZE_MB %d must not be negative", c.Upload.MaxFileSizeMB))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("LOG_FORMAT %q must be text or json", c.Log.Format))
	}

	return result.ErrorOrNil()
}

// Credentials returns the signing credentials.
func (c *Config) Credentials() signer.Credentials {
	return signer.Credentials{
		AccessKeyID:     c.AWS.AccessKeyID,
		SecretAccessKey: c.AWS.SecretAccessKey,
		SessionToken:    c.AWS.SessionToken,
	}
}

// Presigner builds a signer.Presigner for the configured storage endpoint.
func (c *Config) Presigner(opts ...signer.Option) *signer.Presigner {
	base := []signer.Option{
		signer.WithDomain(c.S3.Domain),
		signer.WithScheme(c.S3.Scheme),
	}
	if c.S3.Endpoint != "" {
		base = append(base, signer.WithEndpoint(c.S3.Endpoint))
	}
	return signer.NewPresigner(append(base, opts...)...)
}

// LogFields describes the configuration without secrets.
func (c *Config) LogFields() logrus.Fields {
	return logrus.Fields{
		"access_key_id": c.AWS.AccessKeyID,
		"region":        c.AWS.Region,
		"bucket":        c.S3.Bucket,
		"endpoint":      c.S3.Endpoint,
		"session_token": c.AWS.SessionToken != "",
	}
}

// DefaultExpires is the validity window used when a request names none.
func (u UploadConfig) DefaultExpires() time.Duration {
	return time.Duration(u.DefaultExpiresIn) * time.Second
}

// MaxFileSize is the upload size limit in bytes; 0 means unlimited.
func (u UploadConfig) MaxFileSize() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// ExtensionAllowed reports whether name carries one of AllowedExtensions,
// compared case-insensitively. An empty list allows every name.
func (u UploadConfig) ExtensionAllowed(name string) bool {
	if len(u.AllowedExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range u.AllowedExtensions {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed == "" {
			continue
		}
		if !strings.HasPrefix(allowed, ".") {
			allowed = "." + allowed
		}
		if ext == allowed {
			return true
		}
	}
	return false
}
