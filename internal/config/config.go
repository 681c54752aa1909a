package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// GeocoderConfig holds settings for the upstream Nominatim client.
type GeocoderConfig struct {
	// Search endpoint, overridable for tests and self-hosted instances.
	BaseURL string `yaml:"base_url"`

	// Descriptive client identifier. Nominatim's usage policy requires a
	// User-Agent that identifies the application; anonymous clients get blocked.
	UserAgent string `yaml:"user_agent"`

	// Env-only (GEOCODER_TIMEOUT_SECONDS); duration strings in YAML decode
	// inconsistently across libraries.
	Timeout time.Duration `yaml:"-"`
	RequestsPerSec float64       `yaml:"requests_per_sec"`
	MaxResults     int           `yaml:"max_results"`
}

// MinioConfig holds settings for export snapshot archiving.
// When Endpoint is empty, archiving is disabled.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Config is the full runtime configuration, loaded from an optional YAML
// file with environment variables taking precedence.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"-"`

	// Origins allowed to call this API from a browser. Anything else gets no
	// CORS headers echoed back.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// bcrypt hash of the admin bearer token protecting the export surface.
	// Empty means the export endpoints are unauthenticated.
	AdminTokenHash string `yaml:"-"`

	KafkaBroker string `yaml:"kafka_broker"`
	KafkaTopic  string `yaml:"kafka_topic"`

	Geocoder GeocoderConfig `yaml:"geocoder"`
	Minio    MinioConfig    `yaml:"minio"`
}

const defaultUserAgent = "dayAndNight/1.0 (+https://github.com/JBLarson/dayAndNight)"

// Load builds the configuration. Order of precedence: defaults, then the YAML
// file named by CONFIG_FILE (default config.yaml, missing file is fine), then
// environment variables.
func Load() Config {
	cfg := Config{
		Port:           "5050",
		AllowedOrigins: []string{"http://localhost:5173"},
		KafkaTopic:     "geo.searches",
		Geocoder: GeocoderConfig{
			BaseURL:        "https://nominatim.openstreetmap.org/search",
			UserAgent:      defaultUserAgent,
			Timeout:        5 * time.Second,
			RequestsPerSec: 1,
			MaxResults:     10,
		},
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("[config] failed to parse %s: %v", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.AdminTokenHash = os.Getenv("ADMIN_TOKEN_HASH")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("KAFKA_BROKER"); v != "" {
		cfg.KafkaBroker = v
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = v
	}
	if v := os.Getenv("NOMINATIM_URL"); v != "" {
		cfg.Geocoder.BaseURL = v
	}
	if v := os.Getenv("GEOCODER_USER_AGENT"); v != "" {
		cfg.Geocoder.UserAgent = v
	}
	if v := os.Getenv("GEOCODER_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Geocoder.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.Minio.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Minio.SecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		cfg.Minio.Bucket = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		cfg.Minio.UseSSL = v == "true"
	}

	return cfg
}

// Validate checks that the configuration can actually run a server.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
