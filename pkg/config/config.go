// Package config loads the webdesk configuration from a YAML file with
// WEBDESK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"webdesk/pkg/logging"
)

// Config is the complete configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Manifest ManifestConfig `yaml:"manifest"`
	Desktop  DesktopConfig  `yaml:"desktop"`
	KV       KVConfig       `yaml:"kv"`
	Logging  logging.Config `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	StaticDir       string        `yaml:"static_dir"`
	TLSCertFile     string        `yaml:"tls_cert_file"`
	TLSKeyFile      string        `yaml:"tls_key_file"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TLSEnabled reports whether both TLS files are configured.
func (c ServerConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// ManifestConfig says where the filesystem manifest comes from.
type ManifestConfig struct {
	// Source is one of "file", "http" or "s3".
	Source  string        `yaml:"source"`
	Path    string        `yaml:"path"`
	URL     string        `yaml:"url"`
	Watch   bool          `yaml:"watch"`
	Timeout time.Duration `yaml:"timeout"`
	S3      S3Config      `yaml:"s3"`
}

// S3Config locates a manifest object.
type S3Config struct {
	Endpoint     string `yaml:"endpoint"`
	Bucket       string `yaml:"bucket"`
	Key          string `yaml:"key"`
	Region       string `yaml:"region"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// DesktopConfig holds per-desktop defaults.
type DesktopConfig struct {
	ViewportWidth  int  `yaml:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height"`
	MaxDesktops    int  `yaml:"max_desktops"`
	SkipBoot       bool `yaml:"skip_boot"`
}

// KVConfig selects the snapshot store.
type KVConfig struct {
	// Driver is one of "memory", "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Valid option values.
var (
	ManifestSources = []string{"file", "http", "s3"}
	KVDrivers       = []string{"memory", "sqlite", "postgres"}
	LogFormats      = []string{"json", "console"}
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			StaticDir:       "./web",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Manifest: ManifestConfig{
			Source:  "file",
			Path:    "./web/filesystem-manifest.json",
			Timeout: 10 * time.Second,
			S3: S3Config{
				Key:    "filesystem-manifest.json",
				Region: "us-east-1",
			},
		},
		Desktop: DesktopConfig{
			ViewportWidth:  1440,
			ViewportHeight: 900,
			MaxDesktops:    1000,
		},
		KV: KVConfig{
			Driver: "memory",
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file yields the defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.Server.Addr = envOr("WEBDESK_ADDR", c.Server.Addr)
	c.Server.StaticDir = envOr("WEBDESK_STATIC_DIR", c.Server.StaticDir)
	c.Server.TLSCertFile = envOr("WEBDESK_TLS_CERT_FILE", c.Server.TLSCertFile)
	c.Server.TLSKeyFile = envOr("WEBDESK_TLS_KEY_FILE", c.Server.TLSKeyFile)
	c.Server.ShutdownTimeout = envDuration("WEBDESK_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Manifest.Source = envOr("WEBDESK_MANIFEST_SOURCE", c.Manifest.Source)
	c.Manifest.Path = envOr("WEBDESK_MANIFEST_PATH", c.Manifest.Path)
	c.Manifest.URL = envOr("WEBDESK_MANIFEST_URL", c.Manifest.URL)
	c.Manifest.Watch = envBool("WEBDESK_MANIFEST_WATCH", c.Manifest.Watch)
	c.Manifest.S3.Endpoint = envOr("WEBDESK_S3_ENDPOINT", c.Manifest.S3.Endpoint)
	c.Manifest.S3.Bucket = envOr("WEBDESK_S3_BUCKET", c.Manifest.S3.Bucket)
	c.Manifest.S3.Key = envOr("WEBDESK_S3_KEY", c.Manifest.S3.Key)
	c.Manifest.S3.Region = envOr("WEBDESK_S3_REGION", c.Manifest.S3.Region)
	c.Manifest.S3.AccessKey = envOr("WEBDESK_S3_ACCESS_KEY", c.Manifest.S3.AccessKey)
	c.Manifest.S3.SecretKey = envOr("WEBDESK_S3_SECRET_KEY", c.Manifest.S3.SecretKey)
	c.Manifest.S3.UsePathStyle = envBool("WEBDESK_S3_USE_PATH_STYLE", c.Manifest.S3.UsePathStyle)

	c.Desktop.MaxDesktops = envInt("WEBDESK_MAX_DESKTOPS", c.Desktop.MaxDesktops)
	c.Desktop.SkipBoot = envBool("WEBDESK_SKIP_BOOT", c.Desktop.SkipBoot)

	c.KV.Driver = envOr("WEBDESK_KV_DRIVER", c.KV.Driver)
	c.KV.DSN = envOr("WEBDESK_KV_DSN", c.KV.DSN)

	c.Logging.Level = envOr("WEBDESK_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = envOr("WEBDESK_LOG_FORMAT", c.Logging.Format)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return errors.New("server.tls_cert_file and server.tls_key_file must be set together")
	}

	if !slices.Contains(ManifestSources, c.Manifest.Source) {
		return fmt.Errorf("invalid manifest.source: %q (valid: %v)", c.Manifest.Source, ManifestSources)
	}
	switch c.Manifest.Source {
	case "file":
		if c.Manifest.Path == "" {
			return errors.New("manifest.path is required for the file source")
		}
	case "http":
		if c.Manifest.URL == "" {
			return errors.New("manifest.url is required for the http source")
		}
	case "s3":
		if c.Manifest.S3.Bucket == "" || c.Manifest.S3.Key == "" {
			return errors.New("manifest.s3.bucket and manifest.s3.key are required for the s3 source")
		}
	}
	if c.Manifest.Watch && c.Manifest.Source != "file" {
		return errors.New("manifest.watch is only supported for the file source")
	}

	if c.Desktop.ViewportWidth <= 0 || c.Desktop.ViewportHeight <= 0 {
		return errors.New("desktop viewport must be positive")
	}
	if c.Desktop.MaxDesktops < 0 {
		return errors.New("desktop.max_desktops must not be negative")
	}

	if !slices.Contains(KVDrivers, c.KV.Driver) {
		return fmt.Errorf("invalid kv.driver: %q (valid: %v)", c.KV.Driver, KVDrivers)
	}
	if c.KV.Driver != "memory" && c.KV.DSN == "" {
		return fmt.Errorf("kv.dsn is required for the %s driver", c.KV.Driver)
	}

	if c.Logging.Format != "" && !slices.Contains(LogFormats, c.Logging.Format) {
		return fmt.Errorf("invalid logging.format: %q (valid: %v)", c.Logging.Format, LogFormats)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
