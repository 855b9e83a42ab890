package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Datastore contains the AWS HealthImaging connection settings.
type Datastore struct {
	Region      string `toml:"region"`
	DatastoreID string `toml:"datastore_id"`
}

// ObjectStore contains the S3 bucket configuration for DICOM source files.
type ObjectStore struct {
	Bucket               string `toml:"bucket"`
	OutputBucket         string `toml:"output_bucket"`
	ImportRoleARN        string `toml:"import_role_arn"`
	PresignExpirySeconds int    `toml:"presign_expiry_seconds"`
}

// Server contains the HTTP API bind address.
type Server struct {
	APIBind string `toml:"api_bind"`
}

// Transcode contains configuration for the optional JPEG 2000 decoder.
type Transcode struct {
	Enabled        bool   `toml:"enabled"`
	Binary         string `toml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Ingest contains configuration for import job tracking.
type Ingest struct {
	StateDir string `toml:"state_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Timeouts contains per-call deadlines for upstream AWS requests, in seconds.
type Timeouts struct {
	MetadataConnect  int `toml:"metadata_connect"`
	MetadataRead     int `toml:"metadata_read"`
	FrameConnect     int `toml:"frame_connect"`
	FrameRead        int `toml:"frame_read"`
	RetryMaxAttempts int `toml:"retry_max_attempts"`
}

// Config encapsulates all configuration values for framegate.
//
// Configuration sections by subsystem:
//   - Datastore: AWS HealthImaging region and datastore
//   - ObjectStore: S3 buckets for raw DICOM files and import output
//   - Server: HTTP API bind address
//   - Transcode: optional OpenJPEG decoder for JPEG 2000 frames
//   - Ingest: local import job tracking state
//   - Logging: log format and level
//   - Timeouts: upstream request deadlines and retry budget
type Config struct {
	Datastore   Datastore   `toml:"datastore"`
	ObjectStore ObjectStore `toml:"objectstore"`
	Server      Server      `toml:"server"`
	Transcode   Transcode   `toml:"transcode"`
	Ingest      Ingest      `toml:"ingest"`
	Logging     Logging     `toml:"logging"`
	Timeouts    Timeouts    `toml:"timeouts"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/framegate/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("framegate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Ingest.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Ingest.StateDir, err)
	}
	return nil
}

// TranscodeBinary returns the JPEG 2000 decoder executable name.
func (c *Config) TranscodeBinary() string {
	if strings.TrimSpace(c.Transcode.Binary) == "" {
		return defaultTranscodeBinary
	}
	return c.Transcode.Binary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
