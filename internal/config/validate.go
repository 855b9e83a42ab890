package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatastore(); err != nil {
		return err
	}
	if err := c.validateObjectStore(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDatastore() error {
	if c.Datastore.DatastoreID == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/framegate/config.toml"
		}
		return fmt.Errorf("datastore.datastore_id is required. Set DATASTORE_ID env var or edit %s (create with 'framegate config init')", defaultPath)
	}
	if c.Datastore.Region == "" {
		return errors.New("datastore.region is required (or set AWS_REGION)")
	}
	return nil
}

func (c *Config) validateObjectStore() error {
	if c.ObjectStore.Bucket == "" {
		return errors.New("objectstore.bucket is required (or set S3_BUCKET_NAME)")
	}
	if c.ObjectStore.PresignExpirySeconds <= 0 {
		return errors.New("objectstore.presign_expiry_seconds must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.APIBind); err != nil {
		return fmt.Errorf("server.api_bind %q is not a valid host:port: %w", c.Server.APIBind, err)
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	for key, value := range map[string]int{
		"timeouts.metadata_connect":   c.Timeouts.MetadataConnect,
		"timeouts.metadata_read":      c.Timeouts.MetadataRead,
		"timeouts.frame_connect":      c.Timeouts.FrameConnect,
		"timeouts.frame_read":         c.Timeouts.FrameRead,
		"timeouts.retry_max_attempts": c.Timeouts.RetryMaxAttempts,
		"transcode.timeout_seconds":   c.Transcode.TimeoutSeconds,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	if strings.TrimSpace(c.Ingest.StateDir) == "" {
		return errors.New("ingest.state_dir must be set")
	}
	return nil
}
