package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeDatastore()
	c.normalizeObjectStore()
	c.normalizeServer()
	c.normalizeTranscode()
	if err := c.normalizeIngest(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeTimeouts()
	return nil
}

func (c *Config) normalizeDatastore() {
	c.Datastore.Region = strings.TrimSpace(c.Datastore.Region)
	if c.Datastore.Region == "" {
		if value, ok := os.LookupEnv("AWS_REGION"); ok {
			c.Datastore.Region = strings.TrimSpace(value)
		}
	}
	c.Datastore.DatastoreID = strings.TrimSpace(c.Datastore.DatastoreID)
	if c.Datastore.DatastoreID == "" {
		if value, ok := os.LookupEnv("DATASTORE_ID"); ok {
			c.Datastore.DatastoreID = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeObjectStore() {
	c.ObjectStore.Bucket = strings.TrimSpace(c.ObjectStore.Bucket)
	if c.ObjectStore.Bucket == "" {
		if value, ok := os.LookupEnv("S3_BUCKET_NAME"); ok {
			c.ObjectStore.Bucket = strings.TrimSpace(value)
		}
	}
	c.ObjectStore.OutputBucket = strings.TrimSpace(c.ObjectStore.OutputBucket)
	if c.ObjectStore.OutputBucket == "" {
		c.ObjectStore.OutputBucket = c.ObjectStore.Bucket
	}
	c.ObjectStore.ImportRoleARN = strings.TrimSpace(c.ObjectStore.ImportRoleARN)
	if c.ObjectStore.ImportRoleARN == "" {
		if value, ok := os.LookupEnv("IMPORT_ROLE_ARN"); ok {
			c.ObjectStore.ImportRoleARN = strings.TrimSpace(value)
		}
	}
	if c.ObjectStore.PresignExpirySeconds <= 0 {
		c.ObjectStore.PresignExpirySeconds = defaultPresignExpirySeconds
	}
}

func (c *Config) normalizeServer() {
	c.Server.APIBind = strings.TrimSpace(c.Server.APIBind)
	if c.Server.APIBind == "" {
		c.Server.APIBind = defaultAPIBind
	}
}

func (c *Config) normalizeTranscode() {
	c.Transcode.Binary = strings.TrimSpace(c.Transcode.Binary)
	if c.Transcode.Binary == "" {
		c.Transcode.Binary = defaultTranscodeBinary
	}
	if c.Transcode.TimeoutSeconds <= 0 {
		c.Transcode.TimeoutSeconds = defaultTranscodeTimeout
	}
}

func (c *Config) normalizeIngest() error {
	var err error
	if strings.TrimSpace(c.Ingest.StateDir) == "" {
		c.Ingest.StateDir = defaultStateDir
	}
	if c.Ingest.StateDir, err = expandPath(c.Ingest.StateDir); err != nil {
		return fmt.Errorf("ingest.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeTimeouts() {
	if c.Timeouts.MetadataConnect <= 0 {
		c.Timeouts.MetadataConnect = defaultMetadataConnectTimeout
	}
	if c.Timeouts.MetadataRead <= 0 {
		c.Timeouts.MetadataRead = defaultMetadataReadTimeout
	}
	if c.Timeouts.FrameConnect <= 0 {
		c.Timeouts.FrameConnect = defaultFrameConnectTimeout
	}
	if c.Timeouts.FrameRead <= 0 {
		c.Timeouts.FrameRead = defaultFrameReadTimeout
	}
	if c.Timeouts.RetryMaxAttempts <= 0 {
		c.Timeouts.RetryMaxAttempts = defaultRetryMaxAttempts
	}
}
