// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"testing"

	"framegate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated config seeded with a unique temp state
// directory per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Datastore.Region = "us-east-1"
	cfg.Datastore.DatastoreID = "test-datastore"
	cfg.ObjectStore.Bucket = "test-bucket"
	cfg.ObjectStore.OutputBucket = "test-bucket"
	cfg.Server.APIBind = "127.0.0.1:0"
	cfg.Ingest.StateDir = t.TempDir()

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
