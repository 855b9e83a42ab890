package objectstore

import "context"

// Store is the blob access surface consumed by the probe and the resolver's
// fallback path.
type Store interface {
	// Exists reports whether the key currently resolves to an object.
	Exists(ctx context.Context, key string) (bool, error)
	// Get returns the full object body for key.
	Get(ctx context.Context, key string) ([]byte, error)
}

// PresignedUpload describes a signed PUT URL plus the request shape the
// client must use with it.
type PresignedUpload struct {
	URL         string
	Key         string
	Bucket      string
	UploadID    string
	Method      string
	ContentType string
	ExpiresIn   int
}

// PresignedDownload describes a signed GET URL for an existing object.
type PresignedDownload struct {
	URL       string
	Key       string
	Bucket    string
	Method    string
	ExpiresIn int
}
