package objectstore

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"framegate/internal/logging"
	"framegate/internal/services"
)

const defaultUploadContentType = "application/dicom"

// Issuer hands out presigned upload and download URLs for the bucket.
// Uploads land under input/ so the ingestion trigger picks them up.
type Issuer struct {
	store  *S3
	logger *slog.Logger
}

// NewIssuer constructs an Issuer over the S3 adapter.
func NewIssuer(store *S3, logger *slog.Logger) *Issuer {
	return &Issuer{
		store:  store,
		logger: logging.NewComponentLogger(logger, "presign"),
	}
}

// Upload signs a PUT URL for a fresh upload key derived from filename. The
// filename is reduced to a safe character set; an empty or fully stripped
// name falls back to a generated one.
func (i *Issuer) Upload(ctx context.Context, filename, contentType string) (*PresignedUpload, error) {
	if contentType == "" {
		contentType = defaultUploadContentType
	}
	safeName := sanitizeFilename(filename)
	if safeName == "" {
		safeName = hexID() + ".dcm"
	}
	uploadID := hexID()
	key := "input/" + uploadID + "-" + safeName

	url, err := i.store.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, err
	}
	i.logger.Info("issued upload url",
		logging.String(logging.FieldKey, key),
		logging.String("content_type", contentType))
	return &PresignedUpload{
		URL:         url,
		Key:         key,
		Bucket:      i.store.Bucket(),
		UploadID:    uploadID,
		Method:      http.MethodPut,
		ContentType: contentType,
		ExpiresIn:   i.store.ExpirySeconds(),
	}, nil
}

// Download signs a GET URL for an existing key, verifying existence first so
// callers get a not-found instead of a signed URL to nothing.
func (i *Issuer) Download(ctx context.Context, key string) (*PresignedDownload, error) {
	if strings.TrimSpace(key) == "" {
		return nil, services.Wrap(services.ErrValidation, "presign", "download", "key parameter is required", nil)
	}
	ok, err := i.store.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "presign", "download", "file not found: "+key, nil)
	}

	url, err := i.store.PresignGet(ctx, key)
	if err != nil {
		return nil, err
	}
	i.logger.Info("issued download url", logging.String(logging.FieldKey, key))
	return &PresignedDownload{
		URL:       url,
		Key:       key,
		Bucket:    i.store.Bucket(),
		Method:    http.MethodGet,
		ExpiresIn: i.store.ExpirySeconds(),
	}, nil
}

// sanitizeFilename keeps alphanumerics plus ".-_" and drops everything else.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
