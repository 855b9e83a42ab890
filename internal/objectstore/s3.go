package objectstore

import (
	"context"
	"errors"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"framegate/internal/services"
)

// S3 adapts the AWS SDK client to the Store surface plus the copy and
// presign operations the ingestion and URL-issuance paths need.
type S3 struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

// S3Option configures the adapter.
type S3Option func(*S3)

// WithPresignExpiry overrides the default one-hour URL lifetime.
func WithPresignExpiry(d time.Duration) S3Option {
	return func(s *S3) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// NewS3 constructs the adapter for a single bucket.
func NewS3(client *s3.Client, bucket string, opts ...S3Option) *S3 {
	adapter := &S3{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		expiry:  time.Hour,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// Bucket returns the bucket this adapter operates on.
func (s *S3) Bucket() string { return s.bucket }

// Exists issues a HEAD request for key. A missing object is (false, nil);
// any other failure is returned for the caller's policy to handle.
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, classify(err, "head", key)
	}
	return true, nil
}

// Get fetches the full object body for key.
func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify(err, "get", key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "object-store", "get", key, err)
	}
	return data, nil
}

// Copy performs a server-side copy within the bucket.
func (s *S3) Copy(ctx context.Context, srcKey, dstKey string) error {
	source := (&url.URL{Path: s.bucket + "/" + srcKey}).EscapedPath()
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(source),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return classify(err, "copy", srcKey)
	}
	return nil
}

// PresignGet signs a GET URL for an existing key.
func (s *S3) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) { o.Expires = s.expiry })
	if err != nil {
		return "", classify(err, "presign-get", key)
	}
	return req.URL, nil
}

// PresignPut signs a PUT URL for key with the given content type.
func (s *S3) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) { o.Expires = s.expiry })
	if err != nil {
		return "", classify(err, "presign-put", key)
	}
	return req.URL, nil
}

// ExpirySeconds returns the configured presign lifetime in whole seconds.
func (s *S3) ExpirySeconds() int {
	return int(s.expiry / time.Second)
}

func isNotFound(err error) bool {
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey" || code == "404"
	}
	return false
}

func classify(err error, operation, key string) error {
	marker := services.ErrTransient
	var apiErr smithy.APIError
	switch {
	case isNotFound(err):
		marker = services.ErrNotFound
	case errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDenied":
		marker = services.ErrAccessDenied
	}
	return services.Wrap(marker, "object-store", operation, key, err)
}
