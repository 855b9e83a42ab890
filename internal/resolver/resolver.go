package resolver

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"framegate/internal/dicom"
	"framegate/internal/logging"
	"framegate/internal/services"
	"framegate/internal/sniff"
	"framegate/internal/transcode"
)

// Source identifies which backend produced the resolved frame bytes.
const (
	SourceMetadataStore = "metadata-store"
	SourceObjectStore   = "object-store"
)

// MetadataStore is the slice of the HealthImaging client the resolver needs.
type MetadataStore interface {
	Metadata(ctx context.Context, imageSetID string) ([]byte, error)
	Frame(ctx context.Context, imageSetID, frameID string) ([]byte, error)
}

// Locator maps a logical identifier onto a stored object key.
type Locator interface {
	Locate(ctx context.Context, id string) (string, error)
}

// BlobStore fetches raw object bytes by key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// ResolvedFrame is the outcome of a resolution: the frame bytes plus the
// display attributes a viewer needs to render them. FrameID and the pixel
// attributes are only meaningful on the metadata path; fallback frames carry
// the raw stored object with its encoding unidentified.
type ResolvedFrame struct {
	Source        string
	ImageSetID    string
	FrameID       string
	Key           string
	Width         int
	Height        int
	BitsAllocated int
	Photometric   string
	Format        sniff.Format
	Data          []byte
}

// Options bounds the upstream calls a single resolution may make.
type Options struct {
	MetadataTimeout time.Duration
	FrameTimeout    time.Duration
}

// Resolver resolves image set identifiers to frame bytes.
type Resolver struct {
	metadata   MetadataStore
	locator    Locator
	objects    BlobStore
	transcoder *transcode.Transcoder
	opts       Options
	logger     *slog.Logger
}

// New constructs a Resolver. A nil metadata store skips the metadata path
// entirely and every request resolves through the object store.
func New(metadata MetadataStore, locator Locator, objects BlobStore, transcoder *transcode.Transcoder, opts Options, logger *slog.Logger) *Resolver {
	if opts.MetadataTimeout <= 0 {
		opts.MetadataTimeout = 30 * time.Second
	}
	if opts.FrameTimeout <= 0 {
		opts.FrameTimeout = 60 * time.Second
	}
	return &Resolver{
		metadata:   metadata,
		locator:    locator,
		objects:    objects,
		transcoder: transcoder,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve produces frame bytes for an image set identifier.
//
// The metadata path runs first: fetch the image set metadata, select the
// first frame, fetch its pixel data, then sniff and transcode. Any failure
// on that path demotes the request to the object-store fallback, with one
// exception: an access denial is terminal, because the same credentials
// would be refused by the fallback too. The fallback probes the candidate
// object keys and returns the stored bytes verbatim.
func (r *Resolver) Resolve(ctx context.Context, imageSetID string) (*ResolvedFrame, error) {
	imageSetID = strings.TrimSpace(imageSetID)
	if imageSetID == "" {
		return nil, services.Wrap(services.ErrValidation, "resolver", "resolve", "image set identifier is required", nil)
	}
	ctx = services.WithImageSetID(ctx, imageSetID)

	if r.metadata != nil {
		frame, err := r.resolveFromMetadata(ctx, imageSetID)
		if err == nil {
			return frame, nil
		}
		if !services.Fallbackable(err) {
			return nil, err
		}
		logging.WithContext(ctx, r.logger).Info("metadata path failed, falling back to object store",
			logging.Error(err))
	}

	return r.resolveFromObjectStore(ctx, imageSetID)
}

func (r *Resolver) resolveFromMetadata(ctx context.Context, imageSetID string) (*ResolvedFrame, error) {
	metaCtx, cancel := context.WithTimeout(ctx, r.opts.MetadataTimeout)
	blob, err := r.metadata.Metadata(metaCtx, imageSetID)
	cancel()
	if err != nil {
		return nil, err
	}

	study, err := dicom.Parse(blob)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "resolver", "parse-metadata", "metadata unusable for "+imageSetID, err)
	}

	selection, err := dicom.FirstFrame(study)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "resolver", "select-frame", "no frames in image set "+imageSetID, err)
	}

	frameCtx, cancel := context.WithTimeout(ctx, r.opts.FrameTimeout)
	data, err := r.metadata.Frame(frameCtx, imageSetID, selection.FrameID)
	cancel()
	if err != nil {
		return nil, err
	}

	format := sniff.Sniff(data)
	data, format = r.transcoder.Transcode(ctx, data, format)

	logging.WithContext(ctx, r.logger).Debug("resolved frame from metadata store",
		logging.String(logging.FieldFrameID, selection.FrameID),
		logging.String(logging.FieldFormat, format.String()))

	return &ResolvedFrame{
		Source:        SourceMetadataStore,
		ImageSetID:    imageSetID,
		FrameID:       selection.FrameID,
		Width:         selection.Width,
		Height:        selection.Height,
		BitsAllocated: selection.BitsAllocated,
		Photometric:   selection.PhotometricInterpretation,
		Format:        format,
		Data:          data,
	}, nil
}

func (r *Resolver) resolveFromObjectStore(ctx context.Context, imageSetID string) (*ResolvedFrame, error) {
	frameCtx, cancel := context.WithTimeout(ctx, r.opts.FrameTimeout)
	defer cancel()

	key, err := r.locator.Locate(frameCtx, imageSetID)
	if err != nil {
		return nil, err
	}
	data, err := r.objects.Get(frameCtx, key)
	if err != nil {
		return nil, err
	}

	logging.WithContext(ctx, r.logger).Debug("resolved frame from object store",
		logging.String(logging.FieldKey, key))

	// Stored objects are whole DICOM files, not extracted pixel data, so the
	// encoding is reported as unknown and the bytes pass through untouched.
	return &ResolvedFrame{
		Source:        SourceObjectStore,
		ImageSetID:    imageSetID,
		Key:           key,
		Width:         dicom.DefaultColumns,
		Height:        dicom.DefaultRows,
		BitsAllocated: dicom.DefaultBitsAllocated,
		Photometric:   dicom.DefaultPhotometric,
		Format:        sniff.Unknown,
		Data:          data,
	}, nil
}
