package ingest

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"framegate/internal/imagestore"
	"framegate/internal/logging"
	"framegate/internal/services"
)

const importPrefix = "ahi-import/"

// dicomExtensions are the source file extensions accepted for import,
// compared case-insensitively.
var dicomExtensions = map[string]struct{}{
	".dcm":   {},
	".dicom": {},
}

// BlobCopier stages objects inside the source bucket.
type BlobCopier interface {
	Copy(ctx context.Context, srcKey, dstKey string) error
	Exists(ctx context.Context, key string) (bool, error)
	Bucket() string
}

// Importer starts and polls metadata store import jobs.
type Importer interface {
	StartImport(ctx context.Context, req imagestore.ImportRequest) (string, error)
	ImportStatus(ctx context.Context, jobID string) (*imagestore.ImportJob, error)
}

// Notifier receives a fire-and-forget signal after an import job has been
// submitted. Downstream processing pipelines hook in here.
type Notifier interface {
	Notify(ctx context.Context, job Job) error
}

// LogNotifier is the default Notifier; it records submissions in the log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logging.NewComponentLogger(logger, "ingest-notify")}
}

func (n *LogNotifier) Notify(_ context.Context, job Job) error {
	n.logger.Info("import job submitted",
		logging.String(logging.FieldJobID, job.JobID),
		logging.String(logging.FieldKey, job.SourceKey))
	return nil
}

// IngestorOption customizes an Ingestor.
type IngestorOption func(*Ingestor)

// WithNotifier replaces the default submission notifier.
func WithNotifier(n Notifier) IngestorOption {
	return func(i *Ingestor) {
		i.notifier = n
	}
}

// Ingestor stages uploaded DICOM objects and submits import jobs.
type Ingestor struct {
	objects      BlobCopier
	importer     Importer
	store        *Store
	outputBucket string
	roleARN      string
	notifier     Notifier
	logger       *slog.Logger
}

// NewIngestor constructs an Ingestor. The store may be nil, in which case
// jobs are submitted without local tracking.
func NewIngestor(objects BlobCopier, importer Importer, store *Store, outputBucket, roleARN string, logger *slog.Logger, opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{
		objects:      objects,
		importer:     importer,
		store:        store,
		outputBucket: outputBucket,
		roleARN:      roleARN,
		notifier:     NewLogNotifier(logger),
		logger:       logging.NewComponentLogger(logger, "ingest"),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Ingest stages the object at sourceKey under a fresh import prefix and
// starts an import job over it. Only DICOM file extensions are accepted.
func (i *Ingestor) Ingest(ctx context.Context, sourceKey string) (*Job, error) {
	sourceKey = strings.TrimSpace(sourceKey)
	if sourceKey == "" {
		return nil, services.Wrap(services.ErrValidation, "ingest", "ingest", "source key is required", nil)
	}
	filename := path.Base(sourceKey)
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := dicomExtensions[ext]; !ok {
		return nil, services.Wrap(services.ErrValidation, "ingest", "ingest",
			"unsupported file extension "+ext+" for "+sourceKey, nil)
	}

	exists, err := i.objects.Exists(ctx, sourceKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, services.Wrap(services.ErrNotFound, "ingest", "ingest", "file not found: "+sourceKey, nil)
	}

	jobName := "import-" + hexID()
	importKey := importPrefix + jobName + "/" + filename
	if err := i.objects.Copy(ctx, sourceKey, importKey); err != nil {
		return nil, err
	}

	jobID, err := i.importer.StartImport(ctx, imagestore.ImportRequest{
		JobName:   jobName,
		InputURI:  "s3://" + i.objects.Bucket() + "/" + importPrefix + jobName + "/",
		OutputURI: "s3://" + i.outputBucket + "/ahi-import-output/" + jobName + "/",
		RoleARN:   i.roleARN,
	})
	if err != nil {
		return nil, err
	}

	job := &Job{
		JobID:     jobID,
		JobName:   jobName,
		SourceKey: sourceKey,
		ImportKey: importKey,
		Status:    "SUBMITTED",
	}
	if i.store != nil {
		if err := i.store.RecordJob(ctx, *job); err != nil {
			i.logger.Warn("job tracking failed",
				logging.String(logging.FieldJobID, jobID),
				logging.Error(err))
		}
	}

	if i.notifier != nil {
		if err := i.notifier.Notify(ctx, *job); err != nil {
			i.logger.Warn("submission notify failed",
				logging.String(logging.FieldJobID, jobID),
				logging.Error(err))
		}
	}

	i.logger.Info("import job started",
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldKey, sourceKey))
	return job, nil
}

// Status polls the metadata store for a job's current state and refreshes
// the local record.
func (i *Ingestor) Status(ctx context.Context, jobID string) (*Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, services.Wrap(services.ErrValidation, "ingest", "status", "job identifier is required", nil)
	}

	remote, err := i.importer.ImportStatus(ctx, jobID)
	if err != nil {
		return nil, err
	}

	job := &Job{
		JobID:   remote.JobID,
		JobName: remote.JobName,
		Status:  remote.Status,
		Message: remote.Message,
	}
	if i.store != nil {
		if tracked, trackErr := i.store.GetJob(ctx, jobID); trackErr == nil && tracked != nil {
			job.SourceKey = tracked.SourceKey
			job.ImportKey = tracked.ImportKey
			job.SubmittedAt = tracked.SubmittedAt
		}
		if err := i.store.UpdateStatus(ctx, jobID, job.Status, job.Message); err != nil {
			i.logger.Warn("job tracking refresh failed",
				logging.String(logging.FieldJobID, jobID),
				logging.Error(err))
		}
	}
	return job, nil
}

// Jobs lists locally tracked jobs, newest first.
func (i *Ingestor) Jobs(ctx context.Context) ([]Job, error) {
	if i.store == nil {
		return nil, nil
	}
	return i.store.ListJobs(ctx)
}

func hexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
