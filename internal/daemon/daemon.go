package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"framegate/internal/config"
	"framegate/internal/deps"
	"framegate/internal/imagestore"
	"framegate/internal/ingest"
	"framegate/internal/logging"
	"framegate/internal/objectstore"
	"framegate/internal/resolver"
)

// FrameResolver resolves image set identifiers to frame bytes.
type FrameResolver interface {
	Resolve(ctx context.Context, imageSetID string) (*resolver.ResolvedFrame, error)
}

// ImageSetLister pages through image-set search results.
type ImageSetLister interface {
	List(ctx context.Context, maxResults int32, nextToken string) (*imagestore.ListPage, error)
}

// PresignIssuer mints presigned upload and download URLs.
type PresignIssuer interface {
	Upload(ctx context.Context, filename, contentType string) (*objectstore.PresignedUpload, error)
	Download(ctx context.Context, key string) (*objectstore.PresignedDownload, error)
}

// ImportService submits and tracks DICOM import jobs.
type ImportService interface {
	Ingest(ctx context.Context, sourceKey string) (*ingest.Job, error)
	Status(ctx context.Context, jobID string) (*ingest.Job, error)
	Jobs(ctx context.Context) ([]ingest.Job, error)
}

// Components are the services the daemon exposes over HTTP. Any nil
// component disables its endpoints.
type Components struct {
	Resolver FrameResolver
	Sets     ImageSetLister
	Presign  PresignIssuer
	Imports  ImportService
}

// Daemon coordinates the HTTP API and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	components Components

	lockPath string
	lock     *flock.Flock

	api     *apiServer
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DatastoreID  string
	Bucket       string
	LockFilePath string
	Dependencies []deps.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, components Components, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	lockPath := filepath.Join(cfg.Ingest.StateDir, "framegate.lock")
	d := &Daemon{
		cfg:        cfg,
		logger:     logger,
		components: components,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock and begins serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another framegate instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("framegate daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("framegate daemon stopped")
}

// Addr returns the bound API address, empty before Start.
func (d *Daemon) Addr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatastoreID:  d.cfg.Datastore.DatastoreID,
		Bucket:       d.cfg.ObjectStore.Bucket,
		LockFilePath: d.lockPath,
		Dependencies: deps.CheckBinaries(deps.Default(d.cfg.TranscodeBinary())),
	}
}
