package ingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"framegate/internal/imagestore"
	"framegate/internal/ingest"
	"framegate/internal/logging"
	"framegate/internal/services"
)

type fakeObjects struct {
	existing map[string]bool
	copies   map[string]string
}

func newFakeObjects(keys ...string) *fakeObjects {
	existing := make(map[string]bool, len(keys))
	for _, key := range keys {
		existing[key] = true
	}
	return &fakeObjects{existing: existing, copies: make(map[string]string)}
}

func (f *fakeObjects) Copy(ctx context.Context, srcKey, dstKey string) error {
	f.copies[srcKey] = dstKey
	return nil
}

func (f *fakeObjects) Exists(ctx context.Context, key string) (bool, error) {
	return f.existing[key], nil
}

func (f *fakeObjects) Bucket() string { return "source-bucket" }

type fakeImporter struct {
	jobID    string
	startErr error
	req      imagestore.ImportRequest
	status   *imagestore.ImportJob
}

func (f *fakeImporter) StartImport(ctx context.Context, req imagestore.ImportRequest) (string, error) {
	f.req = req
	if f.startErr != nil {
		return "", f.startErr
	}
	return f.jobID, nil
}

func (f *fakeImporter) ImportStatus(ctx context.Context, jobID string) (*imagestore.ImportJob, error) {
	if f.status == nil {
		return nil, services.Wrap(services.ErrNotFound, "metadata-store", "get-import-job", jobID, nil)
	}
	return f.status, nil
}

func newIngestor(t *testing.T, objects *fakeObjects, importer *fakeImporter) *ingest.Ingestor {
	t.Helper()
	store, err := ingest.OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return ingest.NewIngestor(objects, importer, store, "output-bucket", "arn:aws:iam::123456789012:role/import", logging.NewNop())
}

func TestIngestStagesAndStartsJob(t *testing.T) {
	objects := newFakeObjects("input/scan.dcm")
	importer := &fakeImporter{jobID: "job-99"}
	ingestor := newIngestor(t, objects, importer)

	job, err := ingestor.Ingest(context.Background(), "input/scan.dcm")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if job.JobID != "job-99" {
		t.Fatalf("unexpected job ID: %q", job.JobID)
	}
	if !strings.HasPrefix(job.JobName, "import-") || len(job.JobName) != len("import-")+8 {
		t.Fatalf("unexpected job name: %q", job.JobName)
	}

	wantImportKey := "ahi-import/" + job.JobName + "/scan.dcm"
	if objects.copies["input/scan.dcm"] != wantImportKey {
		t.Fatalf("unexpected staging copy: %q", objects.copies["input/scan.dcm"])
	}
	if importer.req.InputURI != "s3://source-bucket/ahi-import/"+job.JobName+"/" {
		t.Fatalf("unexpected input URI: %q", importer.req.InputURI)
	}
	if importer.req.OutputURI != "s3://output-bucket/ahi-import-output/"+job.JobName+"/" {
		t.Fatalf("unexpected output URI: %q", importer.req.OutputURI)
	}
	if importer.req.RoleARN == "" {
		t.Fatal("expected role ARN to be forwarded")
	}

	tracked, err := ingestor.Jobs(context.Background())
	if err != nil {
		t.Fatalf("Jobs failed: %v", err)
	}
	if len(tracked) != 1 || tracked[0].JobID != "job-99" {
		t.Fatalf("expected tracked job, got %+v", tracked)
	}
}

func TestIngestRejectsNonDICOMExtensions(t *testing.T) {
	ingestor := newIngestor(t, newFakeObjects("input/report.pdf"), &fakeImporter{jobID: "job-1"})
	for _, key := range []string{"input/report.pdf", "input/image.png", "input/noext", ""} {
		if _, err := ingestor.Ingest(context.Background(), key); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("key %q: expected validation error, got %v", key, err)
		}
	}
}

func TestIngestAcceptsDICOMExtensionsCaseInsensitively(t *testing.T) {
	objects := newFakeObjects("input/a.DCM", "upload/b.dicom")
	ingestor := newIngestor(t, objects, &fakeImporter{jobID: "job-2"})
	for _, key := range []string{"input/a.DCM", "upload/b.dicom"} {
		if _, err := ingestor.Ingest(context.Background(), key); err != nil {
			t.Fatalf("key %q: unexpected error: %v", key, err)
		}
	}
}

func TestIngestMissingSource(t *testing.T) {
	ingestor := newIngestor(t, newFakeObjects(), &fakeImporter{jobID: "job-3"})
	if _, err := ingestor.Ingest(context.Background(), "input/ghost.dcm"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type recordingNotifier struct {
	jobs []ingest.Job
	err  error
}

func (n *recordingNotifier) Notify(ctx context.Context, job ingest.Job) error {
	n.jobs = append(n.jobs, job)
	return n.err
}

func TestIngestNotifiesAfterSubmission(t *testing.T) {
	objects := newFakeObjects("input/scan.dcm")
	notifier := &recordingNotifier{}
	ingestor := ingest.NewIngestor(objects, &fakeImporter{jobID: "job-7"}, nil,
		"output-bucket", "arn:aws:iam::123456789012:role/import", logging.NewNop(),
		ingest.WithNotifier(notifier))

	job, err := ingestor.Ingest(context.Background(), "input/scan.dcm")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if len(notifier.jobs) != 1 || notifier.jobs[0].JobID != job.JobID {
		t.Fatalf("expected one notification for %s, got %+v", job.JobID, notifier.jobs)
	}

	// Notification failures never fail the ingestion.
	notifier.err = errors.New("hook offline")
	if _, err := ingestor.Ingest(context.Background(), "input/scan.dcm"); err != nil {
		t.Fatalf("Ingest with failing notifier: %v", err)
	}
}

func TestStatusRefreshesTracking(t *testing.T) {
	objects := newFakeObjects("input/scan.dcm")
	importer := &fakeImporter{jobID: "job-4"}
	ingestor := newIngestor(t, objects, importer)

	job, err := ingestor.Ingest(context.Background(), "input/scan.dcm")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	importer.status = &imagestore.ImportJob{
		JobID: job.JobID, JobName: job.JobName, Status: "COMPLETED",
	}
	refreshed, err := ingestor.Status(context.Background(), job.JobID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if refreshed.Status != "COMPLETED" {
		t.Fatalf("unexpected status: %q", refreshed.Status)
	}
	if refreshed.SourceKey != "input/scan.dcm" {
		t.Fatalf("expected source key from tracking, got %q", refreshed.SourceKey)
	}

	tracked, err := ingestor.Jobs(context.Background())
	if err != nil {
		t.Fatalf("Jobs failed: %v", err)
	}
	if tracked[0].Status != "COMPLETED" {
		t.Fatalf("tracking not refreshed: %+v", tracked[0])
	}
}
