package ingest_test

import (
	"context"
	"testing"
	"time"

	"framegate/internal/ingest"
)

func openStore(t *testing.T) *ingest.Store {
	t.Helper()
	store, err := ingest.OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRecordAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	job := ingest.Job{
		JobID:     "job-1",
		JobName:   "import-abcd1234",
		SourceKey: "input/scan.dcm",
		ImportKey: "ahi-import/import-abcd1234/scan.dcm",
		Status:    "SUBMITTED",
	}
	if err := store.RecordJob(ctx, job); err != nil {
		t.Fatalf("RecordJob failed: %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected job to exist")
	}
	if got.JobName != job.JobName || got.SourceKey != job.SourceKey || got.Status != "SUBMITTED" {
		t.Fatalf("unexpected job: %+v", got)
	}
	if got.SubmittedAt.IsZero() {
		t.Fatal("expected submitted timestamp to be set")
	}
}

func TestStoreGetUnknownJob(t *testing.T) {
	store := openStore(t)
	got, err := store.GetJob(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown job, got %+v", got)
	}
}

func TestStoreUpdateStatus(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.RecordJob(ctx, ingest.Job{
		JobID: "job-2", JobName: "import-2", SourceKey: "input/a.dcm",
		ImportKey: "ahi-import/import-2/a.dcm", Status: "SUBMITTED",
	}); err != nil {
		t.Fatalf("RecordJob failed: %v", err)
	}
	if err := store.UpdateStatus(ctx, "job-2", "COMPLETED", "all instances imported"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	got, err := store.GetJob(ctx, "job-2")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Status != "COMPLETED" || got.Message != "all instances imported" {
		t.Fatalf("unexpected job after update: %+v", got)
	}
}

func TestStoreListJobsNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for idx, id := range []string{"job-a", "job-b", "job-c"} {
		err := store.RecordJob(ctx, ingest.Job{
			JobID: id, JobName: "import-" + id, SourceKey: "input/x.dcm",
			ImportKey: "ahi-import/" + id + "/x.dcm", Status: "SUBMITTED",
			SubmittedAt: base.Add(time.Duration(idx) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordJob %s failed: %v", id, err)
		}
	}

	jobs, err := store.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].JobID != "job-c" || jobs[2].JobID != "job-a" {
		t.Fatalf("unexpected ordering: %s, %s, %s", jobs[0].JobID, jobs[1].JobID, jobs[2].JobID)
	}
}
