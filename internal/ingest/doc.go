// Package ingest moves uploaded DICOM files into the metadata store.
//
// An ingestion stages the source object under a per-job import prefix,
// starts a HealthImaging DICOM import job over that prefix, and records
// the job in a local SQLite database so operators can list and poll jobs
// later. Tracking is best-effort; a tracking failure never fails the
// import itself.
package ingest
