// Package imagestore adapts the AWS HealthImaging API to the metadata-store
// surface the resolver, lister, and ingestor consume: hierarchical image set
// metadata, raw frame bytes, bounded image-set enumeration, and DICOM import
// jobs.
//
// All SDK failures are classified into the services error taxonomy here so
// upstream layers decide policy (fallback, terminal 403, 404) from markers
// instead of pattern-matching AWS error strings.
package imagestore
