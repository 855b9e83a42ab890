// Package objectstore provides flat key-addressed blob access for the
// fallback resolution path and for upload/download URL issuance.
//
// The S3 client adapts the AWS SDK to the narrow Store surface the rest of
// framegate consumes: existence checks, byte fetches, server-side copies,
// and presigned GET/PUT URLs. The Probe enumerates the deterministic
// candidate keys a DICOM upload may live under and reports the first that
// exists.
package objectstore
