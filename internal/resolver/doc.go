// Package resolver turns an image set identifier into displayable frame
// bytes. It prefers the HealthImaging metadata path and falls back to
// probing the raw DICOM object store when the metadata path cannot
// produce a frame. Access denials are terminal and never trigger the
// fallback.
package resolver
