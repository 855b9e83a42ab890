// Package dicom models the hierarchical image set metadata returned by the
// metadata store and selects the representative frame for viewing.
//
// The metadata blob is a JSON document, optionally gzip-compressed, shaped as
// Study -> Series -> Instances -> ImageFrames with DICOM attributes at each
// level. Parse normalizes it into typed structs; FirstFrame walks the
// hierarchy and returns the first frame it finds together with the owning
// instance's display attributes.
//
// Frame selection is deliberately simple: first series, first instance,
// first frame, with series and instance keys visited in sorted order so the
// choice is stable across runs. This mirrors the single-representative-frame
// behaviour of the viewer this service fronts and is a known limitation for
// multi-series diagnostic use.
package dicom
