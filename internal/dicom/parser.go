package dicom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
)

// ErrNoFrames reports that a well-formed metadata document contains no frame
// anywhere in its hierarchy. Distinct from a parse failure: the caller falls
// back without logging a corrupt document.
var ErrNoFrames = errors.New("metadata contains no image frames")

// previewLimit bounds how much raw content a ParseError carries for
// diagnostics.
const previewLimit = 500

var gzipMagic = []byte{0x1F, 0x8B}

// ParseError describes a metadata blob that could not be decoded. Preview
// holds a truncated sanitized slice of the raw content so operators can see
// what the store actually returned without the resolver propagating the raw
// decoder error.
type ParseError struct {
	Preview string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse metadata: %v (content preview: %q)", e.Err, e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Wire-format shapes for the metadata store's JSON document. Each level nests
// its DICOM attributes under a "DICOM" key.
type wireDocument struct {
	Patient wirePatient `json:"Patient"`
	Study   wireStudy   `json:"Study"`
}

type wirePatient struct {
	DICOM struct {
		PatientID   string `json:"PatientID"`
		PatientName string `json:"PatientName"`
	} `json:"DICOM"`
}

type wireStudy struct {
	DICOM struct {
		StudyInstanceUID string `json:"StudyInstanceUID"`
		StudyDate        string `json:"StudyDate"`
	} `json:"DICOM"`
	Series map[string]wireSeries `json:"Series"`
}

type wireSeries struct {
	DICOM struct {
		Modality          string `json:"Modality"`
		SeriesDescription string `json:"SeriesDescription"`
	} `json:"DICOM"`
	Instances map[string]wireInstance `json:"Instances"`
}

type wireInstance struct {
	DICOM struct {
		Rows                      int    `json:"Rows"`
		Columns                   int    `json:"Columns"`
		BitsAllocated             int    `json:"BitsAllocated"`
		PhotometricInterpretation string `json:"PhotometricInterpretation"`
	} `json:"DICOM"`
	ImageFrames []struct {
		ID string `json:"ID"`
	} `json:"ImageFrames"`
}

// Parse decodes a metadata blob into the typed study model. Gzip-compressed
// blobs are detected by their leading two bytes and decompressed first.
func Parse(blob []byte) (*StudyMetadata, error) {
	raw := blob
	if bytes.HasPrefix(raw, gzipMagic) {
		reader, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, &ParseError{Preview: preview(raw), Err: fmt.Errorf("gzip: %w", err)}
		}
		decompressed, err := io.ReadAll(reader)
		closeErr := reader.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, &ParseError{Preview: preview(raw), Err: fmt.Errorf("gzip: %w", err)}
		}
		raw = decompressed
	}

	var doc wireDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Preview: preview(raw), Err: err}
	}

	study := &StudyMetadata{
		StudyInstanceUID: doc.Study.DICOM.StudyInstanceUID,
		StudyDate:        doc.Study.DICOM.StudyDate,
		PatientID:        doc.Patient.DICOM.PatientID,
		PatientName:      doc.Patient.DICOM.PatientName,
		Series:           make(map[string]SeriesMetadata, len(doc.Study.Series)),
	}

	for seriesUID, series := range doc.Study.Series {
		converted := SeriesMetadata{
			SeriesInstanceUID: seriesUID,
			Modality:          series.DICOM.Modality,
			SeriesDescription: series.DICOM.SeriesDescription,
			Instances:         make(map[string]InstanceMetadata, len(series.Instances)),
		}
		for instanceUID, instance := range series.Instances {
			frames := make([]FrameDescriptor, 0, len(instance.ImageFrames))
			for _, frame := range instance.ImageFrames {
				frames = append(frames, FrameDescriptor{FrameID: frame.ID})
			}
			converted.Instances[instanceUID] = InstanceMetadata{
				SOPInstanceUID:            instanceUID,
				Rows:                      instance.DICOM.Rows,
				Columns:                   instance.DICOM.Columns,
				BitsAllocated:             instance.DICOM.BitsAllocated,
				PhotometricInterpretation: instance.DICOM.PhotometricInterpretation,
				Frames:                    frames,
			}
		}
		study.Series[seriesUID] = converted
	}

	return study, nil
}

// FirstFrame picks the representative frame: first series, first instance,
// first frame with a non-empty ID, visiting map keys in sorted order. Returns
// ErrNoFrames when the hierarchy holds no usable frame at any level.
func FirstFrame(study *StudyMetadata) (*FrameSelection, error) {
	if study == nil {
		return nil, ErrNoFrames
	}
	for _, seriesUID := range sortedKeys(study.Series) {
		series := study.Series[seriesUID]
		for _, instanceUID := range sortedKeys(series.Instances) {
			instance := series.Instances[instanceUID]
			for _, frame := range instance.Frames {
				if frame.FrameID == "" {
					continue
				}
				return &FrameSelection{
					FrameID:                   frame.FrameID,
					Width:                     valueOrDefault(instance.Columns, DefaultColumns),
					Height:                    valueOrDefault(instance.Rows, DefaultRows),
					BitsAllocated:             valueOrDefault(instance.BitsAllocated, DefaultBitsAllocated),
					PhotometricInterpretation: stringOrDefault(instance.PhotometricInterpretation, DefaultPhotometric),
				}, nil
			}
		}
	}
	return nil, ErrNoFrames
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func valueOrDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func stringOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func preview(raw []byte) string {
	if len(raw) > previewLimit {
		raw = raw[:previewLimit]
	}
	return string(bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError))))
}
