package dicom

// Display attribute defaults applied when instance metadata omits a field.
const (
	DefaultRows          = 512
	DefaultColumns       = 512
	DefaultBitsAllocated = 8
	DefaultPhotometric   = "MONOCHROME2"
)

// StudyMetadata is the typed root of an image set's metadata document.
type StudyMetadata struct {
	StudyInstanceUID string
	PatientID        string
	PatientName      string
	StudyDate        string
	Series           map[string]SeriesMetadata
}

// SeriesMetadata describes one series within a study.
type SeriesMetadata struct {
	SeriesInstanceUID string
	Modality          string
	SeriesDescription string
	Instances         map[string]InstanceMetadata
}

// InstanceMetadata describes one SOP instance and its frames. Frame
// dimensions and bit depth live here, not per frame.
type InstanceMetadata struct {
	SOPInstanceUID            string
	Rows                      int
	Columns                   int
	BitsAllocated             int
	PhotometricInterpretation string
	Frames                    []FrameDescriptor
}

// FrameDescriptor identifies a single pixel-data frame.
type FrameDescriptor struct {
	FrameID string
}

// FrameSelection is the outcome of picking a representative frame: the frame
// identifier plus the owning instance's display attributes with defaults
// applied for anything the document omitted.
type FrameSelection struct {
	FrameID                   string
	Width                     int
	Height                    int
	BitsAllocated             int
	PhotometricInterpretation string
}
