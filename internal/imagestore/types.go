package imagestore

import "time"

// ImageSetSummary is one row of a bounded image-set enumeration.
type ImageSetSummary struct {
	ImageSetID       string
	Version          int32
	CreatedAt        time.Time
	UpdatedAt        time.Time
	PatientID        string
	PatientName      string
	StudyDate        string
	StudyDescription string
	StudyInstanceUID string
}

// ListPage is one page of image-set summaries plus the continuation token
// for the next page, empty when the enumeration is exhausted.
type ListPage struct {
	ImageSets []ImageSetSummary
	NextToken string
}

// ImportRequest describes a DICOM import job to start.
type ImportRequest struct {
	JobName   string
	InputURI  string
	OutputURI string
	RoleARN   string
}

// ImportJob reports the state of a previously started import job.
type ImportJob struct {
	JobID   string
	JobName string
	Status  string
	Message string
}
