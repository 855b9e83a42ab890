package api

import (
	"encoding/base64"
	"time"

	"framegate/internal/imagestore"
	"framegate/internal/objectstore"
	"framegate/internal/resolver"
)

// FrameResponse is the wire form of a resolved frame. Data carries the frame
// bytes base64-encoded; FrameID is null for frames served from the object
// store, which have no per-frame identity.
type FrameResponse struct {
	Source        string  `json:"source"`
	ImageSetID    string  `json:"imageSetId"`
	FrameID       *string `json:"frameId"`
	Key           string  `json:"key,omitempty"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	BitsAllocated int     `json:"bitsAllocated"`
	Photometric   string  `json:"photometric"`
	Format        string  `json:"format"`
	Data          string  `json:"data"`
}

// FromResolvedFrame converts a resolver result into its wire form.
func FromResolvedFrame(frame *resolver.ResolvedFrame) FrameResponse {
	resp := FrameResponse{
		Source:        frame.Source,
		ImageSetID:    frame.ImageSetID,
		Key:           frame.Key,
		Width:         frame.Width,
		Height:        frame.Height,
		BitsAllocated: frame.BitsAllocated,
		Photometric:   frame.Photometric,
		Format:        frame.Format.Tag(),
		Data:          base64.StdEncoding.EncodeToString(frame.Data),
	}
	if frame.FrameID != "" {
		id := frame.FrameID
		resp.FrameID = &id
	}
	return resp
}

// ImageSetSummary is the wire form of one search result.
type ImageSetSummary struct {
	ImageSetID       string    `json:"imageSetId"`
	Version          int32     `json:"version"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	PatientID        string    `json:"patientId,omitempty"`
	PatientName      string    `json:"patientName,omitempty"`
	StudyDate        string    `json:"studyDate,omitempty"`
	StudyDescription string    `json:"studyDescription,omitempty"`
	StudyInstanceUID string    `json:"studyInstanceUid,omitempty"`
}

// ImageSetsResponse is one page of image-set search results.
type ImageSetsResponse struct {
	ImageSets []ImageSetSummary `json:"imageSets"`
	NextToken string            `json:"nextToken,omitempty"`
}

// FromListPage converts a search page into its wire form.
func FromListPage(page *imagestore.ListPage) ImageSetsResponse {
	resp := ImageSetsResponse{
		ImageSets: make([]ImageSetSummary, 0, len(page.ImageSets)),
		NextToken: page.NextToken,
	}
	for _, set := range page.ImageSets {
		resp.ImageSets = append(resp.ImageSets, ImageSetSummary{
			ImageSetID:       set.ImageSetID,
			Version:          set.Version,
			CreatedAt:        set.CreatedAt,
			UpdatedAt:        set.UpdatedAt,
			PatientID:        set.PatientID,
			PatientName:      set.PatientName,
			StudyDate:        set.StudyDate,
			StudyDescription: set.StudyDescription,
			StudyInstanceUID: set.StudyInstanceUID,
		})
	}
	return resp
}

// PresignResponse is the wire form of a presigned upload or download grant.
type PresignResponse struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Bucket      string `json:"bucket"`
	UploadID    string `json:"uploadId,omitempty"`
	Method      string `json:"method"`
	ContentType string `json:"contentType,omitempty"`
	ExpiresIn   int    `json:"expiresIn"`
}

// FromPresignedUpload converts an upload grant into its wire form.
func FromPresignedUpload(grant *objectstore.PresignedUpload) PresignResponse {
	return PresignResponse{
		URL:         grant.URL,
		Key:         grant.Key,
		Bucket:      grant.Bucket,
		UploadID:    grant.UploadID,
		Method:      grant.Method,
		ContentType: grant.ContentType,
		ExpiresIn:   grant.ExpiresIn,
	}
}

// FromPresignedDownload converts a download grant into its wire form.
func FromPresignedDownload(grant *objectstore.PresignedDownload) PresignResponse {
	return PresignResponse{
		URL:       grant.URL,
		Key:       grant.Key,
		Bucket:    grant.Bucket,
		Method:    grant.Method,
		ExpiresIn: grant.ExpiresIn,
	}
}

// JobResponse is the wire form of an import job.
type JobResponse struct {
	JobID       string    `json:"jobId"`
	JobName     string    `json:"jobName"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	SourceKey   string    `json:"sourceKey,omitempty"`
	ImportKey   string    `json:"importKey,omitempty"`
	SubmittedAt time.Time `json:"submittedAt,omitzero"`
}

// JobsResponse wraps a list of tracked import jobs.
type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// DependencyStatus reports availability of one external binary.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// StatusResponse reports daemon runtime information.
type StatusResponse struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	DatastoreID  string             `json:"datastoreId"`
	Bucket       string             `json:"bucket"`
	LockFilePath string             `json:"lockFilePath"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// ErrorResponse is the uniform error envelope for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
