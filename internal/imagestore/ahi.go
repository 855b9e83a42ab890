package imagestore

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/medicalimaging"
	mitypes "github.com/aws/aws-sdk-go-v2/service/medicalimaging/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"framegate/internal/services"
)

const (
	defaultListPageSize = 50
	maxListPageSize     = 100
)

// AHI is the AWS HealthImaging metadata store client bound to a single
// datastore.
type AHI struct {
	client      *medicalimaging.Client
	datastoreID string
}

// NewAHI constructs the adapter.
func NewAHI(client *medicalimaging.Client, datastoreID string) *AHI {
	return &AHI{client: client, datastoreID: datastoreID}
}

// DatastoreID returns the bound datastore identifier.
func (a *AHI) DatastoreID() string { return a.datastoreID }

// Metadata fetches the raw (possibly gzip-compressed) metadata blob for an
// image set.
func (a *AHI) Metadata(ctx context.Context, imageSetID string) ([]byte, error) {
	out, err := a.client.GetImageSetMetadata(ctx, &medicalimaging.GetImageSetMetadataInput{
		DatastoreId: aws.String(a.datastoreID),
		ImageSetId:  aws.String(imageSetID),
	})
	if err != nil {
		return nil, classify(err, "get-metadata", imageSetID)
	}
	defer out.ImageSetMetadataBlob.Close()

	blob, err := io.ReadAll(out.ImageSetMetadataBlob)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "metadata-store", "get-metadata", "read metadata blob", err)
	}
	return blob, nil
}

// Frame fetches raw pixel bytes for a single image frame.
func (a *AHI) Frame(ctx context.Context, imageSetID, frameID string) ([]byte, error) {
	out, err := a.client.GetImageFrame(ctx, &medicalimaging.GetImageFrameInput{
		DatastoreId: aws.String(a.datastoreID),
		ImageSetId:  aws.String(imageSetID),
		ImageFrameInformation: &mitypes.ImageFrameInformation{
			ImageFrameId: aws.String(frameID),
		},
	})
	if err != nil {
		return nil, classify(err, "get-frame", frameID)
	}
	defer out.ImageFrameBlob.Close()

	data, err := io.ReadAll(out.ImageFrameBlob)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "metadata-store", "get-frame", "read frame blob", err)
	}
	return data, nil
}

// List returns one page of image-set summaries. maxResults of zero applies
// the default page size; anything above the service ceiling is capped.
func (a *AHI) List(ctx context.Context, maxResults int32, nextToken string) (*ListPage, error) {
	if maxResults <= 0 {
		maxResults = defaultListPageSize
	}
	if maxResults > maxListPageSize {
		maxResults = maxListPageSize
	}

	input := &medicalimaging.SearchImageSetsInput{
		DatastoreId:    aws.String(a.datastoreID),
		MaxResults:     aws.Int32(maxResults),
		SearchCriteria: &mitypes.SearchCriteria{},
	}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	out, err := a.client.SearchImageSets(ctx, input)
	if err != nil {
		return nil, classify(err, "search-image-sets", a.datastoreID)
	}

	page := &ListPage{
		ImageSets: make([]ImageSetSummary, 0, len(out.ImageSetsMetadataSummaries)),
		NextToken: aws.ToString(out.NextToken),
	}
	for _, summary := range out.ImageSetsMetadataSummaries {
		converted := ImageSetSummary{
			ImageSetID: aws.ToString(summary.ImageSetId),
			Version:    aws.ToInt32(summary.Version),
			CreatedAt:  aws.ToTime(summary.CreatedAt),
			UpdatedAt:  aws.ToTime(summary.UpdatedAt),
		}
		if tags := summary.DICOMTags; tags != nil {
			converted.PatientID = aws.ToString(tags.DICOMPatientId)
			converted.PatientName = aws.ToString(tags.DICOMPatientName)
			converted.StudyDate = aws.ToString(tags.DICOMStudyDate)
			converted.StudyDescription = aws.ToString(tags.DICOMStudyDescription)
			converted.StudyInstanceUID = aws.ToString(tags.DICOMStudyInstanceUID)
		}
		page.ImageSets = append(page.ImageSets, converted)
	}
	return page, nil
}

// StartImport launches a DICOM import job and returns its identifier.
func (a *AHI) StartImport(ctx context.Context, req ImportRequest) (string, error) {
	out, err := a.client.StartDICOMImportJob(ctx, &medicalimaging.StartDICOMImportJobInput{
		DatastoreId:       aws.String(a.datastoreID),
		JobName:           aws.String(req.JobName),
		InputS3Uri:        aws.String(req.InputURI),
		OutputS3Uri:       aws.String(req.OutputURI),
		DataAccessRoleArn: aws.String(req.RoleARN),
		ClientToken:       aws.String(uuid.NewString()),
	})
	if err != nil {
		return "", classify(err, "start-import", req.JobName)
	}
	return aws.ToString(out.JobId), nil
}

// ImportStatus reads back the state of an import job.
func (a *AHI) ImportStatus(ctx context.Context, jobID string) (*ImportJob, error) {
	out, err := a.client.GetDICOMImportJob(ctx, &medicalimaging.GetDICOMImportJobInput{
		DatastoreId: aws.String(a.datastoreID),
		JobId:       aws.String(jobID),
	})
	if err != nil {
		return nil, classify(err, "get-import-job", jobID)
	}
	props := out.JobProperties
	if props == nil {
		return nil, services.Wrap(services.ErrTransient, "metadata-store", "get-import-job", "empty job properties", nil)
	}
	return &ImportJob{
		JobID:   aws.ToString(props.JobId),
		JobName: aws.ToString(props.JobName),
		Status:  string(props.JobStatus),
		Message: aws.ToString(props.Message),
	}, nil
}

// classify maps collaborator failures onto the service error taxonomy. A
// ValidationException stays transient on purpose: the store rejecting an
// identifier it cannot parse must still let the resolver probe the object
// store, where that identifier may name a raw DICOM file.
func classify(err error, operation, subject string) error {
	marker := services.ErrTransient

	var notFound *mitypes.ResourceNotFoundException
	var denied *mitypes.AccessDeniedException
	var apiErr smithy.APIError
	switch {
	case errors.As(err, &notFound):
		marker = services.ErrNotFound
	case errors.As(err, &denied):
		marker = services.ErrAccessDenied
	case errors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException":
			marker = services.ErrNotFound
		case "AccessDeniedException":
			marker = services.ErrAccessDenied
		}
	}
	return services.Wrap(marker, "metadata-store", operation, subject, err)
}
