// Package tracking implements the client project-tracking flow: PIN
// verification against the project phone number, and deliverable listing
// and download gated on project status and a verified marker.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"
)

const DownloadURLTTL = time.Hour

const (
	msgMissingFields      = "Missing required fields"
	msgMalformedPIN       = "PIN must be 4 digits"
	msgInvalidPIN         = "Invalid PIN"
	msgProjectNotFound    = "Project not found"
	msgFileNotFound       = "File not found"
	msgFilesUnavailable   = "Files are only available after project completion"
	msgVerificationNeeded = "PIN verification required"
)

type ProjectStore interface {
	Project(ctx context.Context, projectID string) (*types.Project, error)
	ProjectByToken(ctx context.Context, token string) (*types.Project, error)
	ProjectByIDAndToken(ctx context.Context, projectID, token string) (*types.Project, error)
}

type FileStore interface {
	DeliverablesByProject(ctx context.Context, projectID string) ([]*types.ProjectFile, error)
	DeliverableByProjectAndID(ctx context.Context, projectID, fileID string) (*types.ProjectFile, error)
	CreateFile(ctx context.Context, file *types.ProjectFile) error
}

// Blob is the object store holding project files.
type Blob interface {
	Upload(ctx context.Context, objectPath string, body io.Reader, size int64, contentType string) error
	SignedURL(ctx context.Context, objectPath, downloadName string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

type Service struct {
	projects ProjectStore
	files    FileStore
	blob     Blob
	markers  *MarkerCodec
}

func NewService(projects ProjectStore, files FileStore, blob Blob, markers *MarkerCodec) *Service {
	return &Service{
		projects: projects,
		files:    files,
		blob:     blob,
		markers:  markers,
	}
}

// VerifyPIN checks pin against the project's phone number and, on success,
// returns a signed marker to hand back to the client. Nothing is recorded on
// failure.
func (s *Service) VerifyPIN(ctx context.Context, projectID, token, pin string) (string, error) {
	if projectID == "" || token == "" || pin == "" {
		return "", types.ValidationError(msgMissingFields)
	}

	if !WellFormedPIN(pin) {
		return "", types.ValidationError(msgMalformedPIN)
	}

	project, err := s.projects.ProjectByIDAndToken(ctx, projectID, token)
	if err != nil {
		return "", projectLookupError(err)
	}

	if ExpectedPIN(project.ClientPhone) != pin {
		return "", types.AuthError(msgInvalidPIN)
	}

	marker, err := s.markers.Mint(project.ID)
	if err != nil {
		return "", types.DependencyError("Failed to verify PIN", fmt.Errorf("mint marker for project %s: %w", project.ID, err))
	}

	return marker, nil
}

// Summary is the unauthenticated view of a tracking token.
func (s *Service) Summary(ctx context.Context, token string) (*types.ProjectSummary, error) {
	project, err := s.projects.ProjectByToken(ctx, token)
	if err != nil {
		return nil, projectLookupError(err)
	}

	return &types.ProjectSummary{
		ReferenceCode:  project.ReferenceCode,
		Title:          utils.PtrString(project.Title),
		Status:         project.Status,
		FilesAvailable: project.Status.FilesAvailable(),
		CreatedAt:      project.CreatedAt,
	}, nil
}

func (s *Service) ListFiles(ctx context.Context, token string, markers MarkerSource) ([]*types.ProjectFile, error) {
	project, err := s.gate(ctx, token, markers)
	if err != nil {
		return nil, err
	}

	files, err := s.files.DeliverablesByProject(ctx, project.ID)
	if err != nil {
		return nil, types.DependencyError("Failed to fetch files", err)
	}

	return files, nil
}

func (s *Service) DownloadFile(ctx context.Context, token, fileID string, markers MarkerSource) (*types.FileDownload, error) {
	project, err := s.gate(ctx, token, markers)
	if err != nil {
		return nil, err
	}

	file, err := s.files.DeliverableByProjectAndID(ctx, project.ID, fileID)
	if err != nil {
		if errors.Is(err, types.ErrFileNotFound) {
			return nil, types.NotFoundError(msgFileNotFound, err)
		}
		return nil, types.DependencyError("Failed to fetch file", err)
	}

	url, err := s.blob.SignedURL(ctx, file.StoragePath, file.FileName, DownloadURLTTL)
	if err != nil {
		return nil, types.DependencyError("Failed to generate download link", err)
	}

	return &types.FileDownload{URL: url, FileName: file.FileName}, nil
}

// gate runs the shared precondition chain; the first failing check wins.
func (s *Service) gate(ctx context.Context, token string, markers MarkerSource) (*types.Project, error) {
	project, err := s.projects.ProjectByToken(ctx, token)
	if err != nil {
		return nil, projectLookupError(err)
	}

	if !project.Status.FilesAvailable() {
		return nil, types.ForbiddenError(msgFilesUnavailable)
	}

	if !s.markers.verified(project.ID, markers) {
		return nil, types.AuthError(msgVerificationNeeded)
	}

	return project, nil
}

// Attachment is a staff upload destined for a project.
type Attachment struct {
	ProjectID   string
	FileName    string
	Size        int64
	ContentType string
	Deliverable bool
	UploadedBy  string
	Body        io.Reader
}

// AttachFile stores the bytes first and only then records the row, so a
// listed file always has a backing object. The object is removed again when
// the row cannot be written.
func (s *Service) AttachFile(ctx context.Context, a Attachment) (*types.ProjectFile, error) {
	name := cleanFileName(a.FileName)
	if a.ProjectID == "" || name == "" || a.Body == nil {
		return nil, types.ValidationError(msgMissingFields)
	}

	project, err := s.projects.Project(ctx, a.ProjectID)
	if err != nil {
		return nil, projectLookupError(err)
	}

	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file := &types.ProjectFile{
		ID:            utils.NanoID(),
		ProjectID:     project.ID,
		FileName:      name,
		FileSize:      a.Size,
		FileType:      contentType,
		IsDeliverable: a.Deliverable,
		UploadedBy:    utils.NonEmptyPtr(a.UploadedBy),
		CreatedAt:     time.Now(),
	}
	file.StoragePath = path.Join("projects", project.ID, file.ID, name)

	if err := s.blob.Upload(ctx, file.StoragePath, a.Body, a.Size, contentType); err != nil {
		return nil, types.DependencyError("Failed to upload file", err)
	}

	if err := s.files.CreateFile(ctx, file); err != nil {
		if delErr := s.blob.Delete(context.WithoutCancel(ctx), file.StoragePath); delErr != nil {
			err = errors.Join(err, fmt.Errorf("remove orphaned object %s: %w", file.StoragePath, delErr))
		}
		return nil, types.DependencyError("Failed to record file", err)
	}

	return file, nil
}

func cleanFileName(name string) string {
	name = strings.TrimSpace(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func projectLookupError(err error) error {
	if errors.Is(err, types.ErrProjectNotFound) {
		return types.NotFoundError(msgProjectNotFound, err)
	}
	return types.DependencyError("Failed to fetch project", err)
}
