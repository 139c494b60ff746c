package server

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/davecharm16/startpoint-academics-sub001/internal/tracking"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 50 << 20

type statusRequest struct {
	Status types.ProjectStatus `json:"status"`
}

// handlePostProject accepts the public order form as JSON or as a regular
// form post.
func (s *Service) handlePostProject(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var intake types.ProjectIntake
	if isJSON(r) {
		if err := decodeJSON(r, &intake); err != nil {
			s.writeError(w, r, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, r, &types.Error{Kind: types.KindValidation, Message: msgInvalidBody, Err: err})
			return
		}
		if err := decoder.Decode(&intake, r.PostForm); err != nil {
			s.writeError(w, r, &types.Error{Kind: types.KindValidation, Message: msgInvalidBody, Err: err})
			return
		}
	}

	issued, err := s.issuer.Issue(ctx, intake)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"project_id":     issued.ID,
		"reference_code": issued.ReferenceCode,
	}).Info("project created")

	s.writeJSON(w, http.StatusCreated, issued)
}

// handlePostProjectStatus moves a project to a new status. Completing a
// project also emails the client; that email never blocks the change.
func (s *Service) handlePostProjectStatus(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	projectID := r.PathValue("projectID")

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if !req.Status.Valid() {
		s.writeError(w, r, types.ValidationError("Unknown project status"))
		return
	}

	if err := s.statuses.UpdateStatus(ctx, projectID, req.Status); err != nil {
		if errors.Is(err, types.ErrProjectNotFound) {
			s.writeError(w, r, types.NotFoundError("Project not found", err))
			return
		}
		s.writeError(w, r, types.DependencyError("Failed to update project", err))
		return
	}

	entry := s.logger.WithFields(logrus.Fields{
		"project_id": projectID,
		"status":     req.Status,
	})
	if profile, ok := s.profileFromContext(ctx); ok {
		entry = entry.WithField("user_id", profile.ID)
	}
	entry.Info("project status updated")

	if req.Status == types.ProjectStatusComplete {
		err := s.notifier.NotifyStatusChange(ctx, types.NotificationRequest{
			ProjectID: projectID,
			Kind:      types.NotificationCompletion,
		})
		if err != nil {
			entry.WithError(err).Warn("completion notification was not queued")
		}
	}

	s.writeSuccess(w)
}

func (s *Service) handlePostProjectFile(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	projectID := r.PathValue("projectID")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, r, &types.Error{Kind: types.KindValidation, Message: "Invalid upload", Err: err})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, &types.Error{Kind: types.KindValidation, Message: "A file is required", Err: err})
		return
	}
	defer file.Close()

	deliverable, _ := strconv.ParseBool(r.FormValue("deliverable"))

	var uploadedBy string
	if profile, ok := s.profileFromContext(ctx); ok {
		uploadedBy = profile.ID
	}

	attached, err := s.tracker.AttachFile(ctx, tracking.Attachment{
		ProjectID:   projectID,
		FileName:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Deliverable: deliverable,
		UploadedBy:  uploadedBy,
		Body:        file,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, attached)
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, "application/json")
}
