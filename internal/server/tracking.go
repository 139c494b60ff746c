package server

import (
	"net/http"
	"strings"

	"github.com/davecharm16/startpoint-academics-sub001/internal/tracking"
)

type verifyRequest struct {
	ProjectID string `json:"projectId"`
	PIN       string `json:"pin"`
	Token     string `json:"token"`
}

// requestMarkers reads verification markers from the request cookies.
type requestMarkers struct {
	r *http.Request
}

func (m requestMarkers) Marker(projectID string) (string, bool) {
	cookie, err := m.r.Cookie(tracking.MarkerName(projectID))
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (s *Service) handlePostTrackVerify(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	marker, err := s.tracker.VerifyPIN(ctx, strings.TrimSpace(req.ProjectID), strings.TrimSpace(req.Token), strings.TrimSpace(req.PIN))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tracking.MarkerName(strings.TrimSpace(req.ProjectID)),
		Value:    marker,
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(tracking.MarkerTTL.Seconds()),
		Path:     "/",
	})

	s.writeSuccess(w)
}

func (s *Service) handleGetTrackSummary(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	token := r.PathValue("token")

	summary, err := s.tracker.Summary(ctx, token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Service) handleGetTrackFiles(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	token := r.PathValue("token")

	files, err := s.tracker.ListFiles(ctx, token, requestMarkers{r: r})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, files)
}

func (s *Service) handleGetTrackFile(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	token := r.PathValue("token")
	fileID := r.PathValue("fileID")

	download, err := s.tracker.DownloadFile(ctx, token, fileID, requestMarkers{r: r})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, download)
}
