package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	cookieAccessTokenName = "sb_access_token"

	msgInvalidBody     = "Invalid request body"
	msgUnauthorized    = "Unauthorized"
	msgForbidden       = "Forbidden"
	msgTooManyAttempts = "Too many attempts. Please try again later."

	maxJSONBodyBytes = 1 << 20
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode response body")
	}
}

func (s *Service) writeSuccess(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// writeError replies with the client-safe message of err. Causes stay in the
// logs.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := types.AsError(err)
	status := e.Kind.HTTPStatus()

	entry := s.logger.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	})
	if e.Err != nil {
		entry = entry.WithError(e.Err)
	}

	if status >= http.StatusInternalServerError {
		entry.Error(e.Message)
	} else {
		entry.Debug(e.Message)
	}

	s.writeJSON(w, status, errorResponse{Error: e.Message, Fields: e.Fields})
}

func decodeJSON(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return types.ValidationError(msgInvalidBody)
		}
		return &types.Error{Kind: types.KindValidation, Message: msgInvalidBody, Err: err}
	}
	return nil
}
