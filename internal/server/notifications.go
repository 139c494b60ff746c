package server

import (
	"net/http"
	"strings"

	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"
)

type completionRequest struct {
	ProjectID string `json:"projectId"`
}

type paymentRequest struct {
	ProjectID       string   `json:"projectId"`
	Action          string   `json:"action"`
	RejectionReason string   `json:"rejectionReason"`
	AmountValidated *float64 `json:"amountValidated"`
}

func (s *Service) handlePostCompletionNotification(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var req completionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	err := s.notifier.NotifyStatusChange(ctx, types.NotificationRequest{
		ProjectID: strings.TrimSpace(req.ProjectID),
		Kind:      types.NotificationCompletion,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeSuccess(w)
}

func (s *Service) handlePostPaymentNotification(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var kind types.NotificationKind
	switch strings.TrimSpace(req.Action) {
	case "validated":
		kind = types.NotificationPaymentValidated
	case "rejected":
		kind = types.NotificationPaymentRejected
	default:
		s.writeError(w, r, types.ValidationError("Action must be validated or rejected"))
		return
	}

	err := s.notifier.NotifyStatusChange(ctx, types.NotificationRequest{
		ProjectID:       strings.TrimSpace(req.ProjectID),
		Kind:            kind,
		RejectionReason: req.RejectionReason,
		AmountValidated: req.AmountValidated,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeSuccess(w)
}
