// Package notify turns project status changes into transactional emails.
// Requests are rendered and recorded synchronously, then handed to a queue;
// a Dispatcher on the other side sends exactly one email per job and records
// the outcome.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

// MsgNotificationFailed is the only failure callers see once a request is
// valid and the project exists.
const MsgNotificationFailed = "Failed to send notification"

type ContactStore interface {
	Contact(ctx context.Context, projectID string) (*types.ProjectContact, error)
}

type DeliveryStore interface {
	CreateDelivery(ctx context.Context, delivery *types.NotificationDelivery) error
	MarkDelivery(ctx context.Context, deliveryID string, status types.DeliveryStatus, failure *string) error
	Delivery(ctx context.Context, deliveryID string) (*types.NotificationDelivery, error)
}

// Publisher hands a job to whatever runs the Dispatcher.
type Publisher interface {
	Publish(ctx context.Context, job Job) error
}

// Job is the queued unit of work.
type Job struct {
	DeliveryID string                 `json:"deliveryId"`
	ProjectID  string                 `json:"projectId"`
	Kind       types.NotificationKind `json:"kind"`
	Message    Message                `json:"message"`
}

type Service struct {
	logger     *logrus.Logger
	baseURL    string
	contacts   ContactStore
	deliveries DeliveryStore
	queue      Publisher
}

func NewService(logger *logrus.Logger, baseURL string, contacts ContactStore, deliveries DeliveryStore, queue Publisher) *Service {
	return &Service{
		logger:     logger,
		baseURL:    baseURL,
		contacts:   contacts,
		deliveries: deliveries,
		queue:      queue,
	}
}

// NotifyStatusChange enqueues one email for req. It never touches the
// project itself, so a failure here cannot undo the status change that
// triggered it.
func (s *Service) NotifyStatusChange(ctx context.Context, req types.NotificationRequest) error {
	if req.ProjectID == "" {
		return types.ValidationError("Missing required fields")
	}

	if !req.Kind.Valid() {
		return types.ValidationError("Unknown notification type")
	}

	contact, err := s.contacts.Contact(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, types.ErrProjectNotFound) {
			return types.NotFoundError("Project not found", err)
		}
		return s.failed(req, "failed to look up project contact", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return s.failed(req, "failed to encode notification payload", err)
	}

	delivery := &types.NotificationDelivery{
		ID:        utils.NanoID(),
		ProjectID: req.ProjectID,
		Kind:      req.Kind,
		Recipient: contact.ClientEmail,
		Status:    types.DeliveryQueued,
		Payload:   string(payload),
	}

	return s.enqueue(ctx, delivery, contact, req)
}

// Resend queues a previously recorded delivery again as a new attempt.
func (s *Service) Resend(ctx context.Context, deliveryID string) error {
	previous, err := s.deliveries.Delivery(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, types.ErrDeliveryNotFound) {
			return types.NotFoundError("Notification not found", err)
		}
		return types.DependencyError("Failed to fetch notification", err)
	}

	var req types.NotificationRequest
	if err := json.Unmarshal([]byte(previous.Payload), &req); err != nil {
		return types.DependencyError("Failed to decode notification", fmt.Errorf("decode delivery %s payload: %w", deliveryID, err))
	}

	return s.NotifyStatusChange(ctx, req)
}

func (s *Service) enqueue(ctx context.Context, delivery *types.NotificationDelivery, contact *types.ProjectContact, req types.NotificationRequest) error {
	msg, err := Render(s.baseURL, contact, req)
	if err != nil {
		return s.failed(req, "failed to render notification", err)
	}

	if err := s.deliveries.CreateDelivery(ctx, delivery); err != nil {
		return s.failed(req, "failed to record notification delivery", err)
	}

	job := Job{
		DeliveryID: delivery.ID,
		ProjectID:  delivery.ProjectID,
		Kind:       delivery.Kind,
		Message:    *msg,
	}

	if err := s.queue.Publish(ctx, job); err != nil {
		reason := err.Error()
		if markErr := s.deliveries.MarkDelivery(ctx, delivery.ID, types.DeliveryFailed, &reason); markErr != nil {
			s.logger.WithError(markErr).WithField("delivery_id", delivery.ID).Error("failed to mark unqueued delivery as failed")
		}
		return s.failed(req, "failed to queue notification", err)
	}

	s.logger.WithFields(logrus.Fields{
		"delivery_id": delivery.ID,
		"project_id":  delivery.ProjectID,
		"kind":        delivery.Kind,
	}).Info("notification queued")

	return nil
}

func (s *Service) failed(req types.NotificationRequest, msg string, err error) error {
	s.logger.WithError(err).WithFields(logrus.Fields{
		"project_id": req.ProjectID,
		"kind":       req.Kind,
	}).Error(msg)

	return types.DependencyError(MsgNotificationFailed, err)
}
