package notify

import (
	"context"
	"fmt"

	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher sends queued jobs and records their outcome. It never retries;
// a failed delivery stays failed until someone resends it.
type Dispatcher struct {
	logger     *logrus.Logger
	sender     Sender
	deliveries DeliveryStore
}

func NewDispatcher(logger *logrus.Logger, sender Sender, deliveries DeliveryStore) *Dispatcher {
	return &Dispatcher{logger: logger, sender: sender, deliveries: deliveries}
}

func (d *Dispatcher) Deliver(ctx context.Context, job Job) error {
	entry := d.logger.WithFields(logrus.Fields{
		"delivery_id": job.DeliveryID,
		"project_id":  job.ProjectID,
		"kind":        job.Kind,
	})

	sendErr := d.sender.Send(ctx, job.Message)

	status := types.DeliverySent
	var failure *string
	if sendErr != nil {
		status = types.DeliveryFailed
		reason := sendErr.Error()
		failure = &reason
		entry.WithError(sendErr).Error("failed to send notification email")
	} else {
		entry.Info("notification email sent")
	}

	if err := d.deliveries.MarkDelivery(ctx, job.DeliveryID, status, failure); err != nil {
		entry.WithError(err).Error("failed to record notification outcome")
		if sendErr == nil {
			return fmt.Errorf("record delivery %s: %w", job.DeliveryID, err)
		}
	}

	if sendErr != nil {
		return fmt.Errorf("send delivery %s: %w", job.DeliveryID, sendErr)
	}

	return nil
}
