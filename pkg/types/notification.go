package types

import "time"

type NotificationKind string

const (
	NotificationCompletion       NotificationKind = "completion"
	NotificationPaymentValidated NotificationKind = "payment_validated"
	NotificationPaymentRejected  NotificationKind = "payment_rejected"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationCompletion, NotificationPaymentValidated, NotificationPaymentRejected:
		return true
	}
	return false
}

type DeliveryStatus string

const (
	DeliveryQueued DeliveryStatus = "queued"
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// NotificationDelivery records one email handed to the queue and its outcome.
type NotificationDelivery struct {
	ID        string           `db:"id"`
	ProjectID string           `db:"project_id"`
	Kind      NotificationKind `db:"kind"`
	Recipient string           `db:"recipient"`
	Status    DeliveryStatus   `db:"status"`
	Payload   string           `db:"payload"`
	Error     *string          `db:"error"`
	CreatedAt time.Time        `db:"created_at"`
	UpdatedAt time.Time        `db:"updated_at"`
}

// NotificationRequest is what a status change asks to be sent.
type NotificationRequest struct {
	ProjectID       string           `json:"projectId"`
	Kind            NotificationKind `json:"kind"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	AmountValidated *float64         `json:"amountValidated,omitempty"`
}
