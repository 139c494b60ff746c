package types

import (
	"fmt"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusSubmitted  ProjectStatus = "submitted"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusComplete   ProjectStatus = "complete"
	ProjectStatusPaid       ProjectStatus = "paid"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
	ProjectStatusRejected   ProjectStatus = "rejected"
)

var AllProjectStatuses = []ProjectStatus{
	ProjectStatusDraft,
	ProjectStatusSubmitted,
	ProjectStatusInProgress,
	ProjectStatusComplete,
	ProjectStatusPaid,
	ProjectStatusCancelled,
	ProjectStatusRejected,
}

func (s ProjectStatus) Valid() bool {
	for _, known := range AllProjectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// FilesAvailable reports whether deliverables may be shown to the client.
func (s ProjectStatus) FilesAvailable() bool {
	return s == ProjectStatusComplete || s == ProjectStatusPaid
}

type Project struct {
	ID            string        `db:"id"`
	ReferenceCode string        `db:"reference_code"`
	TrackingToken string        `db:"tracking_token"`
	Title         *string       `db:"title"`
	Status        ProjectStatus `db:"status"`
	ClientName    string        `db:"client_name"`
	ClientEmail   string        `db:"client_email"`
	ClientPhone   string        `db:"client_phone"`
	WriterID      *string       `db:"writer_id"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// Validate checks the fields the tracking flow relies on after a row is scanned.
func (p *Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("project row missing id")
	}
	if p.TrackingToken == "" {
		return fmt.Errorf("project %s missing tracking token", p.ID)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("project %s has unknown status %q", p.ID, p.Status)
	}
	return nil
}

// ProjectContact is the minimal projection used for outgoing notifications.
type ProjectContact struct {
	ID            string `db:"id"`
	ReferenceCode string `db:"reference_code"`
	TrackingToken string `db:"tracking_token"`
	ClientName    string `db:"client_name"`
	ClientEmail   string `db:"client_email"`
}

// ProjectSummary is what an unverified visitor may see for a tracking token.
type ProjectSummary struct {
	ReferenceCode  string        `json:"referenceCode"`
	Title          string        `json:"title,omitempty"`
	Status         ProjectStatus `json:"status"`
	FilesAvailable bool          `json:"filesAvailable"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// ProjectIntake is the client-submitted order form.
type ProjectIntake struct {
	ClientName  string `json:"clientName" form:"client_name"`
	ClientEmail string `json:"clientEmail" form:"client_email"`
	ClientPhone string `json:"clientPhone" form:"client_phone"`
	Title       string `json:"title" form:"title"`
}

type IssuedProject struct {
	ID            string `json:"id"`
	ReferenceCode string `json:"referenceCode"`
	TrackingToken string `json:"trackingToken"`
}
