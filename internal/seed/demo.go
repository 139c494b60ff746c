package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davecharm16/startpoint-academics-sub001/internal/tracking"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"
)

// DemoTrackingToken is fixed so the demo tracking page has a stable URL.
const DemoTrackingToken = "demo0000000000000000000000000001"

type DemoProjects interface {
	ProjectByToken(ctx context.Context, token string) (*types.Project, error)
	UpdateStatus(ctx context.Context, projectID string, status types.ProjectStatus) error
}

type ProjectIssuer interface {
	IssueWithToken(ctx context.Context, intake types.ProjectIntake, token string) (*types.IssuedProject, error)
}

type FileAttacher interface {
	AttachFile(ctx context.Context, a tracking.Attachment) (*types.ProjectFile, error)
}

// SeedDemoProject creates a completed project with one deliverable so the
// tracking flow can be exercised locally. The PIN is 4567. Running it again
// is a no-op.
func SeedDemoProject(ctx context.Context, projects DemoProjects, issuer ProjectIssuer, files FileAttacher) (*types.Project, error) {
	existing, err := projects.ProjectByToken(ctx, DemoTrackingToken)
	if err == nil {
		fmt.Printf("Demo project already present: %s\n", existing.ReferenceCode)
		return existing, nil
	}
	if !errors.Is(err, types.ErrProjectNotFound) {
		return nil, fmt.Errorf("failed to fetch demo project: %w", err)
	}

	issued, err := issuer.IssueWithToken(ctx, types.ProjectIntake{
		ClientName:  "Demo Client",
		ClientEmail: "client+demo@example.com",
		ClientPhone: "+1 (555) 123-4567",
		Title:       "Demo literature review",
	}, DemoTrackingToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create demo project: %w", err)
	}

	_, err = files.AttachFile(ctx, tracking.Attachment{
		ProjectID:   issued.ID,
		FileName:    "literature-review.txt",
		Size:        int64(len(demoDeliverable)),
		ContentType: "text/plain",
		Deliverable: true,
		Body:        strings.NewReader(demoDeliverable),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to attach demo deliverable: %w", err)
	}

	if err := projects.UpdateStatus(ctx, issued.ID, types.ProjectStatusComplete); err != nil {
		return nil, fmt.Errorf("failed to complete demo project: %w", err)
	}

	fmt.Printf("Demo project seeded: %s (token %s, PIN 4567)\n", issued.ReferenceCode, DemoTrackingToken)

	return projects.ProjectByToken(ctx, DemoTrackingToken)
}

const demoDeliverable = "Literature review\n\nThis is the demo deliverable for the tracking page.\n"
