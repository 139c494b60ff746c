package tracking

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/davecharm16/startpoint-academics-sub001/internal/codes"
	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"
)

const issueAttempts = 3

type ProjectCreator interface {
	CreateProject(ctx context.Context, project *types.Project) error
}

// Issuer creates projects with a fresh tracking token and reference code.
type Issuer struct {
	references *codes.ReferenceIssuer
	projects   ProjectCreator
	now        func() time.Time
}

func NewIssuer(references *codes.ReferenceIssuer, projects ProjectCreator) *Issuer {
	return &Issuer{references: references, projects: projects, now: time.Now}
}

// Issue validates the intake and inserts a submitted project. The tracking
// token is generated once; only the reference code is re-issued when the
// insert collides with a concurrent creation.
func (i *Issuer) Issue(ctx context.Context, intake types.ProjectIntake) (*types.IssuedProject, error) {
	token, err := utils.TrackingToken()
	if err != nil {
		return nil, types.DependencyError("Failed to create project", fmt.Errorf("generate tracking token: %w", err))
	}

	return i.IssueWithToken(ctx, intake, token)
}

// IssueWithToken is Issue with a caller-chosen tracking token.
func (i *Issuer) IssueWithToken(ctx context.Context, intake types.ProjectIntake, token string) (*types.IssuedProject, error) {
	if fields := ValidateIntake(intake); len(fields) > 0 {
		return nil, types.FieldValidationError(fields)
	}

	if token == "" {
		return nil, types.ValidationError(msgMissingFields)
	}

	now := i.now()
	project := &types.Project{
		ID:            utils.NanoID(),
		TrackingToken: token,
		Title:         utils.NonEmptyPtr(intake.Title),
		Status:        types.ProjectStatusSubmitted,
		ClientName:    strings.TrimSpace(intake.ClientName),
		ClientEmail:   strings.TrimSpace(intake.ClientEmail),
		ClientPhone:   strings.TrimSpace(intake.ClientPhone),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var err error
	for attempt := 1; ; attempt++ {
		project.ReferenceCode, err = i.references.Issue(ctx, now)
		if err != nil {
			return nil, types.DependencyError("Failed to create project", err)
		}

		err = i.projects.CreateProject(ctx, project)
		if err == nil {
			break
		}

		if !errors.Is(err, types.ErrDuplicateReference) || attempt == issueAttempts {
			return nil, types.DependencyError("Failed to create project", err)
		}
	}

	return &types.IssuedProject{
		ID:            project.ID,
		ReferenceCode: project.ReferenceCode,
		TrackingToken: project.TrackingToken,
	}, nil
}

func ValidateIntake(intake types.ProjectIntake) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(intake.ClientName) == "" {
		errs["clientName"] = "Name is required."
	}

	email := strings.TrimSpace(intake.ClientEmail)
	if email == "" {
		errs["clientEmail"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["clientEmail"] = "Enter a valid email address."
	}

	if len(utils.DigitsOnly(intake.ClientPhone)) < pinLength {
		errs["clientPhone"] = "Enter a phone number with at least 4 digits."
	}

	return errs
}
