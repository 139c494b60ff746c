package store

import (
	"context"
	"fmt"
	"time"

	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	projectTableName           = "startpoint.projects"
	projectReferenceConstraint = "projects_reference_code_key"
)

var projectColumns = utils.StructTagValues(types.Project{})
var projectContactColumns = utils.StructTagValues(types.ProjectContact{})

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Project(ctx context.Context, projectID string) (*types.Project, error) {
	return r.projectWhere(ctx, sq.Eq{"id": projectID})
}

// ProjectByToken resolves a project by its client tracking token.
func (r *ProjectRepository) ProjectByToken(ctx context.Context, token string) (*types.Project, error) {
	return r.projectWhere(ctx, sq.Eq{"tracking_token": token})
}

// ProjectByIDAndToken requires both identifiers to match the same row.
func (r *ProjectRepository) ProjectByIDAndToken(ctx context.Context, projectID, token string) (*types.Project, error) {
	return r.projectWhere(ctx, sq.Eq{"id": projectID, "tracking_token": token})
}

func (r *ProjectRepository) projectWhere(ctx context.Context, where sq.Eq) (*types.Project, error) {
	query, args, err := psql().
		Select(projectColumns...).
		From(projectTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project query: %w", err)
	}

	var project = new(types.Project)
	err = pgxscan.Get(ctx, r.pool, project, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}

	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("decode project row: %w", err)
	}

	return project, nil
}

func (r *ProjectRepository) Contact(ctx context.Context, projectID string) (*types.ProjectContact, error) {
	query, args, err := psql().
		Select(projectContactColumns...).
		From(projectTableName).
		Where(sq.Eq{"id": projectID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project contact query: %w", err)
	}

	var contact types.ProjectContact
	err = pgxscan.Get(ctx, r.pool, &contact, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to fetch project contact: %w", err)
	}

	if contact.ClientEmail == "" {
		return nil, fmt.Errorf("decode project contact row: project %s has no client email", projectID)
	}

	return &contact, nil
}

func createdSinceQuery(since time.Time) sq.SelectBuilder {
	return psql().
		Select("count(*)").
		From(projectTableName).
		Where(sq.GtOrEq{"created_at": since})
}

// CountCreatedSince counts projects created at or after since.
func (r *ProjectRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	query, args, err := createdSinceQuery(since).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate project count query: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}

	return count, nil
}

// CreateProject inserts a fully issued project. A collision on the
// reference code is reported as types.ErrDuplicateReference.
func (r *ProjectRepository) CreateProject(ctx context.Context, project *types.Project) error {
	query, args, err := psql().
		Insert(projectTableName).
		SetMap(utils.StructToMap(project)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert project query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if isUniqueViolation(err, projectReferenceConstraint) {
		return types.ErrDuplicateReference
	}

	return utils.ErrorWrapOrNil(err, "failed to create project")
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, projectID string, status types.ProjectStatus) error {
	query, args, err := psql().
		Update(projectTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": projectID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update project status query for project %s: %w", projectID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrProjectNotFound
	}

	return nil
}
