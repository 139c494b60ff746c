package store

import (
	"context"
	"fmt"

	"github.com/davecharm16/startpoint-academics-sub001/internal/utils"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectFileTableName = "startpoint.project_files"

var projectFileColumns = utils.StructTagValues(types.ProjectFile{})

type ProjectFileRepository struct {
	pool *pgxpool.Pool
}

func NewProjectFileRepository(pool *pgxpool.Pool) *ProjectFileRepository {
	return &ProjectFileRepository{pool: pool}
}

func deliverablesQuery(projectID string) sq.SelectBuilder {
	return psql().
		Select(projectFileColumns...).
		From(projectFileTableName).
		Where(sq.Eq{"project_id": projectID, "is_deliverable": true}).
		OrderBy("created_at DESC")
}

func deliverableQuery(projectID, fileID string) sq.SelectBuilder {
	return psql().
		Select(projectFileColumns...).
		From(projectFileTableName).
		Where(sq.Eq{"id": fileID, "project_id": projectID, "is_deliverable": true}).
		Limit(1)
}

// DeliverablesByProject returns client-visible files, newest first.
func (r *ProjectFileRepository) DeliverablesByProject(ctx context.Context, projectID string) ([]*types.ProjectFile, error) {
	query, args, err := deliverablesQuery(projectID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate deliverables query: %w", err)
	}

	var files = make([]*types.ProjectFile, 0)
	err = pgxscan.Select(ctx, r.pool, &files, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deliverables: %w", err)
	}

	for _, f := range files {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("decode project file row: %w", err)
		}
	}

	return files, nil
}

// DeliverableByProjectAndID scopes the lookup to the owning project.
func (r *ProjectFileRepository) DeliverableByProjectAndID(ctx context.Context, projectID, fileID string) (*types.ProjectFile, error) {
	query, args, err := deliverableQuery(projectID, fileID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate deliverable query: %w", err)
	}

	var file = new(types.ProjectFile)
	err = pgxscan.Get(ctx, r.pool, file, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to fetch deliverable: %w", err)
	}

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("decode project file row: %w", err)
	}

	return file, nil
}

func (r *ProjectFileRepository) CreateFile(ctx context.Context, file *types.ProjectFile) error {
	query, args, err := psql().
		Insert(projectFileTableName).
		SetMap(utils.StructToMap(file)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert project file query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create project file")
}
