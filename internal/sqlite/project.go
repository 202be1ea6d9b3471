package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/pnaas/internal/domain/project"
	"github.com/rpggio/pnaas/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project and sets its internal ID
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (resid, "desc", owner, ip, created)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.ResID,
		proj.Desc,
		proj.Owner,
		proj.IP,
		proj.CreatedAt.UTC(),
	)
	if err != nil {
		return wrapWriteError("create project", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read project id: %w", err)
	}
	proj.ID = id

	return nil
}

// GetByResID retrieves a project by its external identifier
func (r *ProjectRepository) GetByResID(ctx context.Context, resid string) (*project.Project, error) {
	query := `
		SELECT id, resid, "desc", owner, ip, created
		FROM projects
		WHERE resid = ?
		LIMIT 1
	`

	var proj project.Project
	err := r.db.QueryRowContext(ctx, query, resid).Scan(
		&proj.ID,
		&proj.ResID,
		&proj.Desc,
		&proj.Owner,
		&proj.IP,
		&proj.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	proj.CreatedAt = proj.CreatedAt.UTC()
	return &proj, nil
}

// ListResponses returns the responses of a project, oldest first
func (r *ProjectRepository) ListResponses(ctx context.Context, projectID int64) ([]project.Response, error) {
	query := `
		SELECT id, project_id, response, created
		FROM responses
		WHERE project_id = ?
		ORDER BY created ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer rows.Close()

	responses := []project.Response{}
	for rows.Next() {
		var resp project.Response
		if err := rows.Scan(&resp.ID, &resp.ProjectID, &resp.Text, &resp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		resp.CreatedAt = resp.CreatedAt.UTC()
		responses = append(responses, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating response rows: %w", err)
	}

	return responses, nil
}

// AddResponse inserts a response and sets its internal ID
func (r *ProjectRepository) AddResponse(ctx context.Context, resp *project.Response) error {
	query := `
		INSERT INTO responses (project_id, response, created)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, resp.ProjectID, resp.Text, resp.CreatedAt.UTC())
	if err != nil {
		return wrapWriteError("add response", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read response id: %w", err)
	}
	resp.ID = id

	return nil
}

// CountProjects returns the number of stored projects
func (r *ProjectRepository) CountProjects(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}
