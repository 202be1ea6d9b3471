package project

import "context"

// Repository provides persistence for projects and their responses.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	GetByResID(ctx context.Context, resid string) (*Project, error)
	ListResponses(ctx context.Context, projectID int64) ([]Response, error)
	AddResponse(ctx context.Context, resp *Response) error
	CountProjects(ctx context.Context) (int64, error)
}
