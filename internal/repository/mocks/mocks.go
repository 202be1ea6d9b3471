package mocks

import (
	"context"

	"github.com/rpggio/pnaas/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) GetByResID(ctx context.Context, resid string) (*project.Project, error) {
	args := m.Called(ctx, resid)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListResponses(ctx context.Context, projectID int64) ([]project.Response, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]project.Response); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) AddResponse(ctx context.Context, resp *project.Response) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

func (m *ProjectRepository) CountProjects(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
