package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/pnaas/internal/domain/project"
	"github.com/rpggio/pnaas/internal/repository"
	"github.com/stretchr/testify/require"
)

func newProject(resid string) *project.Project {
	return &project.Project{
		ResID:     resid,
		Desc:      "broken widget",
		Owner:     "alice",
		IP:        "127.0.0.1",
		CreatedAt: time.Date(2024, 5, 1, 12, 30, 15, 0, time.UTC),
	}
}

func TestProjectRepository_Create(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	err := repo.Create(ctx, proj)
	require.NoError(t, err)
	require.NotZero(t, proj.ID)

	retrieved, err := repo.GetByResID(ctx, proj.ResID)
	require.NoError(t, err)
	require.Equal(t, proj.ID, retrieved.ID)
	require.Equal(t, proj.Owner, retrieved.Owner)
	require.Equal(t, proj.Desc, retrieved.Desc)
	require.Equal(t, proj.IP, retrieved.IP)
	require.True(t, proj.CreatedAt.Equal(retrieved.CreatedAt))
}

func TestProjectRepository_CreateDuplicateResID(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")))

	err := repo.Create(ctx, newProject("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"))
	require.ErrorIs(t, err, repository.ErrConflict)

	n, err := repo.CountProjects(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestProjectRepository_GetByResIDNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	_, err := repo.GetByResID(context.Background(), "0000000000000000000000000000dead")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestProjectRepository_Responses(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("cccccccccccccccccccccccccccccccc")
	require.NoError(t, repo.Create(ctx, proj))

	other := newProject("dddddddddddddddddddddddddddddddd")
	require.NoError(t, repo.Create(ctx, other))

	responses, err := repo.ListResponses(ctx, proj.ID)
	require.NoError(t, err)
	require.Empty(t, responses)
	require.NotNil(t, responses)

	base := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	second := &project.Response{ProjectID: proj.ID, Text: "second", CreatedAt: base.Add(time.Minute)}
	first := &project.Response{ProjectID: proj.ID, Text: "first", CreatedAt: base}
	require.NoError(t, repo.AddResponse(ctx, second))
	require.NoError(t, repo.AddResponse(ctx, first))
	require.NoError(t, repo.AddResponse(ctx, &project.Response{ProjectID: other.ID, Text: "elsewhere", CreatedAt: base}))
	require.NotZero(t, first.ID)

	responses, err = repo.ListResponses(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	require.Equal(t, "first", responses[0].Text)
	require.Equal(t, "second", responses[1].Text)
	require.Equal(t, proj.ID, responses[0].ProjectID)
}

func TestProjectRepository_AddResponseUnknownProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	err := repo.AddResponse(context.Background(), &project.Response{ProjectID: 999, Text: "orphan", CreatedAt: time.Now()})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
