// Package gormstore persists projects through gorm, on postgres or sqlite.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/rpggio/pnaas/internal/domain/project"
	"github.com/rpggio/pnaas/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store implements project.Repository on top of a gorm connection.
type Store struct {
	db *gorm.DB
}

// Postgres returns the dialector for a postgres:// connection URL.
func Postgres(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}

// SQLite returns the dialector for a sqlite file path or file: URI.
// Foreign keys are switched on for every pooled connection.
func SQLite(path string) gorm.Dialector {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return sqlite.Open(path + sep + "_pragma=foreign_keys(1)")
}

// Open connects through dialector and migrates the schema.
func Open(dialector gorm.Dialector, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newSlogLogger(logger),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(&projectModel{}, &responseModel{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Create inserts a project and sets its internal ID.
func (s *Store) Create(ctx context.Context, proj *project.Project) error {
	m := toProjectModel(proj)
	if err := s.db.WithContext(ctx).Omit("Responses").Create(&m).Error; err != nil {
		return translate("create project", err)
	}
	proj.ID = m.ID
	return nil
}

// GetByResID retrieves a project by its external identifier.
func (s *Store) GetByResID(ctx context.Context, resid string) (*project.Project, error) {
	var m projectModel
	err := s.db.WithContext(ctx).Where("resid = ?", resid).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return m.toDomain(), nil
}

// ListResponses returns the responses of a project, oldest first.
func (s *Store) ListResponses(ctx context.Context, projectID int64) ([]project.Response, error) {
	var models []responseModel
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	responses := make([]project.Response, 0, len(models))
	for _, m := range models {
		responses = append(responses, m.toDomain())
	}
	return responses, nil
}

// AddResponse inserts a response and sets its internal ID.
func (s *Store) AddResponse(ctx context.Context, resp *project.Response) error {
	m := responseModel{
		ProjectID: resp.ProjectID,
		Response:  resp.Text,
		Created:   resp.CreatedAt.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate("add response", err)
	}
	resp.ID = m.ID
	return nil
}

// CountProjects returns the number of stored projects.
func (s *Store) CountProjects(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&projectModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

func translate(op string, err error) error {
	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("failed to %s: %w", op, repository.ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("failed to %s: %w", op, repository.ErrForeignKeyViolation)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
