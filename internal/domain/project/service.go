package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/pnaas/internal/repository"
)

// Service handles project submission, retrieval and responses.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		repo:     repo,
		logger:   logger,
		observer: noopObserver{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitRequest defines project submission inputs. Presence of the
// fields is checked by the caller; empty values are accepted.
type SubmitRequest struct {
	Owner string
	Desc  string
	IP    string
}

// Submit creates a new project with a fresh resid.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Project, error) {
	ip := strings.TrimSpace(req.IP)
	if ip == "" {
		ip = LocalIP
	}

	proj := &Project{
		ResID:     NewResID(),
		Desc:      req.Desc,
		Owner:     req.Owner,
		IP:        ip,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.observer.ProjectSubmitted()
	s.logger.Info("project submitted", "resid", proj.ResID, "owner", proj.Owner, "ip", proj.IP)
	return proj, nil
}

// Retrieve returns the public document for resid.
func (s *Service) Retrieve(ctx context.Context, resid string) (*Document, error) {
	proj, err := s.get(ctx, resid)
	if err != nil {
		return nil, err
	}
	return s.document(ctx, proj)
}

// Respond records a response against resid and returns the updated document.
func (s *Service) Respond(ctx context.Context, resid, text string) (*Document, error) {
	proj, err := s.get(ctx, resid)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		ProjectID: proj.ID,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.repo.AddResponse(ctx, resp); err != nil {
		return nil, fmt.Errorf("adding response: %w", err)
	}

	s.observer.ResponseRecorded()
	s.logger.Info("response recorded", "resid", proj.ResID, "response_id", resp.ID)
	return s.document(ctx, proj)
}

// Count returns the number of stored projects.
func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.CountProjects(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting projects: %w", err)
	}
	return n, nil
}

func (s *Service) get(ctx context.Context, resid string) (*Project, error) {
	// Anything NewResID could not have produced cannot be stored.
	if !IsResID(resid) {
		return nil, ErrProjectNotFound
	}
	proj, err := s.repo.GetByResID(ctx, resid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

func (s *Service) document(ctx context.Context, proj *Project) (*Document, error) {
	responses, err := s.repo.ListResponses(ctx, proj.ID)
	if err != nil {
		return nil, fmt.Errorf("listing responses: %w", err)
	}
	return NewDocument(proj, responses), nil
}
