package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/esp32-copilot/go-copilot-backend/internal/projects/domain"
	"github.com/esp32-copilot/go-copilot-backend/internal/projects/repository"
)

// ProjectService handles project CRUD business logic.
type ProjectService struct {
	repo *repository.ProjectRepository
}

func NewProjectService(repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create builds a new project with the idea stage pre-approved.
func (s *ProjectService) Create(ctx context.Context, name, idea, description, targetHardware string) (*domain.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("name required")
	}
	if idea == "" {
		return nil, fmt.Errorf("idea required")
	}

	p := domain.NewProject(uuid.NewString(), name, idea, description, targetHardware, time.Now().UTC())
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.Get(ctx, id)
}

// List returns projects newest-first; an empty status means all.
func (s *ProjectService) List(ctx context.Context, status string) ([]domain.Project, error) {
	st := domain.Status(status)
	if status != "" && !st.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	return s.repo.List(ctx, st)
}

// UpdatePatch carries optional metadata changes; nil fields are untouched.
type UpdatePatch struct {
	Name           *string
	Description    *string
	TargetHardware *string
	Status         *string
}

func (s *ProjectService) Update(ctx context.Context, id string, patch UpdatePatch) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != "" {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.TargetHardware != nil && *patch.TargetHardware != "" {
		p.TargetHardware = *patch.TargetHardware
	}
	if patch.Status != nil {
		st := domain.Status(*patch.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("invalid status %q", *patch.Status)
		}
		p.Status = st
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetComponents replaces the project's component selection used for wiring.
// Unknown IDs are tolerated here; the allocator skips them.
func (s *ProjectService) SetComponents(ctx context.Context, id string, componentIDs []string) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if componentIDs == nil {
		componentIDs = []string{}
	}
	p.SelectedComponents = componentIDs
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.SoftDelete(ctx, id)
}
