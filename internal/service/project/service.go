package project

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"taskhub/internal/model"
)

var (
	ErrNameRequired   = errors.New("project name is required")
	ErrInvalidPayload = errors.New("invalid request payload")
)

// ProjectStore is satisfied by repository.ProjectRepository.
type ProjectStore interface {
	Insert(ctx context.Context, p *model.Project) error
	ListByUser(ctx context.Context, userID int) ([]model.Project, error)
	FindByID(ctx context.Context, id, userID int) (*model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id, userID int) error
}

// MilestoneStore covers the cascade's milestone step; satisfied by
// repository.MilestoneRepository.
type MilestoneStore interface {
	DeleteByProject(ctx context.Context, projectID, userID int) (int64, error)
}

// TaskStore covers the cascade's task unlink step; satisfied by
// repository.TaskRepository.
type TaskStore interface {
	ClearProject(ctx context.Context, projectID, userID int) (int64, error)
}

type Service struct {
	projects   ProjectStore
	milestones MilestoneStore
	tasks      TaskStore
	logger     *zap.Logger
}

func NewService(
	projects ProjectStore,
	milestones MilestoneStore,
	tasks TaskStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		projects:   projects,
		milestones: milestones,
		tasks:      tasks,
		logger:     logger,
	}
}

type CreateRequest struct {
	Name        string   `json:"name"`
	Colors      []string `json:"colors"`
	Description string   `json:"description"`
}

func (s *Service) Create(ctx context.Context, userID int, req CreateRequest) (*model.Project, error) {
	if req.Name == "" {
		return nil, ErrNameRequired
	}

	colors := req.Colors
	if len(colors) == 0 {
		colors = model.DefaultProjectColors
	}

	p := &model.Project{
		UserID:      userID,
		Name:        req.Name,
		Colors:      colors,
		Description: req.Description,
	}
	if err := s.projects.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, userID int) ([]model.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

// Update applies a partial update; only keys present in the payload change.
func (s *Service) Update(ctx context.Context, userID, projectID int, payload map[string]json.RawMessage) (*model.Project, error) {
	p, err := s.projects.FindByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	if raw, ok := payload["name"]; ok {
		if err := json.Unmarshal(raw, &p.Name); err != nil {
			return nil, ErrInvalidPayload
		}
	}
	if raw, ok := payload["colors"]; ok {
		if err := json.Unmarshal(raw, &p.Colors); err != nil {
			return nil, ErrInvalidPayload
		}
	}
	if raw, ok := payload["description"]; ok {
		if err := json.Unmarshal(raw, &p.Description); err != nil {
			return nil, ErrInvalidPayload
		}
	}

	if p.Name == "" {
		return nil, ErrNameRequired
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project and cascades: its milestones are deleted and its
// tasks keep existing with the project reference cleared. The cascade runs
// after the primary delete and is best-effort; a failure there is logged but
// the delete still succeeds. No cross-table transaction is used, so a crash
// mid-cascade can leave orphans until the next delete attempt.
func (s *Service) Delete(ctx context.Context, userID, projectID int) error {
	if err := s.projects.Delete(ctx, projectID, userID); err != nil {
		return err
	}

	if n, err := s.milestones.DeleteByProject(ctx, projectID, userID); err != nil {
		s.logger.Error("Project cascade: milestone delete failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
	} else if n > 0 {
		s.logger.Info("Project cascade: milestones deleted",
			zap.Int("project_id", projectID),
			zap.Int64("count", n),
		)
	}

	if n, err := s.tasks.ClearProject(ctx, projectID, userID); err != nil {
		s.logger.Error("Project cascade: task unlink failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
	} else if n > 0 {
		s.logger.Info("Project cascade: tasks unlinked",
			zap.Int("project_id", projectID),
			zap.Int64("count", n),
		)
	}

	return nil
}
