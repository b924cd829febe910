package milestone

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskhub/internal/model"
)

var (
	ErrFieldsRequired  = errors.New("project and name are required")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidPayload  = errors.New("invalid request payload")
)

// MilestoneStore is satisfied by repository.MilestoneRepository.
type MilestoneStore interface {
	Insert(ctx context.Context, m *model.Milestone) error
	List(ctx context.Context, userID int, projectID *int) ([]model.Milestone, error)
	FindByID(ctx context.Context, id, userID int) (*model.Milestone, error)
	Update(ctx context.Context, m *model.Milestone) error
	Delete(ctx context.Context, id, userID int) error
}

// ProjectStore resolves owner-scoped projects; satisfied by
// repository.ProjectRepository.
type ProjectStore interface {
	FindByID(ctx context.Context, id, userID int) (*model.Project, error)
}

type Service struct {
	milestones MilestoneStore
	projects   ProjectStore
	logger     *zap.Logger
}

func NewService(
	milestones MilestoneStore,
	projects ProjectStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		milestones: milestones,
		projects:   projects,
		logger:     logger,
	}
}

type CreateRequest struct {
	Project     *int       `json:"project"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
}

func (s *Service) Create(ctx context.Context, userID int, req CreateRequest) (*model.Milestone, error) {
	if req.Project == nil || req.Name == "" {
		return nil, ErrFieldsRequired
	}
	if err := s.checkProject(ctx, *req.Project, userID); err != nil {
		return nil, err
	}

	m := &model.Milestone{
		UserID:      userID,
		ProjectID:   *req.Project,
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
	}
	if err := s.milestones.Insert(ctx, m); err != nil {
		return nil, err
	}
	return s.milestones.FindByID(ctx, m.ID, userID)
}

func (s *Service) List(ctx context.Context, userID int, projectID *int) ([]model.Milestone, error) {
	return s.milestones.List(ctx, userID, projectID)
}

// Update applies a partial update. Re-pointing the milestone at another
// project re-checks ownership of the new project.
func (s *Service) Update(ctx context.Context, userID, milestoneID int, payload map[string]json.RawMessage) (*model.Milestone, error) {
	m, err := s.milestones.FindByID(ctx, milestoneID, userID)
	if err != nil {
		return nil, err
	}

	if raw, ok := payload["project"]; ok {
		var project int
		if err := json.Unmarshal(raw, &project); err != nil {
			return nil, ErrInvalidPayload
		}
		if err := s.checkProject(ctx, project, userID); err != nil {
			return nil, err
		}
		m.ProjectID = project
	}
	if raw, ok := payload["name"]; ok {
		if err := json.Unmarshal(raw, &m.Name); err != nil {
			return nil, ErrInvalidPayload
		}
	}
	if raw, ok := payload["description"]; ok {
		if err := json.Unmarshal(raw, &m.Description); err != nil {
			return nil, ErrInvalidPayload
		}
	}
	if raw, ok := payload["date"]; ok {
		if err := json.Unmarshal(raw, &m.Date); err != nil {
			return nil, ErrInvalidPayload
		}
	}

	if m.Name == "" {
		return nil, ErrFieldsRequired
	}

	if err := s.milestones.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.milestones.FindByID(ctx, m.ID, userID)
}

// Delete removes a milestone. Tasks carry no milestone reference, so there is
// nothing to unlink.
func (s *Service) Delete(ctx context.Context, userID, milestoneID int) error {
	return s.milestones.Delete(ctx, milestoneID, userID)
}

func (s *Service) checkProject(ctx context.Context, projectID, userID int) error {
	_, err := s.projects.FindByID(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}
