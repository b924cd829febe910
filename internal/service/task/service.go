package task

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskhub/internal/model"
	"taskhub/internal/mq"
	"taskhub/internal/repository"
	"taskhub/pkg/metrics"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidPayload  = errors.New("invalid request payload")
)

// TaskStore is the persistence surface the service needs; satisfied by
// repository.TaskRepository.
type TaskStore interface {
	Insert(ctx context.Context, t *model.Task) error
	FindByID(ctx context.Context, id, userID int) (*model.Task, error)
	Search(ctx context.Context, q repository.TaskQuery) ([]model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id, userID int) error
	AggregateStats(ctx context.Context, userID int, now time.Time) (*model.TaskStats, error)
}

// ProjectStore resolves owner-scoped projects; satisfied by
// repository.ProjectRepository.
type ProjectStore interface {
	FindByID(ctx context.Context, id, userID int) (*model.Project, error)
}

// EventPublisher emits task lifecycle events; satisfied by mq.Publisher.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type Service struct {
	tasks     TaskStore
	projects  ProjectStore
	cache     *redis.Client
	publisher EventPublisher
	logger    *zap.Logger
}

// NewService wires the task domain. cache and publisher may be nil; the
// service degrades to uncached, event-less operation.
func NewService(
	tasks TaskStore,
	projects ProjectStore,
	cache *redis.Client,
	publisher EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		tasks:     tasks,
		projects:  projects,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateRequest is the task creation payload. Absent optional fields take
// their documented defaults.
type CreateRequest struct {
	Title    string     `json:"title"`
	Note     string     `json:"note"`
	DueDate  *time.Time `json:"dueDate"`
	Priority *int       `json:"priority"`
	Project  *int       `json:"project"`
	Category string     `json:"category"`
	Progress *int       `json:"progress"`
}

func (s *Service) Create(ctx context.Context, userID int, req CreateRequest) (*model.Task, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}

	if req.Project != nil {
		if err := s.checkProject(ctx, *req.Project, userID); err != nil {
			return nil, err
		}
	}

	t := &model.Task{
		UserID:    userID,
		Title:     req.Title,
		Note:      req.Note,
		DueDate:   req.DueDate,
		Priority:  model.PriorityNormal,
		ProjectID: req.Project,
		Category:  req.Category,
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Progress != nil {
		t.Progress = model.ClampProgress(*req.Progress)
	}

	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}
	metrics.TaskMutationCount.WithLabelValues("create").Inc()
	s.invalidateStats(ctx, userID)
	s.publish(mq.TaskCreatedKey, t)

	return s.tasks.FindByID(ctx, t.ID, userID)
}

// Update applies a partial update. Only keys present in the payload are
// touched; an explicit JSON null clears the nullable fields (dueDate,
// project).
func (s *Service) Update(ctx context.Context, userID, taskID int, payload map[string]json.RawMessage) (*model.Task, error) {
	t, err := s.tasks.FindByID(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	wasDone := t.IsDone

	if raw, ok := payload["title"]; ok {
		if err := json.Unmarshal(raw, &t.Title); err != nil {
			return nil, ErrInvalidPayload
		}
	}
	if raw, ok := payload["note"]; ok {
		if err := json.Unmarshal(raw, &t.Note); err != nil {
			return nil, ErrInvalidPayload
		}
	}
	if raw, ok := payload["dueDate"]; ok {
		if err := json.Unmarshal(raw, &t.DueDate); err != nil {
			return nil, ErrInvalidPayload
		}
	}
	if raw, ok := payload["isDone"]; ok {
		if err := json.Unmarshal(raw, &t.IsDone); err != nil {
			return nil, ErrInvalidPayload
		}
		// The only field with a side effect: completedAt tracks isDone.
		if t.IsDone {
			now := time.Now()
			t.CompletedAt = &now
		} else {
			t.CompletedAt = nil
		}
	}
	if raw, ok := payload["progress"]; ok {
		var p int
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, ErrInvalidPayload
		}
		t.Progress = model.ClampProgress(p)
	}
	if raw, ok := payload["priority"]; ok {
		if err := json.Unmarshal(raw, &t.Priority); err != nil {
			return nil, ErrInvalidPayload
		}
	}
	if raw, ok := payload["project"]; ok {
		var project *int
		if err := json.Unmarshal(raw, &project); err != nil {
			return nil, ErrInvalidPayload
		}
		if project != nil {
			if err := s.checkProject(ctx, *project, userID); err != nil {
				return nil, err
			}
		}
		t.ProjectID = project
	}
	if raw, ok := payload["category"]; ok {
		if err := json.Unmarshal(raw, &t.Category); err != nil {
			return nil, ErrInvalidPayload
		}
	}

	if t.Title == "" {
		return nil, ErrTitleRequired
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	metrics.TaskMutationCount.WithLabelValues("update").Inc()
	s.invalidateStats(ctx, userID)
	if !wasDone && t.IsDone {
		s.publish(mq.TaskCompletedKey, t)
	}

	return s.tasks.FindByID(ctx, t.ID, userID)
}

// Complete marks a task done. Completing an already-done task is a no-op.
func (s *Service) Complete(ctx context.Context, userID, taskID int) (*model.Task, error) {
	t, err := s.tasks.FindByID(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if t.IsDone {
		return t, nil
	}

	now := time.Now()
	t.IsDone = true
	t.CompletedAt = &now
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	metrics.TaskMutationCount.WithLabelValues("complete").Inc()
	s.invalidateStats(ctx, userID)
	s.publish(mq.TaskCompletedKey, t)

	return t, nil
}

func (s *Service) Delete(ctx context.Context, userID, taskID int) error {
	t, err := s.tasks.FindByID(ctx, taskID, userID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID, userID); err != nil {
		return err
	}
	metrics.TaskMutationCount.WithLabelValues("delete").Inc()
	s.invalidateStats(ctx, userID)
	s.publish(mq.TaskDeletedKey, t)
	return nil
}

// Query runs the task query engine for one owner.
func (s *Service) Query(ctx context.Context, q repository.TaskQuery) ([]model.Task, error) {
	return s.tasks.Search(ctx, q)
}

// Calendar lists the owner's tasks due inside one calendar month, soonest
// first. It reuses the query engine with a computed date window.
func (s *Service) Calendar(ctx context.Context, userID, year int, month time.Month) ([]model.Task, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	// RFC3339Nano keeps the fractional second, so the inclusive upper
	// bound really covers the whole final second of the month.
	return s.tasks.Search(ctx, repository.TaskQuery{
		UserID: userID,
		From:   start.Format(time.RFC3339),
		To:     end.Format(time.RFC3339Nano),
		Limit:  strconv.Itoa(repository.MaxLimit),
	})
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

// publish emits a task lifecycle event. Fire and forget: a broker failure
// never fails the request.
func (s *Service) publish(routingKey string, t *model.Task) {
	if s.publisher == nil {
		return
	}
	event := mq.TaskEvent{
		TaskID:  t.ID,
		UserID:  t.UserID,
		Title:   t.Title,
		DueDate: t.DueDate,
	}
	if err := s.publisher.Publish(routingKey, event); err != nil {
		s.logger.Warn("Failed to publish task event",
			zap.String("routing_key", routingKey),
			zap.Int("task_id", t.ID),
			zap.Error(err),
		)
	}
}
