package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskhub/internal/model"
	"taskhub/pkg/metrics"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Inserting task",
		zap.Int("user_id", t.UserID),
		zap.String("title", t.Title),
	)

	query := `
        INSERT INTO tasks (user_id, title, note, due_date, priority, project_id, category, progress)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.UserID,
		t.Title,
		t.Note,
		t.DueDate,
		t.Priority,
		t.ProjectID,
		t.Category,
		t.Progress,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.Int("user_id", t.UserID),
		)
		return err
	}

	r.logger.Info("Task inserted successfully",
		zap.Int("task_id", t.ID),
		zap.Int("user_id", t.UserID),
	)
	return nil
}

// FindByID resolves one task scoped to its owner. A task owned by someone
// else surfaces as pgx.ErrNoRows, indistinguishable from a missing task.
func (r *TaskRepository) FindByID(ctx context.Context, id, userID int) (*model.Task, error) {
	query := `
        SELECT t.id, t.user_id, t.title, t.note, t.due_date, t.is_done,
               t.completed_at, t.progress, t.priority, t.project_id, t.category,
               t.created_at, t.updated_at,
               p.id, COALESCE(p.name, ''), COALESCE(p.colors, '{}')
        FROM tasks t
        LEFT JOIN projects p ON p.id = t.project_id
        WHERE t.id = $1 AND t.user_id = $2
    `
	row := r.db.QueryRow(ctx, query, id, userID)
	return scanTask(row)
}

// Search runs the query engine: filter, sort and paginate one owner's tasks.
func (r *TaskRepository) Search(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	sql, args, err := q.build()
	if err != nil {
		r.logger.Error("Failed to build task query", zap.Error(err))
		return nil, err
	}

	start := time.Now()
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Error(err),
			zap.Int("user_id", q.UserID),
		)
		return nil, err
	}
	defer rows.Close()
	defer metrics.ObserveDBQuery("select", "tasks", start)

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("Tasks queried",
		zap.Int("user_id", q.UserID),
		zap.Int("count", len(tasks)),
	)
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `
        UPDATE tasks
        SET title = $1, note = $2, due_date = $3, is_done = $4, completed_at = $5,
            progress = $6, priority = $7, project_id = $8, category = $9, updated_at = NOW()
        WHERE id = $10 AND user_id = $11
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Title,
		t.Note,
		t.DueDate,
		t.IsDone,
		t.CompletedAt,
		t.Progress,
		t.Priority,
		t.ProjectID,
		t.Category,
		t.ID,
		t.UserID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to update task",
			zap.Error(err),
			zap.Int("task_id", t.ID),
		)
		return err
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete task",
			zap.Error(err),
			zap.Int("task_id", id),
		)
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	r.logger.Info("Task deleted", zap.Int("task_id", id), zap.Int("user_id", userID))
	return nil
}

// ClearProject nulls out the project reference on all of an owner's tasks
// that point at the given project. The tasks themselves are preserved.
func (r *TaskRepository) ClearProject(ctx context.Context, projectID, userID int) (int64, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE tasks SET project_id = NULL, updated_at = NOW() WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// AggregateStats computes the owner's task counters in two batched queries:
// one aggregate row and one GROUP BY priority pass.
func (r *TaskRepository) AggregateStats(ctx context.Context, userID int, now time.Time) (*model.TaskStats, error) {
	start := time.Now()
	defer metrics.ObserveDBQuery("aggregate", "tasks", start)

	var total, completed, overdue int64
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE is_done),
               COUNT(*) FILTER (WHERE NOT is_done AND due_date < $2)
        FROM tasks
        WHERE user_id = $1
    `, userID, now).Scan(&total, &completed, &overdue)
	if err != nil {
		r.logger.Error("Failed to aggregate task stats",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
        SELECT priority, COUNT(*)
        FROM tasks
        WHERE user_id = $1
        GROUP BY priority
    `, userID)
	if err != nil {
		r.logger.Error("Failed to group tasks by priority",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	var byPriority []priorityCount
	for rows.Next() {
		var pc priorityCount
		if err := rows.Scan(&pc.priority, &pc.count); err != nil {
			return nil, err
		}
		byPriority = append(byPriority, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assembleStats(total, completed, overdue, byPriority), nil
}

type priorityCount struct {
	priority int
	count    int64
}

// assembleStats folds the aggregate row and the per-priority counts into the
// stats payload. Pending is derived, never counted separately.
func assembleStats(total, completed, overdue int64, byPriority []priorityCount) *model.TaskStats {
	stats := &model.TaskStats{
		Total:     int(total),
		Completed: int(completed),
		Pending:   int(total - completed),
		Overdue:   int(overdue),
	}
	for _, pc := range byPriority {
		// Priorities outside 0..2 stay in the total but are excluded
		// from the breakdown.
		switch pc.priority {
		case model.PriorityLow:
			stats.ByPriority.Low = int(pc.count)
		case model.PriorityNormal:
			stats.ByPriority.Normal = int(pc.count)
		case model.PriorityHigh:
			stats.ByPriority.High = int(pc.count)
		}
	}
	return stats
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var t model.Task
	var refID *int
	var refName string
	var refColors []string

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Note,
		&t.DueDate,
		&t.IsDone,
		&t.CompletedAt,
		&t.Progress,
		&t.Priority,
		&t.ProjectID,
		&t.Category,
		&t.CreatedAt,
		&t.UpdatedAt,
		&refID,
		&refName,
		&refColors,
	)
	if err != nil {
		return nil, err
	}

	if refID != nil {
		t.Project = &model.ProjectRef{ID: *refID, Name: refName, Colors: refColors}
	}
	return &t, nil
}
