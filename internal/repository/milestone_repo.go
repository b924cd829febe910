package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskhub/internal/model"
)

type MilestoneRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMilestoneRepository(db *pgxpool.Pool, logger *zap.Logger) *MilestoneRepository {
	return &MilestoneRepository{db: db, logger: logger}
}

const milestoneSelect = `
        SELECT m.id, m.user_id, m.project_id, m.name, m.description, m.date,
               m.created_at, m.updated_at,
               p.id, COALESCE(p.name, ''), COALESCE(p.colors, '{}')
        FROM milestones m
        LEFT JOIN projects p ON p.id = m.project_id
`

func (r *MilestoneRepository) Insert(ctx context.Context, m *model.Milestone) error {
	r.logger.Debug("Inserting milestone",
		zap.Int("user_id", m.UserID),
		zap.Int("project_id", m.ProjectID),
		zap.String("name", m.Name),
	)

	query := `
        INSERT INTO milestones (user_id, project_id, name, description, date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		m.UserID,
		m.ProjectID,
		m.Name,
		m.Description,
		m.Date,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert milestone", zap.Error(err))
		return err
	}

	r.logger.Info("Milestone inserted successfully",
		zap.Int("id", m.ID),
		zap.Int("project_id", m.ProjectID),
	)
	return nil
}

// List returns an owner's milestones, optionally narrowed to one project,
// soonest date first. NULL dates follow Postgres native ordering.
func (r *MilestoneRepository) List(ctx context.Context, userID int, projectID *int) ([]model.Milestone, error) {
	query := milestoneSelect + ` WHERE m.user_id = $1`
	args := []any{userID}
	if projectID != nil {
		query += ` AND m.project_id = $2`
		args = append(args, *projectID)
	}
	query += ` ORDER BY m.date ASC, m.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query milestones",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	milestones := []model.Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			r.logger.Error("Failed to scan milestone row", zap.Error(err))
			return nil, err
		}
		milestones = append(milestones, *m)
	}
	return milestones, rows.Err()
}

func (r *MilestoneRepository) FindByID(ctx context.Context, id, userID int) (*model.Milestone, error) {
	query := milestoneSelect + ` WHERE m.id = $1 AND m.user_id = $2`
	return scanMilestone(r.db.QueryRow(ctx, query, id, userID))
}

func (r *MilestoneRepository) Update(ctx context.Context, m *model.Milestone) error {
	query := `
        UPDATE milestones
        SET project_id = $1, name = $2, description = $3, date = $4, updated_at = NOW()
        WHERE id = $5 AND user_id = $6
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query,
		m.ProjectID,
		m.Name,
		m.Description,
		m.Date,
		m.ID,
		m.UserID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to update milestone",
			zap.Error(err),
			zap.Int("milestone_id", m.ID),
		)
		return err
	}
	return nil
}

func (r *MilestoneRepository) Delete(ctx context.Context, id, userID int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM milestones WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete milestone",
			zap.Error(err),
			zap.Int("milestone_id", id),
		)
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	r.logger.Info("Milestone deleted", zap.Int("milestone_id", id), zap.Int("user_id", userID))
	return nil
}

// DeleteByProject removes every milestone of a project during the project
// delete cascade.
func (r *MilestoneRepository) DeleteByProject(ctx context.Context, projectID, userID int) (int64, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM milestones WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func scanMilestone(row rowScanner) (*model.Milestone, error) {
	var m model.Milestone
	var refID *int
	var refName string
	var refColors []string

	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.ProjectID,
		&m.Name,
		&m.Description,
		&m.Date,
		&m.CreatedAt,
		&m.UpdatedAt,
		&refID,
		&refName,
		&refColors,
	)
	if err != nil {
		return nil, err
	}

	if refID != nil {
		m.Project = &model.ProjectRef{ID: *refID, Name: refName, Colors: refColors}
	}
	return &m, nil
}
