package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskhub/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) error {
	r.logger.Debug("Inserting project",
		zap.Int("user_id", p.UserID),
		zap.String("name", p.Name),
	)

	query := `
        INSERT INTO projects (user_id, name, colors, description)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		p.UserID,
		p.Name,
		p.Colors,
		p.Description,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return err
	}

	r.logger.Info("Project inserted successfully",
		zap.Int("id", p.ID),
		zap.Int("user_id", p.UserID),
	)
	return nil
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID int) ([]model.Project, error) {
	query := `
        SELECT id, user_id, name, colors, description, created_at, updated_at
        FROM projects
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query projects",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Name,
			&p.Colors,
			&p.Description,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan project row", zap.Error(err))
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// FindByID resolves one project scoped to its owner.
func (r *ProjectRepository) FindByID(ctx context.Context, id, userID int) (*model.Project, error) {
	query := `
        SELECT id, user_id, name, colors, description, created_at, updated_at
        FROM projects
        WHERE id = $1 AND user_id = $2
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Colors,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `
        UPDATE projects
        SET name = $1, colors = $2, description = $3, updated_at = NOW()
        WHERE id = $4 AND user_id = $5
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Colors,
		p.Description,
		p.ID,
		p.UserID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to update project",
			zap.Error(err),
			zap.Int("project_id", p.ID),
		)
		return err
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id, userID int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete project",
			zap.Error(err),
			zap.Int("project_id", id),
		)
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	r.logger.Info("Project deleted", zap.Int("project_id", id), zap.Int("user_id", userID))
	return nil
}
