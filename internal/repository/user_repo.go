package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskhub/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with default settings.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (email, password_hash, display_name, theme, reminders_enabled, reminder_sound)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `
	return r.db.QueryRow(ctx, query,
		u.Email,
		u.PasswordHash,
		u.DisplayName,
		u.Settings.Theme,
		u.Settings.RemindersEnabled,
		u.Settings.ReminderSound,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

// FindByID returns the user with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*model.User, error) {
	query := `
        SELECT id, email, password_hash, display_name, theme, reminders_enabled, reminder_sound, created_at, updated_at
        FROM users
    ` + where
	var u model.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.DisplayName,
		&u.Settings.Theme,
		&u.Settings.RemindersEnabled,
		&u.Settings.ReminderSound,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateSettings persists a user's settings.
func (r *UserRepository) UpdateSettings(ctx context.Context, userID int, s model.Settings) error {
	query := `
        UPDATE users
        SET theme = $1, reminders_enabled = $2, reminder_sound = $3, updated_at = NOW()
        WHERE id = $4
    `
	_, err := r.db.Exec(ctx, query, s.Theme, s.RemindersEnabled, s.ReminderSound, userID)
	return err
}
