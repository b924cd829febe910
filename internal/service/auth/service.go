package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskhub/internal/model"
	"taskhub/internal/util"
)

var (
	ErrMissingFields      = errors.New("email and password are required")
	ErrEmailDomain        = errors.New("only @gmail.com emails are accepted")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidTheme       = errors.New("theme must be light or dark")
)

// UserStore is satisfied by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	UpdateSettings(ctx context.Context, userID int, s model.Settings) error
}

type Service struct {
	users     UserStore
	jwtSecret string
	logger    *zap.Logger
}

func NewService(users UserStore, jwtSecret string, logger *zap.Logger) *Service {
	return &Service{
		users:     users,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates a new user and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*model.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}
	if !strings.HasSuffix(email, "@gmail.com") {
		return nil, "", ErrEmailDomain
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Settings:     model.DefaultSettings(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateToken(u.ID, u.Email, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User registered", zap.Int("user_id", u.ID))
	return u, token, nil
}

// Login checks credentials and returns the user with a fresh token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateToken(u.ID, u.Email, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// GetUser loads the authenticated user's profile.
func (s *Service) GetUser(ctx context.Context, userID int) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// SettingsUpdate carries a partial settings change; nil fields are left
// untouched.
type SettingsUpdate struct {
	Theme            *string `json:"theme"`
	RemindersEnabled *bool   `json:"remindersEnabled"`
	ReminderSound    *bool   `json:"reminderSound"`
}

// UpdateSettings applies a partial settings change and returns the updated
// user.
func (s *Service) UpdateSettings(ctx context.Context, userID int, upd SettingsUpdate) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Theme != nil {
		if *upd.Theme != model.ThemeLight && *upd.Theme != model.ThemeDark {
			return nil, ErrInvalidTheme
		}
		u.Settings.Theme = *upd.Theme
	}
	if upd.RemindersEnabled != nil {
		u.Settings.RemindersEnabled = *upd.RemindersEnabled
	}
	if upd.ReminderSound != nil {
		u.Settings.ReminderSound = *upd.ReminderSound
	}

	if err := s.users.UpdateSettings(ctx, userID, u.Settings); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail lowercases and trims an email the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
