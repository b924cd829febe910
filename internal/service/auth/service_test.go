package auth

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskhub/internal/model"
	"taskhub/internal/util"
)

type stubUserStore struct {
	byEmail map[string]*model.User
	nextID  int
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byEmail: map[string]*model.User{}, nextID: 1}
}

func (s *stubUserStore) Create(ctx context.Context, u *model.User) error {
	u.ID = s.nextID
	s.nextID++
	cp := *u
	s.byEmail[u.Email] = &cp
	return nil
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserStore) FindByID(ctx context.Context, id int) (*model.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUserStore) UpdateSettings(ctx context.Context, userID int, settings model.Settings) error {
	for _, u := range s.byEmail {
		if u.ID == userID {
			u.Settings = settings
			return nil
		}
	}
	return pgx.ErrNoRows
}

func newTestService() (*Service, *stubUserStore) {
	store := newStubUserStore()
	return NewService(store, "test-secret", zap.NewNop()), store
}

func TestRegisterRejectsNonGmail(t *testing.T) {
	s, _ := newTestService()

	_, _, err := s.Register(context.Background(), "alice@example.com", "hunter2", "Alice")
	assert.ErrorIs(t, err, ErrEmailDomain)
}

func TestRegisterRequiresEmailAndPassword(t *testing.T) {
	s, _ := newTestService()

	_, _, err := s.Register(context.Background(), "", "hunter2", "")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, _, err = s.Register(context.Background(), "alice@gmail.com", "", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	s, store := newTestService()

	u, token, err := s.Register(context.Background(), "  Alice@Gmail.com ", "hunter2", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@gmail.com", u.Email)
	require.NotEmpty(t, token)

	// The stored password is hashed, never plaintext.
	stored := store.byEmail["alice@gmail.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	assert.True(t, util.CheckPassword("hunter2", stored.PasswordHash))

	// New users get default settings.
	assert.Equal(t, model.DefaultSettings(), u.Settings)

	// The issued token verifies and carries the identity.
	id, email, err := util.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, "alice@gmail.com", email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s, _ := newTestService()

	_, _, err := s.Register(context.Background(), "alice@gmail.com", "hunter2", "Alice")
	require.NoError(t, err)

	_, _, err = s.Register(context.Background(), "alice@gmail.com", "other", "Imposter")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	s, _ := newTestService()

	_, _, err := s.Register(context.Background(), "alice@gmail.com", "hunter2", "Alice")
	require.NoError(t, err)

	u, token, err := s.Login(context.Background(), "alice@gmail.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@gmail.com", u.Email)
}

func TestLoginBadCredentialsIndistinguishable(t *testing.T) {
	s, _ := newTestService()

	_, _, err := s.Register(context.Background(), "alice@gmail.com", "hunter2", "Alice")
	require.NoError(t, err)

	_, _, wrongPassword := s.Login(context.Background(), "alice@gmail.com", "nope")
	_, _, unknownEmail := s.Login(context.Background(), "nobody@gmail.com", "hunter2")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestUpdateSettingsPartial(t *testing.T) {
	s, _ := newTestService()

	u, _, err := s.Register(context.Background(), "alice@gmail.com", "hunter2", "Alice")
	require.NoError(t, err)

	dark := model.ThemeDark
	updated, err := s.UpdateSettings(context.Background(), u.ID, SettingsUpdate{Theme: &dark})
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, updated.Settings.Theme)
	// Untouched fields keep their values.
	assert.True(t, updated.Settings.RemindersEnabled)
	assert.True(t, updated.Settings.ReminderSound)

	off := false
	updated, err = s.UpdateSettings(context.Background(), u.ID, SettingsUpdate{RemindersEnabled: &off})
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, updated.Settings.Theme)
	assert.False(t, updated.Settings.RemindersEnabled)
}

func TestUpdateSettingsInvalidTheme(t *testing.T) {
	s, _ := newTestService()

	u, _, err := s.Register(context.Background(), "alice@gmail.com", "hunter2", "Alice")
	require.NoError(t, err)

	bad := "sepia"
	_, err = s.UpdateSettings(context.Background(), u.ID, SettingsUpdate{Theme: &bad})
	assert.ErrorIs(t, err, ErrInvalidTheme)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@gmail.com", NormalizeEmail(" A@Gmail.Com "))
}
