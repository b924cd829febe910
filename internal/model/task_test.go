package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-5))
	assert.Equal(t, 0, ClampProgress(0))
	assert.Equal(t, 42, ClampProgress(42))
	assert.Equal(t, 100, ClampProgress(100))
	assert.Equal(t, 100, ClampProgress(150))
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := User{
		ID:           1,
		Email:        "alice@gmail.com",
		PasswordHash: "secret-hash",
		Settings:     DefaultSettings(),
	}
	body, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(body), "secret-hash")
	assert.Contains(t, string(body), `"remindersEnabled":true`)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, ThemeLight, s.Theme)
	assert.True(t, s.RemindersEnabled)
	assert.True(t, s.ReminderSound)
}
