package model

import "time"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Settings struct {
	Theme            string `json:"theme"`
	RemindersEnabled bool   `json:"remindersEnabled"`
	ReminderSound    bool   `json:"reminderSound"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:            ThemeLight,
		RemindersEnabled: true,
		ReminderSound:    true,
	}
}

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName"`
	Settings     Settings  `json:"settings"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
