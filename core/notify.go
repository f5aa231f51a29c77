package core

import "time"

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type (
	// Notification is a transient user-visible message (a "toast").
	Notification struct {
		Level   Level     `json:"level"`
		Title   string    `json:"title"`
		Message string    `json:"message"`
		Time    time.Time `json:"time"` // UTC
	}

	// Notifier is any service that can surface notifications to the user.
	Notifier interface {
		Notify(n Notification)
	}
)

func (n Notification) IsError() bool { return n.Level == LevelError }
