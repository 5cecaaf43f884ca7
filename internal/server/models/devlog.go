package models

import "time"

// Devlog is one logged unit of work against a project. UserID is nullable:
// entries without a clear author are allowed. TimeSpent is in minutes and
// Image is an object-storage key.
type Devlog struct {
	ID        int64
	UserID    *int64
	ProjectID int64

	Description string
	TimeSpent   int64
	Image       string
	Model       *string

	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
