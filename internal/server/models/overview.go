package models

import "time"

// ProjectStats carries the derived aggregates computed over a project's
// non-deleted devlogs. TimeSpent and DevlogCount are zero, never absent,
// when no devlogs exist; LastUpdated falls back to the project's own
// UpdatedAt in that case.
type ProjectStats struct {
	TimeSpent   int64
	DevlogCount int64
	LastUpdated time.Time
}

// ProjectOverview is a project joined with its owner and aggregates, the row
// shape served to reviewer queue/listing/detail views.
type ProjectOverview struct {
	Project Project

	OwnerID      int64
	OwnerName    string
	OwnerSlackID string
	OwnerStatus  UserStatus

	Stats ProjectStats
}
