package httpapi

import (
	"time"

	"github.com/shipyardhq/shipyard/internal/server/models"
)

// Response shapes. Pointers stay pointers so unset free-text fields render
// as null rather than "".

type projectJSON struct {
	ID          int64                `json:"id"`
	UserID      int64                `json:"user_id"`
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	URL         *string              `json:"url"`
	Status      models.ProjectStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type overviewJSON struct {
	projectJSON

	OwnerName    string            `json:"owner_name"`
	OwnerSlackID string            `json:"owner_slack_id"`
	OwnerStatus  models.UserStatus `json:"owner_status"`

	TimeSpent   int64     `json:"time_spent"`
	DevlogCount int64     `json:"devlog_count"`
	LastUpdated time.Time `json:"last_updated"`
}

type devlogJSON struct {
	ID          int64     `json:"id"`
	UserID      *int64    `json:"user_id"`
	ProjectID   int64     `json:"project_id"`
	Description string    `json:"description"`
	TimeSpent   int64     `json:"time_spent"`
	Image       string    `json:"image"`
	Model       *string   `json:"model"`
	CreatedAt   time.Time `json:"created_at"`
}

type t1ReviewJSON struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Feedback  *string         `json:"feedback"`
	Notes     *string         `json:"notes"`
	Action    models.T1Action `json:"action"`
	Timestamp time.Time       `json:"timestamp"`
}

type t2ReviewJSON struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Feedback   *string   `json:"feedback"`
	Notes      *string   `json:"notes"`
	Multiplier float64   `json:"multiplier"`
	Timestamp  time.Time `json:"timestamp"`
}

type projectAuditJSON struct {
	ID           int64                   `json:"id"`
	UserID       int64                   `json:"user_id"`
	ActionUserID int64                   `json:"action_user_id"`
	ProjectID    int64                   `json:"project_id"`
	Type         models.ProjectAuditType `json:"type"`
	OldStatus    *models.ProjectStatus   `json:"old_status"`
	NewStatus    *models.ProjectStatus   `json:"new_status"`
	Name         *string                 `json:"name"`
	Description  *string                 `json:"description"`
	URL          *string                 `json:"url"`
	Timestamp    time.Time               `json:"timestamp"`
}

type sessionAuditJSON struct {
	ID        int64                   `json:"id"`
	UserID    int64                   `json:"user_id"`
	Type      models.SessionAuditType `json:"type"`
	Timestamp time.Time               `json:"timestamp"`
}

func renderProject(p *models.Project) projectJSON {
	return projectJSON{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		URL:         p.URL,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func renderOverview(o *models.ProjectOverview) overviewJSON {
	return overviewJSON{
		projectJSON:  renderProject(&o.Project),
		OwnerName:    o.OwnerName,
		OwnerSlackID: o.OwnerSlackID,
		OwnerStatus:  o.OwnerStatus,
		TimeSpent:    o.Stats.TimeSpent,
		DevlogCount:  o.Stats.DevlogCount,
		LastUpdated:  o.Stats.LastUpdated,
	}
}

func renderOverviews(list []models.ProjectOverview) []overviewJSON {
	out := make([]overviewJSON, 0, len(list))
	for i := range list {
		out = append(out, renderOverview(&list[i]))
	}
	return out
}

func renderDevlogs(list []models.Devlog) []devlogJSON {
	out := make([]devlogJSON, 0, len(list))
	for _, d := range list {
		out = append(out, devlogJSON{
			ID:          d.ID,
			UserID:      d.UserID,
			ProjectID:   d.ProjectID,
			Description: d.Description,
			TimeSpent:   d.TimeSpent,
			Image:       d.Image,
			Model:       d.Model,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out
}

func renderT1Reviews(list []models.T1Review) []t1ReviewJSON {
	out := make([]t1ReviewJSON, 0, len(list))
	for _, r := range list {
		out = append(out, t1ReviewJSON{
			ID:        r.ID,
			UserID:    r.UserID,
			Feedback:  r.Feedback,
			Notes:     r.Notes,
			Action:    r.Action,
			Timestamp: r.Timestamp,
		})
	}
	return out
}

func renderT2Reviews(list []models.T2Review) []t2ReviewJSON {
	out := make([]t2ReviewJSON, 0, len(list))
	for _, r := range list {
		out = append(out, t2ReviewJSON{
			ID:         r.ID,
			UserID:     r.UserID,
			Feedback:   r.Feedback,
			Notes:      r.Notes,
			Multiplier: r.Multiplier,
			Timestamp:  r.Timestamp,
		})
	}
	return out
}

func renderProjectAudit(list []models.ProjectAuditLog) []projectAuditJSON {
	out := make([]projectAuditJSON, 0, len(list))
	for _, e := range list {
		out = append(out, projectAuditJSON{
			ID:           e.ID,
			UserID:       e.UserID,
			ActionUserID: e.ActionUserID,
			ProjectID:    e.ProjectID,
			Type:         e.Type,
			OldStatus:    e.OldStatus,
			NewStatus:    e.NewStatus,
			Name:         e.Name,
			Description:  e.Description,
			URL:          e.URL,
			Timestamp:    e.Timestamp,
		})
	}
	return out
}

func renderSessionAudit(list []models.SessionAuditLog) []sessionAuditJSON {
	out := make([]sessionAuditJSON, 0, len(list))
	for _, e := range list {
		out = append(out, sessionAuditJSON{
			ID:        e.ID,
			UserID:    e.UserID,
			Type:      e.Type,
			Timestamp: e.Timestamp,
		})
	}
	return out
}
