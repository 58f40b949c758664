package models

import (
	"encoding/json"
	"time"

	"promptforge/internal/artifact"
)

// ProjectVersion is a persisted snapshot of one generated project. A
// conversation accumulates versions over time; rows are inserted or updated
// in place, never deleted, so the full generation history survives. Files
// are stored as a JSON text column.
type ProjectVersion struct {
	ID             string    `gorm:"type:text;primaryKey" json:"id"`
	ConversationID string    `gorm:"type:text;not null;index" json:"conversation_id"`
	Summary        string    `gorm:"type:text" json:"summary"`
	FilesJSON      string    `gorm:"type:text;column:files" json:"files"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (ProjectVersion) TableName() string { return "project_versions" }

// Project rehydrates the stored summary and files into the transient
// artifact shape used by the pipeline and the preview composer.
func (v *ProjectVersion) Project() (artifact.GeneratedProject, error) {
	project := artifact.GeneratedProject{Summary: v.Summary}
	if v.FilesJSON == "" {
		return project, nil
	}
	if err := json.Unmarshal([]byte(v.FilesJSON), &project.Files); err != nil {
		return artifact.GeneratedProject{}, err
	}
	return project, nil
}
