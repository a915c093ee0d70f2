package models

import "time"

// WildcardProject scopes an API key to every project.
const WildcardProject = "*"

type APIKey struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	ProjectId string    `gorm:"column:project_id" json:"projectId"`
	KeyHash   string    `gorm:"column:key_hash;uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

// Authorizes reports whether the key may act on projectID.
func (k *APIKey) Authorizes(projectID string) bool {
	return k.ProjectId == WildcardProject || k.ProjectId == projectID
}

type APIKeyInput struct {
	Name      string `json:"name" form:"name"`
	ProjectId string `json:"projectId" form:"projectId"`
}
