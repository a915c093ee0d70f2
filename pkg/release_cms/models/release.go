package models

import (
	"path/filepath"
	"strings"
	"time"
)

type Release struct {
	Id        string    `gorm:"column:id;primaryKey" json:"id"`
	ProjectId string    `gorm:"column:project_id;index:idx_release_track,priority:1" json:"projectId"`
	Name      string    `gorm:"column:name" json:"name"`
	Note      string    `gorm:"column:note" json:"note"`
	Track     string    `gorm:"column:track;index:idx_release_track,priority:2" json:"track"`
	FileName  string    `gorm:"column:file_name" json:"fileName"`
	Mimetype  string    `gorm:"column:mimetype" json:"mimetype"`
	Path      string    `gorm:"column:path" json:"-"`
	IsIOS     bool      `gorm:"column:is_ios" json:"isIOS"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// HasFile reports whether an artifact was uploaded for the release.
func (r *Release) HasFile() bool {
	return r.Path != ""
}

// IsIOSFileName reports whether name is an iOS application archive.
func IsIOSFileName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".ipa")
}

type ReleaseInput struct {
	Name  string `json:"name" form:"name"`
	Note  string `json:"note" form:"note"`
	Track string `json:"track" form:"track"`
}

// TrackReleases maps a track name to its releases, newest first.
type TrackReleases map[string][]Release

// Latest returns the newest release on track, or nil when none exists.
func (t TrackReleases) Latest(track string) *Release {
	releases := t[track]
	if len(releases) == 0 {
		return nil
	}
	return &releases[0]
}
