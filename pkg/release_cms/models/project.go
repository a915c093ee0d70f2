package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Project is a registered application. Id is chosen by the operator and
// never changes; InternalID is the storage key.
type Project struct {
	InternalID  string                      `gorm:"column:internal_id;primaryKey" json:"-"`
	Id          string                      `gorm:"column:id;uniqueIndex;not null" json:"id"`
	Name        string                      `gorm:"column:name" json:"name"`
	Description string                      `gorm:"column:description" json:"description"`
	Image       *string                     `gorm:"column:image" json:"image"`
	IosBundleId *string                     `gorm:"column:ios_bundle_id" json:"iosBundleId"`
	Tracks      datatypes.JSONSlice[string] `gorm:"column:tracks" json:"tracks"`
	CreatedAt   time.Time                   `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at" json:"updatedAt"`
}

// HasTrack reports whether track is declared on the project.
func (p *Project) HasTrack(track string) bool {
	for _, t := range p.Tracks {
		if t == track {
			return true
		}
	}
	return false
}

// NormalizeTracks turns raw input into an ordered set. Entries may hold
// comma separated names (as posted by the CMS form).
func NormalizeTracks(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		for _, name := range strings.Split(entry, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// ProjectInput carries the editable project fields for both the API and
// the CMS forms. Nil pointers and a nil Tracks slice leave the stored
// value untouched on update.
type ProjectInput struct {
	Id          string   `json:"id" form:"id"`
	Name        string   `json:"name" form:"name"`
	Description *string  `json:"description,omitempty" form:"description"`
	IosBundleId *string  `json:"iosBundleId,omitempty" form:"iosBundleId"`
	Tracks      []string `json:"tracks,omitempty" form:"tracks"`
}
