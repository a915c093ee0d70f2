package models

import "time"

// ProjectView is the public JSON representation of a project.
type ProjectView struct {
	Id          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Image       *string                  `json:"image"`
	IosBundleId *string                  `json:"iosBundleId"`
	Tracks      []string                 `json:"tracks"`
	Releases    map[string][]ReleaseView `json:"releases,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// ReleaseView is the public JSON representation of a release. The server
// local path is never exposed; DownloadLink is set when a file exists.
type ReleaseView struct {
	Id           string    `json:"id"`
	ProjectId    string    `json:"projectId"`
	Name         string    `json:"name"`
	Note         string    `json:"note"`
	Track        string    `json:"track"`
	FileName     string    `json:"fileName,omitempty"`
	Mimetype     string    `json:"mimetype,omitempty"`
	IsIOS        bool      `json:"isIOS"`
	DownloadLink string    `json:"downloadLink,omitempty"`
	ManifestLink string    `json:"manifestLink,omitempty"`
	InstallLink  string    `json:"installLink,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type APIKeyView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ProjectId string    `json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`
}
