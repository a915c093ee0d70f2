package util_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/appdistro/release-cms/pkg/release_cms/helpers/util"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const server = "https://releases.example.com"

func TestToReleaseView_HidesPathAndBuildsLinks(t *testing.T) {
	r := &models.Release{
		Id:        "r1",
		ProjectId: "demo",
		Name:      "1.0.0",
		Track:     "android",
		FileName:  "app.apk",
		Path:      "/srv/storage/upload/demo/app.apk-2024",
	}

	view := util.ToReleaseView(r, server)
	assert.Equal(t, "https://releases.example.com/demo/download/r1", view.DownloadLink)
	assert.Empty(t, view.ManifestLink)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "/srv/storage")
	assert.NotContains(t, string(raw), "\"path\"")
}

func TestToReleaseView_WithoutFileHasNoDownloadLink(t *testing.T) {
	view := util.ToReleaseView(&models.Release{Id: "r1", ProjectId: "demo"}, server)
	assert.Empty(t, view.DownloadLink)
}

func TestToReleaseView_IOSLinks(t *testing.T) {
	r := &models.Release{Id: "r2", ProjectId: "demo", FileName: "app.ipa", Path: "x", IsIOS: true}

	view := util.ToReleaseView(r, server)
	assert.Equal(t, "https://releases.example.com/demo/manifest/r2", view.ManifestLink)
	assert.Equal(t,
		"itms-services://?action=download-manifest&url=https%3A%2F%2Freleases.example.com%2Fdemo%2Fmanifest%2Fr2",
		view.InstallLink)
}

func TestToProjectView_EmptyTracksSerializeAsArray(t *testing.T) {
	p := &models.Project{InternalID: "internal", Id: "demo", Name: "Demo"}

	raw, err := json.Marshal(util.ToProjectView(p, nil, server))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "demo", decoded["id"])
	assert.Equal(t, []any{}, decoded["tracks"])
	assert.NotContains(t, decoded, "releases")
	assert.NotContains(t, string(raw), "internal")
}

func TestToProjectView_KeepsReleaseOrder(t *testing.T) {
	now := time.Now()
	p := &models.Project{Id: "demo", Tracks: []string{"main"}}
	releases := models.TrackReleases{
		"main": {
			{Id: "new", ProjectId: "demo", CreatedAt: now},
			{Id: "old", ProjectId: "demo", CreatedAt: now.Add(-time.Hour)},
		},
	}

	view := util.ToProjectView(p, releases, server)
	require.Len(t, view.Releases["main"], 2)
	assert.Equal(t, "new", view.Releases["main"][0].Id)
	assert.Equal(t, "old", view.Releases["main"][1].Id)
}

func TestToLatestView_SkipsEmptyTracks(t *testing.T) {
	latest := map[string]*models.Release{
		"main": {Id: "r1", ProjectId: "demo"},
		"ios":  nil,
	}
	view := util.ToLatestView(latest, server)
	assert.Len(t, view, 1)
	assert.Contains(t, view, "main")
	assert.NotContains(t, view, "ios")
}
