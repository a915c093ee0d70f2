package views_test

import (
	"bytes"
	"testing"

	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/appdistro/release-cms/pkg/release_cms/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := views.Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"error.html", "login.html", "projects.html", "project.html", "project_form.html",
		"release_form.html", "release_delete.html", "api_keys.html", "api_key_form.html",
		"account.html", "public_project.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestPublicProjectKeepsInstallLink(t *testing.T) {
	tmpl, err := views.Templates()
	require.NoError(t, err)

	install := "itms-services://?action=download-manifest&url=https%3A%2F%2Fdl.example.com%2Fdemo%2Fmanifest%2Fr1"
	data := map[string]interface{}{
		"title": "Demo",
		"project": models.ProjectView{
			Id:   "demo",
			Name: "Demo",
			Releases: map[string][]models.ReleaseView{
				"ios": {{Id: "r1", Name: "1.0", IsIOS: true, InstallLink: install}},
			},
		},
	}
	var out bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&out, "public_project.html", data))
	assert.Contains(t, out.String(), `href="itms-services://?action=download-manifest`)
	assert.NotContains(t, out.String(), "ZgotmplZ")
}
