package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	problem "github.com/appdistro/release-cms/pkg/release_cms/helpers/problem"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/appdistro/release-cms/pkg/release_cms/repositories"
	"github.com/appdistro/release-cms/pkg/release_cms/services"
	"github.com/appdistro/release-cms/pkg/release_cms/storage"
	"github.com/appdistro/release-cms/pkg/release_cms/testutil"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverAddress = "http://cms.test"

func newAPIController(t *testing.T) *ReleasesAPIController {
	t.Helper()

	db := testutil.NewDB(t)
	store := storage.New(t.TempDir())
	releaseRepo := repositories.NewReleaseRepository(db)
	projects := services.NewProjectService(repositories.NewProjectRepository(db), releaseRepo, store)
	return NewReleasesAPIController(projects, services.NewReleaseService(projects, releaseRepo, store, serverAddress), serverAddress)
}

func testContext() *gin.Context {
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return ctx
}

func TestRetrieveProject_Handler(t *testing.T) {
	ctrl := newAPIController(t)
	ctx := testContext()

	_, err := ctrl.Projects.CreateProject(context.Background(), models.ProjectInput{Id: "demo", Name: "Demo", Tracks: []string{"main", "beta"}}, nil)
	require.NoError(t, err)
	_, err = ctrl.Releases.CreateRelease(context.Background(), "demo", models.ReleaseInput{Name: "1.0", Track: "main"},
		testutil.FileHeader(t, "app.apk", "", []byte("apk")))
	require.NoError(t, err)

	view, err := ctrl.RetrieveProject(ctx, &models.ProjectParams{Id: "demo"})
	require.NoError(t, err)
	assert.Equal(t, "Demo", view.Name)
	require.Len(t, view.Releases["main"], 1)
	assert.Empty(t, view.Releases["beta"])
	assert.Contains(t, view.Releases["main"][0].DownloadLink, serverAddress+"/demo/download/")

	_, err = ctrl.RetrieveProject(ctx, &models.ProjectParams{Id: "missing"})
	assert.True(t, problem.IsStatus(err, http.StatusNotFound))
}

func TestLatestReleases_Handler(t *testing.T) {
	ctrl := newAPIController(t)
	ctx := testContext()

	_, err := ctrl.CreateProject(ctx, &models.CreateProjectRequest{Id: "demo", Name: "Demo", Tracks: []string{"main", "ios"}})
	require.NoError(t, err)

	latest, err := ctrl.LatestReleases(ctx, &models.ProjectParams{Id: "demo"})
	require.NoError(t, err)
	assert.Empty(t, latest)

	created, err := ctrl.CreateRelease(ctx, &models.CreateReleaseRequest{
		ProjectId: "demo",
		Name:      "1.0",
		Track:     "ios",
		File:      testutil.FileHeader(t, "demo.ipa", "", []byte("ipa")),
	})
	require.NoError(t, err)
	assert.True(t, created.IsIOS)
	assert.Equal(t, serverAddress+"/demo/manifest/"+created.Id, created.ManifestLink)
	assert.Contains(t, created.InstallLink, "itms-services://?action=download-manifest&url=")

	latest, err = ctrl.LatestReleases(ctx, &models.ProjectParams{Id: "demo"})
	require.NoError(t, err)
	assert.Len(t, latest, 1)
	assert.Equal(t, created.Id, latest["ios"].Id)
}

func TestUpdateAndDeleteRelease_Handler(t *testing.T) {
	ctrl := newAPIController(t)
	ctx := testContext()

	_, err := ctrl.CreateProject(ctx, &models.CreateProjectRequest{Id: "demo", Name: "Demo", Tracks: []string{"main"}})
	require.NoError(t, err)
	created, err := ctrl.CreateRelease(ctx, &models.CreateReleaseRequest{ProjectId: "demo", Name: "1.0", Track: "main"})
	require.NoError(t, err)
	assert.Empty(t, created.DownloadLink)

	updated, err := ctrl.UpdateRelease(ctx, &models.UpdateReleaseRequest{ProjectId: "demo", ReleaseId: created.Id, Name: "1.0.1", Note: "hotfix", Track: "main"})
	require.NoError(t, err)
	assert.Equal(t, "hotfix", updated.Note)

	require.NoError(t, ctrl.DeleteRelease(ctx, &models.ReleaseParams{Id: "demo", ReleaseId: created.Id}))
	err = ctrl.DeleteRelease(ctx, &models.ReleaseParams{Id: "demo", ReleaseId: created.Id})
	assert.True(t, problem.IsStatus(err, http.StatusNotFound))
}

func TestUpdateProject_Handler(t *testing.T) {
	ctrl := newAPIController(t)
	ctx := testContext()

	_, err := ctrl.CreateProject(ctx, &models.CreateProjectRequest{Id: "demo", Name: "Demo"})
	require.NoError(t, err)

	bundle := "com.example.demo"
	view, err := ctrl.UpdateProject(ctx, &models.UpdateProjectRequest{ProjectId: "demo", Name: "Demo 2", IosBundleId: &bundle, Tracks: []string{"ios"}})
	require.NoError(t, err)
	assert.Equal(t, "Demo 2", view.Name)
	assert.Equal(t, []string{"ios"}, view.Tracks)
	require.NotNil(t, view.IosBundleId)
	assert.Equal(t, bundle, *view.IosBundleId)
}

type sample struct {
	Name string `validate:"required"`
}

func TestErrorHook(t *testing.T) {
	hook := ErrorHook(true)

	status, body := hook(testContext(), problem.NewConflict("Project Already exists"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Project Already exists", body.(problem.Envelope).Error.Message)

	verr := validator.New().Struct(sample{})
	require.Error(t, verr)
	status, body = hook(testContext(), verr)
	assert.Equal(t, http.StatusBadRequest, status)
	params := body.(problem.Envelope).Error.InvalidParams
	require.Len(t, params, 1)
	assert.Equal(t, "name", params[0].Name)
	assert.Equal(t, "is required", params[0].Reason)

	status, body = hook(testContext(), errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Empty(t, body.(problem.Envelope).Error.Stack)
}

func TestErrorHook_LengthLimits(t *testing.T) {
	tracks := make([]string, 51)
	for i := range tracks {
		tracks[i] = "t"
	}
	verr := validator.New().Struct(models.CreateProjectRequest{Id: "demo", Name: strings.Repeat("n", 201), Tracks: tracks})
	require.Error(t, verr)

	status, body := ErrorHook(true)(testContext(), verr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []problem.InvalidParam{
		{Name: "name", Reason: "must be at most 200 characters"},
		{Name: "tracks", Reason: "must have at most 50 entries"},
	}, body.(problem.Envelope).Error.InvalidParams)
}

func TestBindHook_Multipart(t *testing.T) {
	body, contentType := testutil.MultipartBody(t,
		map[string]string{"id": "demo", "name": "Demo", "tracks": "main,ios"},
		testutil.Upload{Field: "file", Name: "icon.png", ContentType: "image/png", Content: []byte("png")},
	)
	ctx := testContext()
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/projects", body)
	ctx.Request.Header.Set("Content-Type", contentType)

	var req models.CreateProjectRequest
	require.NoError(t, BindHook(ctx, &req))
	assert.Equal(t, "demo", req.Id)
	assert.Equal(t, []string{"main,ios"}, req.Tracks)
	assert.Nil(t, req.Description)
	require.NotNil(t, req.File)
	assert.Equal(t, "icon.png", req.File.Filename)
	assert.Equal(t, []string{"main", "ios"}, models.NormalizeTracks(req.Tracks))
}
