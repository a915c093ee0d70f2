package storage_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/appdistro/release-cms/pkg/release_cms/storage"
	"github.com/appdistro/release-cms/pkg/release_cms/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseFileName(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 0, 250_000_000, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "app.apk-2024-05-01T10:30:00.250Z", storage.ReleaseFileName("app.apk", at))
	assert.Equal(t, "app.apk-2024-05-01T10:30:00.250Z", storage.ReleaseFileName("../../app.apk", at))
}

func TestSaveRelease(t *testing.T) {
	root := t.TempDir()
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := storage.New(root).WithClock(func() time.Time { return at })

	stored, err := s.SaveRelease("demo", testutil.FileHeader(t, "app.apk", "application/vnd.android.package-archive", []byte("apk-bytes")))
	require.NoError(t, err)

	assert.Equal(t, "app.apk", stored.OriginalName)
	assert.Equal(t, "application/vnd.android.package-archive", stored.Mimetype)
	assert.Equal(t, filepath.Join(root, "upload", "demo", "app.apk-2024-05-01T00:00:00.000Z"), stored.Path)
	assert.EqualValues(t, 9, stored.Size)

	data, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, "apk-bytes", string(data))
}

func TestSaveRelease_SameNameDifferentTimesDoNotCollide(t *testing.T) {
	root := t.TempDir()
	clock := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := storage.New(root).WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})

	first, err := s.SaveRelease("demo", testutil.FileHeader(t, "app.apk", "", []byte("one")))
	require.NoError(t, err)
	second, err := s.SaveRelease("demo", testutil.FileHeader(t, "app.apk", "", []byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	data, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestSaveImage_SniffsMimetype(t *testing.T) {
	s := storage.New(t.TempDir())
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	stored, err := s.SaveImage("demo", testutil.FileHeader(t, "logo.png", "", png))
	require.NoError(t, err)
	assert.Equal(t, storage.IconFileName, filepath.Base(stored.Path))
	assert.Equal(t, "image/png", stored.Mimetype)
}

func TestEnsureProjectDir_Concurrent(t *testing.T) {
	s := storage.New(t.TempDir())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.EnsureProjectDir("demo")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestEnsureProjectDir_FailureIsReported(t *testing.T) {
	root := t.TempDir()
	// a regular file where the upload directory should be
	require.NoError(t, os.WriteFile(filepath.Join(root, "upload"), []byte("x"), 0o644))

	s := storage.New(root)
	_, err := s.EnsureProjectDir("demo")
	assert.Error(t, err)

	_, err = s.SaveRelease("demo", testutil.FileHeader(t, "app.apk", "", []byte("x")))
	assert.Error(t, err)
}

func TestInvalidProjectIDs(t *testing.T) {
	s := storage.New(t.TempDir())
	for _, id := range []string{"", ".", "..", "a/b", `a\b`, "x..y"} {
		_, err := s.EnsureProjectDir(id)
		assert.ErrorIs(t, err, storage.ErrInvalidProjectID, id)
	}
}

func TestRemove_MissingFileIsNotAnError(t *testing.T) {
	s := storage.New(t.TempDir())
	assert.NoError(t, s.Remove(filepath.Join(t.TempDir(), "gone")))
	assert.NoError(t, s.Remove(""))
}
