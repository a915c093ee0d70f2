package storage

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// IconFileName is the fixed name of a project's image.
const IconFileName = "icon"

const timestampLayout = "2006-01-02T15:04:05.000Z"

var ErrInvalidProjectID = errors.New("project id cannot be used as a directory name")

// StoredFile describes an upload that landed on disk.
type StoredFile struct {
	OriginalName string
	Mimetype     string
	Path         string
	Size         int64
}

// Storage places uploads under root/upload/{projectId}.
type Storage struct {
	root string
	now  func() time.Time
}

func New(root string) *Storage {
	return &Storage{root: root, now: time.Now}
}

// WithClock overrides the upload timestamp source.
func (s *Storage) WithClock(now func() time.Time) *Storage {
	s.now = now
	return s
}

func (s *Storage) ProjectDir(projectID string) (string, error) {
	if !ValidProjectID(projectID) {
		return "", ErrInvalidProjectID
	}
	return filepath.Join(s.root, "upload", projectID), nil
}

// EnsureProjectDir creates the project's upload directory. It is safe to
// call concurrently and when the directory exists.
func (s *Storage) EnsureProjectDir(projectID string) (string, error) {
	dir, err := s.ProjectDir(projectID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create upload directory for %s", projectID)
	}
	return dir, nil
}

func (s *Storage) ImagePath(projectID string) (string, error) {
	dir, err := s.ProjectDir(projectID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, IconFileName), nil
}

// ReleaseFileName builds the stored name of a release artifact so uploads
// of the same file at different times never overwrite each other.
func ReleaseFileName(originalName string, at time.Time) string {
	return filepath.Base(originalName) + "-" + at.UTC().Format(timestampLayout)
}

// SaveRelease stores an uploaded release artifact.
func (s *Storage) SaveRelease(projectID string, fh *multipart.FileHeader) (*StoredFile, error) {
	return s.save(projectID, ReleaseFileName(fh.Filename, s.now()), fh)
}

// SaveImage stores (or replaces) the project icon.
func (s *Storage) SaveImage(projectID string, fh *multipart.FileHeader) (*StoredFile, error) {
	return s.save(projectID, IconFileName, fh)
}

func (s *Storage) save(projectID, name string, fh *multipart.FileHeader) (*StoredFile, error) {
	dir, err := s.EnsureProjectDir(projectID)
	if err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	defer src.Close()

	target := filepath.Join(dir, name)
	dst, err := os.Create(target)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", target)
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(target)
		return nil, errors.Wrapf(err, "write %s", target)
	}

	mime := fh.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		if detected, err := mimetype.DetectFile(target); err == nil {
			mime = detected.String()
		}
	}

	return &StoredFile{
		OriginalName: filepath.Base(fh.Filename),
		Mimetype:     mime,
		Path:         target,
		Size:         n,
	}, nil
}

// Open opens a stored file for streaming.
func (s *Storage) Open(path string) (*os.File, error) {
	return os.Open(path)
}

// DetectMimetype sniffs the content type of a stored file.
func DetectMimetype(path string) string {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	return m.String()
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *Storage) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "remove %s", path)
	}
	return nil
}

// ValidProjectID reports whether id is usable as a single path segment.
func ValidProjectID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}
