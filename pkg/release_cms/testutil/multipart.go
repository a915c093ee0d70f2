package testutil

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

// Upload is one file part of a multipart body.
type Upload struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// MultipartBody encodes fields and uploads as multipart/form-data and
// returns the body with its Content-Type.
func MultipartBody(t *testing.T, fields map[string]string, uploads ...Upload) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+u.Field+`"; filename="`+u.Name+`"`)
		if u.ContentType != "" {
			h.Set("Content-Type", u.ContentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(u.Content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

// FileHeader builds a real multipart.FileHeader the way gin hands it to
// handlers.
func FileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body, ct := MultipartBody(t, nil, Upload{Field: "file", Name: name, ContentType: contentType, Content: content})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}
