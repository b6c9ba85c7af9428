package handler

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, fh, err := req.FormFile("photo")
	require.NoError(t, err)
	return fh
}

func TestSaveUpload_GeneratesFilename(t *testing.T) {
	dir := t.TempDir()
	fh := uploadHeader(t, "avatar.PNG", "fake image bytes")

	name, err := saveUpload(fh, dir)
	require.NoError(t, err)
	assert.NotContains(t, name, "avatar")
	assert.True(t, strings.HasSuffix(name, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

// A hostile filename must not steer the stored path.
func TestSaveUpload_IgnoresClientPath(t *testing.T) {
	dir := t.TempDir()
	fh := uploadHeader(t, "../../etc/passwd", "nope")

	name, err := saveUpload(fh, dir)
	require.NoError(t, err)
	assert.NotContains(t, name, "..")
	assert.NotContains(t, name, "/")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, name, entries[0].Name())
}

func TestSaveUpload_DropsOddExtensions(t *testing.T) {
	dir := t.TempDir()
	fh := uploadHeader(t, "weird.sh;rm -rf", "data")

	name, err := saveUpload(fh, dir)
	require.NoError(t, err)
	assert.False(t, strings.Contains(name, ";"))
	assert.False(t, strings.Contains(name, " "))
}
