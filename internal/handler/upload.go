package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// extPattern whitelists short alphanumeric extensions. Anything else is
// dropped so a client-supplied filename can never steer the stored path.
var extPattern = regexp.MustCompile(`^\.[a-zA-Z0-9]{1,5}$`)

// saveUpload stores an uploaded file under dir with a generated filename and
// returns that filename. The client's filename contributes at most a
// sanitized extension.
func saveUpload(fh *multipart.FileHeader, dir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	name := uuid.NewString() + ext

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return name, nil
}
