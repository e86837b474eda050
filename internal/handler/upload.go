package handler

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"homerent/internal/apperror"

	"github.com/google/uuid"
)

// uploadDir is where image files land; served back under /images.
var uploadDir = "uploads"

// SetUploadDir configures the image upload directory. Called once at
// startup.
func SetUploadDir(dir string) {
	if dir != "" {
		uploadDir = dir
	}
}

// saveUploadedImage validates the content type and writes the file under
// the upload directory as "<uuid>-<original name>".
func saveUploadedImage(file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperror.BadRequest("invalid file type, only image files are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return "", apperror.Internal("error trying to save image")
	}
	defer src.Close()

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", apperror.Internal("error trying to save image")
	}

	fileName := uuid.New().String() + "-" + filepath.Base(file.Filename)
	dst, err := os.Create(filepath.Join(uploadDir, fileName))
	if err != nil {
		return "", apperror.Internal("error trying to save image")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", apperror.Internal("error trying to save image")
	}
	return fileName, nil
}
