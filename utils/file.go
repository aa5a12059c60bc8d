package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// EnsureUploadDir creates the local uploads directory if it doesn't exist.
func EnsureUploadDir() error {
	return os.MkdirAll("uploads", os.ModePerm)
}

// SaveUpload writes a multipart file under uploads/<key> and returns the
// path it is served from. Local fallback for when R2 is not configured.
func SaveUpload(fileHeader *multipart.FileHeader, key string) (string, error) {
	destPath := filepath.Join("uploads", key)
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(destPath), nil
}
