package docs

import (
	"errors"
	"path/filepath"
	"strings"
)

// MaxUploadBytes is the largest document accepted for analysis.
const MaxUploadBytes = 20 << 20 // 20 MiB

// Upload validation failures, surfaced to the user verbatim.
var (
	ErrNoFile            = errors.New("No file selected.")
	ErrUnsupportedFormat = errors.New("Unsupported file format. Use PDF, JPG, JPEG, PNG, or WEBP.")
	ErrFileTooLarge      = errors.New("File is too large. Max allowed size is 20 MB.")
)

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// ValidateUpload checks a document's name and size before any bytes are
// sent. Extension matching is case-insensitive.
func ValidateUpload(fileName string, size int64) error {
	if strings.TrimSpace(fileName) == "" {
		return ErrNoFile
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrUnsupportedFormat
	}
	if size > MaxUploadBytes {
		return ErrFileTooLarge
	}
	return nil
}
