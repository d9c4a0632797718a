package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxFileSize is 50MB in bytes
	MaxFileSize = 50 * 1024 * 1024
)

// allowedExtensions are the proof formats every submitter may upload.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// designExtensions are the working formats accepted only from internal
// design roles (arte_finalista, gestor).
var designExtensions = map[string]bool{
	".ai":  true,
	".cdr": true,
	".psd": true,
	".eps": true,
	".svg": true,
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateArtworkFile validates the uploaded file extension and size.
// allowDesignFormats extends the accepted set with the internal working
// formats (ai/cdr/psd/eps/svg).
func ValidateArtworkFile(fileHeader *multipart.FileHeader, allowDesignFormats bool) error {
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if allowedExtensions[ext] {
		return nil
	}
	if allowDesignFormats && designExtensions[ext] {
		return nil
	}

	return &FileUploadError{
		Code:    "INVALID_FILE_FORMAT",
		Message: fmt.Sprintf("File format %q is not allowed", ext),
	}
}

// ArtworkStorageKey builds the storage key for one artwork version. Keys are
// namespaced by order id and version so two versions never collide; the salt
// keeps a resubmission after a rolled-back attempt away from any stale object.
func ArtworkStorageKey(orderID uint, versao int, salt, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("pedidos/%d/v%d_%s%s", orderID, versao, salt, ext)
}
