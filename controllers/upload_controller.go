package controllers

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rniedson/brbandeiras-api/services"
)

// ServeUpload handles GET /api/v1/uploads/*key - serves artwork files when
// the local storage backend is active. With S3, clients follow the presigned
// URLs instead and this route answers 404.
func ServeUpload(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "File key is required")
		return
	}

	// Prevent directory traversal
	if strings.Contains(key, "..") {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid file key")
		return
	}

	local, ok := services.GetFileStorage().(*services.LocalStorage)
	if !ok {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Files are not served from this endpoint")
		return
	}

	fullPath, err := local.FullPath(key)
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid file key")
		return
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")
		return
	}

	c.File(fullPath)
}
