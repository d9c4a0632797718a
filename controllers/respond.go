package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rniedson/brbandeiras-api/config"
	"github.com/rniedson/brbandeiras-api/middleware"
	"github.com/rniedson/brbandeiras-api/models"
	"github.com/rniedson/brbandeiras-api/services"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondDomainError maps the closed set of domain error codes onto HTTP
// statuses. Business-rule rejections go back to the caller as-is;
// infrastructure failures are logged and surfaced generically.
func respondDomainError(c *gin.Context, err error) {
	code := services.ErrorCode(err)

	switch code {
	case services.CodeOrderNotFound, services.CodeVersionNotFound:
		respondError(c, http.StatusNotFound, code, err.Error())
	case services.CodePermissionDenied:
		respondError(c, http.StatusForbidden, code, err.Error())
	case services.CodeInvalidTransition:
		respondError(c, http.StatusUnprocessableEntity, code, err.Error())
	case services.CodeValidation, services.CodeFileValidation:
		respondError(c, http.StatusBadRequest, code, err.Error())
	case services.CodeConcurrentModification:
		respondError(c, http.StatusConflict, code, err.Error())
	default:
		// CodeStorageWrite, CodeDatabase and anything unexpected.
		config.Logger().Errorw("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, code, "The operation could not be completed")
	}
}

// currentActor resolves the authenticated user or writes the auth failure
// response. Returns nil when the response has already been written.
func currentActor(c *gin.Context) *models.User {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		if authErr, ok := err.(*middleware.AuthError); ok && authErr.Code == "USER_NOT_FOUND" {
			respondError(c, http.StatusNotFound, authErr.Code, authErr.Message)
			return nil
		}
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return nil
	}
	return actor
}

// orderIDParam parses the :id path parameter.
func orderIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id parameter")
		return 0, false
	}
	return uint(id), true
}
