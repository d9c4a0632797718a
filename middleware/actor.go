package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rniedson/brbandeiras-api/config"
	"github.com/rniedson/brbandeiras-api/models"
)

// CurrentUser resolves the authenticated Auth0 subject to the local user row
// carrying the profile (role). The workflow core trusts this value; no
// further credential checking happens past this point.
func CurrentUser(c *gin.Context) (*models.User, error) {
	auth0ID, err := GetUserID(c)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthError{Code: "USER_NOT_FOUND", Message: "User profile not found. Please create a profile first."}
		}
		return nil, err
	}

	return &user, nil
}
