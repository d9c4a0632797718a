package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rniedson/brbandeiras-api/config"
	"github.com/rniedson/brbandeiras-api/middleware"
	"github.com/rniedson/brbandeiras-api/models"
	"github.com/rniedson/brbandeiras-api/services"
)

// CreateUserRequest represents the request body for creating a user profile.
// Nome and email fall back to Auth0's userinfo when omitted.
type CreateUserRequest struct {
	Nome   string `json:"nome"`
	Email  string `json:"email" binding:"omitempty,email"`
	Perfil string `json:"perfil"`
}

// CreateUser handles POST /api/v1/usuarios - binds the authenticated Auth0
// subject to a local profile carrying the role every operation trusts
func CreateUser(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user ID from token")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	if req.Perfil == "" {
		req.Perfil = models.RoleVendedor
	}
	if !models.ValidRole(req.Perfil) {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown profile: "+req.Perfil)
		return
	}

	// Fill missing identity fields from Auth0's userinfo endpoint.
	if req.Nome == "" || req.Email == "" {
		accessToken, err := middleware.GetAccessToken(c)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name and email are required when no access token is available")
			return
		}

		auth0Service := services.NewAuth0Service(config.GetConfig())
		userInfo, err := auth0Service.GetUserInfo(accessToken)
		if err != nil {
			config.Logger().Errorw("failed to fetch Auth0 userinfo", "error", err)
			respondError(c, http.StatusInternalServerError, "AUTH0_ERROR", "Failed to fetch user information from Auth0")
			return
		}
		if req.Nome == "" {
			req.Nome = userInfo.Name
		}
		if req.Email == "" {
			req.Email = userInfo.Email
		}
	}

	if req.Nome == "" || req.Email == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name and email are required")
		return
	}

	user := models.User{
		Auth0ID: auth0ID,
		Nome:    req.Nome,
		Email:   req.Email,
		Perfil:  req.Perfil,
	}

	db := config.GetDB()
	if err := db.Create(&user).Error; err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			respondError(c, http.StatusConflict, "USER_EXISTS", "A user with this Auth0 ID or email already exists")
			return
		}
		config.Logger().Errorw("failed to create user", "error", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetMyProfile handles GET /api/v1/usuarios/me
func GetMyProfile(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    actor,
	})
}
