package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rniedson/brbandeiras-api/services"
)

// ReviewRequest represents the request body for an artwork review decision
type ReviewRequest struct {
	Decisao    string `json:"decisao" binding:"required"`
	Comentario string `json:"comentario"`
}

// ReassignRequest represents the request body for reassigning the designer
type ReassignRequest struct {
	ArteFinalistaID uint `json:"arte_finalista_id" binding:"required"`
}

// UploadArtwork handles POST /api/v1/pedidos/:id/artes - submits a new
// artwork version (multipart form: "arquivo" + optional "comentario")
func UploadArtwork(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	orderID, ok := orderIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("arquivo")
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "A file is required in the \"arquivo\" field")
		return
	}
	comment := c.PostForm("comentario")

	version, err := services.SubmitVersion(orderID, actor, fileHeader, comment)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    version,
	})
}

// ListArtwork handles GET /api/v1/pedidos/:id/artes - lists all versions of
// an order in ascending version order
func ListArtwork(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	orderID, ok := orderIDParam(c, "id")
	if !ok {
		return
	}

	versions, err := services.ListVersions(orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    versions,
	})
}

// ReviewArtwork handles POST /api/v1/artes/:id/avaliacao - records the
// approval decision for a pending version
func ReviewArtwork(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	versionID, ok := orderIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	version, err := services.ReviewVersion(versionID, actor, req.Decisao, req.Comentario)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    version,
	})
}

// ReassignArtworkDesigner handles PUT /api/v1/pedidos/:id/arte-finalista -
// manager-only reassignment of the responsible designer
func ReassignArtworkDesigner(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	orderID, ok := orderIDParam(c, "id")
	if !ok {
		return
	}

	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	assignment, err := services.ReassignDesigner(orderID, actor, req.ArteFinalistaID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    assignment,
	})
}
