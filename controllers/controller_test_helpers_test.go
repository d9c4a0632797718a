package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rniedson/brbandeiras-api/config"
	"github.com/rniedson/brbandeiras-api/models"
)

func setupControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.ArtworkAssignment{},
		&models.ArtworkVersion{},
		&models.ProductionEvent{},
	), "failed to migrate test database")

	config.SetDB(db)
	return db
}

// setupRouterAs builds the API routes with the JWT middleware replaced by a
// stub that authenticates every request as auth0ID.
func setupRouterAs(auth0ID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		if auth0ID != "" {
			c.Set("user_id", auth0ID)
		}
		c.Next()
	})

	v1 := router.Group("/api/v1")
	v1.POST("/usuarios", CreateUser)
	v1.GET("/usuarios/me", GetMyProfile)
	v1.POST("/pedidos", CreateOrder)
	v1.GET("/pedidos", ListOrders)
	v1.GET("/pedidos/:id", GetOrder)
	v1.PUT("/pedidos/:id/itens", UpdateOrderItems)
	v1.POST("/pedidos/:id/status", TransitionOrder)
	v1.GET("/pedidos/:id/historico", GetOrderHistory)
	v1.POST("/pedidos/:id/artes", UploadArtwork)
	v1.GET("/pedidos/:id/artes", ListArtwork)
	v1.PUT("/pedidos/:id/arte-finalista", ReassignArtworkDesigner)
	v1.POST("/artes/:id/avaliacao", ReviewArtwork)

	return router
}

func newUser(t *testing.T, db *gorm.DB, perfil string) *models.User {
	t.Helper()

	var count int64
	db.Model(&models.User{}).Count(&count)

	user := models.User{
		Auth0ID: fmt.Sprintf("auth0|%s%d", perfil, count+1),
		Nome:    fmt.Sprintf("%s %d", perfil, count+1),
		Email:   fmt.Sprintf("%s%d@brbandeiras.com.br", perfil, count+1),
		Perfil:  perfil,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func newOrder(t *testing.T, db *gorm.DB, vendedor *models.User, status string) *models.Order {
	t.Helper()

	var count int64
	db.Model(&models.Order{}).Count(&count)

	order := models.Order{
		Numero:     fmt.Sprintf("PED-%06d", count+1),
		Status:     status,
		ValorTotal: 1000,
		ValorFinal: 1000,
		VendedorID: vendedor.ID,
	}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.ProductionEvent{
		OrderID:   order.ID,
		Status:    status,
		UsuarioID: vendedor.ID,
	}).Error)
	return &order
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doMultipart(t *testing.T, router *gin.Engine, path, filename string, content []byte, comment string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("arquivo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if comment != "" {
		require.NoError(t, writer.WriteField("comentario", comment))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	response := parseResponse(t, w)
	errObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}
