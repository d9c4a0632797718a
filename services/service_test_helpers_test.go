package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rniedson/brbandeiras-api/config"
	"github.com/rniedson/brbandeiras-api/models"
)

// setupTestDB wires an in-memory sqlite database as the global DB. The pool
// is capped at one connection so concurrent test goroutines share the same
// in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

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

func createTestUser(t *testing.T, db *gorm.DB, perfil string) *models.User {
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

// createTestOrder seeds an order directly at the given status, with a
// matching history entry so the history-head invariant holds from the start.
func createTestOrder(t *testing.T, db *gorm.DB, vendedor *models.User, status string) *models.Order {
	t.Helper()

	order := models.Order{
		Numero:     fmt.Sprintf("PED-%06d", seqOrderNumber(db)),
		Status:     status,
		ValorTotal: 1000,
		Desconto:   0,
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

func seqOrderNumber(db *gorm.DB) int64 {
	var count int64
	db.Model(&models.Order{}).Count(&count)
	return count + 1
}

// createFileHeader builds a real multipart.FileHeader whose Open() works.
func createFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("arquivo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(64<<20))
	return req.MultipartForm.File["arquivo"][0]
}

// latestEvent returns the most recent history entry for an order.
func latestEvent(t *testing.T, db *gorm.DB, orderID uint) *models.ProductionEvent {
	t.Helper()

	var event models.ProductionEvent
	require.NoError(t, db.Where("pedido_id = ?", orderID).
		Order("created_at DESC, id DESC").First(&event).Error)
	return &event
}
