package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rniedson/brbandeiras-api/config"
	"github.com/rniedson/brbandeiras-api/models"
)

// appendEvent writes one production history entry inside the caller's
// transaction. This is the only write path into pedido_historico; nothing in
// the codebase updates or deletes entries.
func appendEvent(tx *gorm.DB, orderID uint, statusAnterior, status, observacao string, actorID uint) error {
	event := models.ProductionEvent{
		OrderID:        orderID,
		StatusAnterior: statusAnterior,
		Status:         status,
		Observacao:     observacao,
		UsuarioID:      actorID,
	}
	return tx.Create(&event).Error
}

// ListHistory returns the production history of an order in ascending
// timestamp order. This is the canonical source for the order timeline view.
func ListHistory(orderID uint) ([]models.ProductionEvent, error) {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound(orderID)
		}
		return nil, errDatabase(err)
	}

	var events []models.ProductionEvent
	if err := db.Preload("Usuario").
		Where("pedido_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, errDatabase(err)
	}

	return events, nil
}
