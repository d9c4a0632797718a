package models

import (
	"time"
)

// ProductionEvent is one append-only entry in an order's production history.
// Entries are never updated or deleted; replaying them in timestamp order
// reconstructs who did what, when, for any order. The order's current status
// is a cached projection of the latest entry's Status.
type ProductionEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"column:pedido_id;not null;index" json:"pedido_id"`
	StatusAnterior string    `json:"status_anterior"`
	Status         string    `gorm:"not null" json:"status"`
	Observacao     string    `gorm:"type:text" json:"observacao"`
	UsuarioID      uint      `gorm:"not null" json:"usuario_id"`
	Usuario        User      `gorm:"foreignKey:UsuarioID" json:"usuario"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for the ProductionEvent model
func (ProductionEvent) TableName() string {
	return "pedido_historico"
}
