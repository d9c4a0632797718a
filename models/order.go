package models

import (
	"time"
)

// Order statuses. "orcamento" and "aprovado" are the editable quote phase;
// the production statuses may be applied in varying sequence by operators;
// "entregue" and "cancelado" are terminal.
const (
	StatusOrcamento    = "orcamento"
	StatusAprovado     = "aprovado"
	StatusProducao     = "producao"
	StatusPagamento50  = "pagamento_50"
	StatusPronto       = "pronto"
	StatusPagamento100 = "pagamento_100"
	StatusEntregue     = "entregue"
	StatusCancelado    = "cancelado"
)

// ValidStatus reports whether status is one of the known order statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusOrcamento, StatusAprovado, StatusProducao, StatusPagamento50,
		StatusPronto, StatusPagamento100, StatusEntregue, StatusCancelado:
		return true
	}
	return false
}

// TerminalStatus reports whether no further transition can leave status.
func TerminalStatus(status string) bool {
	return status == StatusEntregue || status == StatusCancelado
}

// Order represents a customer order (pedido) moving from quote to delivery.
// Orders are never hard-deleted: cancellation is the status "cancelado".
type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Numero       string      `gorm:"uniqueIndex;not null" json:"numero"`
	Status       string      `gorm:"not null;default:'orcamento';index" json:"status"`
	ValorTotal   float64     `gorm:"not null;default:0" json:"valor_total"`
	Desconto     float64     `gorm:"not null;default:0" json:"desconto"`
	ValorFinal   float64     `gorm:"not null;default:0" json:"valor_final"` // always valor_total - desconto, recomputed server-side
	Urgente      bool        `gorm:"not null;default:false" json:"urgente"`
	PrazoEntrega *time.Time  `json:"prazo_entrega"`
	Observacoes  string      `gorm:"type:text" json:"observacoes"`
	VendedorID   uint        `gorm:"not null;index" json:"vendedor_id"` // owning salesperson
	Vendedor     User        `gorm:"foreignKey:VendedorID" json:"vendedor"`
	Items        []OrderItem `gorm:"foreignKey:OrderID" json:"itens"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "pedidos"
}

// Editable reports whether line items may still be modified. Managers may
// edit in any non-terminal status; everyone else only in the quote phase.
func (o *Order) Editable(actor *User) bool {
	if TerminalStatus(o.Status) {
		return false
	}
	if actor.IsGestor() {
		return true
	}
	return (o.Status == StatusOrcamento || o.Status == StatusAprovado) &&
		actor.Perfil == RoleVendedor && actor.ID == o.VendedorID
}

// OrderItem is one priced line of an order. Subtotal is computed server-side
// from Quantidade * PrecoUnitario, never trusted from client input.
type OrderItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"column:pedido_id;not null;index" json:"pedido_id"`
	Descricao     string    `gorm:"not null" json:"descricao"`
	Quantidade    int       `gorm:"not null;check:quantidade > 0" json:"quantidade"`
	PrecoUnitario float64   `gorm:"not null;check:preco_unitario >= 0" json:"preco_unitario"`
	Subtotal      float64   `gorm:"not null" json:"subtotal"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "pedido_itens"
}
