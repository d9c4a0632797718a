package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rniedson/brbandeiras-api/config"
	"github.com/rniedson/brbandeiras-api/models"
)

// ItemInput is one line item as submitted by the client. The subtotal is
// never taken from input; it is recomputed here.
type ItemInput struct {
	Descricao     string  `json:"descricao" binding:"required"`
	Quantidade    int     `json:"quantidade" binding:"required,gt=0"`
	PrecoUnitario float64 `json:"preco_unitario" binding:"gte=0"`
}

// CreateOrderInput carries the fields accepted when opening a quote.
type CreateOrderInput struct {
	Observacoes  string      `json:"observacoes"`
	Urgente      bool        `json:"urgente"`
	PrazoEntrega *time.Time  `json:"prazo_entrega"`
	Desconto     float64     `json:"desconto"`
	Items        []ItemInput `json:"itens"`
}

func validateItems(items []ItemInput) ([]models.OrderItem, float64, error) {
	rows := make([]models.OrderItem, 0, len(items))
	total := 0.0
	for i, item := range items {
		if strings.TrimSpace(item.Descricao) == "" {
			return nil, 0, errValidation(fmt.Sprintf("item %d: description is required", i+1))
		}
		if item.Quantidade <= 0 {
			return nil, 0, errValidation(fmt.Sprintf("item %d: quantity must be greater than zero", i+1))
		}
		if item.PrecoUnitario < 0 {
			return nil, 0, errValidation(fmt.Sprintf("item %d: unit price must not be negative", i+1))
		}
		subtotal := float64(item.Quantidade) * item.PrecoUnitario
		rows = append(rows, models.OrderItem{
			Descricao:     item.Descricao,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Subtotal:      subtotal,
		})
		total += subtotal
	}
	return rows, total, nil
}

func validateDesconto(desconto, total float64) error {
	if desconto < 0 {
		return errValidation("discount must not be negative")
	}
	if desconto > total {
		return errValidation("discount must not exceed the order total")
	}
	return nil
}

// CreateOrder opens a new quote owned by the acting salesperson. Totals are
// computed server-side and the initial history entry is written in the same
// transaction.
func CreateOrder(actor *models.User, input CreateOrderInput) (*models.Order, error) {
	if actor.Perfil != models.RoleVendedor && actor.Perfil != models.RoleGestor {
		return nil, errPermissionDenied("only salespeople and managers may create orders")
	}

	rows, total, err := validateItems(input.Items)
	if err != nil {
		return nil, err
	}
	if err := validateDesconto(input.Desconto, total); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var created models.Order

	err = db.Transaction(func(tx *gorm.DB) error {
		order := models.Order{
			Numero:       fmt.Sprintf("PED-%d", time.Now().UnixNano()), // placeholder until the id exists
			Status:       models.StatusOrcamento,
			ValorTotal:   total,
			Desconto:     input.Desconto,
			ValorFinal:   total - input.Desconto,
			Urgente:      input.Urgente,
			PrazoEntrega: input.PrazoEntrega,
			Observacoes:  input.Observacoes,
			VendedorID:   actor.ID,
			Items:        rows,
		}
		if err := tx.Create(&order).Error; err != nil {
			return errDatabase(err)
		}

		// The human-readable sequence number follows the surrogate id.
		numero := fmt.Sprintf("PED-%06d", order.ID)
		if err := tx.Model(&order).Update("numero", numero).Error; err != nil {
			return errDatabase(err)
		}

		if err := appendEvent(tx, order.ID, "", models.StatusOrcamento, "pedido criado", actor.ID); err != nil {
			return errDatabase(err)
		}

		if err := tx.Preload("Items").Preload("Vendedor").First(&created, order.ID).Error; err != nil {
			return errDatabase(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// GetOrder fetches one order with its items and owner.
func GetOrder(orderID uint) (*models.Order, error) {
	db := config.GetDB()

	var order models.Order
	if err := db.Preload("Items").Preload("Vendedor").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound(orderID)
		}
		return nil, errDatabase(err)
	}
	return &order, nil
}

// ListOrders returns orders visible to the actor: salespeople see their own,
// every other role sees all.
func ListOrders(actor *models.User) ([]models.Order, error) {
	db := config.GetDB()

	query := db.Preload("Items").Preload("Vendedor").Order("created_at DESC")
	if actor.Perfil == models.RoleVendedor {
		query = query.Where("vendedor_id = ?", actor.ID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, errDatabase(err)
	}
	return orders, nil
}

// UpdateItems replaces the line items (and optionally the discount) of an
// order and recomputes the totals. Editability follows order status and
// actor role.
func UpdateItems(orderID uint, actor *models.User, items []ItemInput, desconto *float64) (*models.Order, error) {
	db := config.GetDB()
	var updated models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errOrderNotFound(orderID)
			}
			return errDatabase(err)
		}

		if !order.Editable(actor) {
			return errPermissionDenied(fmt.Sprintf("order %s is not editable by this user in status %q",
				order.Numero, order.Status))
		}

		rows, total, err := validateItems(items)
		if err != nil {
			return err
		}

		newDesconto := order.Desconto
		if desconto != nil {
			newDesconto = *desconto
		}
		if err := validateDesconto(newDesconto, total); err != nil {
			return err
		}

		if err := tx.Where("pedido_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return errDatabase(err)
		}
		for i := range rows {
			rows[i].OrderID = order.ID
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return errDatabase(err)
			}
		}

		if err := tx.Model(&order).Updates(map[string]interface{}{
			"valor_total": total,
			"desconto":    newDesconto,
			"valor_final": total - newDesconto,
		}).Error; err != nil {
			return errDatabase(err)
		}

		if err := tx.Preload("Items").Preload("Vendedor").First(&updated, order.ID).Error; err != nil {
			return errDatabase(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}
