package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rniedson/brbandeiras-api/config"
	"github.com/rniedson/brbandeiras-api/models"
)

// productionStatuses is the quintet applied in varying sequence by operators
// once an order leaves the quote phase. Any move between two distinct members
// is legal (the rework edge pronto -> producao included); what is never legal
// is re-entering orcamento/aprovado or leaving a terminal status.
var productionStatuses = map[string]bool{
	models.StatusProducao:     true,
	models.StatusPagamento50:  true,
	models.StatusPronto:       true,
	models.StatusPagamento100: true,
	models.StatusEntregue:     true,
}

// legalTransition reports whether the edge current -> requested exists in the
// state graph. Both statuses are assumed valid; no-ops are handled by the
// caller.
func legalTransition(current, requested string) bool {
	if models.TerminalStatus(current) {
		return false
	}
	if requested == models.StatusCancelado {
		return true
	}

	switch current {
	case models.StatusOrcamento:
		return requested == models.StatusAprovado
	case models.StatusAprovado:
		return requested == models.StatusOrcamento || productionStatuses[requested]
	}

	// Production quintet: any move to another member, never back to the
	// quote phase.
	return productionStatuses[current] && productionStatuses[requested]
}

// transitionAllowed is the capability check: one predicate per role,
// evaluated uniformly for every edge.
func transitionAllowed(actor *models.User, order *models.Order, current, requested string) bool {
	switch actor.Perfil {
	case models.RoleGestor:
		return true

	case models.RoleVendedor:
		// Salespeople handle only their own orders and only the quote phase:
		// approval, return to quote with a reason, or cancellation of a quote.
		if order.VendedorID != actor.ID {
			return false
		}
		quotePhase := current == models.StatusOrcamento || current == models.StatusAprovado
		if !quotePhase {
			return false
		}
		return requested == models.StatusAprovado ||
			requested == models.StatusOrcamento ||
			requested == models.StatusCancelado

	case models.RoleProducao:
		// Production moves orders through the production quintet, including
		// starting production on an approved order, but never performs the
		// quote approval step and never cancels.
		if !productionStatuses[requested] {
			return false
		}
		return current == models.StatusAprovado || productionStatuses[current]
	}

	return false
}

// TransitionOrder validates and applies a status change. On success the order
// status update and the history entry are committed as one transaction; the
// status write carries an optimistic check on the previously read status so
// concurrent transitions cannot both succeed on stale preconditions.
func TransitionOrder(orderID uint, requested string, actor *models.User, note string) (*models.Order, error) {
	if !models.ValidStatus(requested) {
		return nil, errInvalidTransition(fmt.Sprintf("unknown status %q", requested))
	}

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

		if err := transitionTx(tx, &order, requested, actor, note); err != nil {
			return err
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

// transitionTx applies the transition against the order snapshot the caller
// read. The snapshot's status is the optimistic precondition: if the row no
// longer carries it, the update matches nothing and the caller loses with
// ConcurrentModification.
func transitionTx(tx *gorm.DB, order *models.Order, requested string, actor *models.User, note string) error {
	if requested == order.Status {
		return errInvalidTransition(fmt.Sprintf("order is already in status %q", requested))
	}
	if !legalTransition(order.Status, requested) {
		return errInvalidTransition(fmt.Sprintf("cannot move from %q to %q", order.Status, requested))
	}
	if !transitionAllowed(actor, order, order.Status, requested) {
		return errPermissionDenied(fmt.Sprintf("role %q may not move this order from %q to %q",
			actor.Perfil, order.Status, requested))
	}

	// A salesperson sending an approved order back to quote is recording a
	// rejection; the reason is mandatory.
	if actor.Perfil == models.RoleVendedor &&
		order.Status == models.StatusAprovado && requested == models.StatusOrcamento &&
		strings.TrimSpace(note) == "" {
		return errValidation("a reason is required when returning an order to quote")
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", requested)
	if res.Error != nil {
		return errDatabase(res.Error)
	}
	if res.RowsAffected == 0 {
		return errConcurrentModification(order.ID)
	}

	if err := appendEvent(tx, order.ID, order.Status, requested, note, actor.ID); err != nil {
		return errDatabase(err)
	}

	return nil
}
