package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rniedson/brbandeiras-api/models"
)

var allStatuses = []string{
	models.StatusOrcamento,
	models.StatusAprovado,
	models.StatusProducao,
	models.StatusPagamento50,
	models.StatusPronto,
	models.StatusPagamento100,
	models.StatusEntregue,
	models.StatusCancelado,
}

// allowedEdges mirrors the state graph: quote phase, the production quintet
// applied in varying sequence, cancellation from any non-terminal state, and
// no exit from terminals.
var allowedEdges = map[string][]string{
	models.StatusOrcamento: {models.StatusAprovado, models.StatusCancelado},
	models.StatusAprovado: {
		models.StatusOrcamento, models.StatusProducao, models.StatusPagamento50,
		models.StatusPronto, models.StatusPagamento100, models.StatusEntregue,
		models.StatusCancelado,
	},
	models.StatusProducao: {
		models.StatusPagamento50, models.StatusPronto, models.StatusPagamento100,
		models.StatusEntregue, models.StatusCancelado,
	},
	models.StatusPagamento50: {
		models.StatusProducao, models.StatusPronto, models.StatusPagamento100,
		models.StatusEntregue, models.StatusCancelado,
	},
	models.StatusPronto: {
		models.StatusProducao, models.StatusPagamento50, models.StatusPagamento100,
		models.StatusEntregue, models.StatusCancelado,
	},
	models.StatusPagamento100: {
		models.StatusProducao, models.StatusPagamento50, models.StatusPronto,
		models.StatusEntregue, models.StatusCancelado,
	},
	models.StatusEntregue:  {},
	models.StatusCancelado: {},
}

func edgeAllowed(from, to string) bool {
	for _, s := range allowedEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

func TestTransitionOrder_EdgeMatrix(t *testing.T) {
	db := setupTestDB(t)
	gestor := createTestUser(t, db, models.RoleGestor)
	vendedor := createTestUser(t, db, models.RoleVendedor)

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			name := fmt.Sprintf("%s->%s", from, to)
			t.Run(name, func(t *testing.T) {
				order := createTestOrder(t, db, vendedor, from)

				updated, err := TransitionOrder(order.ID, to, gestor, "nota")
				if from != to && edgeAllowed(from, to) {
					require.NoError(t, err)
					assert.Equal(t, to, updated.Status)

					event := latestEvent(t, db, order.ID)
					assert.Equal(t, from, event.StatusAnterior)
					assert.Equal(t, to, event.Status)
					return
				}

				require.Error(t, err)
				assert.True(t, IsCode(err, CodeInvalidTransition),
					"expected InvalidTransition, got %v", err)

				// Rejected transitions leave no trace.
				var current models.Order
				require.NoError(t, db.First(&current, order.ID).Error)
				assert.Equal(t, from, current.Status)
			})
		}
	}
}

func TestTransitionOrder_GestorApprovesQuote(t *testing.T) {
	db := setupTestDB(t)
	gestor := createTestUser(t, db, models.RoleGestor)
	vendedor := createTestUser(t, db, models.RoleVendedor)
	order := createTestOrder(t, db, vendedor, models.StatusOrcamento)

	updated, err := TransitionOrder(order.ID, models.StatusAprovado, gestor, "ok")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAprovado, updated.Status)

	var events []models.ProductionEvent
	require.NoError(t, db.Where("pedido_id = ?", order.ID).
		Order("created_at ASC, id ASC").Find(&events).Error)
	require.Len(t, events, 2) // creation + approval

	last := events[len(events)-1]
	assert.Equal(t, models.StatusOrcamento, last.StatusAnterior)
	assert.Equal(t, models.StatusAprovado, last.Status)
	assert.Equal(t, "ok", last.Observacao)
	assert.Equal(t, gestor.ID, last.UsuarioID)
}

func TestTransitionOrder_ProducaoOnQuoteIsInvalid(t *testing.T) {
	db := setupTestDB(t)
	vendedor := createTestUser(t, db, models.RoleVendedor)
	producao := createTestUser(t, db, models.RoleProducao)
	order := createTestOrder(t, db, vendedor, models.StatusOrcamento)

	// Legality is checked before permission: an unreachable status reports
	// InvalidTransition even for a role that could never apply it.
	_, err := TransitionOrder(order.ID, models.StatusPronto, producao, "done")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidTransition))
}

func TestTransitionOrder_RolePermissions(t *testing.T) {
	db := setupTestDB(t)
	vendedor := createTestUser(t, db, models.RoleVendedor)
	outroVendedor := createTestUser(t, db, models.RoleVendedor)
	producao := createTestUser(t, db, models.RoleProducao)
	designer := createTestUser(t, db, models.RoleArteFinalista)

	tests := []struct {
		name     string
		from     string
		to       string
		actor    *models.User
		note     string
		wantCode string
	}{
		{"vendedor approves own quote", models.StatusOrcamento, models.StatusAprovado, vendedor, "", ""},
		{"vendedor cancels own quote", models.StatusOrcamento, models.StatusCancelado, vendedor, "cliente desistiu", ""},
		{"vendedor rejects approval with reason", models.StatusAprovado, models.StatusOrcamento, vendedor, "preço errado", ""},
		{"vendedor rejects approval without reason", models.StatusAprovado, models.StatusOrcamento, vendedor, "  ", CodeValidation},
		{"vendedor cannot touch another salesperson's order", models.StatusOrcamento, models.StatusAprovado, outroVendedor, "", CodePermissionDenied},
		{"vendedor cannot move production statuses", models.StatusProducao, models.StatusPronto, vendedor, "", CodePermissionDenied},
		{"producao starts production on approved order", models.StatusAprovado, models.StatusProducao, producao, "", ""},
		{"producao marks ready", models.StatusProducao, models.StatusPronto, producao, "", ""},
		{"producao sends back to production", models.StatusPronto, models.StatusProducao, producao, "refazer acabamento", ""},
		{"producao marks delivered", models.StatusPagamento100, models.StatusEntregue, producao, "", ""},
		{"producao cannot approve quotes", models.StatusOrcamento, models.StatusAprovado, producao, "", CodePermissionDenied},
		{"producao cannot cancel", models.StatusProducao, models.StatusCancelado, producao, "", CodePermissionDenied},
		{"designer cannot transition at all", models.StatusAprovado, models.StatusProducao, designer, "", CodePermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := createTestOrder(t, db, vendedor, tt.from)

			updated, err := TransitionOrder(order.ID, tt.to, tt.actor, tt.note)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.to, updated.Status)
				return
			}

			require.Error(t, err)
			assert.True(t, IsCode(err, tt.wantCode), "expected %s, got %v", tt.wantCode, err)
		})
	}
}

func TestTransitionOrder_UnknownStatusAndMissingOrder(t *testing.T) {
	db := setupTestDB(t)
	gestor := createTestUser(t, db, models.RoleGestor)

	_, err := TransitionOrder(1, "em_espera", gestor, "")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidTransition))

	_, err = TransitionOrder(9999, models.StatusAprovado, gestor, "")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeOrderNotFound))
}

func TestTransitionOrder_HistoryHeadMatchesStatus(t *testing.T) {
	db := setupTestDB(t)
	gestor := createTestUser(t, db, models.RoleGestor)
	vendedor := createTestUser(t, db, models.RoleVendedor)
	order := createTestOrder(t, db, vendedor, models.StatusOrcamento)

	sequence := []string{
		models.StatusAprovado,
		models.StatusProducao,
		models.StatusPagamento50,
		models.StatusPronto,
		models.StatusProducao, // rework
		models.StatusPronto,
		models.StatusPagamento100,
		models.StatusEntregue,
	}

	for _, status := range sequence {
		updated, err := TransitionOrder(order.ID, status, gestor, "")
		require.NoError(t, err)

		event := latestEvent(t, db, order.ID)
		assert.Equal(t, updated.Status, event.Status,
			"history head must agree with the order status")
	}
}

func TestTransitionOrder_ConcurrentModification(t *testing.T) {
	db := setupTestDB(t)
	gestor := createTestUser(t, db, models.RoleGestor)
	vendedor := createTestUser(t, db, models.RoleVendedor)
	order := createTestOrder(t, db, vendedor, models.StatusOrcamento)

	// Read a snapshot, then change the row underneath it.
	var stale models.Order
	require.NoError(t, db.First(&stale, order.ID).Error)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.StatusCancelado).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		return transitionTx(tx, &stale, models.StatusAprovado, gestor, "")
	})
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeConcurrentModification), "got %v", err)

	// The loser left no history entry behind.
	event := latestEvent(t, db, order.ID)
	assert.Equal(t, models.StatusOrcamento, event.Status)
}
