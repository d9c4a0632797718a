package services

import (
	"sync"
)

// orderLocks serializes artwork version numbering per order within this
// process. The unique index on (pedido_id, versao) remains the backstop for
// multi-instance deployments.
var orderLocks = struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}{locks: make(map[uint]*sync.Mutex)}

// lockOrder acquires the per-order mutex and returns the unlock function.
func lockOrder(orderID uint) func() {
	orderLocks.mu.Lock()
	l, ok := orderLocks.locks[orderID]
	if !ok {
		l = &sync.Mutex{}
		orderLocks.locks[orderID] = l
	}
	orderLocks.mu.Unlock()

	l.Lock()
	return l.Unlock
}
