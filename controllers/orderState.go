package controllers

import (
	"sync"
	"sync/atomic"

	"go-restaurant-tracker/models"
)

// OrderState is the single in-memory order list every view reads. Fetch
// results land through Apply, tagged with a sequence taken at issue time, so
// a stale response that resolves after a fresher one is discarded instead of
// overwriting it. Tentative (optimistic) status changes are tracked per
// order until they are promoted or rolled back.
type OrderState struct {
	seq uint64 // atomic

	mu          sync.RWMutex
	orders      []models.Order
	lastApplied uint64
	tentative   map[string]models.Status // order id -> status before the optimistic write
}

func NewOrderState() *OrderState {
	return &OrderState{tentative: make(map[string]models.Status)}
}

// NextSeq must be called before issuing a fetch; the returned tag is handed
// back to Apply with the result.
func (s *OrderState) NextSeq() uint64 {
	return atomic.AddUint64(&s.seq, 1)
}

// Apply installs a fetch result. Returns false when a fresher fetch already
// landed, in which case the result is dropped. Server data is the source of
// truth, so any outstanding tentative marks are cleared.
func (s *OrderState) Apply(seq uint64, orders []models.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.lastApplied {
		return false
	}
	s.lastApplied = seq
	s.orders = append([]models.Order(nil), orders...)
	s.tentative = make(map[string]models.Status)
	return true
}

// Orders returns a copy of the current list.
func (s *OrderState) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Order(nil), s.orders...)
}

// Get returns the order with the given id, if present.
func (s *OrderState) Get(orderID string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, order := range s.orders {
		if order.Order_id == orderID {
			return order, true
		}
	}
	return models.Order{}, false
}

// ApplyTentative records an optimistic status change, remembering the
// pre-update status for rollback. A second tentative write to the same order
// keeps the original rollback point.
func (s *OrderState) ApplyTentative(orderID string, status models.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].Order_id != orderID {
			continue
		}
		if _, exists := s.tentative[orderID]; !exists {
			s.tentative[orderID] = s.orders[i].Status
		}
		s.orders[i].Status = status
		// the steps no longer reflect the tentative status; drop them so
		// DisplayStatus follows the optimistic write until the re-sync
		s.orders[i].Steps = nil
		return true
	}
	return false
}

// Rollback restores the pre-tentative status after a failed mutation.
func (s *OrderState) Rollback(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.tentative[orderID]
	if !ok {
		return
	}
	delete(s.tentative, orderID)
	for i := range s.orders {
		if s.orders[i].Order_id == orderID {
			s.orders[i].Status = prev
			return
		}
	}
}

// Promote confirms a tentative change after the server accepted it.
func (s *OrderState) Promote(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tentative, orderID)
}

// HasTentative reports whether an order still carries an unconfirmed write.
func (s *OrderState) HasTentative(orderID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tentative[orderID]
	return ok
}
