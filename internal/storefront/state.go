package storefront

import (
	"sync/atomic"

	"github.com/nguyentranbao-ct/storefront/internal/models"
)

// Slot holds a value that moves from unresolved to resolved at most once.
// Readers never block and never observe a partially written value.
type Slot[T any] struct {
	v atomic.Pointer[T]
}

// Resolve stores v if the slot is still unresolved and reports whether it did.
func (s *Slot[T]) Resolve(v T) bool {
	return s.v.CompareAndSwap(nil, &v)
}

func (s *Slot[T]) Load() (T, bool) {
	p := s.v.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func (s *Slot[T]) Resolved() bool {
	return s.v.Load() != nil
}

// AggregateState is the partitioned record the fetch tasks write into. Each
// slot has exactly one writer.
type AggregateState struct {
	Products Slot[[]models.Product]
	User     Slot[models.UserProfile]
	Cart     Slot[models.CartSummary]
}

// Snapshot copies the current slots into a State.
func (s *AggregateState) Snapshot() State {
	var st State
	if products, ok := s.Products.Load(); ok {
		st.Products = products
		st.ProductsLoaded = true
	}
	if user, ok := s.User.Load(); ok {
		st.User = &user
	}
	if cart, ok := s.Cart.Load(); ok {
		st.Cart = &cart
	}
	return st
}

// State is a point in time view of an AggregateState. A nil User or Cart is
// still loading.
type State struct {
	Products       []models.Product
	ProductsLoaded bool
	User           *models.UserProfile
	Cart           *models.CartSummary
}

// Complete reports whether every slice resolved.
func (s State) Complete() bool {
	return s.ProductsLoaded && s.User != nil && s.Cart != nil
}
