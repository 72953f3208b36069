package session

import (
	"context"
	"sync"

	"stockyfy/internal/models"
	"stockyfy/internal/services"
)

// ProductState is the in-memory snapshot of the last-fetched product list
// for the active warehouse. It wraps ProductService for the presentation
// layer but holds no business logic of its own. Mutations patch the local
// list optimistically, which can diverge from server truth when an upstream
// write fails after the patch; Refresh replaces the snapshot wholesale.
type ProductState struct {
	mu       sync.RWMutex
	products []models.Product
	lastErr  error

	productService services.ProductService
}

func NewProductState(productService services.ProductService) *ProductState {
	return &ProductState{productService: productService}
}

// Refresh re-fetches the whole warehouse product list and replaces the
// snapshot. On failure the previous snapshot is kept and the error retained.
func (s *ProductState) Refresh(ctx context.Context, warehouseID int64) error {
	products, err := s.productService.ListByWarehouse(ctx, warehouseID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return err
	}
	s.products = products
	s.lastErr = nil
	return nil
}

// Products returns a copy of the current snapshot.
func (s *ProductState) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get returns the snapshot entry with the given id, or nil.
func (s *ProductState) Get(id string) *models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p
		}
	}
	return nil
}

// LastErr returns the error from the most recent failed refresh.
func (s *ProductState) LastErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ApplyAdd appends a created product to the snapshot.
func (s *ProductState) ApplyAdd(product *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, *product)
}

// ApplyUpdate replaces the snapshot entry with the same id. Unknown ids are
// ignored.
func (s *ProductState) ApplyUpdate(product *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == product.ID {
			s.products[i] = *product
			return
		}
	}
}

// ApplyRemove drops the snapshot entry with the given id.
func (s *ProductState) ApplyRemove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return
		}
	}
}

// ApplyQuantity patches the stock quantity for one warehouse entry of the
// product. This is the optimistic path used after a quantity adjustment.
func (s *ProductState) ApplyQuantity(id string, warehouseID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		for j := range s.products[i].Stocks {
			if s.products[i].Stocks[j].ID == warehouseID {
				s.products[i].Stocks[j].Quantity = quantity
				return
			}
		}
		return
	}
}
