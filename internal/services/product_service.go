package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockyfy/internal/caching"
	"stockyfy/internal/models"
	"stockyfy/internal/store"
)

// ErrStockNotFound is returned when a quantity update targets a warehouse
// the product has no stock entry for.
var ErrStockNotFound = errors.New("stock entry not found for warehouse")

// AdjustResult is the outcome of a scan-driven quantity adjustment. The
// reference client collapsed insufficient stock and transport failures into
// a single boolean; the tagged result keeps the two cases apart.
type AdjustResult int

const (
	AdjustOK AdjustResult = iota
	AdjustInsufficientStock
	AdjustTransportFailure
)

func (r AdjustResult) String() string {
	switch r {
	case AdjustOK:
		return "ok"
	case AdjustInsufficientStock:
		return "insufficient stock"
	case AdjustTransportFailure:
		return "transport failure"
	}
	return "unknown"
}

// ProductService is the single point of truth for product CRUD against the
// remote store. Every mutation keeps the statistics singleton approximately
// correct: add/delete apply increments, update triggers a full rescan of the
// warehouse. None of it is transactional; a failed statistics write after a
// successful product write leaves the aggregate stale until the next rescan.
type ProductService interface {
	ListByWarehouse(ctx context.Context, warehouseID int64) ([]models.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, bool)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, id string, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	SetStockQuantity(ctx context.Context, id string, warehouseID int64, quantity int) error
	SetQuantity(ctx context.Context, id string, quantity int) error
	AdjustAfterScan(ctx context.Context, id string, delta int, direction string) AdjustResult
	Statistics(ctx context.Context) (*models.Statistics, error)
	RecalculateStatistics(ctx context.Context, warehouseID int64) (*models.Statistics, error)
}

type productService struct {
	store store.Store
	cache caching.CacheService
}

func NewProductService(st store.Store, cache caching.CacheService) ProductService {
	return &productService{
		store: st,
		cache: cache,
	}
}

func (s *productService) ListByWarehouse(ctx context.Context, warehouseID int64) ([]models.Product, error) {
	return s.store.ListProductsByWarehouse(ctx, warehouseID)
}

// FindByBarcode fetches the entire product collection and returns the first
// entry whose barcode matches exactly. Two products sharing a barcode make
// the second one unreachable by this lookup.
func (s *productService) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Barcode == barcode {
			return &products[i], nil
		}
	}
	return nil, nil
}

// GetByID is a soft lookup: any failure, not-found included, comes back as
// (nil, false). Successful reads are cached briefly.
func (s *productService) GetByID(ctx context.Context, id string) (*models.Product, bool) {
	if cached, err := s.cache.GetProduct(ctx, id); cached != nil {
		return cached, true
	} else if err != nil {
		fmt.Printf("Cache error for product %s: %v\n", id, err)
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, false
	}

	if cacheErr := s.cache.SetProduct(ctx, product, 15*time.Minute); cacheErr != nil {
		fmt.Printf("Failed to cache product %s: %v\n", id, cacheErr)
	}

	return product, true
}

// fetch reads the product straight from the store, bypassing the cache.
// Mutation paths use it so they always start from server truth.
func (s *productService) fetch(ctx context.Context, id string) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *productService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	created, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}

	// Statistics are only touched after a successful POST; if this write
	// fails the product still exists server-side and the aggregate stays
	// stale until the next full rescan.
	if err := s.updateStatistics(ctx, actionAdd, created); err != nil {
		return nil, fmt.Errorf("update statistics: %w", err)
	}

	return created, nil
}

// Update PUTs the full merged object. The caller is responsible for merging;
// the service does not fetch-then-merge.
func (s *productService) Update(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	updated, err := s.store.UpdateProduct(ctx, id, product)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cache.DeleteProduct(ctx, id); cacheErr != nil {
		fmt.Printf("Failed to invalidate cache for product %s: %v\n", id, cacheErr)
	}

	if err := s.updateStatistics(ctx, actionUpdate, updated); err != nil {
		return nil, fmt.Errorf("update statistics: %w", err)
	}

	return updated, nil
}

// Delete removes the product if it exists. A missing product is a silent
// no-op: no DELETE is issued and the statistics are left alone.
func (s *productService) Delete(ctx context.Context, id string) error {
	product, err := s.fetch(ctx, id)
	if err != nil {
		return nil
	}

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if cacheErr := s.cache.DeleteProduct(ctx, id); cacheErr != nil {
		fmt.Printf("Failed to invalidate cache for product %s: %v\n", id, cacheErr)
	}

	// Counters are unwound from the pre-deletion snapshot.
	if err := s.updateStatistics(ctx, actionDelete, product); err != nil {
		return fmt.Errorf("update statistics: %w", err)
	}

	return nil
}

// SetStockQuantity overwrites the quantity of the stock entry matching
// warehouseID and writes the whole product back.
func (s *productService) SetStockQuantity(ctx context.Context, id string, warehouseID int64, quantity int) error {
	product, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}

	idx := -1
	for i := range product.Stocks {
		if product.Stocks[i].ID == warehouseID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrStockNotFound
	}

	product.Stocks[idx].Quantity = quantity
	if _, err := s.store.UpdateProduct(ctx, id, product); err != nil {
		return err
	}

	if cacheErr := s.cache.DeleteProduct(ctx, id); cacheErr != nil {
		fmt.Printf("Failed to invalidate cache for product %s: %v\n", id, cacheErr)
	}

	return s.updateStatistics(ctx, actionUpdate, product)
}

// SetQuantity overwrites the flat quantity field and recomputes the derived
// status. It does not touch the statistics singleton.
func (s *productService) SetQuantity(ctx context.Context, id string, quantity int) error {
	product, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}

	product.Quantity = quantity
	product.Status = statusFor(quantity, product.MinQuantity)
	product.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	if _, err := s.store.UpdateProduct(ctx, id, product); err != nil {
		return err
	}

	if cacheErr := s.cache.DeleteProduct(ctx, id); cacheErr != nil {
		fmt.Printf("Failed to invalidate cache for product %s: %v\n", id, cacheErr)
	}

	return nil
}

// AdjustAfterScan applies a scan-driven delta to the flat quantity. A result
// that would go negative is rejected without any write.
func (s *productService) AdjustAfterScan(ctx context.Context, id string, delta int, direction string) AdjustResult {
	product, err := s.fetch(ctx, id)
	if err != nil {
		return AdjustTransportFailure
	}

	newQuantity := product.Quantity + delta
	if direction == models.MovementOut {
		newQuantity = product.Quantity - delta
	}
	if newQuantity < 0 {
		return AdjustInsufficientStock
	}

	if err := s.SetQuantity(ctx, id, newQuantity); err != nil {
		return AdjustTransportFailure
	}
	return AdjustOK
}

func (s *productService) Statistics(ctx context.Context) (*models.Statistics, error) {
	return s.store.GetStatistics(ctx)
}

// RecalculateStatistics derives the aggregate from the warehouse product set
// at call time instead of trusting the drifting singleton. Top-mover lists
// are carried over from the stored record since the product set alone cannot
// reproduce them.
func (s *productService) RecalculateStatistics(ctx context.Context, warehouseID int64) (*models.Statistics, error) {
	current, err := s.store.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.store.ListProductsByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	stats := &models.Statistics{
		TotalProducts:       len(products),
		MostAddedProducts:   current.MostAddedProducts,
		MostRemovedProducts: current.MostRemovedProducts,
	}
	for i := range products {
		p := &products[i]
		if isOutOfStock(p) {
			stats.OutOfStock++
		} else if isLowStock(p) {
			stats.LowStock++
		}
		stats.TotalStockValue += productValue(p)
	}
	return stats, nil
}

type statsAction int

const (
	actionAdd statsAction = iota
	actionUpdate
	actionDelete
)

// updateStatistics applies the action-keyed maintenance to the singleton and
// writes it back wholesale, unconditionally overwriting concurrent updates.
func (s *productService) updateStatistics(ctx context.Context, action statsAction, product *models.Product) error {
	current, err := s.store.GetStatistics(ctx)
	if err != nil {
		return err
	}
	newStats := *current

	switch action {
	case actionAdd:
		newStats.TotalProducts++
		if isOutOfStock(product) {
			newStats.OutOfStock++
		} else if isLowStock(product) {
			newStats.LowStock++
		}
		newStats.TotalStockValue += productValue(product)

	case actionDelete:
		newStats.TotalProducts--
		if isOutOfStock(product) {
			newStats.OutOfStock--
		} else if isLowStock(product) {
			newStats.LowStock--
			if newStats.LowStock < 0 {
				newStats.LowStock = 0
			}
		}
		newStats.TotalStockValue -= productValue(product)

	case actionUpdate:
		// Full rescan of the warehouse implied by the primary stock
		// location. TotalProducts is deliberately left untouched.
		var warehouseID int64
		if len(product.Stocks) > 0 {
			warehouseID = product.Stocks[0].ID
		}
		products, err := s.store.ListProductsByWarehouse(ctx, warehouseID)
		if err != nil {
			return err
		}
		newStats.OutOfStock = 0
		newStats.LowStock = 0
		newStats.TotalStockValue = 0
		for i := range products {
			p := &products[i]
			if isOutOfStock(p) {
				newStats.OutOfStock++
			}
			if isLowStock(p) {
				newStats.LowStock++
			}
			newStats.TotalStockValue += productValue(p)
		}
	}

	return s.store.PutStatistics(ctx, &newStats)
}

// isOutOfStock reports whether every stock entry is at quantity zero. A
// product with no stock entries counts as out of stock.
func isOutOfStock(p *models.Product) bool {
	for i := range p.Stocks {
		if p.Stocks[i].Quantity != 0 {
			return false
		}
	}
	return true
}

// isLowStock reports whether some stock entry is positive but at or below
// the product threshold. With the default threshold of zero this is never
// true.
func isLowStock(p *models.Product) bool {
	for i := range p.Stocks {
		q := p.Stocks[i].Quantity
		if q > 0 && q <= p.MinQuantity {
			return true
		}
	}
	return false
}

// productValue is price times the summed stock quantities.
func productValue(p *models.Product) float64 {
	total := 0
	for i := range p.Stocks {
		total += p.Stocks[i].Quantity
	}
	return float64(total) * p.Price
}

func statusFor(quantity, minQuantity int) string {
	if quantity == 0 {
		return models.StatusOutOfStock
	}
	if quantity <= minQuantity {
		return models.StatusLowStock
	}
	return models.StatusInStock
}
