package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockyfy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock store and cache

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockStore) ListProductsByWarehouse(ctx context.Context, warehouseID int64) ([]models.Product, error) {
	args := m.Called(ctx, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStore) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStore) UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	args := m.Called(ctx, id, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStore) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Statistics), args.Error(1)
}

func (m *MockStore) PutStatistics(ctx context.Context, stats *models.Statistics) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockStore) ListWarehousemen(ctx context.Context) ([]models.Warehouseman, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Warehouseman), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) SetSession(ctx context.Context, user *models.Warehouseman) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockCacheService) GetSession(ctx context.Context) (*models.Warehouseman, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warehouseman), args.Error(1)
}

func (m *MockCacheService) DeleteSession(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// passthroughCache is a cache that always misses and accepts every write.
func passthroughCache() *MockCacheService {
	cache := new(MockCacheService)
	cache.On("GetProduct", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	cache.On("SetProduct", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("DeleteProduct", mock.Anything, mock.Anything).Return(nil).Maybe()
	return cache
}

func stockAt(warehouseID int64, quantity int) models.Stock {
	return models.Stock{
		ID:       warehouseID,
		Name:     "Main stock",
		Quantity: quantity,
		Localisation: models.StockLocation{
			City: "Paris",
		},
	}
}

func emptyStats() *models.Statistics {
	return &models.Statistics{}
}

func TestClassification(t *testing.T) {
	t.Run("out of stock when every entry is zero", func(t *testing.T) {
		p := &models.Product{Stocks: []models.Stock{stockAt(1, 0), stockAt(2, 0)}}
		assert.True(t, isOutOfStock(p))
	})

	t.Run("out of stock with empty stocks", func(t *testing.T) {
		p := &models.Product{}
		assert.True(t, isOutOfStock(p))
	})

	t.Run("not out of stock with one positive entry", func(t *testing.T) {
		p := &models.Product{Stocks: []models.Stock{stockAt(1, 0), stockAt(2, 3)}}
		assert.False(t, isOutOfStock(p))
	})

	t.Run("low stock at or below threshold", func(t *testing.T) {
		p := &models.Product{MinQuantity: 5, Stocks: []models.Stock{stockAt(1, 3)}}
		assert.True(t, isLowStock(p))
		p.Stocks[0].Quantity = 5
		assert.True(t, isLowStock(p))
		p.Stocks[0].Quantity = 6
		assert.False(t, isLowStock(p))
	})

	t.Run("default threshold makes low stock unreachable", func(t *testing.T) {
		p := &models.Product{Stocks: []models.Stock{stockAt(1, 1)}}
		assert.False(t, isLowStock(p))
		p.Stocks[0].Quantity = 0
		assert.False(t, isLowStock(p))
	})

	t.Run("product value sums all stock entries", func(t *testing.T) {
		p := &models.Product{Price: 2.5, Stocks: []models.Stock{stockAt(1, 4), stockAt(2, 6)}}
		assert.Equal(t, 25.0, productValue(p))
	})
}

func TestFindByBarcode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first exact match", func(t *testing.T) {
		st := new(MockStore)
		first := models.Product{ID: "1", Barcode: "1234"}
		second := models.Product{ID: "2", Barcode: "1234"}
		st.On("ListProducts", ctx).Return([]models.Product{first, second}, nil)

		svc := NewProductService(st, passthroughCache())
		found, err := svc.FindByBarcode(ctx, "1234")

		assert.NoError(t, err)
		assert.Equal(t, "1", found.ID)
	})

	t.Run("nil when no match", func(t *testing.T) {
		st := new(MockStore)
		st.On("ListProducts", ctx).Return([]models.Product{{ID: "1", Barcode: "1234"}}, nil)

		svc := NewProductService(st, passthroughCache())
		found, err := svc.FindByBarcode(ctx, "5678")

		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("match is case sensitive", func(t *testing.T) {
		st := new(MockStore)
		st.On("ListProducts", ctx).Return([]models.Product{{ID: "1", Barcode: "AB12"}}, nil)

		svc := NewProductService(st, passthroughCache())
		found, err := svc.FindByBarcode(ctx, "ab12")

		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("propagates transport error", func(t *testing.T) {
		st := new(MockStore)
		st.On("ListProducts", ctx).Return(nil, errors.New("connection refused"))

		svc := NewProductService(st, passthroughCache())
		_, err := svc.FindByBarcode(ctx, "1234")

		assert.Error(t, err)
	})
}

func TestGetByIDSoftFailure(t *testing.T) {
	ctx := context.Background()

	st := new(MockStore)
	st.On("GetProduct", ctx, "p1").Return(nil, errors.New("boom"))

	svc := NewProductService(st, passthroughCache())
	product, found := svc.GetByID(ctx, "p1")

	assert.Nil(t, product)
	assert.False(t, found)
}

func TestGetByIDCacheHit(t *testing.T) {
	ctx := context.Background()

	st := new(MockStore)
	cache := new(MockCacheService)
	cached := &models.Product{ID: "p1", Name: "Cached"}
	cache.On("GetProduct", ctx, "p1").Return(cached, nil)

	svc := NewProductService(st, cache)
	product, found := svc.GetByID(ctx, "p1")

	assert.True(t, found)
	assert.Equal(t, "Cached", product.Name)
	st.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("increments statistics by the new product", func(t *testing.T) {
		st := new(MockStore)
		draft := &models.Product{Name: "Oil", Price: 10, MinQuantity: 2,
			Stocks: []models.Stock{stockAt(1, 4)}}
		created := *draft
		created.ID = "p1"

		st.On("CreateProduct", ctx, draft).Return(&created, nil)
		st.On("GetStatistics", ctx).Return(&models.Statistics{TotalProducts: 2, TotalStockValue: 100}, nil)

		var written *models.Statistics
		st.On("PutStatistics", ctx, mock.AnythingOfType("*models.Statistics")).
			Run(func(args mock.Arguments) {
				written = args.Get(1).(*models.Statistics)
			}).Return(nil)

		svc := NewProductService(st, passthroughCache())
		result, err := svc.Create(ctx, draft)

		assert.NoError(t, err)
		assert.Equal(t, "p1", result.ID)
		assert.Equal(t, 3, written.TotalProducts)
		assert.Equal(t, 140.0, written.TotalStockValue)
		assert.Equal(t, 0, written.OutOfStock)
		assert.Equal(t, 0, written.LowStock)
	})

	t.Run("out of stock product bumps the counter", func(t *testing.T) {
		st := new(MockStore)
		draft := &models.Product{Name: "Oil", Stocks: []models.Stock{stockAt(1, 0)}}
		created := *draft
		created.ID = "p1"

		st.On("CreateProduct", ctx, draft).Return(&created, nil)
		st.On("GetStatistics", ctx).Return(emptyStats(), nil)

		var written *models.Statistics
		st.On("PutStatistics", ctx, mock.AnythingOfType("*models.Statistics")).
			Run(func(args mock.Arguments) {
				written = args.Get(1).(*models.Statistics)
			}).Return(nil)

		svc := NewProductService(st, passthroughCache())
		_, err := svc.Create(ctx, draft)

		assert.NoError(t, err)
		assert.Equal(t, 1, written.OutOfStock)
		assert.Equal(t, 0, written.LowStock)
	})

	t.Run("no statistics write when the POST fails", func(t *testing.T) {
		st := new(MockStore)
		draft := &models.Product{Name: "Oil"}
		st.On("CreateProduct", ctx, draft).Return(nil, errors.New("boom"))

		svc := NewProductService(st, passthroughCache())
		_, err := svc.Create(ctx, draft)

		assert.Error(t, err)
		st.AssertNotCalled(t, "GetStatistics", mock.Anything)
		st.AssertNotCalled(t, "PutStatistics", mock.Anything, mock.Anything)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing product is a silent no-op", func(t *testing.T) {
		st := new(MockStore)
		st.On("GetProduct", ctx, "gone").Return(nil, errors.New("404"))

		svc := NewProductService(st, passthroughCache())
		err := svc.Delete(ctx, "gone")

		assert.NoError(t, err)
		st.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
		st.AssertNotCalled(t, "PutStatistics", mock.Anything, mock.Anything)
	})

	t.Run("unwinds counters from the pre-deletion snapshot", func(t *testing.T) {
		st := new(MockStore)
		product := &models.Product{ID: "p1", Price: 5, MinQuantity: 10,
			Stocks: []models.Stock{stockAt(1, 3)}}

		st.On("GetProduct", ctx, "p1").Return(product, nil)
		st.On("DeleteProduct", ctx, "p1").Return(nil)
		st.On("GetStatistics", ctx).Return(&models.Statistics{
			TotalProducts: 4, LowStock: 1, TotalStockValue: 100,
		}, nil)

		var written *models.Statistics
		st.On("PutStatistics", ctx, mock.AnythingOfType("*models.Statistics")).
			Run(func(args mock.Arguments) {
				written = args.Get(1).(*models.Statistics)
			}).Return(nil)

		svc := NewProductService(st, passthroughCache())
		err := svc.Delete(ctx, "p1")

		assert.NoError(t, err)
		assert.Equal(t, 3, written.TotalProducts)
		assert.Equal(t, 0, written.LowStock)
		assert.Equal(t, 85.0, written.TotalStockValue)
	})

	t.Run("low stock decrement is floored at zero", func(t *testing.T) {
		st := new(MockStore)
		product := &models.Product{ID: "p1", Price: 1, MinQuantity: 10,
			Stocks: []models.Stock{stockAt(1, 2)}}

		st.On("GetProduct", ctx, "p1").Return(product, nil)
		st.On("DeleteProduct", ctx, "p1").Return(nil)
		st.On("GetStatistics", ctx).Return(emptyStats(), nil)

		var written *models.Statistics
		st.On("PutStatistics", ctx, mock.AnythingOfType("*models.Statistics")).
			Run(func(args mock.Arguments) {
				written = args.Get(1).(*models.Statistics)
			}).Return(nil)

		svc := NewProductService(st, passthroughCache())
		err := svc.Delete(ctx, "p1")

		assert.NoError(t, err)
		assert.Equal(t, 0, written.LowStock)
	})
}

func TestUpdateRescan(t *testing.T) {
	ctx := context.Background()

	// Warehouse scenario: A out of stock, B low, C healthy.
	warehouse := []models.Product{
		{ID: "A", Price: 1, MinQuantity: 0, Stocks: []models.Stock{stockAt(7, 0)}},
		{ID: "B", Price: 2, MinQuantity: 5, Stocks: []models.Stock{stockAt(7, 3)}},
		{ID: "C", Price: 3, MinQuantity: 5, Stocks: []models.Stock{stockAt(7, 10)}},
	}

	st := new(MockStore)
	updated := &models.Product{ID: "B", Price: 2, MinQuantity: 5,
		Stocks: []models.Stock{stockAt(7, 3)}}
	st.On("UpdateProduct", ctx, "B", updated).Return(updated, nil)
	st.On("GetStatistics", ctx).Return(&models.Statistics{TotalProducts: 99}, nil)
	st.On("ListProductsByWarehouse", ctx, int64(7)).Return(warehouse, nil)

	var written *models.Statistics
	st.On("PutStatistics", ctx, mock.AnythingOfType("*models.Statistics")).
		Run(func(args mock.Arguments) {
			written = args.Get(1).(*models.Statistics)
		}).Return(nil)

	svc := NewProductService(st, passthroughCache())
	_, err := svc.Update(ctx, "B", updated)

	assert.NoError(t, err)
	// Total count is deliberately not recomputed by the rescan.
	assert.Equal(t, 99, written.TotalProducts)
	assert.Equal(t, 1, written.OutOfStock)
	assert.Equal(t, 1, written.LowStock)
	assert.Equal(t, 36.0, written.TotalStockValue)
}

func TestSetStockQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown warehouse entry", func(t *testing.T) {
		st := new(MockStore)
		product := &models.Product{ID: "p1", Stocks: []models.Stock{stockAt(1, 5)}}
		st.On("GetProduct", ctx, "p1").Return(product, nil)

		svc := NewProductService(st, passthroughCache())
		err := svc.SetStockQuantity(ctx, "p1", 99, 3)

		assert.ErrorIs(t, err, ErrStockNotFound)
		st.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("writes the whole product back", func(t *testing.T) {
		st := new(MockStore)
		product := &models.Product{ID: "p1", Stocks: []models.Stock{stockAt(1, 5)}}
		st.On("GetProduct", ctx, "p1").Return(product, nil)
		st.On("UpdateProduct", ctx, "p1", mock.MatchedBy(func(p *models.Product) bool {
			return p.Stocks[0].Quantity == 8
		})).Return(product, nil)
		st.On("GetStatistics", ctx).Return(emptyStats(), nil)
		st.On("ListProductsByWarehouse", ctx, int64(1)).Return([]models.Product{}, nil)
		st.On("PutStatistics", ctx, mock.Anything).Return(nil)

		svc := NewProductService(st, passthroughCache())
		err := svc.SetStockQuantity(ctx, "p1", 1, 8)

		assert.NoError(t, err)
		st.AssertExpectations(t)
	})
}

func TestAdjustAfterScan(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a negative result without writing", func(t *testing.T) {
		st := new(MockStore)
		product := &models.Product{ID: "p1", Quantity: 5}
		st.On("GetProduct", ctx, "p1").Return(product, nil)

		svc := NewProductService(st, passthroughCache())
		result := svc.AdjustAfterScan(ctx, "p1", 10, models.MovementOut)

		assert.Equal(t, AdjustInsufficientStock, result)
		st.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fetch failure is a transport failure", func(t *testing.T) {
		st := new(MockStore)
		st.On("GetProduct", ctx, "p1").Return(nil, errors.New("timeout"))

		svc := NewProductService(st, passthroughCache())
		result := svc.AdjustAfterScan(ctx, "p1", 1, models.MovementOut)

		assert.Equal(t, AdjustTransportFailure, result)
	})

	t.Run("scan in increases the flat quantity", func(t *testing.T) {
		st := new(MockStore)
		product := &models.Product{ID: "p1", Quantity: 10, MinQuantity: 3}
		st.On("GetProduct", ctx, "p1").Return(product, nil).Twice()
		st.On("UpdateProduct", ctx, "p1", mock.MatchedBy(func(p *models.Product) bool {
			return p.Quantity == 15 && p.Status == models.StatusInStock
		})).Return(product, nil)

		svc := NewProductService(st, passthroughCache())
		result := svc.AdjustAfterScan(ctx, "p1", 5, models.MovementIn)

		assert.Equal(t, AdjustOK, result)
		st.AssertExpectations(t)
	})

	t.Run("scan out to zero marks the product out of stock", func(t *testing.T) {
		st := new(MockStore)
		product := &models.Product{ID: "p1", Quantity: 4}
		st.On("GetProduct", ctx, "p1").Return(product, nil).Twice()
		st.On("UpdateProduct", ctx, "p1", mock.MatchedBy(func(p *models.Product) bool {
			return p.Quantity == 0 && p.Status == models.StatusOutOfStock
		})).Return(product, nil)

		svc := NewProductService(st, passthroughCache())
		result := svc.AdjustAfterScan(ctx, "p1", 4, models.MovementOut)

		assert.Equal(t, AdjustOK, result)
	})
}

func TestRecalculateStatistics(t *testing.T) {
	ctx := context.Background()

	warehouse := []models.Product{
		{ID: "A", Price: 1, Stocks: []models.Stock{stockAt(7, 0)}},
		{ID: "B", Price: 2, MinQuantity: 5, Stocks: []models.Stock{stockAt(7, 3)}},
		{ID: "C", Price: 3, MinQuantity: 5, Stocks: []models.Stock{stockAt(7, 10)}},
	}

	st := new(MockStore)
	st.On("GetStatistics", ctx).Return(&models.Statistics{
		TotalProducts:     42,
		MostAddedProducts: []models.ProductCount{{ID: "B", Count: 9}},
	}, nil)
	st.On("ListProductsByWarehouse", ctx, int64(7)).Return(warehouse, nil)

	svc := NewProductService(st, passthroughCache())
	stats, err := svc.RecalculateStatistics(ctx, 7)

	assert.NoError(t, err)
	// Unlike the write-path rescan, the derivation recounts everything.
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 1, stats.OutOfStock)
	assert.Equal(t, 1, stats.LowStock)
	assert.Equal(t, 36.0, stats.TotalStockValue)
	assert.Len(t, stats.MostAddedProducts, 1)
}
