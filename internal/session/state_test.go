package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyfy/internal/models"
	"stockyfy/internal/services"
)

// stubProductService serves a canned warehouse list; only ListByWarehouse is
// implemented.
type stubProductService struct {
	services.ProductService
	products []models.Product
	err      error
}

func (s *stubProductService) ListByWarehouse(ctx context.Context, warehouseID int64) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	stub := &stubProductService{products: []models.Product{{ID: "p1"}, {ID: "p2"}}}
	state := NewProductState(stub)

	require.NoError(t, state.Refresh(context.Background(), 1999))
	assert.Len(t, state.Products(), 2)
	assert.NotNil(t, state.Get("p2"))
	assert.Nil(t, state.Get("p3"))
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	stub := &stubProductService{products: []models.Product{{ID: "p1"}}}
	state := NewProductState(stub)
	require.NoError(t, state.Refresh(context.Background(), 1999))

	stub.err = errors.New("connection refused")
	assert.Error(t, state.Refresh(context.Background(), 1999))
	assert.Len(t, state.Products(), 1)
	assert.Error(t, state.LastErr())
}

func TestOptimisticMutations(t *testing.T) {
	stub := &stubProductService{products: []models.Product{
		{ID: "p1", Name: "Oil", Stocks: []models.Stock{{ID: 1999, Quantity: 4}}},
	}}
	state := NewProductState(stub)
	require.NoError(t, state.Refresh(context.Background(), 1999))

	state.ApplyAdd(&models.Product{ID: "p2", Name: "Flour"})
	assert.Len(t, state.Products(), 2)

	state.ApplyUpdate(&models.Product{ID: "p1", Name: "Olive oil"})
	assert.Equal(t, "Olive oil", state.Get("p1").Name)

	state.ApplyQuantity("p1", 1999, 9)
	assert.Equal(t, 9, state.Get("p1").Stocks[0].Quantity)

	state.ApplyRemove("p2")
	assert.Len(t, state.Products(), 1)
	assert.Nil(t, state.Get("p2"))
}

func TestSnapshotCopyIsDetached(t *testing.T) {
	stub := &stubProductService{products: []models.Product{{ID: "p1", Name: "Oil"}}}
	state := NewProductState(stub)
	require.NoError(t, state.Refresh(context.Background(), 1999))

	snapshot := state.Products()
	snapshot[0].Name = "changed"
	assert.Equal(t, "Oil", state.Get("p1").Name)
}
