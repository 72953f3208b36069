package jobs

import (
	"context"
	"log"
	"time"

	"stockyfy/internal/models"
	"stockyfy/internal/services"
	"stockyfy/internal/store"
)

// StatsRefreshService repairs the statistics singleton by rederiving it from
// the warehouse product set and writing it back. Incremental maintenance on
// the write path can drift (spectator writes race with no isolation); the
// periodic rescan bounds how long the drift survives.
type StatsRefreshService struct {
	productService services.ProductService
	store          store.Store
}

type StatsRefreshResult struct {
	Stats         *models.Statistics
	LastRefreshAt time.Time
}

func NewStatsRefreshService(productService services.ProductService, st store.Store) *StatsRefreshService {
	return &StatsRefreshService{
		productService: productService,
		store:          st,
	}
}

// RefreshWarehouse recomputes and persists the aggregate for one warehouse.
func (s *StatsRefreshService) RefreshWarehouse(ctx context.Context, warehouseID int64) (*StatsRefreshResult, error) {
	log.Printf("Refreshing statistics for warehouse %d", warehouseID)

	stats, err := s.productService.RecalculateStatistics(ctx, warehouseID)
	if err != nil {
		log.Printf("Failed to recalculate statistics for warehouse %d: %v", warehouseID, err)
		return nil, err
	}

	if err := s.store.PutStatistics(ctx, stats); err != nil {
		log.Printf("Failed to persist statistics for warehouse %d: %v", warehouseID, err)
		return nil, err
	}

	log.Printf("Statistics updated for warehouse %d: Products=%d, OutOfStock=%d, LowStock=%d, StockValue=%.2f",
		warehouseID, stats.TotalProducts, stats.OutOfStock, stats.LowStock, stats.TotalStockValue)

	return &StatsRefreshResult{Stats: stats, LastRefreshAt: time.Now()}, nil
}

// ScheduledRefresh is the entrypoint wired into the background scheduler.
func (s *StatsRefreshService) ScheduledRefresh(ctx context.Context, warehouseID int64) error {
	log.Println("Running scheduled statistics refresh")

	start := time.Now()
	defer func() {
		log.Printf("Scheduled statistics refresh completed in %v", time.Since(start))
	}()

	_, err := s.RefreshWarehouse(ctx, warehouseID)
	return err
}
