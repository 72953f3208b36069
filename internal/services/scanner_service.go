package services

import (
	"context"
	"errors"

	"stockyfy/internal/models"
)

// ErrInvalidBarcode is returned when a scan delivers an empty symbol.
var ErrInvalidBarcode = errors.New("invalid barcode")

// ScanResult is the navigation decision for a decoded barcode: either the
// matching product, or a signal that the creation flow should be opened
// pre-filled with the scanned code.
type ScanResult struct {
	Product      *models.Product
	IsNewProduct bool
}

// ScannerService maps decoded barcode strings to products. Debouncing of
// repeated scans is the caller's responsibility.
type ScannerService interface {
	ProcessBarcode(ctx context.Context, barcode string) (*ScanResult, error)
}

type scannerService struct {
	productService ProductService
}

func NewScannerService(productService ProductService) ScannerService {
	return &scannerService{productService: productService}
}

func (s *scannerService) ProcessBarcode(ctx context.Context, barcode string) (*ScanResult, error) {
	if barcode == "" {
		return nil, ErrInvalidBarcode
	}

	product, err := s.productService.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if product == nil {
		return &ScanResult{Product: nil, IsNewProduct: true}, nil
	}
	return &ScanResult{Product: product, IsNewProduct: false}, nil
}
