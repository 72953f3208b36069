package mockserver

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"stockyfy/internal/models"
)

// database is the on-disk shape of the backing JSON file.
type database struct {
	Products      []models.Product    `json:"products"`
	Statistics    models.Statistics   `json:"statistics"`
	Warehousemans []models.Warehouseman `json:"warehousemans"`
}

// FileStore is a mutex-guarded JSON-file record store. It is deliberately
// dumb: single-record CRUD, no validation, no transactions, and the whole
// file is rewritten after every mutation.
type FileStore struct {
	mu   sync.Mutex
	path string
	db   database
}

// OpenFileStore loads the database file, creating an empty one if it does
// not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, fs.persistLocked()
		}
		return nil, fmt.Errorf("read database file: %w", err)
	}
	if err := json.Unmarshal(data, &fs.db); err != nil {
		return nil, fmt.Errorf("parse database file: %w", err)
	}
	return fs, nil
}

// persistLocked writes the database back to disk. Callers must hold mu, or
// be the only goroutine with a reference.
func (fs *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(&fs.db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.path, data, 0o644)
}

// ListProducts returns all products, or only those with a stock entry for
// the given warehouse when warehouseID is non-nil.
func (fs *FileStore) ListProducts(warehouseID *int64) []models.Product {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := make([]models.Product, 0, len(fs.db.Products))
	for _, p := range fs.db.Products {
		if warehouseID == nil || productInWarehouse(&p, *warehouseID) {
			out = append(out, p)
		}
	}
	return out
}

func productInWarehouse(p *models.Product, warehouseID int64) bool {
	for i := range p.Stocks {
		if p.Stocks[i].ID == warehouseID {
			return true
		}
	}
	return false
}

func (fs *FileStore) GetProduct(id string) (*models.Product, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.db.Products {
		if fs.db.Products[i].ID == id {
			p := fs.db.Products[i]
			return &p, true
		}
	}
	return nil, false
}

// CreateProduct assigns a fresh id and appends the record as-is.
func (fs *FileStore) CreateProduct(p models.Product) (models.Product, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	p.ID = uuid.New().String()
	fs.db.Products = append(fs.db.Products, p)
	if err := fs.persistLocked(); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// UpdateProduct replaces the record wholesale. The second return is false
// when no record has the given id.
func (fs *FileStore) UpdateProduct(id string, p models.Product) (models.Product, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.db.Products {
		if fs.db.Products[i].ID == id {
			p.ID = id
			fs.db.Products[i] = p
			if err := fs.persistLocked(); err != nil {
				return models.Product{}, false, err
			}
			return p, true, nil
		}
	}
	return models.Product{}, false, nil
}

func (fs *FileStore) DeleteProduct(id string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.db.Products {
		if fs.db.Products[i].ID == id {
			fs.db.Products = append(fs.db.Products[:i], fs.db.Products[i+1:]...)
			if err := fs.persistLocked(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (fs *FileStore) GetStatistics() models.Statistics {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.db.Statistics
}

// PutStatistics overwrites the singleton unconditionally: last writer wins.
func (fs *FileStore) PutStatistics(stats models.Statistics) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.db.Statistics = stats
	return fs.persistLocked()
}

func (fs *FileStore) ListWarehousemen() []models.Warehouseman {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]models.Warehouseman, len(fs.db.Warehousemans))
	copy(out, fs.db.Warehousemans)
	return out
}
