package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"stockyfy/internal/models"
)

// Store is the remote product store consumed by the services layer. The
// backend is a dumb single-record CRUD server: no transactions, no
// versioning, no server-side validation.
type Store interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsByWarehouse(ctx context.Context, warehouseID int64) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetStatistics(ctx context.Context) (*models.Statistics, error)
	PutStatistics(ctx context.Context, stats *models.Statistics) error
	ListWarehousemen(ctx context.Context) ([]models.Warehouseman, error)
}

// Client handles REST communication with the remote product store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a remote store client. timeout bounds every request;
// there is no retry and no cancellation beyond the caller's context.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// request performs an HTTP request against the store and decodes the JSON
// response into out when out is non-nil.
func (c *Client) request(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	op := fmt.Sprintf("%s %s", method, endpoint)
	url := c.baseURL + endpoint

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("method", method).Str("url", url).Msg("outgoing request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("request failed")
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().Int("status", resp.StatusCode).Str("url", url).Msg("response received")

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error().Int("status", resp.StatusCode).Bytes("body", data).Str("url", url).Msg("remote store error")
		return &TransportError{Op: op, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.request(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ListProductsByWarehouse(ctx context.Context, warehouseID int64) ([]models.Product, error) {
	var products []models.Product
	endpoint := fmt.Sprintf("/products?warehouseId=%d", warehouseID)
	if err := c.request(ctx, http.MethodGet, endpoint, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.request(ctx, http.MethodGet, "/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	var created models.Product
	if err := c.request(ctx, http.MethodPost, "/products", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	var updated models.Product
	if err := c.request(ctx, http.MethodPut, "/products/"+id, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

func (c *Client) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	if err := c.request(ctx, http.MethodGet, "/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// PutStatistics overwrites the statistics singleton. Last writer wins; there
// is no optimistic lock on the record.
func (c *Client) PutStatistics(ctx context.Context, stats *models.Statistics) error {
	return c.request(ctx, http.MethodPut, "/statistics", stats, nil)
}

func (c *Client) ListWarehousemen(ctx context.Context) ([]models.Warehouseman, error) {
	var users []models.Warehouseman
	if err := c.request(ctx, http.MethodGet, "/warehousemans", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
