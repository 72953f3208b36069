package mockserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"stockyfy/internal/models"
)

// Handlers exposes the file store over the REST contract the mobile client
// consumes.
type Handlers struct {
	store *FileStore
}

func NewHandlers(store *FileStore) *Handlers {
	return &Handlers{store: store}
}

// Register wires all routes onto the echo instance.
func (h *Handlers) Register(e *echo.Echo) {
	e.GET("/products", h.ListProducts)
	e.GET("/products/:id", h.GetProduct)
	e.POST("/products", h.CreateProduct)
	e.PUT("/products/:id", h.UpdateProduct)
	e.DELETE("/products/:id", h.DeleteProduct)
	e.GET("/statistics", h.GetStatistics)
	e.PUT("/statistics", h.PutStatistics)
	e.GET("/warehousemans", h.ListWarehousemen)
}

// ListProducts handles GET /products with an optional warehouseId filter.
func (h *Handlers) ListProducts(c echo.Context) error {
	var warehouseID *int64
	if raw := c.QueryParam("warehouseId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid warehouseId")
		}
		warehouseID = &id
	}
	return c.JSON(http.StatusOK, h.store.ListProducts(warehouseID))
}

func (h *Handlers) GetProduct(c echo.Context) error {
	product, ok := h.store.GetProduct(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct accepts the payload as-is and echoes it back with a
// server-assigned id. No validation is performed, matching the backend this
// stands in for.
func (h *Handlers) CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	created, err := h.store.CreateProduct(product)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to persist product")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handlers) UpdateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	updated, ok, err := h.store.UpdateProduct(c.Param("id"), product)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to persist product")
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handlers) DeleteProduct(c echo.Context) error {
	ok, err := h.store.DeleteProduct(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to persist deletion")
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handlers) GetStatistics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.GetStatistics())
}

func (h *Handlers) PutStatistics(c echo.Context) error {
	var stats models.Statistics
	if err := c.Bind(&stats); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.store.PutStatistics(stats); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to persist statistics")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handlers) ListWarehousemen(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.ListWarehousemen())
}
