package models

// Product status values derived from the flat quantity field.
const (
	StatusOutOfStock = "out_of_stock"
	StatusLowStock   = "low_stock"
	StatusInStock    = "in_stock"
)

// Movement directions for scan-driven quantity changes.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

type Product struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Barcode     string       `json:"barcode"`
	Price       float64      `json:"price"`
	Type        string       `json:"type"`
	Supplier    string       `json:"supplier"`
	Description string       `json:"description,omitempty"`
	Image       string       `json:"image,omitempty"`
	MinQuantity int          `json:"minQuantity"`
	Quantity    int          `json:"quantity,omitempty"`
	Status      string       `json:"status,omitempty"`
	LastUpdated string       `json:"lastUpdated,omitempty"`
	Stocks      []Stock      `json:"stocks"`
	EditedBy    []EditRecord `json:"editedBy"`
}

// Stock is one warehouse location holding the product. The id doubles as the
// warehouse identifier and is assigned from a millisecond timestamp at
// creation time, so collisions are possible but never checked.
type Stock struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Quantity     int           `json:"quantity"`
	Localisation StockLocation `json:"localisation"`
}

type StockLocation struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EditRecord is an audit trail entry. Records are appended, never removed or
// reordered.
type EditRecord struct {
	WarehousemanID string `json:"warehousemanId"`
	At             string `json:"at"`
}
