package models

// Statistics is the server-persisted singleton aggregate. It is read,
// modified and written back wholesale after every product mutation with no
// versioning, so concurrent writers are last-writer-wins.
type Statistics struct {
	TotalProducts       int            `json:"totalProducts"`
	OutOfStock          int            `json:"outOfStock"`
	LowStock            int            `json:"lowStock"`
	TotalStockValue     float64        `json:"totalStockValue"`
	MostAddedProducts   []ProductCount `json:"mostAddedProducts"`
	MostRemovedProducts []ProductCount `json:"mostRemovedProducts"`
}

// ProductCount is a top-mover entry.
type ProductCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}
