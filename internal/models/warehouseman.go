package models

// Warehouseman is an operator tied to one warehouse. The secret key is a
// shared-secret credential compared by exact match against the full user
// list; it is stored and transmitted in the clear, matching the backend
// contract.
type Warehouseman struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DOB         string `json:"dob"`
	City        string `json:"city"`
	SecretKey   string `json:"secretKey"`
	WarehouseID int64  `json:"warehouseId"`
}
