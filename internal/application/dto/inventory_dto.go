package dto

import "time"

// BalanceResponse saldo vigente de un par (producto, emplazamiento).
type BalanceResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Balance    int    `json:"balance"`
}

// StockAdjustmentRequest body para POST /api/inventory/adjustments (solo admin).
type StockAdjustmentRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Quantity   int    `json:"quantity"` // delta con signo, distinto de cero
	Reason     string `json:"reason"`
	Notes      string `json:"notes,omitempty"`
}

// StockAdjustmentResponse confirmación del ajuste aplicado.
type StockAdjustmentResponse struct {
	TaskID     string `json:"task_id"`
	Reference  string `json:"reference"`
	NewBalance int    `json:"new_balance"`
}

// LocationStock stock vigente de un producto en un emplazamiento.
type LocationStock struct {
	LocationID   string `json:"location_id"`
	LocationCode string `json:"location_code"`
	Quantity     int    `json:"quantity"`
}

// ProductInventoryResponse stock de un producto desglosado por emplazamiento.
type ProductInventoryResponse struct {
	ProductID      string          `json:"product_id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	TotalStock     int             `json:"total_stock"`
	MinStock       *int            `json:"min_stock,omitempty"`
	MaxStock       *int            `json:"max_stock,omitempty"`
	StockAlert     bool            `json:"stock_alert"`
	StockLocations []LocationStock `json:"stock_locations"`
}

// MovementResponse entrada del ledger en listados de historial.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	LocationID     string    `json:"location_id"`
	TaskID         string    `json:"task_id"`
	MovementType   string    `json:"movement_type"`
	Quantity       int       `json:"quantity"`
	RunningBalance int       `json:"running_balance"`
	PerformedBy    string    `json:"performed_by"`
	PerformedAt    time.Time `json:"performed_at"`
}

// MovementListResponse historial paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockAlert producto bajo su stock mínimo.
type StockAlert struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	Deficit      int    `json:"deficit"`
}
