package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Price         decimal.Decimal `json:"price"`
	Weight        decimal.Decimal `json:"weight,omitempty"`
	UnitVolume    decimal.Decimal `json:"unit_volume,omitempty"`
	MinStock      *int            `json:"min_stock,omitempty"`
	MaxStock      *int            `json:"max_stock,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. El SKU es inmutable.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Category      *string          `json:"category,omitempty"`
	UnitOfMeasure *string          `json:"unit_of_measure,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Weight        *decimal.Decimal `json:"weight,omitempty"`
	UnitVolume    *decimal.Decimal `json:"unit_volume,omitempty"`
	MinStock      *int             `json:"min_stock,omitempty"`
	MaxStock      *int             `json:"max_stock,omitempty"`
}

// AddBarcodeRequest body para POST /api/products/:id/barcodes.
type AddBarcodeRequest struct {
	Barcode   string `json:"barcode"`
	IsPrimary bool   `json:"is_primary,omitempty"`
}

// ProductResponse representación de producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Price         decimal.Decimal `json:"price"`
	Weight        decimal.Decimal `json:"weight"`
	UnitVolume    decimal.Decimal `json:"unit_volume"`
	MinStock      *int            `json:"min_stock,omitempty"`
	MaxStock      *int            `json:"max_stock,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
