package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del almacén. La identidad (SKU) es
// inmutable; los atributos son mutables. Nunca se borra: solo se desactiva.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Category      string
	UnitOfMeasure string
	Price         decimal.Decimal
	Weight        decimal.Decimal // kg por pieza
	UnitVolume    decimal.Decimal // m3 por pieza
	MinStock      *int            // umbral de alerta; nil = sin umbral
	MaxStock      *int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductBarcode es una identidad alterna registrada para un producto (EAN,
// código de fardo, etc.). El escaneo en ejecución de línea acepta el SKU
// principal o cualquiera de estos códigos.
type ProductBarcode struct {
	ID        string
	ProductID string
	Barcode   string // único global
	IsPrimary bool
	CreatedAt time.Time
}
