package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementTypeIN         = "IN"         // entrada: suma al saldo
	MovementTypeOUT        = "OUT"        // salida: resta del saldo
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste con signo (corrección de conteo)
)

// StockLedgerEntry es el hecho atómico del historial de inventario: un movimiento
// de un producto en un emplazamiento con el saldo resultante. Append-only: nunca
// se actualiza ni se borra. El saldo actual de un par (producto, emplazamiento)
// es el RunningBalance de su entrada más reciente; no existe fila de "stock" aparte.
type StockLedgerEntry struct {
	ID             string
	ProductID      string
	LocationID     string
	TaskID         string
	TaskLineID     string // opcional: vacío en ajustes administrativos
	MovementType   string
	Quantity       int // magnitud positiva en IN/OUT; delta con signo en ADJUSTMENT
	RunningBalance int // saldo resultante, nunca negativo
	PerformedBy    string // UserID del operario
	PerformedAt    time.Time
	CreatedAt      time.Time // desempate de orden dentro del mismo instante
}
