package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PairBalance saldo vigente de un producto en un emplazamiento (última entrada).
type PairBalance struct {
	ProductID  string
	LocationID string
	Balance    int
	AsOf       time.Time
}

// StockLedgerRepository define el puerto de persistencia del libro de stock.
// Tabla append-only: solo Append; nunca update ni delete.
type StockLedgerRepository interface {
	// Append persiste una nueva entrada del ledger.
	Append(entry *entity.StockLedgerEntry) error
	// GetLatest devuelve la entrada más reciente del par (producto, emplazamiento)
	// sin bloquear. Nil si el par no tiene historial (saldo 0).
	GetLatest(productID, locationID string) (*entity.StockLedgerEntry, error)
	// GetLatestForUpdate devuelve la entrada más reciente adquiriendo el lock
	// exclusivo del par. Serializa escritores concurrentes del mismo par; un par
	// sin historial también queda bloqueado para evitar dobles primeras entradas.
	// Devuelve domain.ErrContention si el lock no se adquiere a tiempo.
	GetLatestForUpdate(productID, locationID string) (*entity.StockLedgerEntry, error)
	// ListByPair historial de un par, más reciente primero.
	ListByPair(productID, locationID string, limit, offset int) ([]*entity.StockLedgerEntry, error)
	// ListByTask entradas generadas por una tarea.
	ListByTask(taskID string) ([]*entity.StockLedgerEntry, error)
	// ListByProduct historial de un producto en todos los emplazamientos, con rango de fechas opcional.
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error)
	// ListPairBalances saldos vigentes de un producto por emplazamiento (última
	// entrada de cada par). Solo pares con historial.
	ListPairBalances(productID string) ([]*PairBalance, error)
}
