package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// TxRunner ejecuta callbacks dentro de una transacción con el repositorio del
// ledger atado a ella. La implementación garantiza Commit/Rollback y que los
// locks de par adquiridos con GetLatestForUpdate se liberen al terminar.
type TxRunner interface {
	Run(ctx context.Context, fn func(ledgerRepo repository.StockLedgerRepository) error) error
}

// MovementInput entrada común para registrar un movimiento.
type MovementInput struct {
	ProductID   string
	LocationID  string
	Quantity    int    // positivo en RecordIn/RecordOut; delta con signo en RecordAdjustment
	TaskID      string
	TaskLineID  string // opcional
	PerformedBy string // UserID
}

// StockLedgerUseCase es el único dueño de la mutación de saldos. Toda escritura
// es leer-modificar-anexar bajo el lock exclusivo del par (producto,
// emplazamiento): se lee el RunningBalance de la última entrada (O(1), nunca se
// re-suma el historial), se valida y se anexa la nueva entrada con el saldo
// resultante. Escritores del mismo par quedan serializados; pares distintos no
// se bloquean entre sí.
type StockLedgerUseCase struct {
	txRunner TxRunner
	reader   repository.StockLedgerRepository // lecturas sin lock (pueden ver valores levemente viejos)
	log      *logger.Logger
}

// NewStockLedgerUseCase construye el motor del ledger.
func NewStockLedgerUseCase(txRunner TxRunner, reader repository.StockLedgerRepository, log *logger.Logger) *StockLedgerUseCase {
	return &StockLedgerUseCase{txRunner: txRunner, reader: reader, log: log}
}

// RecordIn registra una entrada (IN): suma Quantity al saldo del par. No hay
// cota superior; siempre tiene éxito salvo error de infraestructura.
func (uc *StockLedgerUseCase) RecordIn(ctx context.Context, in MovementInput) (*entity.StockLedgerEntry, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidOperation
	}
	var entry *entity.StockLedgerEntry
	err := uc.txRunner.Run(ctx, func(ledgerRepo repository.StockLedgerRepository) error {
		balance, err := balanceForUpdate(ledgerRepo, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		entry = newEntry(in, entity.MovementTypeIN, in.Quantity, balance+in.Quantity)
		return ledgerRepo.Append(entry)
	})
	if err != nil {
		return nil, err
	}
	uc.logMovement(entry)
	return entry, nil
}

// RecordOut registra una salida (OUT): resta Quantity del saldo. Si el saldo
// resultante sería negativo devuelve ErrInsufficientStock y no anexa nada: la
// operación se rechaza completa, sin entrada parcial.
func (uc *StockLedgerUseCase) RecordOut(ctx context.Context, in MovementInput) (*entity.StockLedgerEntry, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidOperation
	}
	var entry *entity.StockLedgerEntry
	err := uc.txRunner.Run(ctx, func(ledgerRepo repository.StockLedgerRepository) error {
		balance, err := balanceForUpdate(ledgerRepo, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		if balance-in.Quantity < 0 {
			return domain.ErrInsufficientStock
		}
		entry = newEntry(in, entity.MovementTypeOUT, in.Quantity, balance-in.Quantity)
		return ledgerRepo.Append(entry)
	})
	if err != nil {
		return nil, err
	}
	uc.logMovement(entry)
	return entry, nil
}

// RecordAdjustment registra un ajuste con signo (corrección de conteo). El
// delta cero es error del caller; un delta negativo que dejaría el saldo bajo
// cero devuelve ErrInsufficientStock sin anexar nada.
func (uc *StockLedgerUseCase) RecordAdjustment(ctx context.Context, in MovementInput) (*entity.StockLedgerEntry, error) {
	if in.Quantity == 0 {
		return nil, domain.ErrInvalidOperation
	}
	var entry *entity.StockLedgerEntry
	err := uc.txRunner.Run(ctx, func(ledgerRepo repository.StockLedgerRepository) error {
		balance, err := balanceForUpdate(ledgerRepo, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		if balance+in.Quantity < 0 {
			return domain.ErrInsufficientStock
		}
		entry = newEntry(in, entity.MovementTypeADJUSTMENT, in.Quantity, balance+in.Quantity)
		return ledgerRepo.Append(entry)
	})
	if err != nil {
		return nil, err
	}
	uc.logMovement(entry)
	return entry, nil
}

// GetCurrentBalance devuelve el saldo vigente del par. Un par sin historial
// vale 0: la ausencia de entradas significa stock cero, no error. Lectura sin
// lock: apta para consulta, nunca para decidir una escritura.
func (uc *StockLedgerUseCase) GetCurrentBalance(productID, locationID string) (int, error) {
	latest, err := uc.reader.GetLatest(productID, locationID)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	return latest.RunningBalance, nil
}

// ValidateAvailability verifica sin mutar que el par tenga al menos required
// unidades. Se usa como pre-chequeo de movimientos compuestos (traslados) para
// fallar lo antes posible.
func (uc *StockLedgerUseCase) ValidateAvailability(productID, locationID string, required int) error {
	if required <= 0 {
		return domain.ErrInvalidOperation
	}
	balance, err := uc.GetCurrentBalance(productID, locationID)
	if err != nil {
		return err
	}
	if balance < required {
		return domain.ErrInsufficientStock
	}
	return nil
}

// balanceForUpdate lee el saldo vigente adquiriendo el lock exclusivo del par.
func balanceForUpdate(ledgerRepo repository.StockLedgerRepository, productID, locationID string) (int, error) {
	latest, err := ledgerRepo.GetLatestForUpdate(productID, locationID)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	return latest.RunningBalance, nil
}

func newEntry(in MovementInput, movementType string, quantity, runningBalance int) *entity.StockLedgerEntry {
	now := time.Now()
	return &entity.StockLedgerEntry{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		TaskID:         in.TaskID,
		TaskLineID:     in.TaskLineID,
		MovementType:   movementType,
		Quantity:       quantity,
		RunningBalance: runningBalance,
		PerformedBy:    in.PerformedBy,
		PerformedAt:    now,
		CreatedAt:      now,
	}
}

func (uc *StockLedgerUseCase) logMovement(entry *entity.StockLedgerEntry) {
	if uc.log == nil {
		return
	}
	uc.log.Info().
		Str("movement", entry.MovementType).
		Str("product_id", entry.ProductID).
		Str("location_id", entry.LocationID).
		Int("quantity", entry.Quantity).
		Int("balance", entry.RunningBalance).
		Str("task_id", entry.TaskID).
		Msg("movimiento de stock registrado")
}
