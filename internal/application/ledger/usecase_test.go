package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

const (
	productA  = "prod-a"
	productB  = "prod-b"
	locRecep  = "loc-recepcion"
	locRack   = "loc-rack-01"
	operarioA = "user-operario-1"
)

func newLedgerUC(t *testing.T) (*ledger.StockLedgerUseCase, *memory.LedgerRepo) {
	t.Helper()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store, 2*time.Second)
	reader := memory.NewLedgerRepository(store)
	return ledger.NewStockLedgerUseCase(txRunner, reader, nil), reader
}

func movement(productID, locationID string, qty int) ledger.MovementInput {
	return ledger.MovementInput{
		ProductID:   productID,
		LocationID:  locationID,
		Quantity:    qty,
		TaskID:      "task-1",
		TaskLineID:  "line-1",
		PerformedBy: operarioA,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Saldos
// ──────────────────────────────────────────────────────────────────────────────

// Un par sin historial vale cero, no error.
func TestGetCurrentBalance_SinHistorial_RetornaCero(t *testing.T) {
	uc, _ := newLedgerUC(t)

	balance, err := uc.GetCurrentBalance(productA, locRack)
	require.NoError(t, err)
	assert.Equal(t, 0, balance, "un par sin movimientos debe valer 0")
}

func TestRecordIn_AcumulaSaldo(t *testing.T) {
	uc, _ := newLedgerUC(t)
	ctx := context.Background()

	entry, err := uc.RecordIn(ctx, movement(productA, locRecep, 10))
	require.NoError(t, err)
	assert.Equal(t, "IN", entry.MovementType)
	assert.Equal(t, 10, entry.RunningBalance)

	entry, err = uc.RecordIn(ctx, movement(productA, locRecep, 5))
	require.NoError(t, err)
	assert.Equal(t, 15, entry.RunningBalance, "el saldo debe acumularse entrada a entrada")

	balance, err := uc.GetCurrentBalance(productA, locRecep)
	require.NoError(t, err)
	assert.Equal(t, 15, balance)
}

// Los saldos son por par (producto, emplazamiento): mover A no toca B ni otro rack.
func TestRecordIn_SaldosPorParIndependientes(t *testing.T) {
	uc, _ := newLedgerUC(t)
	ctx := context.Background()

	_, err := uc.RecordIn(ctx, movement(productA, locRecep, 10))
	require.NoError(t, err)
	_, err = uc.RecordIn(ctx, movement(productA, locRack, 3))
	require.NoError(t, err)
	_, err = uc.RecordIn(ctx, movement(productB, locRecep, 7))
	require.NoError(t, err)

	for _, tc := range []struct {
		productID, locationID string
		want                  int
	}{
		{productA, locRecep, 10},
		{productA, locRack, 3},
		{productB, locRecep, 7},
		{productB, locRack, 0},
	} {
		balance, err := uc.GetCurrentBalance(tc.productID, tc.locationID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, balance, "par %s/%s", tc.productID, tc.locationID)
	}
}

func TestRecordOut_DescuentaSaldo(t *testing.T) {
	uc, _ := newLedgerUC(t)
	ctx := context.Background()

	_, err := uc.RecordIn(ctx, movement(productA, locRack, 20))
	require.NoError(t, err)

	entry, err := uc.RecordOut(ctx, movement(productA, locRack, 8))
	require.NoError(t, err)
	assert.Equal(t, "OUT", entry.MovementType)
	assert.Equal(t, 12, entry.RunningBalance)
}

// Una salida que dejaría el saldo negativo se rechaza completa: ni entrada
// parcial ni saldo tocado.
func TestRecordOut_StockInsuficiente_NoAnexaNada(t *testing.T) {
	uc, reader := newLedgerUC(t)
	ctx := context.Background()

	_, err := uc.RecordIn(ctx, movement(productA, locRack, 5))
	require.NoError(t, err)

	_, err = uc.RecordOut(ctx, movement(productA, locRack, 6))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	balance, err := uc.GetCurrentBalance(productA, locRack)
	require.NoError(t, err)
	assert.Equal(t, 5, balance, "el saldo no debe cambiar tras un rechazo")

	entries, err := reader.ListByPair(productA, locRack, 0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "el rechazo no debe dejar entrada en el ledger")
}

// Vaciar exactamente el saldo es válido (saldo final 0).
func TestRecordOut_VaciarSaldoExacto(t *testing.T) {
	uc, _ := newLedgerUC(t)
	ctx := context.Background()

	_, err := uc.RecordIn(ctx, movement(productA, locRack, 9))
	require.NoError(t, err)

	entry, err := uc.RecordOut(ctx, movement(productA, locRack, 9))
	require.NoError(t, err)
	assert.Equal(t, 0, entry.RunningBalance)
}

func TestRecordInOut_CantidadNoPositiva_Rechazada(t *testing.T) {
	uc, _ := newLedgerUC(t)
	ctx := context.Background()

	_, err := uc.RecordIn(ctx, movement(productA, locRack, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = uc.RecordOut(ctx, movement(productA, locRack, -3))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordAdjustment_DeltaConSigno(t *testing.T) {
	uc, _ := newLedgerUC(t)
	ctx := context.Background()

	_, err := uc.RecordIn(ctx, movement(productA, locRack, 10))
	require.NoError(t, err)

	entry, err := uc.RecordAdjustment(ctx, movement(productA, locRack, -4))
	require.NoError(t, err)
	assert.Equal(t, "ADJUSTMENT", entry.MovementType)
	assert.Equal(t, -4, entry.Quantity, "el ajuste guarda el delta con signo")
	assert.Equal(t, 6, entry.RunningBalance)

	entry, err = uc.RecordAdjustment(ctx, movement(productA, locRack, 2))
	require.NoError(t, err)
	assert.Equal(t, 8, entry.RunningBalance)
}

func TestRecordAdjustment_DeltaCero_Rechazado(t *testing.T) {
	uc, _ := newLedgerUC(t)

	_, err := uc.RecordAdjustment(context.Background(), movement(productA, locRack, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestRecordAdjustment_BajoCero_Rechazado(t *testing.T) {
	uc, _ := newLedgerUC(t)
	ctx := context.Background()

	_, err := uc.RecordIn(ctx, movement(productA, locRack, 3))
	require.NoError(t, err)

	_, err = uc.RecordAdjustment(ctx, movement(productA, locRack, -5))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	balance, err := uc.GetCurrentBalance(productA, locRack)
	require.NoError(t, err)
	assert.Equal(t, 3, balance)
}

// ──────────────────────────────────────────────────────────────────────────────
// Disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateAvailability(t *testing.T) {
	uc, _ := newLedgerUC(t)
	ctx := context.Background()

	_, err := uc.RecordIn(ctx, movement(productA, locRack, 10))
	require.NoError(t, err)

	assert.NoError(t, uc.ValidateAvailability(productA, locRack, 10))
	assert.ErrorIs(t, uc.ValidateAvailability(productA, locRack, 11), domain.ErrInsufficientStock)
	assert.ErrorIs(t, uc.ValidateAvailability(productA, locRecep, 1), domain.ErrInsufficientStock)
	assert.ErrorIs(t, uc.ValidateAvailability(productA, locRack, 0), domain.ErrInvalidOperation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: escritores del mismo par quedan serializados
// ──────────────────────────────────────────────────────────────────────────────

// N retiros concurrentes contra el mismo par: deben quedar serializados, sin
// lost updates. Con saldo para exactamente la mitad, la mitad debe tener éxito
// y el resto rechazarse con ErrInsufficientStock.
func TestRecordOut_Concurrente_SinLostUpdates(t *testing.T) {
	uc, _ := newLedgerUC(t)
	ctx := context.Background()

	const workers = 20
	_, err := uc.RecordIn(ctx, movement(productA, locRack, workers/2))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.RecordOut(ctx, movement(productA, locRack, 1))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, workers/2, ok, "solo debe haber stock para la mitad de los retiros")
	assert.Equal(t, workers/2, insufficient)

	balance, err := uc.GetCurrentBalance(productA, locRack)
	require.NoError(t, err)
	assert.Equal(t, 0, balance, "el saldo final debe ser exactamente 0")
}

// Entradas concurrentes sobre el mismo par: todas deben aplicarse y el saldo
// final debe ser la suma exacta.
func TestRecordIn_Concurrente_SaldoExacto(t *testing.T) {
	uc, _ := newLedgerUC(t)
	ctx := context.Background()

	const workers = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordIn(ctx, movement(productA, locRecep, 2))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := uc.GetCurrentBalance(productA, locRecep)
	require.NoError(t, err)
	assert.Equal(t, workers*2, balance)
}

// Pares distintos no se bloquean entre sí: escritores sobre pares disjuntos
// terminan aunque el lock de otro par esté retenido.
func TestTxRunner_ParesDistintosNoSeBloquean(t *testing.T) {
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store, 500*time.Millisecond)
	reader := memory.NewLedgerRepository(store)
	uc := ledger.NewStockLedgerUseCase(txRunner, reader, nil)
	ctx := context.Background()

	blocked := make(chan struct{})
	release := make(chan struct{})
	go func() {
		// Retiene el lock del par A/recepción hasta que se le indique.
		_ = txRunner.Run(ctx, func(repo repository.StockLedgerRepository) error {
			_, err := repo.GetLatestForUpdate(productA, locRecep)
			close(blocked)
			<-release
			return err
		})
	}()
	<-blocked

	done := make(chan error, 1)
	go func() {
		_, err := uc.RecordIn(ctx, movement(productB, locRack, 1))
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err, "un par disjunto no debe esperar el lock de otro")
	case <-time.After(2 * time.Second):
		t.Fatal("escritura sobre par disjunto quedó bloqueada")
	}
	close(release)
}

// Un lock retenido más allá del timeout produce ErrContention en el par.
func TestTxRunner_LockRetenido_ErrContention(t *testing.T) {
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store, 100*time.Millisecond)
	reader := memory.NewLedgerRepository(store)
	uc := ledger.NewStockLedgerUseCase(txRunner, reader, nil)
	ctx := context.Background()

	blocked := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = txRunner.Run(ctx, func(repo repository.StockLedgerRepository) error {
			_, err := repo.GetLatestForUpdate(productA, locRack)
			close(blocked)
			<-release
			return err
		})
	}()
	<-blocked
	defer close(release)

	_, err := uc.RecordIn(ctx, movement(productA, locRack, 1))
	assert.ErrorIs(t, err, domain.ErrContention,
		"esperar el lock más allá del timeout debe reportar contención")
}
