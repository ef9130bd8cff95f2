package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)
var _ repository.StockLedgerRepository = (*LedgerRepo)(nil)

// TxRunner versión en memoria del runner transaccional del ledger: el callback
// trabaja contra un repo staged; los appends se confirman solo si fn retorna
// nil, y los locks de par adquiridos se liberan siempre al salir.
type TxRunner struct {
	store       *Store
	lockTimeout time.Duration
}

// NewTxRunner construye el runner. El timeout acota la espera por el lock de un par.
func NewTxRunner(store *Store, lockTimeout time.Duration) *TxRunner {
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &TxRunner{store: store, lockTimeout: lockTimeout}
}

// Run ejecuta fn con semántica de transacción: commit de los appends en éxito,
// descarte en error.
func (r *TxRunner) Run(ctx context.Context, fn func(ledgerRepo repository.StockLedgerRepository) error) error {
	tx := &txLedgerRepo{
		LedgerRepo:  LedgerRepo{store: r.store},
		lockTimeout: r.lockTimeout,
	}
	defer tx.releaseLocks()

	if err := fn(tx); err != nil {
		return err
	}
	r.store.appendEntries(tx.staged)
	return nil
}

// txLedgerRepo repo atado a una "transacción": los Append quedan en staging y
// las lecturas dentro de la tx los ven.
type txLedgerRepo struct {
	LedgerRepo
	lockTimeout time.Duration
	staged      []*entity.StockLedgerEntry
	heldKeys    []string
}

func (tx *txLedgerRepo) Append(entry *entity.StockLedgerEntry) error {
	copied := *entry
	tx.staged = append(tx.staged, &copied)
	return nil
}

func (tx *txLedgerRepo) GetLatest(productID, locationID string) (*entity.StockLedgerEntry, error) {
	if e := tx.latestStaged(productID, locationID); e != nil {
		return e, nil
	}
	return tx.store.latestEntry(productID, locationID), nil
}

func (tx *txLedgerRepo) GetLatestForUpdate(productID, locationID string) (*entity.StockLedgerEntry, error) {
	key := pairKey(productID, locationID)
	if !tx.holds(key) {
		if err := tx.store.locks.acquire(key, tx.lockTimeout); err != nil {
			return nil, err
		}
		tx.heldKeys = append(tx.heldKeys, key)
	}
	return tx.GetLatest(productID, locationID)
}

func (tx *txLedgerRepo) latestStaged(productID, locationID string) *entity.StockLedgerEntry {
	for i := len(tx.staged) - 1; i >= 0; i-- {
		e := tx.staged[i]
		if e.ProductID == productID && e.LocationID == locationID {
			copied := *e
			return &copied
		}
	}
	return nil
}

func (tx *txLedgerRepo) holds(key string) bool {
	for _, k := range tx.heldKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (tx *txLedgerRepo) releaseLocks() {
	for _, key := range tx.heldKeys {
		tx.store.locks.release(key)
	}
	tx.heldKeys = nil
}

// LedgerRepo lecturas del ledger fuera de transacción.
type LedgerRepo struct {
	store *Store
}

// NewLedgerRepository construye el repo de lectura.
func NewLedgerRepository(store *Store) *LedgerRepo {
	return &LedgerRepo{store: store}
}

// Append fuera de transacción confirma directo. Los flujos de negocio pasan
// por el TxRunner; esto existe para sembrar datos en tests.
func (r *LedgerRepo) Append(entry *entity.StockLedgerEntry) error {
	r.store.appendEntries([]*entity.StockLedgerEntry{entry})
	return nil
}

func (r *LedgerRepo) GetLatest(productID, locationID string) (*entity.StockLedgerEntry, error) {
	return r.store.latestEntry(productID, locationID), nil
}

// GetLatestForUpdate fuera de transacción no retiene el lock más allá de la
// lectura; solo las escrituras vía TxRunner serializan de verdad.
func (r *LedgerRepo) GetLatestForUpdate(productID, locationID string) (*entity.StockLedgerEntry, error) {
	return r.store.latestEntry(productID, locationID), nil
}

func (r *LedgerRepo) ListByPair(productID, locationID string, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	matches := r.filter(func(e *entity.StockLedgerEntry) bool {
		return e.ProductID == productID && e.LocationID == locationID
	})
	reverse(matches)
	return paginate(matches, limit, offset), nil
}

func (r *LedgerRepo) ListByTask(taskID string) ([]*entity.StockLedgerEntry, error) {
	return r.filter(func(e *entity.StockLedgerEntry) bool {
		return e.TaskID == taskID
	}), nil
}

func (r *LedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	matches := r.filter(func(e *entity.StockLedgerEntry) bool {
		if e.ProductID != productID {
			return false
		}
		if from != nil && e.PerformedAt.Before(*from) {
			return false
		}
		if to != nil && e.PerformedAt.After(*to) {
			return false
		}
		return true
	})
	reverse(matches)
	return paginate(matches, limit, offset), nil
}

func (r *LedgerRepo) ListPairBalances(productID string) ([]*repository.PairBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	byLocation := make(map[string]*repository.PairBalance)
	for _, e := range r.store.ledger {
		if e.ProductID != productID {
			continue
		}
		// Orden de inserción = orden del ledger: la última gana.
		byLocation[e.LocationID] = &repository.PairBalance{
			ProductID:  e.ProductID,
			LocationID: e.LocationID,
			Balance:    e.RunningBalance,
			AsOf:       e.PerformedAt,
		}
	}
	list := make([]*repository.PairBalance, 0, len(byLocation))
	for _, b := range byLocation {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LocationID < list[j].LocationID })
	return list, nil
}

func (r *LedgerRepo) filter(keep func(*entity.StockLedgerEntry) bool) []*entity.StockLedgerEntry {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []*entity.StockLedgerEntry
	for _, e := range r.store.ledger {
		if keep(e) {
			copied := *e
			matches = append(matches, &copied)
		}
	}
	return matches
}

func reverse(list []*entity.StockLedgerEntry) {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
}

func paginate(list []*entity.StockLedgerEntry, limit, offset int) []*entity.StockLedgerEntry {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
