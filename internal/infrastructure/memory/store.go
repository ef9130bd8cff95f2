// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria. Se usa en tests y en modo demo; replica la semántica de los
// adaptadores PostgreSQL, incluida la serialización por par del ledger y la
// contención por timeout.
package memory

import (
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Store estado compartido de todos los repos en memoria.
type Store struct {
	mu sync.RWMutex

	ledger        []*entity.StockLedgerEntry
	tasks         map[string]*entity.Task
	discrepancies map[string]*entity.TaskDiscrepancy
	products      map[string]*entity.Product
	barcodes      map[string]*entity.ProductBarcode
	locations     map[string]*entity.Location
	warehouses    map[string]*entity.Warehouse
	users         map[string]*entity.User
	chariots      map[string]*entity.Chariot

	locks *lockTable
}

// NewStore crea el estado vacío.
func NewStore() *Store {
	return &Store{
		tasks:         make(map[string]*entity.Task),
		discrepancies: make(map[string]*entity.TaskDiscrepancy),
		products:      make(map[string]*entity.Product),
		barcodes:      make(map[string]*entity.ProductBarcode),
		locations:     make(map[string]*entity.Location),
		warehouses:    make(map[string]*entity.Warehouse),
		users:         make(map[string]*entity.User),
		chariots:      make(map[string]*entity.Chariot),
		locks:         newLockTable(),
	}
}

// latestEntry última entrada del par bajo el lock de lectura. Nil sin historial.
func (s *Store) latestEntry(productID, locationID string) *entity.StockLedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.ledger) - 1; i >= 0; i-- {
		e := s.ledger[i]
		if e.ProductID == productID && e.LocationID == locationID {
			copied := *e
			return &copied
		}
	}
	return nil
}

func (s *Store) appendEntries(entries []*entity.StockLedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		copied := *e
		s.ledger = append(s.ledger, &copied)
	}
}

func pairKey(productID, locationID string) string {
	return productID + ":" + locationID
}
