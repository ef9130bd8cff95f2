package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

// lockTable locks exclusivos por clave con timeout de adquisición. Equivalente
// en memoria al advisory lock de par del adaptador PostgreSQL.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]chan struct{})}
}

// acquire toma el lock de la clave o devuelve ErrContention si otro titular lo
// retiene más allá del timeout.
func (t *lockTable) acquire(key string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		t.mu.Lock()
		ch, held := t.locks[key]
		if !held {
			t.locks[key] = make(chan struct{})
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return domain.ErrContention
		}
		select {
		case <-ch:
			// Liberado: reintenta la adquisición.
		case <-time.After(remaining):
			return domain.ErrContention
		}
	}
}

// release suelta el lock y despierta a los que esperan por la clave.
func (t *lockTable) release(key string) {
	t.mu.Lock()
	if ch, ok := t.locks[key]; ok {
		delete(t.locks, key)
		close(ch)
	}
	t.mu.Unlock()
}
