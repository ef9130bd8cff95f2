package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

const ledgerColumns = `id, product_id, location_id, task_id, task_line_id, movement_type, quantity, running_balance, performed_by, performed_at, created_at`

// StockLedgerRepo implementación del libro de stock sobre PostgreSQL (usable
// con pool o tx). La tabla stock_ledger es append-only; el orden "más reciente"
// lo da la columna seq (BIGSERIAL), nunca el timestamp.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// Append persiste una nueva entrada del ledger.
func (r *StockLedgerRepo) Append(entry *entity.StockLedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (id, product_id, location_id, task_id, task_line_id, movement_type, quantity, running_balance, performed_by, performed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	taskLineID := (*string)(nil)
	if entry.TaskLineID != "" {
		taskLineID = &entry.TaskLineID
	}
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.LocationID, entry.TaskID, taskLineID,
		entry.MovementType, entry.Quantity, entry.RunningBalance,
		entry.PerformedBy, entry.PerformedAt, entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// GetLatest devuelve la entrada más reciente del par sin bloquear. Nil si el
// par no tiene historial.
func (r *StockLedgerRepo) GetLatest(productID, locationID string) (*entity.StockLedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE product_id = $1 AND location_id = $2
		ORDER BY seq DESC LIMIT 1`
	entry, err := r.scanOne(r.q.QueryRow(context.Background(), query, productID, locationID))
	if err != nil {
		return nil, fmt.Errorf("get latest ledger entry: %w", err)
	}
	return entry, nil
}

// GetLatestForUpdate devuelve la entrada más reciente adquiriendo el lock
// exclusivo del par. El lock es un advisory lock de transacción sobre el hash
// del par: cubre también el caso de par sin historial, donde no existe fila que
// bloquear con FOR UPDATE. Se libera solo en Commit/Rollback.
func (r *StockLedgerRepo) GetLatestForUpdate(productID, locationID string) (*entity.StockLedgerEntry, error) {
	ctx := context.Background()
	lockQuery := `SELECT pg_advisory_xact_lock(hashtextextended($1 || ':' || $2, 0))`
	if _, err := r.q.Exec(ctx, lockQuery, productID, locationID); err != nil {
		if isLockNotAvailable(err) {
			return nil, domain.ErrContention
		}
		return nil, fmt.Errorf("lock pair: %w", err)
	}
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE product_id = $1 AND location_id = $2
		ORDER BY seq DESC LIMIT 1
		FOR UPDATE`
	entry, err := r.scanOne(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		if isLockNotAvailable(err) {
			return nil, domain.ErrContention
		}
		return nil, fmt.Errorf("get latest for update: %w", err)
	}
	return entry, nil
}

// ListByPair historial de un par, más reciente primero.
func (r *StockLedgerRepo) ListByPair(productID, locationID string, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE product_id = $1 AND location_id = $2
		ORDER BY seq DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, productID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list by pair: %w", err)
	}
	return r.scanMany(rows)
}

// ListByTask entradas generadas por una tarea, en orden de registro.
func (r *StockLedgerRepo) ListByTask(taskID string) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE task_id = $1
		ORDER BY seq ASC`
	rows, err := r.q.Query(context.Background(), query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list by task: %w", err)
	}
	return r.scanMany(rows)
}

// ListByProduct historial de un producto en todos los emplazamientos, con rango de fechas opcional.
func (r *StockLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND performed_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND performed_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by product: %w", err)
	}
	return r.scanMany(rows)
}

// ListPairBalances saldos vigentes de un producto por emplazamiento (última
// entrada de cada par).
func (r *StockLedgerRepo) ListPairBalances(productID string) ([]*repository.PairBalance, error) {
	query := `
		SELECT DISTINCT ON (location_id) product_id, location_id, running_balance, performed_at
		FROM stock_ledger WHERE product_id = $1
		ORDER BY location_id, seq DESC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list pair balances: %w", err)
	}
	defer rows.Close()
	var list []*repository.PairBalance
	for rows.Next() {
		var b repository.PairBalance
		if err := rows.Scan(&b.ProductID, &b.LocationID, &b.Balance, &b.AsOf); err != nil {
			return nil, fmt.Errorf("scan pair balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (r *StockLedgerRepo) scanOne(row pgx.Row) (*entity.StockLedgerEntry, error) {
	var e entity.StockLedgerEntry
	var taskLineID *string
	err := row.Scan(
		&e.ID, &e.ProductID, &e.LocationID, &e.TaskID, &taskLineID,
		&e.MovementType, &e.Quantity, &e.RunningBalance,
		&e.PerformedBy, &e.PerformedAt, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if taskLineID != nil {
		e.TaskLineID = *taskLineID
	}
	return &e, nil
}

func (r *StockLedgerRepo) scanMany(rows pgx.Rows) ([]*entity.StockLedgerEntry, error) {
	defer rows.Close()
	var list []*entity.StockLedgerEntry
	for rows.Next() {
		var e entity.StockLedgerEntry
		var taskLineID *string
		if err := rows.Scan(
			&e.ID, &e.ProductID, &e.LocationID, &e.TaskID, &taskLineID,
			&e.MovementType, &e.Quantity, &e.RunningBalance,
			&e.PerformedBy, &e.PerformedAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if taskLineID != nil {
			e.TaskLineID = *taskLineID
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
