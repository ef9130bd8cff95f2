package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.DiscrepancyRepository = (*DiscrepancyRepo)(nil)

const discrepancyColumns = `id, task_id, task_line_id, product_id, issue_type, expected_quantity, actual_quantity, reported_by, reported_at, resolved_by, resolved_at, resolution, notes`

// DiscrepancyRepo implementación de DiscrepancyRepository sobre PostgreSQL.
type DiscrepancyRepo struct {
	q Querier
}

// NewDiscrepancyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDiscrepancyRepository(q Querier) *DiscrepancyRepo {
	return &DiscrepancyRepo{q: q}
}

// Create persiste una incidencia.
func (r *DiscrepancyRepo) Create(d *entity.TaskDiscrepancy) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	query := `
		INSERT INTO task_discrepancies (id, task_id, task_line_id, product_id, issue_type, expected_quantity, actual_quantity, reported_by, reported_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.TaskID, nullable(d.TaskLineID), d.ProductID, d.IssueType,
		d.ExpectedQuantity, d.ActualQuantity, d.ReportedBy, d.ReportedAt, d.Notes,
	)
	if err != nil {
		return fmt.Errorf("create discrepancy: %w", err)
	}
	return nil
}

// GetByID obtiene una incidencia por ID.
func (r *DiscrepancyRepo) GetByID(id string) (*entity.TaskDiscrepancy, error) {
	query := `SELECT ` + discrepancyColumns + ` FROM task_discrepancies WHERE id = $1`
	d, err := scanDiscrepancy(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get discrepancy: %w", err)
	}
	return d, nil
}

// Update adjunta la resolución (ResolvedBy/ResolvedAt/Resolution) y notas.
func (r *DiscrepancyRepo) Update(d *entity.TaskDiscrepancy) error {
	query := `
		UPDATE task_discrepancies
		SET resolved_by = $2, resolved_at = $3, resolution = $4, notes = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, nullable(d.ResolvedBy), d.ResolvedAt, d.Resolution, d.Notes,
	)
	if err != nil {
		return fmt.Errorf("update discrepancy: %w", err)
	}
	return nil
}

// List lista incidencias, opcionalmente solo las sin resolver, más recientes primero.
func (r *DiscrepancyRepo) List(onlyUnresolved bool, limit, offset int) ([]*entity.TaskDiscrepancy, error) {
	query := `SELECT ` + discrepancyColumns + ` FROM task_discrepancies`
	if onlyUnresolved {
		query += ` WHERE resolved_by IS NULL`
	}
	query += ` ORDER BY reported_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list discrepancies: %w", err)
	}
	return scanDiscrepancies(rows)
}

// ListByTask incidencias reportadas contra una tarea.
func (r *DiscrepancyRepo) ListByTask(taskID string) ([]*entity.TaskDiscrepancy, error) {
	query := `SELECT ` + discrepancyColumns + ` FROM task_discrepancies WHERE task_id = $1 ORDER BY reported_at ASC`
	rows, err := r.q.Query(context.Background(), query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list discrepancies by task: %w", err)
	}
	return scanDiscrepancies(rows)
}

func scanDiscrepancy(row pgx.Row) (*entity.TaskDiscrepancy, error) {
	var d entity.TaskDiscrepancy
	var taskLineID, resolvedBy, resolution *string
	err := row.Scan(
		&d.ID, &d.TaskID, &taskLineID, &d.ProductID, &d.IssueType,
		&d.ExpectedQuantity, &d.ActualQuantity, &d.ReportedBy, &d.ReportedAt,
		&resolvedBy, &d.ResolvedAt, &resolution, &d.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if taskLineID != nil {
		d.TaskLineID = *taskLineID
	}
	if resolvedBy != nil {
		d.ResolvedBy = *resolvedBy
	}
	if resolution != nil {
		d.Resolution = *resolution
	}
	return &d, nil
}

func scanDiscrepancies(rows pgx.Rows) ([]*entity.TaskDiscrepancy, error) {
	defer rows.Close()
	var list []*entity.TaskDiscrepancy
	for rows.Next() {
		d, err := scanDiscrepancy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discrepancy: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
