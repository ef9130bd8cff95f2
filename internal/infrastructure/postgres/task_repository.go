package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

const taskColumns = `id, type, reference, status, priority, created_by, assigned_to, chariot_id, notes, created_at, assigned_at, started_at, completed_at`

// TaskRepo implementación de TaskRepository sobre PostgreSQL. Las líneas se
// cargan siempre con la tarea, ordenadas por número.
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

// Create persiste la tarea y sus líneas.
func (r *TaskRepo) Create(task *entity.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	ctx := context.Background()
	query := `
		INSERT INTO tasks (id, type, reference, status, priority, created_by, assigned_to, chariot_id, notes, created_at, assigned_at, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		task.ID, task.Type, task.Reference, task.Status, task.Priority,
		task.CreatedBy, nullable(task.AssignedTo), nullable(task.ChariotID), task.Notes,
		task.CreatedAt, task.AssignedAt, task.StartedAt, task.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create task: %w", err)
	}
	for _, line := range task.Lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		lineQuery := `
			INSERT INTO task_lines (id, task_id, line_number, product_id, quantity, source_location_id, destination_location_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := r.q.Exec(ctx, lineQuery,
			line.ID, task.ID, line.LineNumber, line.ProductID, line.Quantity,
			nullable(line.SourceLocationID), nullable(line.DestinationLocationID), line.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("create task line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una tarea con sus líneas.
func (r *TaskRepo) GetByID(id string) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return r.getOne(query, id)
}

// GetByReference obtiene una tarea por su referencia legible.
func (r *TaskRepo) GetByReference(reference string) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE reference = $1`
	return r.getOne(query, reference)
}

// Update persiste estado, asignación, equipo, notas y timestamps. Las líneas
// son inmutables: nunca se tocan aquí.
func (r *TaskRepo) Update(task *entity.Task) error {
	query := `
		UPDATE tasks
		SET status = $2, priority = $3, assigned_to = $4, chariot_id = $5, notes = $6,
		    assigned_at = $7, started_at = $8, completed_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		task.ID, task.Status, task.Priority, nullable(task.AssignedTo), nullable(task.ChariotID),
		task.Notes, task.AssignedAt, task.StartedAt, task.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByAssignee tareas asignadas a un operario, más recientes primero.
func (r *TaskRepo) ListByAssignee(userID string, status string, limit, offset int) ([]*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE assigned_to = $1`
	args := []any{userID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args...)
}

// List tareas con filtros opcionales de estado y tipo, más recientes primero.
func (r *TaskRepo) List(status string, taskType string, limit, offset int) ([]*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	if taskType != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, taskType)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args...)
}

func (r *TaskRepo) getOne(query string, arg any) (*entity.Task, error) {
	task, err := scanTask(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, nil
	}
	if err := r.loadLines(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepo) list(query string, args ...any) ([]*entity.Task, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, task := range list {
		if err := r.loadLines(task); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *TaskRepo) loadLines(task *entity.Task) error {
	query := `
		SELECT id, task_id, line_number, product_id, quantity, source_location_id, destination_location_id, created_at
		FROM task_lines WHERE task_id = $1 ORDER BY line_number ASC`
	rows, err := r.q.Query(context.Background(), query, task.ID)
	if err != nil {
		return fmt.Errorf("load task lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.TaskLine
		var source, destination *string
		if err := rows.Scan(&line.ID, &line.TaskID, &line.LineNumber, &line.ProductID,
			&line.Quantity, &source, &destination, &line.CreatedAt); err != nil {
			return fmt.Errorf("scan task line: %w", err)
		}
		if source != nil {
			line.SourceLocationID = *source
		}
		if destination != nil {
			line.DestinationLocationID = *destination
		}
		task.Lines = append(task.Lines, &line)
	}
	return rows.Err()
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	var assignedTo, chariotID *string
	err := row.Scan(
		&t.ID, &t.Type, &t.Reference, &t.Status, &t.Priority, &t.CreatedBy,
		&assignedTo, &chariotID, &t.Notes, &t.CreatedAt,
		&t.AssignedAt, &t.StartedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if assignedTo != nil {
		t.AssignedTo = *assignedTo
	}
	if chariotID != nil {
		t.ChariotID = *chariotID
	}
	return &t, nil
}

// nullable convierte string vacío en NULL para columnas con FK opcional.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
