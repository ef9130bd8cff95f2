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

var _ repository.LocationRepository = (*LocationRepo)(nil)

const locationColumns = `id, code, warehouse_id, zone, type, active, created_at, updated_at`

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste un emplazamiento.
func (r *LocationRepo) Create(location *entity.Location) error {
	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	query := `
		INSERT INTO locations (id, code, warehouse_id, zone, type, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.Code, location.WarehouseID, location.Zone,
		location.Type, location.Active, location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

// GetByID obtiene un emplazamiento por ID.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	location, err := scanLocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return location, nil
}

// GetByCode obtiene un emplazamiento por su código único.
func (r *LocationRepo) GetByCode(code string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE code = $1`
	location, err := scanLocation(r.q.QueryRow(context.Background(), query, code))
	if err != nil {
		return nil, fmt.Errorf("get location by code: %w", err)
	}
	return location, nil
}

// Update actualiza zona y tipo. El código no cambia.
func (r *LocationRepo) Update(location *entity.Location) error {
	query := `
		UPDATE locations SET zone = $2, type = $3, active = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		location.ID, location.Zone, location.Type, location.Active, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByWarehouse emplazamientos de un almacén, por código.
func (r *LocationRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE warehouse_id = $1 ORDER BY code ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, location)
	}
	return list, rows.Err()
}

// Deactivate baja lógica del emplazamiento.
func (r *LocationRepo) Deactivate(id string) error {
	query := `UPDATE locations SET active = false, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("deactivate location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	err := row.Scan(
		&l.ID, &l.Code, &l.WarehouseID, &l.Zone, &l.Type,
		&l.Active, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}
