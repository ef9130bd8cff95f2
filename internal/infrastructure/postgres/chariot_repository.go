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

var _ repository.ChariotRepository = (*ChariotRepo)(nil)

// ChariotRepo implementación de ChariotRepository sobre PostgreSQL.
type ChariotRepo struct {
	q Querier
}

// NewChariotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewChariotRepository(q Querier) *ChariotRepo {
	return &ChariotRepo{q: q}
}

// Create persiste un equipo de manutención.
func (r *ChariotRepo) Create(chariot *entity.Chariot) error {
	if chariot.ID == "" {
		chariot.ID = uuid.New().String()
	}
	query := `
		INSERT INTO chariots (id, code, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		chariot.ID, chariot.Code, chariot.Available, chariot.CreatedAt, chariot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create chariot: %w", err)
	}
	return nil
}

// GetByID obtiene un equipo por ID.
func (r *ChariotRepo) GetByID(id string) (*entity.Chariot, error) {
	query := `SELECT id, code, available, created_at, updated_at FROM chariots WHERE id = $1`
	var c entity.Chariot
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Code, &c.Available, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chariot: %w", err)
	}
	return &c, nil
}

// Update actualiza la disponibilidad.
func (r *ChariotRepo) Update(chariot *entity.Chariot) error {
	query := `UPDATE chariots SET available = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, chariot.ID, chariot.Available, chariot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update chariot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista equipos por código.
func (r *ChariotRepo) List(limit, offset int) ([]*entity.Chariot, error) {
	query := `SELECT id, code, available, created_at, updated_at FROM chariots ORDER BY code ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list chariots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Chariot
	for rows.Next() {
		var c entity.Chariot
		if err := rows.Scan(&c.ID, &c.Code, &c.Available, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan chariot: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
