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

var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.BarcodeRepository = (*BarcodeRepo)(nil)

const productColumns = `id, sku, name, category, unit_of_measure, price, weight, unit_volume, min_stock, max_stock, active, created_at, updated_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	query := `
		INSERT INTO products (id, sku, name, category, unit_of_measure, price, weight, unit_volume, min_stock, max_stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Category, product.UnitOfMeasure,
		product.Price, product.Weight, product.UnitVolume,
		product.MinStock, product.MaxStock, product.Active,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// GetBySKU obtiene un producto por SKU (la comparación es case-insensitive).
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE lower(sku) = lower($1)`
	product, err := scanProduct(r.q.QueryRow(context.Background(), query, sku))
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return product, nil
}

// Update actualiza los atributos mutables. El SKU no cambia.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, unit_of_measure = $4, price = $5, weight = $6,
		    unit_volume = $7, min_stock = $8, max_stock = $9, active = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Category, product.UnitOfMeasure,
		product.Price, product.Weight, product.UnitVolume,
		product.MinStock, product.MaxStock, product.Active, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con filtros de actividad y categoría.
func (r *ProductRepo) List(onlyActive bool, category string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	pos := 1
	if onlyActive {
		query += ` AND active = true`
	}
	if category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, category)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY sku ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, product)
	}
	return list, rows.Err()
}

// Deactivate baja lógica del producto.
func (r *ProductRepo) Deactivate(id string) error {
	query := `UPDATE products SET active = false, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.UnitOfMeasure,
		&p.Price, &p.Weight, &p.UnitVolume, &p.MinStock, &p.MaxStock,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// BarcodeRepo implementación de BarcodeRepository sobre PostgreSQL.
type BarcodeRepo struct {
	q Querier
}

// NewBarcodeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBarcodeRepository(q Querier) *BarcodeRepo {
	return &BarcodeRepo{q: q}
}

// Create persiste un código alterno. El código es único global.
func (r *BarcodeRepo) Create(barcode *entity.ProductBarcode) error {
	if barcode.ID == "" {
		barcode.ID = uuid.New().String()
	}
	query := `
		INSERT INTO product_barcodes (id, product_id, barcode, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		barcode.ID, barcode.ProductID, barcode.Barcode, barcode.IsPrimary, barcode.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create barcode: %w", err)
	}
	return nil
}

// GetByCode obtiene un código alterno por su valor exacto.
func (r *BarcodeRepo) GetByCode(code string) (*entity.ProductBarcode, error) {
	query := `SELECT id, product_id, barcode, is_primary, created_at FROM product_barcodes WHERE barcode = $1`
	var b entity.ProductBarcode
	err := r.q.QueryRow(context.Background(), query, code).Scan(
		&b.ID, &b.ProductID, &b.Barcode, &b.IsPrimary, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get barcode: %w", err)
	}
	return &b, nil
}

// ListByProduct códigos alternos registrados de un producto.
func (r *BarcodeRepo) ListByProduct(productID string) ([]*entity.ProductBarcode, error) {
	query := `SELECT id, product_id, barcode, is_primary, created_at FROM product_barcodes WHERE product_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list barcodes: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductBarcode
	for rows.Next() {
		var b entity.ProductBarcode
		if err := rows.Scan(&b.ID, &b.ProductID, &b.Barcode, &b.IsPrimary, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan barcode: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
