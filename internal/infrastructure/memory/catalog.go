package memory

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.BarcodeRepository = (*BarcodeRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	store *Store
}

// NewProductRepository construye el repo.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

// Create persiste un producto. El SKU es único sin distinguir mayúsculas.
func (r *ProductRepo) Create(product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if strings.EqualFold(p.SKU, product.SKU) {
			return domain.ErrDuplicate
		}
	}
	copied := *product
	r.store.products[product.ID] = &copied
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

// GetBySKU obtiene un producto por SKU, sin distinguir mayúsculas.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.products {
		if strings.EqualFold(p.SKU, sku) {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

// Update actualiza los atributos mutables.
func (r *ProductRepo) Update(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *product
	r.store.products[product.ID] = &copied
	return nil
}

// List lista productos por SKU.
func (r *ProductRepo) List(onlyActive bool, category string, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []*entity.Product
	for _, p := range r.store.products {
		if onlyActive && !p.Active {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		copied := *p
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].SKU < matches[j].SKU })
	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

// Deactivate baja lógica del producto.
func (r *ProductRepo) Deactivate(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Active = false
	return nil
}

// BarcodeRepo implementación en memoria de BarcodeRepository.
type BarcodeRepo struct {
	store *Store
}

// NewBarcodeRepository construye el repo.
func NewBarcodeRepository(store *Store) *BarcodeRepo {
	return &BarcodeRepo{store: store}
}

// Create persiste un código alterno. El código es único global.
func (r *BarcodeRepo) Create(barcode *entity.ProductBarcode) error {
	if barcode.ID == "" {
		barcode.ID = uuid.New().String()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.barcodes {
		if b.Barcode == barcode.Barcode {
			return domain.ErrDuplicate
		}
	}
	copied := *barcode
	r.store.barcodes[barcode.ID] = &copied
	return nil
}

// GetByCode obtiene un código alterno por valor exacto.
func (r *BarcodeRepo) GetByCode(code string) (*entity.ProductBarcode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, b := range r.store.barcodes {
		if b.Barcode == code {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

// ListByProduct códigos alternos de un producto.
func (r *BarcodeRepo) ListByProduct(productID string) ([]*entity.ProductBarcode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []*entity.ProductBarcode
	for _, b := range r.store.barcodes {
		if b.ProductID == productID {
			copied := *b
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Barcode < matches[j].Barcode })
	return matches, nil
}
