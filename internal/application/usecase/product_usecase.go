package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// ProductUseCase casos de uso CRUD para productos. El stock no se toca aquí:
// se deriva del ledger.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	barcodeRepo repository.BarcodeRepository
	log         *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, barcodeRepo repository.BarcodeRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, barcodeRepo: barcodeRepo, log: log}
}

// Create crea un producto. El SKU es único e inmutable.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := validStockRange(in.MinStock, in.MaxStock); err != nil {
		return nil, err
	}
	existing, err := uc.productRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           sku,
		Name:          in.Name,
		Category:      in.Category,
		UnitOfMeasure: in.UnitOfMeasure,
		Price:         in.Price,
		Weight:        in.Weight,
		UnitVolume:    in.UnitVolume,
		MinStock:      in.MinStock,
		MaxStock:      in.MaxStock,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("sku", product.SKU).Msg("producto creado")
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// GetBySKU obtiene un producto por su SKU.
func (uc *ProductUseCase) GetBySKU(sku string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetBySKU(strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza atributos mutables. El SKU nunca cambia.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Weight != nil {
		product.Weight = *in.Weight
	}
	if in.UnitVolume != nil {
		product.UnitVolume = *in.UnitVolume
	}
	if in.MinStock != nil {
		product.MinStock = in.MinStock
	}
	if in.MaxStock != nil {
		product.MaxStock = in.MaxStock
	}
	if err := validStockRange(product.MinStock, product.MaxStock); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros de actividad y categoría.
func (uc *ProductUseCase) List(onlyActive bool, category string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.productRepo.List(onlyActive, category, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Deactivate baja lógica del producto; su historial de ledger queda intacto.
func (uc *ProductUseCase) Deactivate(id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Deactivate(id)
}

// AddBarcode registra una identidad alterna (EAN, código de fardo) para el
// producto. El código es único global.
func (uc *ProductUseCase) AddBarcode(productID string, in dto.AddBarcodeRequest) (*entity.ProductBarcode, error) {
	code := strings.TrimSpace(in.Barcode)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.barcodeRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	barcode := &entity.ProductBarcode{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Barcode:   code,
		IsPrimary: in.IsPrimary,
		CreatedAt: time.Now(),
	}
	if err := uc.barcodeRepo.Create(barcode); err != nil {
		return nil, err
	}
	return barcode, nil
}

// ListBarcodes códigos alternos registrados de un producto.
func (uc *ProductUseCase) ListBarcodes(productID string) ([]*entity.ProductBarcode, error) {
	return uc.barcodeRepo.ListByProduct(productID)
}

func validStockRange(min, max *int) error {
	if min != nil && *min < 0 {
		return domain.ErrInvalidInput
	}
	if max != nil && *max < 0 {
		return domain.ErrInvalidInput
	}
	if min != nil && max != nil && *min > *max {
		return domain.ErrInvalidInput
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Category:      p.Category,
		UnitOfMeasure: p.UnitOfMeasure,
		Price:         p.Price,
		Weight:        p.Weight,
		UnitVolume:    p.UnitVolume,
		MinStock:      p.MinStock,
		MaxStock:      p.MaxStock,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
