package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(onlyActive bool, category string, limit, offset int) ([]*entity.Product, error)
	// Deactivate baja lógica: los productos nunca se borran.
	Deactivate(id string) error
}

// BarcodeRepository define el puerto para identidades alternas (códigos de barras).
type BarcodeRepository interface {
	Create(barcode *entity.ProductBarcode) error
	GetByCode(code string) (*entity.ProductBarcode, error)
	ListByProduct(productID string) ([]*entity.ProductBarcode, error)
}
