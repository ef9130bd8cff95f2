package dto

import "time"

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Code        string `json:"code"`
	WarehouseID string `json:"warehouse_id"`
	Zone        string `json:"zone,omitempty"`
	Type        string `json:"type"`
}

// UpdateLocationRequest body para PUT /api/locations/:id. El código es inmutable.
type UpdateLocationRequest struct {
	Zone *string `json:"zone,omitempty"`
	Type *string `json:"type,omitempty"`
}

// LocationResponse representación de emplazamiento.
type LocationResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	WarehouseID string    `json:"warehouse_id"`
	Zone        string    `json:"zone,omitempty"`
	Type        string    `json:"type"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationListResponse listado paginado de emplazamientos.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// WarehouseResponse representación de almacén.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
