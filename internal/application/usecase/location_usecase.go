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

// LocationUseCase casos de uso para emplazamientos de almacén.
type LocationUseCase struct {
	locationRepo  repository.LocationRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(locationRepo repository.LocationRepository, warehouseRepo repository.WarehouseRepository, log *logger.Logger) *LocationUseCase {
	return &LocationUseCase{locationRepo: locationRepo, warehouseRepo: warehouseRepo, log: log}
}

// Create crea un emplazamiento. El código es único e inmutable.
func (uc *LocationUseCase) Create(in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	code := strings.TrimSpace(in.Code)
	locType := strings.ToUpper(strings.TrimSpace(in.Type))
	if code == "" || !validLocationType(locType) {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.locationRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	location := &entity.Location{
		ID:          uuid.New().String(),
		Code:        code,
		WarehouseID: warehouse.ID,
		Zone:        in.Zone,
		Type:        locType,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.locationRepo.Create(location); err != nil {
		return nil, err
	}
	uc.log.Info().Str("location_id", location.ID).Str("code", location.Code).Msg("emplazamiento creado")
	return toLocationResponse(location), nil
}

// GetByID obtiene un emplazamiento por ID.
func (uc *LocationUseCase) GetByID(id string) (*dto.LocationResponse, error) {
	location, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(location), nil
}

// Update actualiza zona y tipo. El código nunca cambia.
func (uc *LocationUseCase) Update(id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	if in.Zone != nil {
		location.Zone = *in.Zone
	}
	if in.Type != nil {
		locType := strings.ToUpper(strings.TrimSpace(*in.Type))
		if !validLocationType(locType) {
			return nil, domain.ErrInvalidInput
		}
		location.Type = locType
	}
	location.UpdatedAt = time.Now()
	if err := uc.locationRepo.Update(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// ListByWarehouse lista emplazamientos de un almacén.
func (uc *LocationUseCase) ListByWarehouse(warehouseID string, limit, offset int) (*dto.LocationListResponse, error) {
	list, err := uc.locationRepo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Deactivate baja lógica; el historial de ledger del emplazamiento queda intacto.
func (uc *LocationUseCase) Deactivate(id string) error {
	location, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrNotFound
	}
	return uc.locationRepo.Deactivate(id)
}

func validLocationType(t string) bool {
	switch t {
	case entity.LocationTypeStorage, entity.LocationTypeReceiving,
		entity.LocationTypePickingRack, entity.LocationTypeExpedition:
		return true
	}
	return false
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:          l.ID,
		Code:        l.Code,
		WarehouseID: l.WarehouseID,
		Zone:        l.Zone,
		Type:        l.Type,
		Active:      l.Active,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
