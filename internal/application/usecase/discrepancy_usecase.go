package usecase

import (
	"strings"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// DiscrepancyUseCase revisión administrativa de incidencias reportadas por
// operarios. Resolver una incidencia solo adjunta el veredicto; si requiere
// corrección de stock, esa va por el ajuste de inventario.
type DiscrepancyUseCase struct {
	discrepancyRepo repository.DiscrepancyRepository
	userRepo        repository.UserRepository
	log             *logger.Logger
}

// NewDiscrepancyUseCase construye el caso de uso.
func NewDiscrepancyUseCase(discrepancyRepo repository.DiscrepancyRepository, userRepo repository.UserRepository, log *logger.Logger) *DiscrepancyUseCase {
	return &DiscrepancyUseCase{discrepancyRepo: discrepancyRepo, userRepo: userRepo, log: log}
}

// List lista incidencias, opcionalmente solo las sin resolver.
func (uc *DiscrepancyUseCase) List(onlyUnresolved bool, limit, offset int) ([]dto.DiscrepancyResponse, error) {
	list, err := uc.discrepancyRepo.List(onlyUnresolved, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DiscrepancyResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDiscrepancyResponse(d))
	}
	return items, nil
}

// ListByTask incidencias reportadas contra una tarea.
func (uc *DiscrepancyUseCase) ListByTask(taskID string) ([]dto.DiscrepancyResponse, error) {
	list, err := uc.discrepancyRepo.ListByTask(taskID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DiscrepancyResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDiscrepancyResponse(d))
	}
	return items, nil
}

// Resolve adjunta la resolución de un supervisor. Una incidencia ya resuelta
// no se re-resuelve.
func (uc *DiscrepancyUseCase) Resolve(resolverUsername, id string, in dto.ResolveDiscrepancyRequest) (*dto.DiscrepancyResponse, error) {
	if strings.TrimSpace(in.Resolution) == "" {
		return nil, domain.ErrInvalidInput
	}
	d, err := uc.discrepancyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if d.ResolvedBy != "" {
		return nil, domain.ErrInvalidOperation
	}
	resolver, err := uc.userRepo.GetByUsername(resolverUsername)
	if err != nil {
		return nil, err
	}
	if resolver == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	d.ResolvedBy = resolver.ID
	d.ResolvedAt = &now
	d.Resolution = in.Resolution
	if in.Notes != "" {
		d.Notes = in.Notes
	}
	if err := uc.discrepancyRepo.Update(d); err != nil {
		return nil, err
	}
	uc.log.Info().Str("discrepancy_id", d.ID).Str("resolved_by", resolver.ID).Msg("incidencia resuelta")
	return toDiscrepancyResponse(d), nil
}

func toDiscrepancyResponse(d *entity.TaskDiscrepancy) *dto.DiscrepancyResponse {
	if d == nil {
		return nil
	}
	return &dto.DiscrepancyResponse{
		ID:               d.ID,
		TaskID:           d.TaskID,
		TaskLineID:       d.TaskLineID,
		ProductID:        d.ProductID,
		IssueType:        d.IssueType,
		ExpectedQuantity: d.ExpectedQuantity,
		ActualQuantity:   d.ActualQuantity,
		ReportedBy:       d.ReportedBy,
		ReportedAt:       d.ReportedAt,
		ResolvedBy:       d.ResolvedBy,
		ResolvedAt:       d.ResolvedAt,
		Resolution:       d.Resolution,
		Notes:            d.Notes,
	}
}
