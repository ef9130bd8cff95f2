package workflow

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// movementPolicy traduce una línea de tarea en llamadas al ledger. Las cuatro
// políticas son estrategias sin estado: validan qué emplazamientos exige la
// línea y emiten los movimientos en orden. Un campo requerido ausente corta con
// ErrInvalidOperation antes de cualquier llamada al ledger.
type movementPolicy interface {
	apply(ctx context.Context, task *entity.Task, line *entity.TaskLine, performedBy string) error
}

// policyForType resuelve la política por tipo de tarea. Switch exhaustivo sobre
// el conjunto cerrado: agregar un tipo nuevo obliga a decidir su política aquí.
func policyForType(ledgerUC *ledger.StockLedgerUseCase, taskType string) (movementPolicy, error) {
	switch taskType {
	case entity.TaskTypeReceipt:
		return receiptPolicy{ledgerUC}, nil
	case entity.TaskTypeTransfer:
		return transferPolicy{ledgerUC}, nil
	case entity.TaskTypePicking:
		return pickingPolicy{ledgerUC}, nil
	case entity.TaskTypeDelivery:
		return deliveryPolicy{ledgerUC}, nil
	case entity.TaskTypeAdjustment:
		// Los ajustes van solo por la ruta administrativa, nunca línea a línea.
		return nil, domain.ErrInvalidOperation
	default:
		return nil, domain.ErrInvalidOperation
	}
}

// receiptPolicy recepción: IN en el emplazamiento destino.
type receiptPolicy struct {
	ledger *ledger.StockLedgerUseCase
}

func (p receiptPolicy) apply(ctx context.Context, task *entity.Task, line *entity.TaskLine, performedBy string) error {
	if line.DestinationLocationID == "" {
		return domain.ErrInvalidOperation
	}
	_, err := p.ledger.RecordIn(ctx, movementFor(task, line, line.DestinationLocationID, performedBy))
	return err
}

// transferPolicy traslado interno: OUT del origen + IN en el destino.
type transferPolicy struct {
	ledger *ledger.StockLedgerUseCase
}

func (p transferPolicy) apply(ctx context.Context, task *entity.Task, line *entity.TaskLine, performedBy string) error {
	return moveBetweenLocations(ctx, p.ledger, task, line, performedBy)
}

// pickingPolicy picking: OUT del almacenaje + IN en el rack de picking.
// Mismo par de movimientos que el traslado; difiere en la semántica de los
// emplazamientos, no en las llamadas al ledger.
type pickingPolicy struct {
	ledger *ledger.StockLedgerUseCase
}

func (p pickingPolicy) apply(ctx context.Context, task *entity.Task, line *entity.TaskLine, performedBy string) error {
	return moveBetweenLocations(ctx, p.ledger, task, line, performedBy)
}

// deliveryPolicy expedición: OUT del origen, el producto sale del almacén.
type deliveryPolicy struct {
	ledger *ledger.StockLedgerUseCase
}

func (p deliveryPolicy) apply(ctx context.Context, task *entity.Task, line *entity.TaskLine, performedBy string) error {
	if line.SourceLocationID == "" {
		return domain.ErrInvalidOperation
	}
	if err := p.ledger.ValidateAvailability(line.ProductID, line.SourceLocationID, line.Quantity); err != nil {
		return err
	}
	_, err := p.ledger.RecordOut(ctx, movementFor(task, line, line.SourceLocationID, performedBy))
	return err
}

// moveBetweenLocations ejecuta el par OUT origen / IN destino con
// pre-validación de disponibilidad. Cada llamada al ledger se serializa en su
// propio par; si el IN falla después de un OUT ya confirmado, se emite un IN
// compensatorio sobre el origen para restaurar el saldo antes de propagar el
// error.
func moveBetweenLocations(ctx context.Context, ledgerUC *ledger.StockLedgerUseCase, task *entity.Task, line *entity.TaskLine, performedBy string) error {
	if line.SourceLocationID == "" || line.DestinationLocationID == "" {
		return domain.ErrInvalidOperation
	}
	if err := ledgerUC.ValidateAvailability(line.ProductID, line.SourceLocationID, line.Quantity); err != nil {
		return err
	}
	if _, err := ledgerUC.RecordOut(ctx, movementFor(task, line, line.SourceLocationID, performedBy)); err != nil {
		return err
	}
	if _, err := ledgerUC.RecordIn(ctx, movementFor(task, line, line.DestinationLocationID, performedBy)); err != nil {
		// Compensación: deshace el OUT ya confirmado devolviendo la cantidad al origen.
		if _, compErr := ledgerUC.RecordIn(ctx, movementFor(task, line, line.SourceLocationID, performedBy)); compErr != nil {
			// El origen queda descuadrado; la incidencia debe reportarse manualmente.
			return compErr
		}
		return err
	}
	return nil
}

func movementFor(task *entity.Task, line *entity.TaskLine, locationID, performedBy string) ledger.MovementInput {
	return ledger.MovementInput{
		ProductID:   line.ProductID,
		LocationID:  locationID,
		Quantity:    line.Quantity,
		TaskID:      task.ID,
		TaskLineID:  line.ID,
		PerformedBy: performedBy,
	}
}
