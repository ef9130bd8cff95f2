package entity

import "time"

// Tipos de tarea de almacén. Conjunto cerrado: el despacho a políticas de
// movimiento hace switch exhaustivo sobre estos valores.
const (
	TaskTypeReceipt    = "RECEIPT"    // recepción: IN en destino
	TaskTypeTransfer   = "TRANSFER"   // traslado interno: OUT origen + IN destino
	TaskTypePicking    = "PICKING"    // picking: OUT almacenaje + IN rack de picking
	TaskTypeDelivery   = "DELIVERY"   // expedición: OUT origen (sale del almacén)
	TaskTypeAdjustment = "ADJUSTMENT" // ajuste: solo vía administrativa, nunca por operario
)

// Estados de una tarea. Transiciones monotónicas:
// PENDING -> IN_PROGRESS -> {COMPLETED | FAILED}; CANCELLED desde cualquier
// estado no terminal (ruta administrativa). La reasignación no cambia el estado.
const (
	TaskStatusDraft      = "DRAFT"
	TaskStatusPending    = "PENDING"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusCompleted  = "COMPLETED"
	TaskStatusCancelled  = "CANCELLED"
	TaskStatusFailed     = "FAILED"
)

// Prioridades de tarea.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Task es una unidad de trabajo de almacén: un tipo, un operario asignado y
// líneas ordenadas. Solo el motor de workflow muta su estado.
type Task struct {
	ID          string
	Type        string
	Reference   string // único, ej. TRF-4F2A91BC
	Status      string
	Priority    string
	CreatedBy   string // UserID del planificador
	AssignedTo  string // UserID del operario; vacío = sin asignar
	ChariotID   string // equipo opcional
	Notes       string
	Lines       []*TaskLine
	CreatedAt   time.Time
	AssignedAt  *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// TaskLine es una instrucción producto/cantidad/emplazamientos dentro de una
// tarea. Inmutable una vez creada: su "completitud" se infiere de las entradas
// del ledger que referencian la línea, no de un flag propio.
type TaskLine struct {
	ID                    string
	TaskID                string
	LineNumber            int // 1-based, único dentro de la tarea
	ProductID             string
	Quantity              int // entero positivo
	SourceLocationID      string // requerido según el tipo de tarea
	DestinationLocationID string // requerido según el tipo de tarea
	CreatedAt             time.Time
}

// IsTerminal indica si el estado es final (la tarea ya no admite transiciones).
func (t *Task) IsTerminal() bool {
	switch t.Status {
	case TaskStatusCompleted, TaskStatusCancelled, TaskStatusFailed:
		return true
	}
	return false
}

// LineByNumber busca una línea por su número 1-based. Nil si no existe.
func (t *Task) LineByNumber(n int) *TaskLine {
	for _, line := range t.Lines {
		if line.LineNumber == n {
			return line
		}
	}
	return nil
}
