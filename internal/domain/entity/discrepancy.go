package entity

import "time"

// Tipos de incidencia reportable durante la ejecución de una tarea.
const (
	IssueTypeMissing           = "MISSING"
	IssueTypeDamaged           = "DAMAGED"
	IssueTypeExcess            = "EXCESS"
	IssueTypeWrongLocation     = "WRONG_LOCATION"
	IssueTypeNotFound          = "NOT_FOUND"
	IssueTypeInsufficientStock = "INSUFFICIENT_STOCK"
)

// ValidIssueType verifica que el tipo de incidencia pertenezca al conjunto conocido.
func ValidIssueType(t string) bool {
	switch t {
	case IssueTypeMissing, IssueTypeDamaged, IssueTypeExcess,
		IssueTypeWrongLocation, IssueTypeNotFound, IssueTypeInsufficientStock:
		return true
	}
	return false
}

// TaskDiscrepancy registra una anomalía reportada por un operario contra una
// tarea/línea/producto. Se crea en el reporte y solo se muta para adjuntar la
// resolución de un supervisor. Nunca toca el ledger.
type TaskDiscrepancy struct {
	ID               string
	TaskID           string
	TaskLineID       string // opcional
	ProductID        string
	IssueType        string
	ExpectedQuantity *int
	ActualQuantity   *int
	ReportedBy       string // UserID
	ReportedAt       time.Time
	ResolvedBy       string // UserID del supervisor; vacío = sin resolver
	ResolvedAt       *time.Time
	Resolution       string
	Notes            string
}
