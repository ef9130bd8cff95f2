package dto

import "time"

// StartOperationRequest body para POST /api/operations/start.
type StartOperationRequest struct {
	TaskID    string `json:"task_id"`
	ChariotID string `json:"chariot_id,omitempty"`
}

// StartOperationResponse confirmación de inicio de operación.
type StartOperationResponse struct {
	TaskID    string    `json:"task_id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ExecuteLineRequest body para POST /api/operations/execute-line.
// Los códigos de emplazamiento son overrides opcionales sobre los de la línea.
type ExecuteLineRequest struct {
	TaskID                  string `json:"task_id"`
	LineNumber              int    `json:"line_number"`
	Barcode                 string `json:"barcode"` // SKU principal o código alterno escaneado
	Quantity                int    `json:"quantity"`
	SourceLocationCode      string `json:"source_location_code,omitempty"`
	DestinationLocationCode string `json:"destination_location_code,omitempty"`
}

// ExecuteLineResponse resultado de una línea ejecutada.
type ExecuteLineResponse struct {
	LineNumber int            `json:"line_number"`
	Status     string         `json:"status"` // COMPLETED
	Product    ProductSummary `json:"product"`
	Message    string         `json:"message"`
}

// ProductSummary resumen de producto en respuestas de operación.
type ProductSummary struct {
	ID            string `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	UnitOfMeasure string `json:"unit_of_measure"`
}

// ReportIssueRequest body para POST /api/operations/report-issue.
type ReportIssueRequest struct {
	TaskID           string `json:"task_id"`
	LineNumber       *int   `json:"line_number,omitempty"`
	ProductID        string `json:"product_id"`
	IssueType        string `json:"issue_type"`
	ExpectedQuantity *int   `json:"expected_quantity,omitempty"`
	ActualQuantity   *int   `json:"actual_quantity,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// ReportIssueResponse confirmación de incidencia registrada.
type ReportIssueResponse struct {
	DiscrepancyID string    `json:"discrepancy_id"`
	ReportedAt    time.Time `json:"reported_at"`
}

// CompleteOperationRequest body para POST /api/operations/:id/complete.
type CompleteOperationRequest struct {
	Status string `json:"status"` // COMPLETED o FAILED
	Notes  string `json:"notes,omitempty"`
}

// CompleteOperationResponse confirmación de cierre de operación.
type CompleteOperationResponse struct {
	TaskID      string    `json:"task_id"`
	Status      string    `json:"status"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCard resumen de tarea para la bandeja del operario.
type TaskCard struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Reference  string     `json:"reference"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	LinesCount int        `json:"lines_count"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
}

// TaskLineDetail línea dentro del detalle de tarea.
type TaskLineDetail struct {
	LineNumber          int              `json:"line_number"`
	Product             ProductSummary   `json:"product"`
	Quantity            int              `json:"quantity"`
	SourceLocation      *LocationSummary `json:"source_location,omitempty"`
	DestinationLocation *LocationSummary `json:"destination_location,omitempty"`
}

// LocationSummary resumen de emplazamiento en respuestas.
type LocationSummary struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Type string `json:"type"`
}

// TaskDetails detalle completo de una tarea asignada.
type TaskDetails struct {
	ID        string           `json:"id"`
	Type      string           `json:"type"`
	Reference string           `json:"reference"`
	Status    string           `json:"status"`
	Priority  string           `json:"priority"`
	Notes     string           `json:"notes,omitempty"`
	Lines     []TaskLineDetail `json:"lines"`
}
