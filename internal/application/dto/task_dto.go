package dto

import "time"

// CreateTaskLine línea dentro de la creación de tarea.
type CreateTaskLine struct {
	ProductID             string `json:"product_id"`
	Quantity              int    `json:"quantity"`
	SourceLocationID      string `json:"source_location_id,omitempty"`
	DestinationLocationID string `json:"destination_location_id,omitempty"`
}

// CreateTaskRequest body para POST /api/tasks (planificador/admin).
type CreateTaskRequest struct {
	Type         string           `json:"type"`
	Priority     string           `json:"priority,omitempty"`
	AssignedToID string           `json:"assigned_to_id,omitempty"`
	ChariotID    string           `json:"chariot_id,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	Lines        []CreateTaskLine `json:"lines"`
}

// AssignTaskRequest body para PUT /api/tasks/:id/assign.
type AssignTaskRequest struct {
	AssignedToID string `json:"assigned_to_id"`
}

// UpdateTaskRequest body para PUT /api/tasks/:id (campos opcionales).
type UpdateTaskRequest struct {
	Priority *string `json:"priority,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// TaskResponse representación administrativa de una tarea.
type TaskResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Reference   string     `json:"reference"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	CreatedBy   string     `json:"created_by"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	ChariotID   string     `json:"chariot_id,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	LinesCount  int        `json:"lines_count"`
	CreatedAt   time.Time  `json:"created_at"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskListResponse listado paginado de tareas.
type TaskListResponse struct {
	Items []TaskResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
