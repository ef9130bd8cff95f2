package dto

import "time"

// ResolveDiscrepancyRequest body para PUT /api/discrepancies/:id/resolve.
type ResolveDiscrepancyRequest struct {
	Resolution string `json:"resolution"`
	Notes      string `json:"notes,omitempty"`
}

// DiscrepancyResponse representación de una incidencia reportada.
type DiscrepancyResponse struct {
	ID               string     `json:"id"`
	TaskID           string     `json:"task_id"`
	TaskLineID       string     `json:"task_line_id,omitempty"`
	ProductID        string     `json:"product_id"`
	IssueType        string     `json:"issue_type"`
	ExpectedQuantity *int       `json:"expected_quantity,omitempty"`
	ActualQuantity   *int       `json:"actual_quantity,omitempty"`
	ReportedBy       string     `json:"reported_by"`
	ReportedAt       time.Time  `json:"reported_at"`
	ResolvedBy       string     `json:"resolved_by,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	Resolution       string     `json:"resolution,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}
