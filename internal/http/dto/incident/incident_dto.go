// Package incident define los DTOs de las rutas /v1/incidents.
package incident

import "github.com/dropDatabas3/smartbin/internal/domain"

// CreateIncidentRequest para POST /v1/incidents
type CreateIncidentRequest struct {
	ContainerID string `json:"containerId"`
	ReportedBy  int64  `json:"reportedBy,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// ToInput convierte el request en el input de dominio.
func (r CreateIncidentRequest) ToInput() domain.NewIncident {
	return domain.NewIncident{
		ContainerID: r.ContainerID,
		ReportedBy:  r.ReportedBy,
		Type:        r.Type,
		Description: r.Description,
		Priority:    r.Priority,
	}
}

// SetStatusRequest para PUT /v1/incidents/{id}/status.
// Resolution solo aplica cuando status es "resolved".
type SetStatusRequest struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`
}
