package repository

import (
	"context"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

// IncidentRepository maneja incidentes. El documento vive en Mongo;
// las lecturas detalladas resuelven el nombre del reportante contra
// Postgres.
type IncidentRepository interface {
	Create(ctx context.Context, in domain.NewIncident) (*domain.Incident, error)
	GetByID(ctx context.Context, incidentID string) (*domain.Incident, error)
	GetDetailed(ctx context.Context, incidentID string) (*domain.DetailedIncident, error)
	List(ctx context.Context, status string) ([]domain.Incident, error)
	ListDetailed(ctx context.Context, status string) ([]domain.DetailedIncident, error)
	ListByContainer(ctx context.Context, containerID string) ([]domain.Incident, error)
	SetStatus(ctx context.Context, incidentID, status, notes string) (*domain.Incident, error)
}
