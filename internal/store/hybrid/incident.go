package hybrid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	"github.com/dropDatabas3/smartbin/internal/ident"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

type incidentDocs interface {
	InsertIncident(ctx context.Context, in *domain.Incident) error
	GetIncident(ctx context.Context, incidentID string) (*domain.Incident, error)
	ListIncidents(ctx context.Context, status string) ([]domain.Incident, error)
	ListIncidentsByContainer(ctx context.Context, containerID string) ([]domain.Incident, error)
	SetIncidentStatus(ctx context.Context, incidentID, status, notes string) (*domain.Incident, error)
	GetContainer(ctx context.Context, containerID string) (*domain.Container, error)
}

type reporterLookup interface {
	GetUser(ctx context.Context, id int64) (*domain.UserRecord, error)
	UsersByIDs(ctx context.Context, ids []int64) (map[int64]domain.UserRecord, error)
}

// IncidentRepo implementa repository.IncidentRepository: el documento
// vive en Mongo, las lecturas detalladas anotan el reportante desde
// Postgres.
type IncidentRepo struct {
	docs  incidentDocs
	users reporterLookup
	seq   seqSource
}

func NewIncidentRepo(docs incidentDocs, users reporterLookup, seq seqSource) *IncidentRepo {
	return &IncidentRepo{docs: docs, users: users, seq: seq}
}

var _ repository.IncidentRepository = (*IncidentRepo)(nil)

var incidentPriorities = map[string]bool{"low": true, "medium": true, "high": true, "critical": true}

func (r *IncidentRepo) Create(ctx context.Context, in domain.NewIncident) (*domain.Incident, error) {
	if strings.TrimSpace(in.ContainerID) == "" || strings.TrimSpace(in.Type) == "" {
		return nil, fmt.Errorf("%w: containerId and type are required", repository.ErrInvalidInput)
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}
	if !incidentPriorities[priority] {
		return nil, fmt.Errorf("%w: unknown priority %q", repository.ErrInvalidInput, priority)
	}
	if _, err := r.docs.GetContainer(ctx, in.ContainerID); err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: container %s does not exist", repository.ErrInvalidInput, in.ContainerID)
		}
		return nil, err
	}
	if in.ReportedBy != 0 {
		if _, err := r.users.GetUser(ctx, in.ReportedBy); err != nil {
			if repository.IsNotFound(err) {
				return nil, fmt.Errorf("%w: reporter %d does not exist", repository.ErrInvalidInput, in.ReportedBy)
			}
			return nil, err
		}
	}

	inc := &domain.Incident{
		ContainerID: in.ContainerID,
		ReportedBy:  in.ReportedBy,
		Type:        in.Type,
		Description: in.Description,
		Priority:    priority,
		Status:      domain.IncidentStatusOpen,
		CreatedAt:   time.Now().UTC(),
	}

	for attempt := 0; ; attempt++ {
		n, err := r.seq.NextSeq(ctx, ident.PrefixIncident)
		if err != nil {
			return nil, err
		}
		inc.IncidentID = ident.Format(ident.PrefixIncident, n)

		err = r.docs.InsertIncident(ctx, inc)
		if err == nil {
			return inc, nil
		}
		if !repository.IsDuplicate(err) || attempt >= 1 {
			return nil, err
		}
	}
}

func (r *IncidentRepo) GetByID(ctx context.Context, incidentID string) (*domain.Incident, error) {
	return r.docs.GetIncident(ctx, incidentID)
}

func (r *IncidentRepo) GetDetailed(ctx context.Context, incidentID string) (*domain.DetailedIncident, error) {
	inc, err := r.docs.GetIncident(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	detailed := r.annotate(ctx, []domain.Incident{*inc})
	return &detailed[0], nil
}

func (r *IncidentRepo) List(ctx context.Context, status string) ([]domain.Incident, error) {
	return r.docs.ListIncidents(ctx, status)
}

func (r *IncidentRepo) ListDetailed(ctx context.Context, status string) ([]domain.DetailedIncident, error) {
	incs, err := r.docs.ListIncidents(ctx, status)
	if err != nil {
		return nil, err
	}
	return r.annotate(ctx, incs), nil
}

func (r *IncidentRepo) ListByContainer(ctx context.Context, containerID string) ([]domain.Incident, error) {
	return r.docs.ListIncidentsByContainer(ctx, containerID)
}

func (r *IncidentRepo) SetStatus(ctx context.Context, incidentID, status, notes string) (*domain.Incident, error) {
	switch status {
	case domain.IncidentStatusOpen, domain.IncidentStatusInProgress, domain.IncidentStatusResolved:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", repository.ErrInvalidInput, status)
	}
	if status != domain.IncidentStatusResolved {
		notes = ""
	}
	return r.docs.SetIncidentStatus(ctx, incidentID, status, notes)
}

// annotate resuelve nombres de reportantes en lote. Lectura laxa: si
// Postgres no responde, los incidentes salen sin anotar.
func (r *IncidentRepo) annotate(ctx context.Context, incs []domain.Incident) []domain.DetailedIncident {
	idSet := map[int64]bool{}
	for i := range incs {
		if incs[i].ReportedBy != 0 {
			idSet[incs[i].ReportedBy] = true
		}
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := r.users.UsersByIDs(ctx, ids)
	if err != nil {
		logger.Named("hybrid.incident").Warn("reporter lookup failed", logger.Err(err))
		users = nil
	}

	out := make([]domain.DetailedIncident, 0, len(incs))
	for i := range incs {
		d := domain.DetailedIncident{Incident: incs[i]}
		if u, ok := users[incs[i].ReportedBy]; ok {
			d.ReporterName = strings.TrimSpace(u.FirstName + " " + u.LastName)
			d.ReporterEmail = u.Email
		}
		out = append(out, d)
	}
	return out
}
