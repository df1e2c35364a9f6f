package hybrid

import (
	"context"
	"fmt"
	"strings"

	"time"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	"github.com/dropDatabas3/smartbin/internal/ident"
)

// seqSource emite secuencias atómicas para external ids. Lo implementa
// el store relacional: la tabla de secuencias vive en Postgres aunque
// la entidad sea solo documental.
type seqSource interface {
	NextSeq(ctx context.Context, name string) (int64, error)
}

type companyLookup interface {
	GetCompanyByExternalID(ctx context.Context, externalID string) (*domain.CompanyRecord, error)
}

type containerDocs interface {
	InsertContainer(ctx context.Context, c *domain.Container) error
	GetContainer(ctx context.Context, containerID string) (*domain.Container, error)
	ListContainers(ctx context.Context, companyID string) ([]domain.Container, error)
	UpdateContainer(ctx context.Context, containerID string, fields map[string]any) (*domain.Container, error)
	DeleteContainer(ctx context.Context, containerID string) error
}

// ContainerRepo implementa repository.ContainerRepository sobre Mongo,
// con ids emitidos por la secuencia relacional.
type ContainerRepo struct {
	docs      containerDocs
	seq       seqSource
	companies companyLookup
}

func NewContainerRepo(docs containerDocs, seq seqSource, companies companyLookup) *ContainerRepo {
	return &ContainerRepo{docs: docs, seq: seq, companies: companies}
}

var _ repository.ContainerRepository = (*ContainerRepo)(nil)

func (r *ContainerRepo) Create(ctx context.Context, in domain.NewContainer) (*domain.Container, error) {
	if strings.TrimSpace(in.CompanyID) == "" || strings.TrimSpace(in.Type) == "" {
		return nil, fmt.Errorf("%w: companyId and type are required", repository.ErrInvalidInput)
	}
	if in.CapacityL <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", repository.ErrInvalidInput)
	}
	if _, err := r.companies.GetCompanyByExternalID(ctx, in.CompanyID); err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: company %s does not exist", repository.ErrInvalidInput, in.CompanyID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Container{
		CompanyID: in.CompanyID,
		Type:      in.Type,
		CapacityL: in.CapacityL,
		FillLevel: 0,
		Status:    domain.ContainerStatusActive,
		Location:  in.Location,
		DeviceID:  in.DeviceID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// un reintento acotado ante colisión del índice único
	for attempt := 0; ; attempt++ {
		n, err := r.seq.NextSeq(ctx, ident.PrefixContainer)
		if err != nil {
			return nil, err
		}
		c.ContainerID = ident.Format(ident.PrefixContainer, n)

		err = r.docs.InsertContainer(ctx, c)
		if err == nil {
			return c, nil
		}
		if !repository.IsDuplicate(err) || attempt >= 1 {
			return nil, err
		}
	}
}

func (r *ContainerRepo) GetByID(ctx context.Context, containerID string) (*domain.Container, error) {
	return r.docs.GetContainer(ctx, containerID)
}

func (r *ContainerRepo) List(ctx context.Context) ([]domain.Container, error) {
	return r.docs.ListContainers(ctx, "")
}

func (r *ContainerRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.Container, error) {
	return r.docs.ListContainers(ctx, companyID)
}

func (r *ContainerRepo) Update(ctx context.Context, containerID string, in domain.ContainerUpdate) (*domain.Container, error) {
	fields := map[string]any{}
	if in.FillLevel != nil {
		if *in.FillLevel < 0 || *in.FillLevel > 100 {
			return nil, fmt.Errorf("%w: fill level must be between 0 and 100", repository.ErrInvalidInput)
		}
		fields["fill_level"] = *in.FillLevel
	}
	if in.Status != nil {
		switch *in.Status {
		case domain.ContainerStatusActive, domain.ContainerStatusFull,
			domain.ContainerStatusMaintenance, domain.ContainerStatusInactive:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", repository.ErrInvalidInput, *in.Status)
		}
		fields["status"] = *in.Status
	}
	if in.Location != nil {
		fields["location"] = in.Location
	}
	if in.DeviceID != nil {
		fields["device_id"] = *in.DeviceID
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", repository.ErrInvalidInput)
	}
	return r.docs.UpdateContainer(ctx, containerID, fields)
}

func (r *ContainerRepo) Delete(ctx context.Context, containerID string) error {
	return r.docs.DeleteContainer(ctx, containerID)
}
