package repository

import (
	"context"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

// ContainerRepository maneja contenedores, que viven solo en Mongo.
type ContainerRepository interface {
	Create(ctx context.Context, in domain.NewContainer) (*domain.Container, error)
	GetByID(ctx context.Context, containerID string) (*domain.Container, error)
	List(ctx context.Context) ([]domain.Container, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Container, error)
	Update(ctx context.Context, containerID string, in domain.ContainerUpdate) (*domain.Container, error)
	Delete(ctx context.Context, containerID string) error
}
