package repository

import (
	"context"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

// CompanyRepository maneja empresas en modo híbrido: fila autoritativa
// en Postgres, espejo documental en Mongo clavado por external id.
type CompanyRepository interface {
	Create(ctx context.Context, in domain.NewCompany) (*domain.Company, error)
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	Update(ctx context.Context, id int64, in domain.CompanyUpdate) (*domain.Company, error)
	Deactivate(ctx context.Context, id int64) error

	// Snapshot retorna el par crudo (fila, documento) para auditoría.
	// Documento nil con error nil significa espejo ausente.
	Snapshot(ctx context.Context, id int64) (*domain.CompanyRecord, *domain.CompanyDocument, error)
}
