package repository

import (
	"context"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

// UserRepository maneja usuarios en modo híbrido: credenciales y datos
// personales en Postgres, espejo de sincronización en Mongo clavado
// por sql_user_id.
type UserRepository interface {
	Create(ctx context.Context, in domain.NewUser) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.User, error)
	Update(ctx context.Context, id int64, in domain.UserUpdate) (*domain.User, error)
	Deactivate(ctx context.Context, id int64) error

	// Authenticate valida email+password contra el hash almacenado.
	// Retorna ErrNotFound tanto para usuario inexistente como para
	// password incorrecto, sin distinguir.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// Snapshot retorna el par crudo (fila, documento) para auditoría.
	Snapshot(ctx context.Context, id int64) (*domain.UserRecord, *domain.UserSyncDocument, error)
}
