package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
)

const userCols = `id, email, password_hash, first_name, last_name, role, mongo_company_id, active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.UserRecord, error) {
	var u domain.UserRecord
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.MongoCompanyID, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

// InsertUser inserta la fila autoritativa y retorna el id generado.
func (s *Store) InsertUser(ctx context.Context, u *domain.UserRecord) (int64, error) {
	const sql = `
		INSERT INTO users (email, password_hash, first_name, last_name, role, mongo_company_id, active, created_at, updated_at)
		VALUES (LOWER($1), $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id`
	var id int64
	err := s.pool.QueryRow(ctx, sql, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Role, u.MongoCompanyID, u.Active, u.CreatedAt).Scan(&id)
	if err != nil {
		return 0, translateErr(err)
	}
	return id, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.UserRecord, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = LOWER($1)`, email))
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserRecord, error) {
	return s.queryUsers(ctx, `SELECT `+userCols+` FROM users ORDER BY id`)
}

func (s *Store) ListUsersByCompany(ctx context.Context, companyID string) ([]domain.UserRecord, error) {
	return s.queryUsers(ctx,
		`SELECT `+userCols+` FROM users WHERE mongo_company_id = $1 ORDER BY id`, companyID)
}

// UsersByIDs resuelve un lote de ids a filas. Usado por las lecturas
// detalladas de incidentes para anotar reportantes.
func (s *Store) UsersByIDs(ctx context.Context, ids []int64) (map[int64]domain.UserRecord, error) {
	if len(ids) == 0 {
		return map[int64]domain.UserRecord{}, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := make(map[int64]domain.UserRecord, len(ids))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = *u
	}
	return out, translateErr(rows.Err())
}

func (s *Store) queryUsers(ctx context.Context, sql string, args ...any) ([]domain.UserRecord, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []domain.UserRecord
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, translateErr(rows.Err())
}

// UpdateUser aplica los campos no nil y retorna la fila resultante.
func (s *Store) UpdateUser(ctx context.Context, id int64, in domain.UserUpdate, now time.Time) (*domain.UserRecord, error) {
	const sql = `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			role       = COALESCE($4, role),
			mongo_company_id = COALESCE($5, mongo_company_id),
			updated_at = $6
		WHERE id = $1
		RETURNING ` + userCols
	return scanUser(s.pool.QueryRow(ctx, sql, id, in.FirstName, in.LastName, in.Role, in.CompanyID, now))
}

// DeactivateUser marca la fila como inactiva (borrado lógico).
func (s *Store) DeactivateUser(ctx context.Context, id int64, now time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET active = FALSE, updated_at = $2 WHERE id = $1`, id, now)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
