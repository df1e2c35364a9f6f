package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
)

const companyCols = `id, name, tax_id, email, phone, address, mongo_company_id, active, created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }) (*domain.CompanyRecord, error) {
	var c domain.CompanyRecord
	err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.Address,
		&c.MongoCompanyID, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

// InsertCompany inserta la fila autoritativa y retorna el id generado.
func (s *Store) InsertCompany(ctx context.Context, c *domain.CompanyRecord) (int64, error) {
	const sql = `
		INSERT INTO companies (name, tax_id, email, phone, address, mongo_company_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id`
	var id int64
	err := s.pool.QueryRow(ctx, sql, c.Name, c.TaxID, c.Email, c.Phone, c.Address,
		c.MongoCompanyID, c.Active, c.CreatedAt).Scan(&id)
	if err != nil {
		return 0, translateErr(err)
	}
	return id, nil
}

func (s *Store) GetCompany(ctx context.Context, id int64) (*domain.CompanyRecord, error) {
	return scanCompany(s.pool.QueryRow(ctx,
		`SELECT `+companyCols+` FROM companies WHERE id = $1`, id))
}

func (s *Store) GetCompanyByExternalID(ctx context.Context, externalID string) (*domain.CompanyRecord, error) {
	return scanCompany(s.pool.QueryRow(ctx,
		`SELECT `+companyCols+` FROM companies WHERE mongo_company_id = $1`, externalID))
}

func (s *Store) ListCompanies(ctx context.Context) ([]domain.CompanyRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+companyCols+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []domain.CompanyRecord
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, translateErr(rows.Err())
}

// UpdateCompany aplica los campos no nil y retorna la fila resultante.
func (s *Store) UpdateCompany(ctx context.Context, id int64, in domain.CompanyUpdate, now time.Time) (*domain.CompanyRecord, error) {
	const sql = `
		UPDATE companies SET
			name    = COALESCE($2, name),
			email   = COALESCE($3, email),
			phone   = COALESCE($4, phone),
			address = COALESCE($5, address),
			updated_at = $6
		WHERE id = $1
		RETURNING ` + companyCols
	return scanCompany(s.pool.QueryRow(ctx, sql, id, in.Name, in.Email, in.Phone, in.Address, now))
}

// DeactivateCompany marca la fila como inactiva (borrado lógico).
func (s *Store) DeactivateCompany(ctx context.Context, id int64, now time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE companies SET active = FALSE, updated_at = $2 WHERE id = $1`, id, now)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MaxCompanySeq retorna la mayor secuencia ya emitida en mongo_company_id,
// 0 si no hay filas. Se usa para sembrar la secuencia atómica.
func (s *Store) MaxCompanySeq(ctx context.Context) (int64, error) {
	const sql = `
		SELECT COALESCE(MAX(CAST(SPLIT_PART(mongo_company_id, '-', 2) AS BIGINT)), 0)
		FROM companies
		WHERE mongo_company_id ~ '^COMP-[0-9]+$'`
	var n int64
	if err := s.pool.QueryRow(ctx, sql).Scan(&n); err != nil {
		return 0, translateErr(err)
	}
	return n, nil
}
