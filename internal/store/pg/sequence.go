package pg

import (
	"context"
)

// NextSeq avanza atómicamente la secuencia asociada a un prefijo
// (COMP, CONT, INC) y retorna el nuevo valor. El upsert con RETURNING
// garantiza unicidad incluso bajo concurrencia. Corre fuera de toda
// transacción a propósito: un insert fallido no devuelve el número y
// la secuencia queda con huecos, nunca con duplicados.
func (s *Store) NextSeq(ctx context.Context, name string) (int64, error) {
	const sql = `
		INSERT INTO external_id_seq (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = external_id_seq.value + 1
		RETURNING value`
	var v int64
	if err := s.pool.QueryRow(ctx, sql, name).Scan(&v); err != nil {
		return 0, translateErr(err)
	}
	return v, nil
}

// EnsureSeqAtLeast garantiza que la secuencia no emita valores menores
// o iguales a n. Se usa al arrancar para sembrar desde el máximo ya
// persistido (datos previos a la secuencia).
func (s *Store) EnsureSeqAtLeast(ctx context.Context, name string, n int64) error {
	const sql = `
		INSERT INTO external_id_seq (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = GREATEST(external_id_seq.value, EXCLUDED.value)`
	_, err := s.pool.Exec(ctx, sql, name, n)
	return translateErr(err)
}
