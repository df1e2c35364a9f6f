package pg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

// RunMigrations aplica los *_up.sql del directorio en orden lexical.
// Los scripts son idempotentes (IF NOT EXISTS), así que correrlas de
// nuevo es seguro.
func (s *Store) RunMigrations(ctx context.Context, dir string) error {
	files, err := listSQL(dir, "_up.sql")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Named("pg").Info("no migrations found", logger.String("dir", dir))
		return nil
	}
	sort.Strings(files)

	log := logger.Named("pg")
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("migrate read %s: %w", f, err)
		}
		start := time.Now()
		err = s.WithTx(ctx, func(tx pgx.Tx) error {
			_, execErr := tx.Exec(ctx, string(b))
			return execErr
		})
		if err != nil {
			return fmt.Errorf("migrate exec %s: %w", f, err)
		}
		log.Info("migration applied",
			logger.String("file", filepath.Base(f)),
			logger.Duration(time.Since(start)))
	}
	return nil
}

func listSQL(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
