package dualwrite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/smartbin/internal/cache"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
)

type docCall struct {
	method     string
	collection string
	keyField   string
	key        any
	doc        map[string]any
}

// fakeDocWriter registra llamadas y falla las primeras failN veces.
type fakeDocWriter struct {
	failN int
	calls []docCall
}

func (f *fakeDocWriter) UpsertByKey(ctx context.Context, collection, keyField string, key any, doc map[string]any) error {
	f.calls = append(f.calls, docCall{"upsert", collection, keyField, key, doc})
	if f.failN > 0 {
		f.failN--
		return errors.New("mongo down")
	}
	return nil
}

func (f *fakeDocWriter) SetByKey(ctx context.Context, collection, keyField string, key any, fields map[string]any) error {
	f.calls = append(f.calls, docCall{"set", collection, keyField, key, fields})
	if f.failN > 0 {
		f.failN--
		return errors.New("mongo down")
	}
	return nil
}

func newTestCoordinator(docs *fakeDocWriter, retries int) (*Coordinator, *PendingStore) {
	pending := NewPendingStore(cache.NewMemory("test", time.Minute), time.Minute)
	return New(docs, pending, retries), pending
}

func companyPlan(seq *int64, relational func(ctx context.Context, externalID string) (int64, error)) Plan {
	return Plan{
		Op:   "create",
		Kind: "company",
		GenerateID: func(ctx context.Context) (string, error) {
			*seq++
			return fmt.Sprintf("COMP-%03d", *seq), nil
		},
		Relational: relational,
		Document: func(externalID string, relID int64) DocumentWrite {
			return DocumentWrite{
				Collection: "companies",
				KeyField:   "company_id",
				Key:        externalID,
				Mode:       ModeReplace,
				Doc:        map[string]any{"company_id": externalID, "name": "EcoTrash"},
			}
		},
	}
}

func TestExecuteCreateSuccess(t *testing.T) {
	docs := &fakeDocWriter{}
	coord, _ := newTestCoordinator(docs, 1)

	var seq int64
	var gotExternal string
	plan := companyPlan(&seq, func(ctx context.Context, externalID string) (int64, error) {
		gotExternal = externalID
		return 7, nil
	})

	res, err := coord.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "COMP-001", res.ExternalID)
	assert.Equal(t, int64(7), res.RelationalID)
	assert.Equal(t, "COMP-001", gotExternal)

	require.Len(t, docs.calls, 1)
	assert.Equal(t, "upsert", docs.calls[0].method)
	assert.Equal(t, "companies", docs.calls[0].collection)
	assert.Equal(t, "COMP-001", docs.calls[0].key)
}

func TestExecuteSQLFailureWritesNothing(t *testing.T) {
	docs := &fakeDocWriter{}
	coord, _ := newTestCoordinator(docs, 1)

	var seq int64
	boom := errors.New("pg down")
	plan := companyPlan(&seq, func(ctx context.Context, externalID string) (int64, error) {
		return 0, boom
	})

	_, err := coord.Execute(context.Background(), plan)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, docs.calls, "el espejo no debe tocarse si SQL falla")
}

func TestExecuteDuplicateIDRetriesOnce(t *testing.T) {
	docs := &fakeDocWriter{}
	coord, _ := newTestCoordinator(docs, 1)

	var seq int64
	var attempts []string
	plan := companyPlan(&seq, func(ctx context.Context, externalID string) (int64, error) {
		attempts = append(attempts, externalID)
		if len(attempts) == 1 {
			return 0, repository.ErrDuplicateKey
		}
		return 9, nil
	})

	res, err := coord.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, []string{"COMP-001", "COMP-002"}, attempts)
	assert.Equal(t, "COMP-002", res.ExternalID)
}

func TestExecuteDuplicateIDExhausted(t *testing.T) {
	docs := &fakeDocWriter{}
	coord, _ := newTestCoordinator(docs, 1)

	var seq int64
	calls := 0
	plan := companyPlan(&seq, func(ctx context.Context, externalID string) (int64, error) {
		calls++
		return 0, repository.ErrDuplicateKey
	})

	_, err := coord.Execute(context.Background(), plan)
	require.Error(t, err)
	assert.True(t, repository.IsDuplicate(err))
	assert.Equal(t, 2, calls, "un intento original más un reintento")
	assert.Empty(t, docs.calls)
}

func TestExecuteDocFailureRetainsAndReports(t *testing.T) {
	docs := &fakeDocWriter{failN: 1}
	coord, pending := newTestCoordinator(docs, 1)

	var seq int64
	plan := companyPlan(&seq, func(ctx context.Context, externalID string) (int64, error) {
		return 3, nil
	})

	res, err := coord.Execute(context.Background(), plan)
	require.Error(t, err)

	pw, ok := repository.IsPartialWrite(err)
	require.True(t, ok)
	assert.Equal(t, "create", pw.Op)
	assert.Equal(t, "company", pw.Kind)
	assert.Equal(t, "COMP-001", pw.ExternalID)
	assert.Equal(t, int64(3), pw.RelationalID)
	assert.Equal(t, "companies", pw.Collection)
	assert.Equal(t, "EcoTrash", pw.Payload["name"])

	// el resultado igual trae los ids: SQL quedó confirmado
	assert.Equal(t, "COMP-001", res.ExternalID)

	entry, err := pending.Get(context.Background(), "company", "COMP-001")
	require.NoError(t, err)
	assert.Equal(t, "create", entry.Op)
	assert.Equal(t, int64(3), entry.RelationalID)
}

func TestRepairAppliesAndDiscards(t *testing.T) {
	docs := &fakeDocWriter{failN: 1}
	coord, pending := newTestCoordinator(docs, 1)

	var seq int64
	plan := companyPlan(&seq, func(ctx context.Context, externalID string) (int64, error) {
		return 3, nil
	})
	_, err := coord.Execute(context.Background(), plan)
	require.Error(t, err)

	// mongo "vuelve": la reparación reaplica el payload retenido
	entry, err := coord.Repair(context.Background(), "company", "COMP-001")
	require.NoError(t, err)
	assert.Equal(t, "COMP-001", fmt.Sprintf("%v", entry.Key))

	last := docs.calls[len(docs.calls)-1]
	assert.Equal(t, "upsert", last.method)
	assert.Equal(t, "EcoTrash", last.doc["name"])

	// idempotente: la entrada ya no está
	_, err = pending.Get(context.Background(), "company", "COMP-001")
	assert.True(t, cache.IsNotFound(err))

	_, err = coord.Repair(context.Background(), "company", "COMP-001")
	assert.True(t, cache.IsNotFound(err))
}

func TestRepairNormalizesNumericKey(t *testing.T) {
	docs := &fakeDocWriter{failN: 1}
	coord, _ := newTestCoordinator(docs, 0)

	plan := Plan{
		Op:         "update",
		Kind:       "user",
		ExternalID: "42",
		Relational: func(ctx context.Context, externalID string) (int64, error) {
			return 42, nil
		},
		Document: func(externalID string, relID int64) DocumentWrite {
			return DocumentWrite{
				Collection: "user_sync",
				KeyField:   "sql_user_id",
				Key:        relID,
				Mode:       ModeSet,
				Doc:        map[string]any{"active": false},
			}
		},
	}
	_, err := coord.Execute(context.Background(), plan)
	require.Error(t, err)

	_, err = coord.Repair(context.Background(), "user", "42")
	require.NoError(t, err)

	// la clave vuelve como int64 pese al round-trip JSON
	last := docs.calls[len(docs.calls)-1]
	assert.Equal(t, "set", last.method)
	assert.Equal(t, int64(42), last.key)
}

func TestExecuteModeSetRoutesToSet(t *testing.T) {
	docs := &fakeDocWriter{}
	coord, _ := newTestCoordinator(docs, 0)

	plan := Plan{
		Op:         "deactivate",
		Kind:       "company",
		ExternalID: "COMP-005",
		Relational: func(ctx context.Context, externalID string) (int64, error) {
			return 5, nil
		},
		Document: func(externalID string, relID int64) DocumentWrite {
			return DocumentWrite{
				Collection: "companies",
				KeyField:   "company_id",
				Key:        externalID,
				Mode:       ModeSet,
				Doc:        map[string]any{"active": false},
			}
		},
	}
	res, err := coord.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "COMP-005", res.ExternalID)

	require.Len(t, docs.calls, 1)
	assert.Equal(t, "set", docs.calls[0].method)
	assert.Equal(t, false, docs.calls[0].doc["active"])
}
