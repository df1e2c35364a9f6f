package dualwrite

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/dropDatabas3/smartbin/internal/cache"
	"github.com/dropDatabas3/smartbin/internal/metrics"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

const pendingPrefix = "dualwrite:pending:"

// PendingEntry es el payload retenido de una escritura parcial, listo
// para reaplicarse tal cual. Se serializa como BSON extended JSON para
// que fechas y enteros sobrevivan el round-trip por el cache.
type PendingEntry struct {
	Op           string         `bson:"op"`
	Kind         string         `bson:"kind"`
	RelationalID int64          `bson:"relational_id"`
	Collection   string         `bson:"collection"`
	KeyField     string         `bson:"key_field"`
	Key          any            `bson:"key"`
	Mode         Mode           `bson:"mode"`
	Doc          map[string]any `bson:"doc"`
	RetainedAt   time.Time      `bson:"retained_at"`
}

// PendingStore retiene escrituras espejo fallidas durante una ventana
// acotada, sobre el cache (memoria o Redis según despliegue).
type PendingStore struct {
	cache cache.Client
	ttl   time.Duration
}

func NewPendingStore(c cache.Client, ttl time.Duration) *PendingStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PendingStore{cache: c, ttl: ttl}
}

func pendingKey(kind, key string) string {
	return pendingPrefix + kind + ":" + key
}

// Retain guarda el payload bajo kind+clave. Una retención posterior
// para la misma clave pisa la anterior: la última escritura gana.
func (p *PendingStore) Retain(ctx context.Context, op, kind string, relID int64, dw DocumentWrite) error {
	entry := PendingEntry{
		Op:           op,
		Kind:         kind,
		RelationalID: relID,
		Collection:   dw.Collection,
		KeyField:     dw.KeyField,
		Key:          dw.Key,
		Mode:         dw.Mode,
		Doc:          dw.Doc,
		RetainedAt:   time.Now().UTC(),
	}
	b, err := bson.MarshalExtJSON(entry, false, false)
	if err != nil {
		return fmt.Errorf("dualwrite: marshal pending: %w", err)
	}
	return p.cache.Set(ctx, pendingKey(kind, keyString(dw.Key)), string(b), p.ttl)
}

// Get retorna la entrada pendiente para kind+clave, si existe.
func (p *PendingStore) Get(ctx context.Context, kind, key string) (*PendingEntry, error) {
	raw, err := p.cache.Get(ctx, pendingKey(kind, key))
	if err != nil {
		return nil, err
	}
	var entry PendingEntry
	if err := bson.UnmarshalExtJSON([]byte(raw), false, &entry); err != nil {
		return nil, fmt.Errorf("dualwrite: unmarshal pending: %w", err)
	}
	return &entry, nil
}

// Discard elimina la entrada pendiente sin reaplicarla.
func (p *PendingStore) Discard(ctx context.Context, kind, key string) error {
	return p.cache.Delete(ctx, pendingKey(kind, key))
}

func keyString(key any) string {
	return fmt.Sprintf("%v", key)
}

// Repair reaplica la escritura espejo retenida para kind+clave y, si
// funciona, descarta la entrada. Retorna cache.ErrNotFound si no hay
// nada pendiente (ya reparado o fuera de ventana).
func (c *Coordinator) Repair(ctx context.Context, kind, key string) (*PendingEntry, error) {
	if c.pending == nil {
		return nil, cache.ErrNotFound
	}
	entry, err := c.pending.Get(ctx, kind, key)
	if err != nil {
		return nil, err
	}

	dw := DocumentWrite{
		Collection: entry.Collection,
		KeyField:   entry.KeyField,
		Key:        normalizeKey(entry.Key),
		Mode:       entry.Mode,
		Doc:        entry.Doc,
	}
	if err := c.apply(ctx, dw); err != nil {
		metrics.DualWriteRepairs.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("dualwrite: repair %s %s: %w", kind, key, err)
	}

	if err := c.pending.Discard(ctx, kind, key); err != nil {
		logger.Named("dualwrite").Warn("discard after repair failed",
			logger.Kind(kind), logger.String("key", key), logger.Err(err))
	}
	metrics.DualWriteRepairs.WithLabelValues(kind, "ok").Inc()
	logger.Named("dualwrite").Info("mirror repaired",
		logger.Kind(kind), logger.String("key", key), logger.Op(entry.Op))
	return entry, nil
}

// normalizeKey repone el ancho de las claves numéricas (sql_user_id):
// el extended JSON relajado puede decodificar enteros chicos como
// int32 o double, y la clave debe casar como int64.
func normalizeKey(key any) any {
	switch v := key.(type) {
	case int32:
		return int64(v)
	case float64:
		if v == float64(int64(v)) {
			return int64(v)
		}
	}
	return key
}
