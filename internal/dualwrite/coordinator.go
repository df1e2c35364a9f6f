// Package dualwrite coordina escrituras híbridas: primero la fila
// autoritativa en Postgres, después el espejo documental en Mongo.
//
// La máquina de estados es estricta con SQL y laxa con el espejo: si
// SQL falla no se persiste nada; si SQL confirma y el espejo falla, la
// operación se reporta como escritura parcial, el payload queda
// retenido y la reparación posterior es idempotente.
package dualwrite

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	"github.com/dropDatabas3/smartbin/internal/metrics"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

// Mode define cómo se aplica la escritura espejo.
type Mode string

const (
	// ModeReplace reemplaza el documento completo (upsert por clave).
	ModeReplace Mode = "replace"
	// ModeSet aplica un $set parcial (upsert por clave).
	ModeSet Mode = "set"
)

// DocWriter es el contrato mínimo que el coordinador necesita del
// motor documental. Ambas operaciones son idempotentes por clave.
type DocWriter interface {
	UpsertByKey(ctx context.Context, collection, keyField string, key any, doc map[string]any) error
	SetByKey(ctx context.Context, collection, keyField string, key any, fields map[string]any) error
}

// DocumentWrite describe la escritura espejo pendiente de aplicar.
type DocumentWrite struct {
	Collection string
	KeyField   string
	Key        any
	Mode       Mode
	Doc        map[string]any
}

// Plan describe una operación híbrida completa.
type Plan struct {
	Op   string // create | update | deactivate
	Kind string // company | user

	// GenerateID emite un external id nuevo. Nil cuando la clave ya
	// se conoce (updates), en cuyo caso se usa ExternalID.
	GenerateID func(ctx context.Context) (string, error)
	ExternalID string

	// Relational confirma la escritura autoritativa (el repo maneja su
	// propia transacción adentro) y retorna el id de fila, 0 si no aplica.
	Relational func(ctx context.Context, externalID string) (int64, error)

	// Document arma la escritura espejo una vez confirmado SQL.
	Document func(externalID string, relationalID int64) DocumentWrite
}

// Result es el desenlace de una operación híbrida exitosa.
type Result struct {
	ExternalID   string
	RelationalID int64
}

// Coordinator ejecuta planes de doble escritura.
type Coordinator struct {
	docs      DocWriter
	pending   *PendingStore
	idRetries int
}

func New(docs DocWriter, pending *PendingStore, idRetries int) *Coordinator {
	if idRetries < 0 {
		idRetries = 0
	}
	return &Coordinator{docs: docs, pending: pending, idRetries: idRetries}
}

// Execute corre el plan. Errores posibles:
//   - error de SQL: nada quedó persistido.
//   - *repository.PartialWriteError: SQL confirmado, espejo pendiente.
func (c *Coordinator) Execute(ctx context.Context, p Plan) (Result, error) {
	start := time.Now()

	externalID := p.ExternalID
	if p.GenerateID != nil {
		id, err := p.GenerateID(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("dualwrite: generate id: %w", err)
		}
		externalID = id
	}

	relID, err := p.Relational(ctx, externalID)
	if err != nil && repository.IsDuplicate(err) && p.GenerateID != nil {
		// Colisión de external id: regenerar y reintentar, acotado.
		for i := 0; i < c.idRetries && err != nil && repository.IsDuplicate(err); i++ {
			metrics.DualWriteIDRetries.Inc()
			externalID, err = p.GenerateID(ctx)
			if err != nil {
				return Result{}, fmt.Errorf("dualwrite: regenerate id: %w", err)
			}
			relID, err = p.Relational(ctx, externalID)
		}
	}
	if err != nil {
		return Result{}, err
	}

	dw := p.Document(externalID, relID)
	if err := c.apply(ctx, dw); err != nil {
		metrics.DualWritePartial.WithLabelValues(p.Kind, p.Op).Inc()
		reportedID := externalID
		if reportedID == "" {
			// entidades clavadas por id relacional (user_sync)
			reportedID = keyString(dw.Key)
		}
		pw := &repository.PartialWriteError{
			Op:           p.Op,
			Kind:         p.Kind,
			ExternalID:   reportedID,
			RelationalID: relID,
			Collection:   dw.Collection,
			Payload:      dw.Doc,
			Err:          err,
		}
		if c.pending != nil {
			if rerr := c.pending.Retain(ctx, p.Op, p.Kind, relID, dw); rerr != nil {
				logger.Named("dualwrite").Error("retain pending failed",
					logger.Kind(p.Kind), logger.ExternalID(externalID), logger.Err(rerr))
			}
		}
		logger.Named("dualwrite").Warn("partial write",
			logger.Op(p.Op), logger.Kind(p.Kind),
			logger.ExternalID(externalID), logger.Err(err))
		return Result{ExternalID: externalID, RelationalID: relID}, pw
	}

	metrics.DualWriteLatency.WithLabelValues(p.Kind, p.Op).
		Observe(float64(time.Since(start).Milliseconds()))
	return Result{ExternalID: externalID, RelationalID: relID}, nil
}

func (c *Coordinator) apply(ctx context.Context, dw DocumentWrite) error {
	switch dw.Mode {
	case ModeSet:
		return c.docs.SetByKey(ctx, dw.Collection, dw.KeyField, dw.Key, dw.Doc)
	default:
		return c.docs.UpsertByKey(ctx, dw.Collection, dw.KeyField, dw.Key, dw.Doc)
	}
}
