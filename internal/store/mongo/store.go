// Package mongo implementa el acceso al espejo documental y a las
// colecciones que viven solo en Mongo (contenedores, incidentes,
// telemetría).
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func New(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	// Igual que con Postgres: ping no bloqueante al arrancar.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Named("mongo").Warn("startup ping failed", logger.Err(err))
	} else {
		logger.Named("mongo").Info("connected", logger.String("database", database))
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// Collection expone una colección cruda para usos avanzados.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
