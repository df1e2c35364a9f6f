package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dropDatabas3/smartbin/internal/domain/repository"
)

// UpsertByKey reemplaza (o crea) el documento identificado por
// keyField=key. Reaplicar el mismo payload es idempotente, lo que
// habilita la reparación de escrituras parciales.
func (s *Store) UpsertByKey(ctx context.Context, collection, keyField string, key any, doc map[string]any) error {
	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.M{keyField: key}, bson.M(doc), options.Replace().SetUpsert(true))
	return translateErr(err)
}

// SetByKey aplica un $set parcial sobre el documento identificado por
// keyField=key, creándolo si no existe. También idempotente.
func (s *Store) SetByKey(ctx context.Context, collection, keyField string, key any, fields map[string]any) error {
	_, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.M{keyField: key}, bson.M{"$set": bson.M(fields)}, options.Update().SetUpsert(true))
	return translateErr(err)
}

// DeleteByKey elimina el documento identificado por keyField=key.
// No falla si no existe.
func (s *Store) DeleteByKey(ctx context.Context, collection, keyField string, key any) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{keyField: key})
	return translateErr(err)
}

// findByKey decodifica el documento identificado por keyField=key en out.
func (s *Store) findByKey(ctx context.Context, collection, keyField string, key any, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{keyField: key}).Decode(out)
	return translateErr(err)
}

// translateErr normaliza errores del driver a los sentinel del dominio.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateKey
	}
	return err
}
