package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
)

func (s *Store) InsertContainer(ctx context.Context, c *domain.Container) error {
	_, err := s.db.Collection(domain.CollContainers).InsertOne(ctx, c)
	return translateErr(err)
}

func (s *Store) GetContainer(ctx context.Context, containerID string) (*domain.Container, error) {
	var c domain.Container
	if err := s.findByKey(ctx, domain.CollContainers, "container_id", containerID, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListContainers(ctx context.Context, companyID string) ([]domain.Container, error) {
	filter := bson.M{}
	if companyID != "" {
		filter["company_id"] = companyID
	}
	cur, err := s.db.Collection(domain.CollContainers).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "container_id", Value: 1}}))
	if err != nil {
		return nil, translateErr(err)
	}
	var out []domain.Container
	if err := cur.All(ctx, &out); err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

// UpdateContainer aplica un $set parcial y retorna el documento nuevo.
func (s *Store) UpdateContainer(ctx context.Context, containerID string, fields map[string]any) (*domain.Container, error) {
	fields["updated_at"] = time.Now().UTC()
	var c domain.Container
	err := s.db.Collection(domain.CollContainers).FindOneAndUpdate(ctx,
		bson.M{"container_id": containerID},
		bson.M{"$set": bson.M(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

func (s *Store) DeleteContainer(ctx context.Context, containerID string) error {
	res, err := s.db.Collection(domain.CollContainers).DeleteOne(ctx,
		bson.M{"container_id": containerID})
	if err != nil {
		return translateErr(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MaxContainerSeq retorna la mayor secuencia CONT-NNN ya emitida.
// Se usa para sembrar la secuencia atómica al arrancar.
func (s *Store) MaxContainerSeq(ctx context.Context) (int64, error) {
	return s.maxSeq(ctx, domain.CollContainers, "container_id")
}

// MaxIncidentSeq retorna la mayor secuencia INC-NNN ya emitida.
func (s *Store) MaxIncidentSeq(ctx context.Context) (int64, error) {
	return s.maxSeq(ctx, domain.CollIncidents, "incident_id")
}

func (s *Store) maxSeq(ctx context.Context, collection, keyField string) (int64, error) {
	// Orden lexical no sirve con anchos variables (CONT-999 < CONT-1000),
	// así que se extrae el sufijo numérico en el pipeline.
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"seq": bson.M{"$toLong": bson.M{
				"$arrayElemAt": bson.A{bson.M{"$split": bson.A{"$" + keyField, "-"}}, -1},
			}},
		}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "max": bson.M{"$max": "$seq"}}}},
	}
	cur, err := s.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, translateErr(err)
	}
	var res []struct {
		Max int64 `bson:"max"`
	}
	if err := cur.All(ctx, &res); err != nil {
		return 0, translateErr(err)
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0].Max, nil
}
