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

func (s *Store) InsertReading(ctx context.Context, r *domain.SensorReading) error {
	_, err := s.db.Collection(domain.CollSensorReadings).InsertOne(ctx, r)
	return translateErr(err)
}

func (s *Store) ListReadingsByContainer(ctx context.Context, containerID string, limit int64) ([]domain.SensorReading, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.db.Collection(domain.CollSensorReadings).Find(ctx,
		bson.M{"container_id": containerID}, opts)
	if err != nil {
		return nil, translateErr(err)
	}
	var out []domain.SensorReading
	if err := cur.All(ctx, &out); err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

func (s *Store) LatestByDevice(ctx context.Context, deviceID string) (*domain.SensorReading, error) {
	var r domain.SensorReading
	err := s.db.Collection(domain.CollSensorReadings).FindOne(ctx,
		bson.M{"device_id": deviceID},
		options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	).Decode(&r)
	if err != nil {
		return nil, translateErr(err)
	}
	return &r, nil
}

// LatestPerDevice retorna la última lectura de cada dispositivo.
func (s *Store) LatestPerDevice(ctx context.Context) ([]domain.SensorReading, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":  "$device_id",
			"last": bson.M{"$first": "$$ROOT"},
		}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$last"}}},
		{{Key: "$sort", Value: bson.D{{Key: "device_id", Value: 1}}}},
	}
	cur, err := s.db.Collection(domain.CollSensorReadings).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateErr(err)
	}
	var out []domain.SensorReading
	if err := cur.All(ctx, &out); err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

// AveragesByDevice agrega promedios de un dispositivo desde el corte
// dado (since cero significa todo el histórico).
func (s *Store) AveragesByDevice(ctx context.Context, deviceID string, since time.Time) (*domain.SensorAverages, error) {
	match := bson.M{"device_id": deviceID}
	if !since.IsZero() {
		match["timestamp"] = bson.M{"$gte": since}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$device_id",
			"samples":  bson.M{"$sum": 1},
			"avg_fill": bson.M{"$avg": "$readings.fill_level"},
			"avg_temp": bson.M{"$avg": "$readings.temperature"},
			"avg_batt": bson.M{"$avg": "$readings.battery_pct"},
		}}},
	}
	cur, err := s.db.Collection(domain.CollSensorReadings).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateErr(err)
	}
	var res []struct {
		ID      string  `bson:"_id"`
		Samples int64   `bson:"samples"`
		AvgFill float64 `bson:"avg_fill"`
		AvgTemp float64 `bson:"avg_temp"`
		AvgBatt float64 `bson:"avg_batt"`
	}
	if err := cur.All(ctx, &res); err != nil {
		return nil, translateErr(err)
	}
	if len(res) == 0 {
		return nil, repository.ErrNotFound
	}
	return &domain.SensorAverages{
		DeviceID:       res[0].ID,
		Samples:        res[0].Samples,
		AvgFillLevel:   res[0].AvgFill,
		AvgTemperature: res[0].AvgTemp,
		AvgBatteryPct:  res[0].AvgBatt,
	}, nil
}
