package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

func (s *Store) InsertIncident(ctx context.Context, in *domain.Incident) error {
	_, err := s.db.Collection(domain.CollIncidents).InsertOne(ctx, in)
	return translateErr(err)
}

func (s *Store) GetIncident(ctx context.Context, incidentID string) (*domain.Incident, error) {
	var in domain.Incident
	if err := s.findByKey(ctx, domain.CollIncidents, "incident_id", incidentID, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ListIncidents filtra por status si no está vacío; más recientes primero.
func (s *Store) ListIncidents(ctx context.Context, status string) ([]domain.Incident, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.queryIncidents(ctx, filter)
}

func (s *Store) ListIncidentsByContainer(ctx context.Context, containerID string) ([]domain.Incident, error) {
	return s.queryIncidents(ctx, bson.M{"container_id": containerID})
}

func (s *Store) queryIncidents(ctx context.Context, filter bson.M) ([]domain.Incident, error) {
	cur, err := s.db.Collection(domain.CollIncidents).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, translateErr(err)
	}
	var out []domain.Incident
	if err := cur.All(ctx, &out); err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

// SetIncidentStatus cambia el estado y sella resolved_at cuando el
// incidente pasa a resuelto. Un incidente ya resuelto conserva su
// resolved_at original. Las notas de resolución solo se escriben si
// vienen no vacías.
func (s *Store) SetIncidentStatus(ctx context.Context, incidentID, status, notes string) (*domain.Incident, error) {
	set := bson.M{"status": status}
	if status == domain.IncidentStatusResolved {
		set["resolved_at"] = bson.M{"$ifNull": bson.A{"$resolved_at", time.Now().UTC()}}
	}
	if notes != "" {
		set["resolution"] = notes
	}
	var in domain.Incident
	err := s.db.Collection(domain.CollIncidents).FindOneAndUpdate(ctx,
		bson.M{"incident_id": incidentID},
		bson.A{bson.M{"$set": set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&in)
	if err != nil {
		return nil, translateErr(err)
	}
	return &in, nil
}
