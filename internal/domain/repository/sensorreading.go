package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

// SensorReadingRepository maneja telemetría de sensores (solo Mongo,
// append-only).
type SensorReadingRepository interface {
	Insert(ctx context.Context, r domain.SensorReading) error
	ListByContainer(ctx context.Context, containerID string, limit int64) ([]domain.SensorReading, error)
	LatestByDevice(ctx context.Context, deviceID string) (*domain.SensorReading, error)
	LatestPerDevice(ctx context.Context) ([]domain.SensorReading, error)
	AveragesByDevice(ctx context.Context, deviceID string, since time.Time) (*domain.SensorAverages, error)
}
