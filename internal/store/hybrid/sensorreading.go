package hybrid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

type sensorDocs interface {
	InsertReading(ctx context.Context, r *domain.SensorReading) error
	ListReadingsByContainer(ctx context.Context, containerID string, limit int64) ([]domain.SensorReading, error)
	LatestByDevice(ctx context.Context, deviceID string) (*domain.SensorReading, error)
	LatestPerDevice(ctx context.Context) ([]domain.SensorReading, error)
	AveragesByDevice(ctx context.Context, deviceID string, since time.Time) (*domain.SensorAverages, error)
	GetContainer(ctx context.Context, containerID string) (*domain.Container, error)
	UpdateContainer(ctx context.Context, containerID string, fields map[string]any) (*domain.Container, error)
}

// fullThreshold es el nivel de llenado a partir del cual un contenedor
// pasa a estado full.
const fullThreshold = 90.0

// SensorReadingRepo implementa repository.SensorReadingRepository.
// Cada lectura además refresca el nivel de llenado del contenedor.
type SensorReadingRepo struct {
	docs sensorDocs
}

func NewSensorReadingRepo(docs sensorDocs) *SensorReadingRepo {
	return &SensorReadingRepo{docs: docs}
}

var _ repository.SensorReadingRepository = (*SensorReadingRepo)(nil)

func (r *SensorReadingRepo) Insert(ctx context.Context, in domain.SensorReading) error {
	if strings.TrimSpace(in.DeviceID) == "" || strings.TrimSpace(in.ContainerID) == "" {
		return fmt.Errorf("%w: deviceId and containerId are required", repository.ErrInvalidInput)
	}
	if in.Readings.FillLevel < 0 || in.Readings.FillLevel > 100 {
		return fmt.Errorf("%w: fill level must be between 0 and 100", repository.ErrInvalidInput)
	}
	if _, err := r.docs.GetContainer(ctx, in.ContainerID); err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("%w: container %s does not exist", repository.ErrInvalidInput, in.ContainerID)
		}
		return err
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}

	if err := r.docs.InsertReading(ctx, &in); err != nil {
		return err
	}

	// efecto secundario best-effort: el contenedor refleja la última
	// lectura; si falla, la telemetría igual quedó registrada
	fields := map[string]any{"fill_level": in.Readings.FillLevel}
	if in.Readings.FillLevel >= fullThreshold {
		fields["status"] = domain.ContainerStatusFull
	}
	if _, err := r.docs.UpdateContainer(ctx, in.ContainerID, fields); err != nil {
		logger.Named("hybrid.sensor").Warn("container refresh failed",
			logger.ContainerID(in.ContainerID), logger.Err(err))
	}
	return nil
}

func (r *SensorReadingRepo) ListByContainer(ctx context.Context, containerID string, limit int64) ([]domain.SensorReading, error) {
	return r.docs.ListReadingsByContainer(ctx, containerID, limit)
}

func (r *SensorReadingRepo) LatestByDevice(ctx context.Context, deviceID string) (*domain.SensorReading, error) {
	return r.docs.LatestByDevice(ctx, deviceID)
}

func (r *SensorReadingRepo) LatestPerDevice(ctx context.Context) ([]domain.SensorReading, error) {
	return r.docs.LatestPerDevice(ctx)
}

func (r *SensorReadingRepo) AveragesByDevice(ctx context.Context, deviceID string, since time.Time) (*domain.SensorAverages, error) {
	return r.docs.AveragesByDevice(ctx, deviceID, since)
}
