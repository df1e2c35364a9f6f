// Package sensor define los DTOs de las rutas /v1/sensor-data.
package sensor

import (
	"time"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

// IngestReadingRequest para POST /v1/sensor-data
type IngestReadingRequest struct {
	DeviceID    string     `json:"deviceId"`
	ContainerID string     `json:"containerId"`
	FillLevel   float64    `json:"fillLevel"`
	Temperature float64    `json:"temperature,omitempty"`
	BatteryPct  float64    `json:"batteryPct,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// ToReading convierte el request en la lectura de dominio. El timestamp
// ausente lo completa el repositorio.
func (r IngestReadingRequest) ToReading() domain.SensorReading {
	reading := domain.SensorReading{
		DeviceID:    r.DeviceID,
		ContainerID: r.ContainerID,
		Readings: domain.Readings{
			FillLevel:   r.FillLevel,
			Temperature: r.Temperature,
			BatteryPct:  r.BatteryPct,
		},
	}
	if r.Timestamp != nil {
		reading.Timestamp = *r.Timestamp
	}
	return reading
}
