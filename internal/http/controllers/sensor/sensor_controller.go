// Package sensor contiene el controller de las rutas /v1/sensor-data.
package sensor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	dto "github.com/dropDatabas3/smartbin/internal/http/dto/sensor"
	httperrors "github.com/dropDatabas3/smartbin/internal/http/errors"
	"github.com/dropDatabas3/smartbin/internal/http/helpers"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

// defaultWindow es la ventana de agregación cuando no viene ?window=.
const defaultWindow = 24 * time.Hour

// defaultLimit acota el listado por contenedor.
const defaultLimit = int64(100)

// Controller maneja las rutas /v1/sensor-data
type Controller struct {
	repo repository.SensorReadingRepository
}

// New crea el controller de telemetría.
func New(repo repository.SensorReadingRepository) *Controller {
	return &Controller{repo: repo}
}

// Ingest maneja POST /v1/sensor-data
func (c *Controller) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Sensor.Ingest"))

	var req dto.IngestReadingRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	reading := req.ToReading()
	if err := c.repo.Insert(ctx, reading); err != nil {
		log.Error("ingest failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	log.Info("reading ingested",
		logger.DeviceID(reading.DeviceID),
		logger.ContainerID(reading.ContainerID),
	)
	w.WriteHeader(http.StatusAccepted)
}

// ListByContainer maneja GET /v1/containers/{id}/readings.
// Soporta ?limit= con tope por defecto.
func (c *Controller) ListByContainer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Sensor.ListByContainer"))

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("limit debe ser un entero positivo"))
			return
		}
		limit = n
	}

	readings, err := c.repo.ListByContainer(ctx, chi.URLParam(r, "id"), limit)
	if err != nil {
		log.Error("list failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, readings)
}

// Latest maneja GET /v1/sensor-data/latest: la última lectura de cada
// dispositivo conocido.
func (c *Controller) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Sensor.Latest"))

	readings, err := c.repo.LatestPerDevice(ctx)
	if err != nil {
		log.Error("latest failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, readings)
}

// LatestByDevice maneja GET /v1/sensor-data/devices/{deviceId}/latest
func (c *Controller) LatestByDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Sensor.LatestByDevice"))

	reading, err := c.repo.LatestByDevice(ctx, chi.URLParam(r, "deviceId"))
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("latest failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, reading)
}

// Averages maneja GET /v1/sensor-data/devices/{deviceId}/averages.
// ?window= acepta duraciones Go ("6h", "30m"); default 24h.
func (c *Controller) Averages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Sensor.Averages"))

	window := defaultWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("window debe ser una duración válida, p.ej. 24h"))
			return
		}
		window = d
	}

	avgs, err := c.repo.AveragesByDevice(ctx, chi.URLParam(r, "deviceId"), time.Now().UTC().Add(-window))
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("averages failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, avgs)
}
