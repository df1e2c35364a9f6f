// Package incident contiene el controller de las rutas /v1/incidents.
package incident

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	"github.com/dropDatabas3/smartbin/internal/email"
	dto "github.com/dropDatabas3/smartbin/internal/http/dto/incident"
	httperrors "github.com/dropDatabas3/smartbin/internal/http/errors"
	"github.com/dropDatabas3/smartbin/internal/http/helpers"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

// Controller maneja las rutas /v1/incidents
type Controller struct {
	repo    repository.IncidentRepository
	alerter *email.Alerter // opcional
}

// New crea el controller de incidentes. alerter puede ser nil.
func New(repo repository.IncidentRepository, alerter *email.Alerter) *Controller {
	return &Controller{repo: repo, alerter: alerter}
}

// List maneja GET /v1/incidents. Soporta ?status= para filtrar y
// ?container=CONT-NNN para listar por contenedor.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Incident.List"))

	if container := r.URL.Query().Get("container"); container != "" {
		incidents, err := c.repo.ListByContainer(ctx, container)
		if err != nil {
			log.Error("list failed", logger.Err(err))
			httperrors.WriteError(w, err)
			return
		}
		helpers.WriteJSON(w, http.StatusOK, incidents)
		return
	}

	incidents, err := c.repo.List(ctx, r.URL.Query().Get("status"))
	if err != nil {
		log.Error("list failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, incidents)
}

// ListDetailed maneja GET /v1/incidents/detailed: cada incidente sale
// anotado con nombre y email del reportante.
func (c *Controller) ListDetailed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Incident.ListDetailed"))

	incidents, err := c.repo.ListDetailed(ctx, r.URL.Query().Get("status"))
	if err != nil {
		log.Error("list failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, incidents)
}

// Create maneja POST /v1/incidents
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Incident.Create"))

	var req dto.CreateIncidentRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	created, err := c.repo.Create(ctx, req.ToInput())
	if err != nil {
		log.Error("create failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	log.Info("incident created", logger.String("incident_id", created.IncidentID))
	if c.alerter != nil {
		// el envío no puede demorar la respuesta ni morir con la request
		go c.alerter.NotifyCriticalIncident(context.WithoutCancel(ctx), created)
	}
	helpers.WriteJSON(w, http.StatusCreated, created)
}

// Get maneja GET /v1/incidents/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Incident.Get"))

	incident, err := c.repo.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("get failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, incident)
}

// GetDetailed maneja GET /v1/incidents/{id}/detailed
func (c *Controller) GetDetailed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Incident.GetDetailed"))

	incident, err := c.repo.GetDetailed(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("get failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, incident)
}

// SetStatus maneja PUT /v1/incidents/{id}/status
func (c *Controller) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Incident.SetStatus"))

	var req dto.SetStatusRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	updated, err := c.repo.SetStatus(ctx, chi.URLParam(r, "id"), req.Status, req.Resolution)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("set status failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}

	log.Info("incident status changed",
		logger.String("incident_id", updated.IncidentID),
		logger.String("status", updated.Status),
	)
	helpers.WriteJSON(w, http.StatusOK, updated)
}
