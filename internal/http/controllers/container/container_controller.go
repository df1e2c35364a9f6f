// Package container contiene el controller de las rutas /v1/containers.
package container

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	dto "github.com/dropDatabas3/smartbin/internal/http/dto/container"
	httperrors "github.com/dropDatabas3/smartbin/internal/http/errors"
	"github.com/dropDatabas3/smartbin/internal/http/helpers"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

// Controller maneja las rutas /v1/containers
type Controller struct {
	repo repository.ContainerRepository
}

// New crea el controller de contenedores.
func New(repo repository.ContainerRepository) *Controller {
	return &Controller{repo: repo}
}

// List maneja GET /v1/containers. Con ?company=COMP-NNN filtra por empresa.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Container.List"))

	var (
		containers []domain.Container
		err        error
	)
	if company := strings.TrimSpace(r.URL.Query().Get("company")); company != "" {
		containers, err = c.repo.ListByCompany(ctx, company)
	} else {
		containers, err = c.repo.List(ctx)
	}
	if err != nil {
		log.Error("list failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, containers)
}

// Create maneja POST /v1/containers
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Container.Create"))

	var req dto.CreateContainerRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	input, err := req.ToInput()
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
		return
	}

	created, err := c.repo.Create(ctx, input)
	if err != nil {
		log.Error("create failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	log.Info("container created", logger.ContainerID(created.ContainerID))
	helpers.WriteJSON(w, http.StatusCreated, created)
}

// Get maneja GET /v1/containers/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Container.Get"))

	container, err := c.repo.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("get failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, container)
}

// Update maneja PUT /v1/containers/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Container.Update"))

	var req dto.UpdateContainerRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	input, err := req.ToInput()
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
		return
	}

	updated, err := c.repo.Update(ctx, chi.URLParam(r, "id"), input)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("update failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, updated)
}

// Delete maneja DELETE /v1/containers/{id}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Container.Delete"))

	if err := c.repo.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		if !repository.IsNotFound(err) {
			log.Error("delete failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
