// Package company contiene el controller de las rutas /v1/companies.
package company

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	dto "github.com/dropDatabas3/smartbin/internal/http/dto/company"
	httperrors "github.com/dropDatabas3/smartbin/internal/http/errors"
	"github.com/dropDatabas3/smartbin/internal/http/helpers"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

// Controller maneja las rutas /v1/companies
type Controller struct {
	repo repository.CompanyRepository
}

// New crea el controller de empresas.
func New(repo repository.CompanyRepository) *Controller {
	return &Controller{repo: repo}
}

// List maneja GET /v1/companies
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Company.List"))

	companies, err := c.repo.List(ctx)
	if err != nil {
		log.Error("list failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, companies)
}

// Create maneja POST /v1/companies
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Company.Create"))

	var req dto.CreateCompanyRequest
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
		if pw, ok := repository.IsPartialWrite(err); ok {
			log.Warn("partial write", logger.ExternalID(pw.ExternalID), logger.Err(err))
			helpers.WritePartial(w, created, pw)
			return
		}
		log.Error("create failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	log.Info("company created", logger.CompanyID(created.ExternalID))
	helpers.WriteJSON(w, http.StatusCreated, created)
}

// Get maneja GET /v1/companies/{id}. Acepta tanto el id relacional
// numérico como el external id COMP-NNN.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Company.Get"))

	param := chi.URLParam(r, "id")
	var (
		company *domain.Company
		err     error
	)
	if id, perr := strconv.ParseInt(param, 10, 64); perr == nil {
		company, err = c.repo.GetByID(ctx, id)
	} else {
		company, err = c.repo.GetByExternalID(ctx, param)
	}
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("get failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, company)
}

// Update maneja PUT /v1/companies/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Company.Update"))

	id, ok := c.resolveID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	input, err := req.ToInput()
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
		return
	}

	updated, err := c.repo.Update(ctx, id, input)
	if err != nil {
		if pw, ok := repository.IsPartialWrite(err); ok {
			log.Warn("partial write", logger.ExternalID(pw.ExternalID), logger.Err(err))
			helpers.WritePartial(w, updated, pw)
			return
		}
		if !repository.IsNotFound(err) {
			log.Error("update failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, updated)
}

// Deactivate maneja DELETE /v1/companies/{id} (baja lógica).
func (c *Controller) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Company.Deactivate"))

	id, ok := c.resolveID(w, r)
	if !ok {
		return
	}

	if err := c.repo.Deactivate(ctx, id); err != nil {
		if pw, partial := repository.IsPartialWrite(err); partial {
			log.Warn("partial write", logger.ExternalID(pw.ExternalID), logger.Err(err))
			helpers.WritePartial(w, nil, pw)
			return
		}
		if !repository.IsNotFound(err) {
			log.Error("deactivate failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveID traduce el parámetro de path (numérico o COMP-NNN) al id
// relacional. Escribe la respuesta de error si no resuelve.
func (c *Controller) resolveID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	param := chi.URLParam(r, "id")
	if id, err := strconv.ParseInt(param, 10, 64); err == nil {
		return id, true
	}
	company, err := c.repo.GetByExternalID(r.Context(), param)
	if err != nil {
		httperrors.WriteError(w, err)
		return 0, false
	}
	return company.ID, true
}
