// Package admin contiene los endpoints de auditoría y reparación de
// consistencia entre los dos motores.
package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/smartbin/internal/audit"
	"github.com/dropDatabas3/smartbin/internal/cache"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	"github.com/dropDatabas3/smartbin/internal/dualwrite"
	dto "github.com/dropDatabas3/smartbin/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/smartbin/internal/http/errors"
	"github.com/dropDatabas3/smartbin/internal/http/helpers"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

// Controller maneja las rutas /v1/admin
type Controller struct {
	auditor   *audit.Auditor
	coord     *dualwrite.Coordinator
	companies repository.CompanyRepository
}

// New crea el controller administrativo.
func New(auditor *audit.Auditor, coord *dualwrite.Coordinator, companies repository.CompanyRepository) *Controller {
	return &Controller{auditor: auditor, coord: coord, companies: companies}
}

// Audit maneja GET /v1/admin/audit/{kind}/{id}. Para company acepta
// id relacional o COMP-NNN; para user solo el id relacional.
func (c *Controller) Audit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Admin.Audit"))

	kind := chi.URLParam(r, "kind")
	param := chi.URLParam(r, "id")

	var (
		report audit.Report
		err    error
	)
	switch kind {
	case "company":
		id, ok := c.resolveCompanyID(w, r, param)
		if !ok {
			return
		}
		report, err = c.auditor.AuditCompany(ctx, id)
	case "user":
		id, perr := strconv.ParseInt(param, 10, 64)
		if perr != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id de usuario debe ser numérico"))
			return
		}
		report, err = c.auditor.AuditUser(ctx, id)
	default:
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("kind debe ser company o user"))
		return
	}

	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("audit failed", logger.Kind(kind), logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, report)
}

// Repair maneja POST /v1/admin/repair/{kind}/{id}: reaplica el payload
// documental retenido por una escritura parcial. Idempotente; 404 si no
// hay nada pendiente para esa clave.
func (c *Controller) Repair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Admin.Repair"))

	kind := chi.URLParam(r, "kind")
	key := chi.URLParam(r, "id")

	switch kind {
	case "company":
		// la retención se indexa por external id
		if id, err := strconv.ParseInt(key, 10, 64); err == nil {
			company, cerr := c.companies.GetByID(ctx, id)
			if cerr != nil {
				httperrors.WriteError(w, cerr)
				return
			}
			key = company.ExternalID
		}
	case "user":
		if _, err := strconv.ParseInt(key, 10, 64); err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id de usuario debe ser numérico"))
			return
		}
	default:
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("kind debe ser company o user"))
		return
	}

	entry, err := c.coord.Repair(ctx, kind, key)
	if err != nil {
		if cache.IsNotFound(err) {
			httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("no hay escritura pendiente para esa clave"))
			return
		}
		log.Error("repair failed", logger.Kind(kind), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	log.Info("mirror repaired", logger.Kind(kind), logger.Collection(entry.Collection))
	helpers.WriteJSON(w, http.StatusOK, dto.RepairResponse{
		Kind:       kind,
		Key:        key,
		Collection: entry.Collection,
		Repaired:   true,
	})
}

// resolveCompanyID traduce id numérico o COMP-NNN al id relacional.
func (c *Controller) resolveCompanyID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	if id, err := strconv.ParseInt(param, 10, 64); err == nil {
		return id, true
	}
	company, err := c.companies.GetByExternalID(r.Context(), param)
	if err != nil {
		httperrors.WriteError(w, err)
		return 0, false
	}
	return company.ID, true
}
