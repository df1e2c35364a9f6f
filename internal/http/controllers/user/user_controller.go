// Package user contiene el controller de las rutas /v1/users y el login.
package user

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	dto "github.com/dropDatabas3/smartbin/internal/http/dto/user"
	httperrors "github.com/dropDatabas3/smartbin/internal/http/errors"
	"github.com/dropDatabas3/smartbin/internal/http/helpers"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
	"github.com/dropDatabas3/smartbin/internal/security/password"
	"github.com/dropDatabas3/smartbin/internal/util"
)

// Controller maneja las rutas /v1/users
type Controller struct {
	repo repository.UserRepository
}

// New crea el controller de usuarios.
func New(repo repository.UserRepository) *Controller {
	return &Controller{repo: repo}
}

// List maneja GET /v1/users. Con ?company=COMP-NNN filtra por empresa.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("User.List"))

	var (
		users []domain.User
		err   error
	)
	if company := strings.TrimSpace(r.URL.Query().Get("company")); company != "" {
		users, err = c.repo.ListByCompany(ctx, company)
	} else {
		users, err = c.repo.List(ctx)
	}
	if err != nil {
		log.Error("list failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, users)
}

// Create maneja POST /v1/users
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("User.Create"))

	var req dto.CreateUserRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if len(req.Password) < password.MinLength {
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak)
		return
	}

	created, err := c.repo.Create(ctx, req.ToInput())
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

	log.Info("user created", logger.UserID(created.ID))
	helpers.WriteJSON(w, http.StatusCreated, created)
}

// Get maneja GET /v1/users/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("User.Get"))

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	user, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("get failed", logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, user)
}

// Update maneja PUT /v1/users/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("User.Update"))

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	updated, err := c.repo.Update(ctx, id, req.ToInput())
	if err != nil {
		if pw, partial := repository.IsPartialWrite(err); partial {
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

// Deactivate maneja DELETE /v1/users/{id} (baja lógica).
func (c *Controller) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("User.Deactivate"))

	id, ok := parseID(w, r)
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

// Login maneja POST /v1/auth/login. Un fallo de credenciales responde
// siempre 401 sin distinguir usuario inexistente de password incorrecto.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("User.Login"))

	var req dto.LoginRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	user, err := c.repo.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Info("login rejected", logger.String("email", util.MaskEmail(req.Email)))
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
			return
		}
		log.Error("login failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	log.Info("login ok", logger.UserID(user.ID))
	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{User: *user})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id debe ser numérico"))
		return 0, false
	}
	return id, true
}
