// Package router arma el árbol de rutas del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/smartbin/internal/audit"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	"github.com/dropDatabas3/smartbin/internal/dualwrite"
	"github.com/dropDatabas3/smartbin/internal/email"
	adminctrl "github.com/dropDatabas3/smartbin/internal/http/controllers/admin"
	companyctrl "github.com/dropDatabas3/smartbin/internal/http/controllers/company"
	containerctrl "github.com/dropDatabas3/smartbin/internal/http/controllers/container"
	healthctrl "github.com/dropDatabas3/smartbin/internal/http/controllers/health"
	incidentctrl "github.com/dropDatabas3/smartbin/internal/http/controllers/incident"
	sensorctrl "github.com/dropDatabas3/smartbin/internal/http/controllers/sensor"
	userctrl "github.com/dropDatabas3/smartbin/internal/http/controllers/user"
	httperrors "github.com/dropDatabas3/smartbin/internal/http/errors"
	mw "github.com/dropDatabas3/smartbin/internal/http/middlewares"
	"github.com/dropDatabas3/smartbin/internal/rate"
)

// Deps agrupa todo lo que el router necesita para armar los handlers.
type Deps struct {
	Companies  repository.CompanyRepository
	Users      repository.UserRepository
	Containers repository.ContainerRepository
	Incidents  repository.IncidentRepository
	Sensors    repository.SensorReadingRepository

	Auditor     *audit.Auditor
	Coordinator *dualwrite.Coordinator

	// IngestLimiter, si está presente, limita POST /v1/sensor-data.
	IngestLimiter rate.Limiter

	// Alerter, si está presente, notifica incidentes críticos por email.
	Alerter *email.Alerter

	PostgresPinger healthctrl.Pinger
	MongoPinger    healthctrl.Pinger

	CORSAllowedOrigins []string
	Version            string
}

// New arma el router chi con middlewares y todas las rutas v1.
func New(d Deps) http.Handler {
	companies := companyctrl.New(d.Companies)
	users := userctrl.New(d.Users)
	containers := containerctrl.New(d.Containers)
	incidents := incidentctrl.New(d.Incidents, d.Alerter)
	sensors := sensorctrl.New(d.Sensors)
	admin := adminctrl.New(d.Auditor, d.Coordinator, d.Companies)
	health := healthctrl.New(d.PostgresPinger, d.MongoPinger, d.Version)

	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", users.Login)

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", companies.List)
			r.Post("/", companies.Create)
			r.Get("/{id}", companies.Get)
			r.Put("/{id}", companies.Update)
			r.Delete("/{id}", companies.Deactivate)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.List)
			r.Post("/", users.Create)
			r.Get("/{id}", users.Get)
			r.Put("/{id}", users.Update)
			r.Delete("/{id}", users.Deactivate)
		})

		r.Route("/containers", func(r chi.Router) {
			r.Get("/", containers.List)
			r.Post("/", containers.Create)
			r.Get("/{id}", containers.Get)
			r.Put("/{id}", containers.Update)
			r.Delete("/{id}", containers.Delete)
			r.Get("/{id}/readings", sensors.ListByContainer)
		})

		r.Route("/incidents", func(r chi.Router) {
			r.Get("/", incidents.List)
			r.Post("/", incidents.Create)
			r.Get("/detailed", incidents.ListDetailed)
			r.Get("/{id}", incidents.Get)
			r.Get("/{id}/detailed", incidents.GetDetailed)
			r.Put("/{id}/status", incidents.SetStatus)
		})

		r.Route("/sensor-data", func(r chi.Router) {
			ingest := http.Handler(http.HandlerFunc(sensors.Ingest))
			if d.IngestLimiter != nil {
				ingest = mw.WithRateLimit(d.IngestLimiter, mw.KeyByDeviceHeader)(ingest)
			}
			r.Method(http.MethodPost, "/", ingest)
			r.Get("/latest", sensors.Latest)
			r.Get("/devices/{deviceId}/latest", sensors.LatestByDevice)
			r.Get("/devices/{deviceId}/averages", sensors.Averages)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/audit/{kind}/{id}", admin.Audit)
			r.Post("/repair/{kind}/{id}", admin.Repair)
		})
	})

	return mw.Chain(r,
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(),
		mw.WithRecover(),
		mw.WithCORS(d.CORSAllowedOrigins),
	)
}
