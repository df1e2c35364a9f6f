// Package health contiene el controller para health checks.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/smartbin/internal/http/helpers"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

// pingTimeout acota cada ping de readiness.
const pingTimeout = 2 * time.Second

// Pinger es lo mínimo que el health check necesita de cada motor.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller maneja /healthz y /readyz.
type Controller struct {
	postgres Pinger
	mongo    Pinger
	version  string
}

// New crea el controller de health checks.
func New(postgres, mongo Pinger, version string) *Controller {
	return &Controller{postgres: postgres, mongo: mongo, version: version}
}

type storeStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readyResponse struct {
	Status   string      `json:"status"`
	Version  string      `json:"version,omitempty"`
	Postgres storeStatus `json:"postgres"`
	Mongo    storeStatus `json:"mongo"`
}

// Healthz maneja GET /healthz (liveness: el proceso responde).
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz: hace ping a ambos motores y responde 503
// si alguno no contesta.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Health.Readyz"))

	resp := readyResponse{
		Status:   "ready",
		Version:  c.version,
		Postgres: c.ping(ctx, c.postgres),
		Mongo:    c.ping(ctx, c.mongo),
	}

	status := http.StatusOK
	if resp.Postgres.Status != "up" || resp.Mongo.Status != "up" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
		log.Warn("readiness degraded",
			logger.String("postgres", resp.Postgres.Status),
			logger.String("mongo", resp.Mongo.Status),
		)
	}

	if c.version != "" {
		w.Header().Set("X-Service-Version", c.version)
	}
	helpers.WriteJSON(w, status, resp)
}

func (c *Controller) ping(ctx context.Context, p Pinger) storeStatus {
	if p == nil {
		return storeStatus{Status: "unconfigured"}
	}
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(pctx); err != nil {
		return storeStatus{Status: "down", Error: err.Error()}
	}
	return storeStatus{Status: "up"}
}
