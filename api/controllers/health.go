package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/bazarly/storefront-backend/api/responses"
	"github.com/bazarly/storefront-backend/pkg/config"
	pkgerrors "github.com/bazarly/storefront-backend/pkg/errors"
	"github.com/bazarly/storefront-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bazarly-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the cart's persistence dependency. The API still serves
// carts from memory when redis is down, so readiness going red is a paging
// signal rather than a serving gate.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisPinger pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bazarly-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if redisPinger != nil {
			if err := redisPinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
