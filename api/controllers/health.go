package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/dariomunoz/forkline-backend/api/responses"
	"github.com/dariomunoz/forkline-backend/pkg/config"
	pkgerrors "github.com/dariomunoz/forkline-backend/pkg/errors"
	"github.com/dariomunoz/forkline-backend/pkg/logger"
)

const envHeader = "X-Forkline-Env"

// HealthPinger is any dependency with a health-check surface.
type HealthPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, pingers ...HealthPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var combined error
		for _, pinger := range pingers {
			if pinger == nil {
				continue
			}
			combined = multierr.Append(combined, pinger.Ping(r.Context()))
		}

		if combined != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
