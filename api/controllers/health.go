package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/gadgetshub/storefront-backend/api/responses"
	"github.com/gadgetshub/storefront-backend/pkg/config"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
	"github.com/gadgetshub/storefront-backend/pkg/logger"
)

type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers
// a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		var combined error
		failing := []string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				combined = multierr.Append(combined, err)
				failing = append(failing, name)
			}
		}

		if combined != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "dependencies unavailable").
					WithDetails(map[string]any{"failing": failing}))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
