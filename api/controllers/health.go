package controllers

import (
	"net/http"

	"github.com/ataullahmesbah/sooqra-one-sub003/api/responses"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/config"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/db"
	pkgerrors "github.com/ataullahmesbah/sooqra-one-sub003/pkg/errors"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/logger"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Sooqra-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies and reports per-component status.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Sooqra-Env", cfg.App.Env)

		components := map[string]string{
			"db":    "ok",
			"redis": "ok",
		}
		healthy := true

		if dbP == nil {
			components["db"] = "unconfigured"
			healthy = false
		} else if err := dbP.Ping(r.Context()); err != nil {
			components["db"] = "down"
			healthy = false
			if logg != nil {
				logg.Error(r.Context(), "readiness: db ping failed", err)
			}
		}

		if redisP == nil {
			components["redis"] = "unconfigured"
			healthy = false
		} else if err := redisP.Ping(r.Context()); err != nil {
			components["redis"] = "down"
			healthy = false
			if logg != nil {
				logg.Error(r.Context(), "readiness: redis ping failed", err)
			}
		}

		if !healthy {
			responses.WriteError(r.Context(), nil, w,
				pkgerrors.New(pkgerrors.CodeDependency, "service not ready").WithDetails(components))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "components": components})
	}
}
