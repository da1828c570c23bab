package controllers

import (
	"context"
	"net/http"

	"github.com/civictrack/civictrack-backend/api/responses"
	"github.com/civictrack/civictrack-backend/pkg/config"
	pkgerrors "github.com/civictrack/civictrack-backend/pkg/errors"
	"github.com/civictrack/civictrack-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CivicTrack-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CivicTrack-Env", cfg.App.Env)

		checks := map[string]string{}
		failed := false

		checks["db"] = "ok"
		if db == nil {
			checks["db"] = "unconfigured"
			failed = true
		} else if err := db.Ping(r.Context()); err != nil {
			checks["db"] = "unreachable"
			failed = true
			if logg != nil {
				logg.Error(r.Context(), "health.db_ping_failed", err)
			}
		}

		checks["redis"] = "ok"
		if redis == nil {
			checks["redis"] = "unconfigured"
			failed = true
		} else if err := redis.Ping(r.Context()); err != nil {
			checks["redis"] = "unreachable"
			failed = true
			if logg != nil {
				logg.Error(r.Context(), "health.redis_ping_failed", err)
			}
		}

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "not ready").WithDetails(checks)
			responses.WriteError(r.Context(), nil, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
