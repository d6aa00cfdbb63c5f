package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mealvine/mealvine-backend/api/responses"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
	"github.com/mealvine/mealvine-backend/pkg/logger"
)

// Pinger is anything that can report datasource reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Live answers as soon as the process serves traffic.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Ready verifies the backing stores before reporting healthy.
func Ready(db, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
