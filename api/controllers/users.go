package controllers

import (
	"net/http"

	"github.com/mealvine/mealvine-backend/api/middleware"
	"github.com/mealvine/mealvine-backend/api/responses"
	"github.com/mealvine/mealvine-backend/internal/users"
	"github.com/mealvine/mealvine-backend/pkg/logger"
)

// SyncProfile mirrors the token identity into the local users table so other
// members can find this user by email.
func SyncProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := identity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.SyncProfile(r.Context(), userID,
			middleware.UserEmailFromContext(r.Context()),
			middleware.UserNameFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// GetMe returns the caller's stored profile.
func GetMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := identity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
