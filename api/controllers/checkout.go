package controllers

import (
	"net/http"

	"github.com/pasarseni/pasarseni-backend/api/middleware"
	"github.com/pasarseni/pasarseni-backend/api/responses"
	checkoutsvc "github.com/pasarseni/pasarseni-backend/internal/checkout"
	"github.com/pasarseni/pasarseni-backend/pkg/auth"
	"github.com/pasarseni/pasarseni-backend/pkg/logger"
)

func identityFromContext(r *http.Request) *auth.Identity {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return nil
	}
	return &auth.Identity{
		UserID: userID,
		Email:  middleware.UserEmailFromContext(r.Context()),
		Name:   middleware.UserNameFromContext(r.Context()),
	}
}

// CheckoutSubmit runs a checkout for the owner's current cart. An
// unauthenticated attempt succeeds with an awaiting_auth result carrying
// the sign-in redirect; it is not an authorization failure.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middleware.CartOwnerFromContext(r.Context())

		result, err := svc.Submit(r.Context(), owner, identityFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CheckoutStatus reports the owner's checkout lifecycle state and the
// current cart pricing.
func CheckoutStatus(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := middleware.CartOwnerFromContext(r.Context())

		result, err := svc.Status(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
