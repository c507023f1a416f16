package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pasarseni/pasarseni-backend/api/responses"
	pkgAuth "github.com/pasarseni/pasarseni-backend/pkg/auth"
	"github.com/pasarseni/pasarseni-backend/pkg/config"
	pkgerrors "github.com/pasarseni/pasarseni-backend/pkg/errors"
	"github.com/pasarseni/pasarseni-backend/pkg/logger"
)

// CartSessionHeader carries the guest cart session id for unauthenticated
// shoppers.
const CartSessionHeader = "X-Cart-Session"

// Auth validates a bearer token and seeds the request context with the
// identity. Requests without credentials are rejected.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			ctx, err := seedIdentity(r.Context(), cfg, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds the identity when a bearer token is present and lets
// anonymous requests through untouched. A token that is present but
// invalid is still rejected.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx, err := seedIdentity(r.Context(), cfg, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CartOwner resolves the cart owner key: the authenticated user id when
// present, otherwise the guest session header. Mount it after Auth or
// OptionalAuth.
func CartOwner(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := UserIDFromContext(r.Context())
			if owner == "" {
				owner = strings.TrimSpace(r.Header.Get(CartSessionHeader))
			}
			if owner == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "sign in or supply a cart session header"))
				return
			}

			ctx := WithCartOwner(r.Context(), owner)
			if logg != nil {
				ctx = logg.WithCartOwner(ctx, owner)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

func seedIdentity(ctx context.Context, cfg config.JWTConfig, logg *logger.Logger, token string) (context.Context, error) {
	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	ident := claims.Identity()
	ctx = context.WithValue(ctx, ctxUserID, ident.UserID)
	ctx = context.WithValue(ctx, ctxUserEmail, ident.Email)
	ctx = context.WithValue(ctx, ctxUserName, ident.Name)

	if logg != nil {
		ctx = logg.WithUserID(ctx, ident.UserID)
	}
	return ctx, nil
}
