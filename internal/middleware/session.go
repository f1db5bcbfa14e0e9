package middleware

import (
	"errors"
	"net/http"

	"github.com/fappie/backend/internal/service/auth"
	"github.com/fappie/backend/pkg/logger"
	"github.com/fappie/backend/pkg/utils"
)

// Authorizer validates a session marker.
type Authorizer interface {
	Authorize(token string) error
}

// RequireSession rejects API requests without a valid session with 401.
func RequireSession(gate Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.Authorize(auth.TokenFromRequest(r)); err != nil {
				logRejection(r, err)
				utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePageSession redirects page requests without a valid session to the login page.
func RequirePageSession(gate Authorizer, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.Authorize(auth.TokenFromRequest(r)); err != nil {
				logRejection(r, err)
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func logRejection(r *http.Request, err error) {
	if errors.Is(err, auth.ErrNoSession) {
		return
	}
	logger.Infof("[auth] rejected %s %s: %v", r.Method, r.URL.Path, err)
}
