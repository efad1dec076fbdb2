package auth

import (
	"errors"
	"net/http"
	"strings"

	"oracle/core"
	"oracle/handler/render"
	"oracle/handler/request"

	"github.com/fox-one/pkg/logger"
)

// HandleAuthentication mark requests carrying an admin bearer token
func HandleAuthentication(cfg *core.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			accessToken := getBearerToken(r)
			if accessToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !cfg.IsAdmin(accessToken) {
				log.Debugln("unknown access token")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.NewContext(ctx).WithAdmin(accessToken)))
		}

		return http.HandlerFunc(fn)
	}
}

// RequireAdmin reject requests not authenticated as admin
func RequireAdmin(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if !request.NewContext(r.Context()).IsAdmin() {
			render.Forbidden(w, errors.New("admin only"))
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

func getBearerToken(r *http.Request) string {
	s := r.Header.Get("Authorization")
	return strings.TrimPrefix(s, "Bearer ")
}
