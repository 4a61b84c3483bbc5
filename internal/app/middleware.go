package app

import (
	"errors"
	"net/http"

	"github.com/flexkonto/flexkonto/internal/config"
	"github.com/flexkonto/flexkonto/pkg/user"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const userIdHeader = "X-User-Id"

// WithCors wraps the whole router: mux runs middlewares on matched routes
// only, which preflight requests never are.
func WithCors(h http.Handler, cfg config.Application) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.Cors.Origins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", userIdHeader},
		ExposedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})(h)
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {
	// Propagate X-User-Id header into context for downstream services
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			uid := req.Header.Get(userIdHeader)
			ctx := req.Context()

			if uid != "" {
				u, err := deps.UserService.GetUserByUid(ctx, uid)
				if err != nil {
					if errors.Is(err, user.ErrUserNotFound) {
						log.Debugf("user not found: %s", uid)
						http.Error(w, "user not found", http.StatusForbidden)
						return
					}
					log.Errorf("failed to get user: %v", err)
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				log.Tracef("user found: %s", u.Uid)
				ctx = user.WithUser(ctx, u)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}

// requireUser rejects requests that did not resolve to a user.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if _, err := user.CurrentId(req.Context()); err != nil {
			http.Error(w, "missing "+userIdHeader+" header", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, req)
	})
}
