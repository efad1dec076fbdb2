package hc

import (
	"context"
	"net/http"
	"time"

	"oracle/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Checker reports whether the oracle configuration is usable
type Checker interface {
	Validate(ctx context.Context) error
}

// Handle handle hc request
func Handle(ver string, checker Checker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, checker))
	return r
}

func handle(version string, checker Checker) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(b).Truncate(time.Millisecond)
		h := render.H{
			"uptime":  uptime.String(),
			"version": version,
			"oracle":  "ok",
		}

		if err := checker.Validate(r.Context()); err != nil {
			h["oracle"] = err.Error()
		}

		render.JSON(w, h)
	}
}
