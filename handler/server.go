package handler

import (
	"errors"
	"net/http"

	"oracle/core"
	"oracle/handler/auth"
	"oracle/handler/render"
	"oracle/handler/rest"

	"github.com/go-chi/chi"
)

// Server server
type Server struct {
	cfg           *core.Config
	oracle        core.IOracleService
	snapshotStore core.IAccountSnapshotStore
}

// New new server function
func New(
	cfg *core.Config,
	oracle core.IOracleService,
	snapshotStore core.IAccountSnapshotStore,
) Server {
	return Server{
		cfg:           cfg,
		oracle:        oracle,
		snapshotStore: snapshotStore,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(render.WrapResponse(false))
	r.Use(auth.HandleAuthentication(s.cfg))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	r.Mount("/", rest.Handle(s.oracle, s.snapshotStore))

	return r
}
