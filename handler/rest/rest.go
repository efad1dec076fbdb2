package rest

import (
	"errors"
	"net/http"

	"oracle/core"
	"oracle/handler/auth"
	"oracle/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(oracle core.IOracleService, snapshotStore core.IAccountSnapshotStore) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/assets", assetsHandler(oracle))
	router.With(auth.RequireAdmin).Post("/assets", updateAssetsHandler(oracle))
	router.Get("/configs", configsHandler(oracle))
	router.Get("/configs/*", configHandler(oracle))
	router.Get("/base-asset", baseAssetHandler(oracle))
	router.Get("/value", assetValueHandler(oracle))

	router.Route("/accounts/{address}", func(r chi.Router) {
		r.Get("/value", accountValueHandler(oracle))
		r.Get("/holdings/*", holdingHandler(oracle))
		r.Get("/snapshots", snapshotsHandler(snapshotStore))
	})

	return router
}
