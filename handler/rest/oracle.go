package rest

import (
	"errors"
	"net/http"

	"oracle/core"
	"oracle/handler/param"
	"oracle/handler/render"
	"oracle/handler/views"
	"oracle/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
)

func assetsHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			StartAfter string `json:"start_after"`
			Limit      *int   `json:"limit"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		var after *core.AssetInfo
		if params.StartAfter != "" {
			info, err := core.ParseAssetInfo(params.StartAfter)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			after = &info
		}

		assets, err := oracle.PagedAssetInfo(r.Context(), after, params.Limit)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.OracleAssets(assets))
	}
}

func configsHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			StartAfter string `json:"start_after"`
			Limit      *int   `json:"limit"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		configs, err := oracle.PagedAssetConfig(r.Context(), core.NewAssetEntry(params.StartAfter), params.Limit)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.AssetConfigs(configs))
	}
}

func configHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry := core.NewAssetEntry(chi.URLParam(r, "*"))

		source, err := oracle.AssetConfig(r.Context(), entry)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.AssetConfig{Entry: entry, PriceSource: *source})
	}
}

func baseAssetHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := oracle.BaseAsset(r.Context())
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, render.H{"key": info.Key(), "asset_info": info})
	}
}

func assetValueHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Asset  string `json:"asset"`
			Amount string `json:"amount"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		info, err := core.ParseAssetInfo(params.Asset)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := number.Amount(params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		value, err := oracle.AssetValue(r.Context(), core.NewAsset(info, amount))
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, render.H{"asset": core.NewAsset(info, amount), "value": value})
	}
}

func updateAssetsHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body struct {
			ToAdd    []views.AssetConfig `json:"to_add"`
			ToRemove []string            `json:"to_remove"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.BadRequest(w, err)
			return
		}

		if len(body.ToAdd) == 0 && len(body.ToRemove) == 0 {
			render.BadRequest(w, errors.New("nothing to update"))
			return
		}

		toAdd := make([]*core.AssetConfig, 0, len(body.ToAdd))
		for _, c := range body.ToAdd {
			if c.Entry == "" {
				render.BadRequest(w, errors.New("asset entry missing"))
				return
			}
			toAdd = append(toAdd, &core.AssetConfig{Entry: core.NewAssetEntry(c.Entry.String()), Source: c.PriceSource})
		}

		toRemove := make([]core.AssetEntry, 0, len(body.ToRemove))
		for _, name := range body.ToRemove {
			toRemove = append(toRemove, core.NewAssetEntry(name))
		}

		if err := oracle.UpdateAssets(ctx, toAdd, toRemove); err != nil {
			logger.FromContext(ctx).WithError(err).Infoln("update assets")
			render.Err(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}
