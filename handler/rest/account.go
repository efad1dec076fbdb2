package rest

import (
	"net/http"

	"oracle/core"
	"oracle/handler/param"
	"oracle/handler/render"
	"oracle/handler/views"
	"oracle/pkg/number"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func accountValueHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "address")

		value, err := oracle.AccountValue(r.Context(), account)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.AccountValue{
			Account:    account,
			TotalValue: value.TotalValue,
			Breakdown:  value.Breakdown,
		})
	}
}

func holdingHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		account := chi.URLParam(r, "address")
		entry := core.NewAssetEntry(chi.URLParam(r, "*"))

		var params struct {
			Amount string `json:"amount"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		var amount *decimal.Decimal
		if params.Amount != "" {
			v, err := number.Amount(params.Amount)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			amount = &v
		}

		if amount == nil {
			holding, err := oracle.HoldingAmount(ctx, account, entry)
			if err != nil {
				render.Err(w, err)
				return
			}
			amount = &holding
		}

		value, err := oracle.TokenValue(ctx, account, entry, amount)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.Holding{
			Account: account,
			Entry:   entry,
			Amount:  *amount,
			Value:   value,
		})
	}
}

func snapshotsHandler(snapshotStore core.IAccountSnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			From  int64 `json:"from"`
			Limit int   `json:"limit"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.Limit <= 0 || params.Limit > 500 {
			params.Limit = 100
		}

		snapshots, err := snapshotStore.List(r.Context(), chi.URLParam(r, "address"), params.From, params.Limit)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.Snapshots(snapshots))
	}
}
