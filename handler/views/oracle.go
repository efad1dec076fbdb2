package views

import (
	"time"

	"oracle/core"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

type (
	// OracleAsset registered asset
	OracleAsset struct {
		Key         string           `json:"key"`
		AssetInfo   core.AssetInfo   `json:"asset_info"`
		PriceSource core.PriceSource `json:"price_source"`
		Complexity  core.Complexity  `json:"complexity"`
	}

	// AssetConfig human facing registration
	AssetConfig struct {
		Entry       core.AssetEntry           `json:"entry"`
		PriceSource core.UncheckedPriceSource `json:"price_source"`
	}

	// AccountValue account valuation
	AccountValue struct {
		Account    string       `json:"account"`
		TotalValue core.Asset   `json:"total_value"`
		Breakdown  []core.Asset `json:"breakdown"`
	}

	// Holding account holding of one asset
	Holding struct {
		Account string          `json:"account"`
		Entry   core.AssetEntry `json:"entry"`
		Amount  decimal.Decimal `json:"amount"`
		Value   decimal.Decimal `json:"value"`
	}

	// Snapshot recorded account value
	Snapshot struct {
		ID         int64           `json:"id"`
		BaseAsset  string          `json:"base_asset"`
		TotalValue decimal.Decimal `json:"total_value"`
		Breakdown  types.JSONText  `json:"breakdown"`
		CreatedAt  time.Time       `json:"created_at"`
	}
)

// OracleAssets oracle asset views
func OracleAssets(assets []*core.OracleAsset) []OracleAsset {
	items := make([]OracleAsset, 0, len(assets))
	for _, a := range assets {
		items = append(items, OracleAsset{
			Key:         a.Info.Key(),
			AssetInfo:   a.Info,
			PriceSource: a.PriceSource,
			Complexity:  a.Complexity,
		})
	}

	return items
}

// AssetConfigs asset config views
func AssetConfigs(configs []*core.AssetConfig) []AssetConfig {
	items := make([]AssetConfig, 0, len(configs))
	for _, c := range configs {
		items = append(items, AssetConfig{Entry: c.Entry, PriceSource: c.Source})
	}

	return items
}

// Snapshots account snapshot views
func Snapshots(snapshots []*core.AccountSnapshot) []Snapshot {
	items := make([]Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		items = append(items, Snapshot{
			ID:         s.ID,
			BaseAsset:  s.BaseAsset,
			TotalValue: s.TotalValue,
			Breakdown:  s.Breakdown,
			CreatedAt:  s.CreatedAt,
		})
	}

	return items
}
