package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Complexity dependency layer of an asset, 0 for the base asset
type Complexity = uint8

const (
	// ListSizeLimit max number of assets an oracle can track
	ListSizeLimit = 15
	// DefaultPageLimit default page size of the paged queries
	DefaultPageLimit = 5
)

// AssetConfig human facing registration of an asset
type AssetConfig struct {
	Entry  AssetEntry           `json:"entry"`
	Source UncheckedPriceSource `json:"source"`
}

// OracleAsset resolved asset with its checked price source
type OracleAsset struct {
	Info        AssetInfo   `json:"info"`
	PriceSource PriceSource `json:"price_source"`
	Complexity  Complexity  `json:"complexity"`
}

// AccountValue value of all holdings of an account
type AccountValue struct {
	// TotalValue total value in the base asset
	TotalValue Asset `json:"total_value"`
	// Breakdown the contribution of every asset, in the base asset
	Breakdown []Asset `json:"breakdown"`
}

// OracleStore the persisted relations of the oracle
type OracleStore interface {
	// config: AssetEntry -> UncheckedPriceSource
	CountConfigs(ctx context.Context) (int, error)
	FindConfig(ctx context.Context, entry AssetEntry) (*AssetConfig, bool, error)
	SaveConfig(ctx context.Context, config *AssetConfig) error
	DeleteConfig(ctx context.Context, entry AssetEntry) error
	// ListConfigs list configs in key order, strictly after the given entry when it is not empty
	ListConfigs(ctx context.Context, after AssetEntry, limit int) ([]*AssetConfig, error)

	// assets: AssetInfo -> (PriceSource, Complexity)
	FindAsset(ctx context.Context, info AssetInfo) (*OracleAsset, bool, error)
	SaveAsset(ctx context.Context, asset *OracleAsset) error
	DeleteAsset(ctx context.Context, info AssetInfo) error
	// ListAssets list assets in key order, strictly after the given asset when it is not nil
	ListAssets(ctx context.Context, after *AssetInfo, limit int) ([]*OracleAsset, error)

	// complexity: Complexity -> []AssetInfo
	FindLayer(ctx context.Context, complexity Complexity) ([]AssetInfo, bool, error)
	// SaveLayer saving an empty layer removes it
	SaveLayer(ctx context.Context, complexity Complexity, assets []AssetInfo) error
	// Layers populated complexities in ascending order
	Layers(ctx context.Context) ([]Complexity, error)

	// Tx run fn against a buffered view of the store, committed only if fn succeeds
	Tx(ctx context.Context, fn func(tx OracleStore) error) error
}

// IOracleService asset valuation oracle
type IOracleService interface {
	UpdateAssets(ctx context.Context, toAdd []*AssetConfig, toRemove []AssetEntry) error
	Validate(ctx context.Context) error

	AssetValue(ctx context.Context, asset Asset) (decimal.Decimal, error)
	AccountValue(ctx context.Context, account string) (*AccountValue, error)
	// TokenValue value of an amount of the asset, the account holding when amount is nil
	TokenValue(ctx context.Context, account string, entry AssetEntry, amount *decimal.Decimal) (decimal.Decimal, error)
	HoldingAmount(ctx context.Context, account string, entry AssetEntry) (decimal.Decimal, error)

	// PagedAssetInfo a nil limit means DefaultPageLimit, others are clamped to [1, ListSizeLimit]
	PagedAssetInfo(ctx context.Context, after *AssetInfo, limit *int) ([]*OracleAsset, error)
	PagedAssetConfig(ctx context.Context, after AssetEntry, limit *int) ([]*AssetConfig, error)
	AssetConfig(ctx context.Context, entry AssetEntry) (*UncheckedPriceSource, error)
	BaseAsset(ctx context.Context) (AssetInfo, error)
}

// IAssetRegistry name service resolving asset entries and dex pools
type IAssetRegistry interface {
	// ResolveAssets resolve in order, fails if any entry is unknown
	ResolveAssets(ctx context.Context, entries []AssetEntry) ([]AssetInfo, error)
	ResolveAsset(ctx context.Context, entry AssetEntry) (AssetInfo, error)
	PoolReferences(ctx context.Context, pairing DexAssetPairing) ([]PoolReference, error)
	PoolMetadata(ctx context.Context, uniqueID uint64) (*PoolMetadata, error)
}

// IBalanceReader reads on-chain balances
type IBalanceReader interface {
	Balance(ctx context.Context, asset AssetInfo, address string) (decimal.Decimal, error)
	TotalSupply(ctx context.Context, asset AssetInfo) (decimal.Decimal, error)
}
