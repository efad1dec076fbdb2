package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceSourceType price source variant
type PriceSourceType string

const (
	// PriceSourceNone the base asset
	PriceSourceNone PriceSourceType = "none"
	// PriceSourcePair a dex pairing, only used unchecked
	PriceSourcePair PriceSourceType = "pair"
	// PriceSourcePool a resolved pool, only used checked
	PriceSourcePool PriceSourceType = "pool"
	// PriceSourceLiquidityToken lp token of a pool
	PriceSourceLiquidityToken PriceSourceType = "liquidity_token"
	// PriceSourceValueAs fixed ratio of another asset
	PriceSourceValueAs PriceSourceType = "value_as"
)

// UncheckedPriceSource price source as configured by a human
type UncheckedPriceSource struct {
	Type       PriceSourceType  `json:"type"`
	Pair       *DexAssetPairing `json:"pair,omitempty"`
	Asset      AssetEntry       `json:"asset,omitempty"`
	Multiplier decimal.Decimal  `json:"multiplier,omitempty"`
}

// NoneSource base asset source
func NoneSource() UncheckedPriceSource {
	return UncheckedPriceSource{Type: PriceSourceNone}
}

// PairSource pair source
func PairSource(pairing DexAssetPairing) UncheckedPriceSource {
	return UncheckedPriceSource{Type: PriceSourcePair, Pair: &pairing}
}

// LiquidityTokenSource lp token source
func LiquidityTokenSource() UncheckedPriceSource {
	return UncheckedPriceSource{Type: PriceSourceLiquidityToken}
}

// ValueAsSource value as source
func ValueAsSource(asset AssetEntry, multiplier decimal.Decimal) UncheckedPriceSource {
	return UncheckedPriceSource{Type: PriceSourceValueAs, Asset: asset, Multiplier: multiplier}
}

// Equal compare two unchecked sources
func (s UncheckedPriceSource) Equal(o UncheckedPriceSource) bool {
	if s.Type != o.Type || s.Asset != o.Asset || !s.Multiplier.Equal(o.Multiplier) {
		return false
	}

	if s.Pair == nil || o.Pair == nil {
		return s.Pair == o.Pair
	}

	return *s.Pair == *o.Pair
}

func (s UncheckedPriceSource) String() string {
	switch s.Type {
	case PriceSourcePair:
		if s.Pair != nil {
			return fmt.Sprintf("pair(%s)", s.Pair)
		}
	case PriceSourceValueAs:
		return fmt.Sprintf("value_as(%s x %s)", s.Asset, s.Multiplier)
	}

	return string(s.Type)
}

// PriceSource checked price source, used at evaluation time
type PriceSource struct {
	Type PriceSourceType `json:"type"`
	// pool and liquidity token
	Address PoolAddress `json:"address,omitempty"`
	// pool
	Pair []AssetInfo `json:"pair,omitempty"`
	// liquidity token
	PoolAssets []AssetInfo `json:"pool_assets,omitempty"`
	// value as
	Asset      AssetInfo       `json:"asset,omitempty"`
	Multiplier decimal.Decimal `json:"multiplier,omitempty"`
}

// Dependencies the assets that must be valued before the given asset
func (s PriceSource) Dependencies(asset AssetInfo) []AssetInfo {
	switch s.Type {
	case PriceSourcePool:
		var deps []AssetInfo
		for _, a := range s.Pair {
			if a != asset {
				deps = append(deps, a)
			}
		}
		return deps
	case PriceSourceLiquidityToken:
		deps := make([]AssetInfo, len(s.PoolAssets))
		copy(deps, s.PoolAssets)
		return deps
	case PriceSourceValueAs:
		return []AssetInfo{s.Asset}
	default:
		return nil
	}
}

// Equal compare two checked sources
func (s PriceSource) Equal(o PriceSource) bool {
	if s.Type != o.Type || s.Address != o.Address || s.Asset != o.Asset || !s.Multiplier.Equal(o.Multiplier) {
		return false
	}

	return equalInfos(s.Pair, o.Pair) && equalInfos(s.PoolAssets, o.PoolAssets)
}

func equalInfos(a, b []AssetInfo) bool {
	if len(a) != len(b) {
		return false
	}

	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}

	return true
}

// AssetConversion conversion of one unit of an asset into another asset
// e.g. price source ETH/USD at 100 USD per ETH gives AssetConversion{Into: USD, Ratio: 100}
type AssetConversion struct {
	Into  AssetInfo       `json:"into"`
	Ratio decimal.Decimal `json:"ratio"`
}

// NewAssetConversion new conversion
func NewAssetConversion(into AssetInfo, ratio decimal.Decimal) AssetConversion {
	return AssetConversion{Into: into, Ratio: ratio}
}
