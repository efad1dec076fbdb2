package oracle

import (
	"context"
	"fmt"

	"oracle/core"
	"oracle/pkg/number"

	"github.com/shopspring/decimal"
)

// checkPriceSource resolve a configured price source for the asset registered as entry
func (s *service) checkPriceSource(ctx context.Context, entry core.AssetEntry, info core.AssetInfo, source core.UncheckedPriceSource) (core.PriceSource, error) {
	switch source.Type {
	case core.PriceSourceNone:
		return core.PriceSource{Type: core.PriceSourceNone}, nil
	case core.PriceSourcePair:
		return s.checkPair(ctx, entry, info, source.Pair)
	case core.PriceSourceLiquidityToken:
		return s.checkLiquidityToken(ctx, entry, info)
	case core.PriceSourceValueAs:
		return s.checkValueAs(ctx, entry, info, source)
	default:
		return core.PriceSource{}, fmt.Errorf("unknown price source %q for %s: %w", source.Type, entry, core.ErrInvalidPriceSource)
	}
}

func (s *service) checkPair(ctx context.Context, entry core.AssetEntry, info core.AssetInfo, pairing *core.DexAssetPairing) (core.PriceSource, error) {
	if pairing == nil {
		return core.PriceSource{}, fmt.Errorf("pair price source of %s has no pairing: %w", entry, core.ErrInvalidPriceSource)
	}

	if pairing.AssetX == pairing.AssetY || !pairing.Contains(entry) {
		return core.PriceSource{}, fmt.Errorf("pairing %s can not price %s: %w", pairing, entry, core.ErrInvalidPriceSource)
	}

	ref, err := s.lastPoolReference(ctx, *pairing)
	if err != nil {
		return core.PriceSource{}, err
	}

	metadata, err := s.registry.PoolMetadata(ctx, ref.UniqueID)
	if err != nil {
		return core.PriceSource{}, err
	}

	pair, err := s.registry.ResolveAssets(ctx, metadata.Assets)
	if err != nil {
		return core.PriceSource{}, err
	}

	if len(pair) != 2 {
		return core.PriceSource{}, fmt.Errorf("pool %d has %d assets, want 2: %w", ref.UniqueID, len(pair), core.ErrInvalidPriceSource)
	}

	if _, err := ref.PoolAddress.ExpectContract(); err != nil {
		return core.PriceSource{}, err
	}

	if !containsInfo(pair, info) || pair[0] == pair[1] {
		return core.PriceSource{}, fmt.Errorf("pool %d does not pair %s with another asset: %w", ref.UniqueID, info, core.ErrInvalidPriceSource)
	}

	return core.PriceSource{
		Type:    core.PriceSourcePool,
		Address: ref.PoolAddress,
		Pair:    pair,
	}, nil
}

func (s *service) checkLiquidityToken(ctx context.Context, entry core.AssetEntry, info core.AssetInfo) (core.PriceSource, error) {
	lp, err := core.ParseLpToken(entry)
	if err != nil {
		return core.PriceSource{}, err
	}

	poolAssets, err := s.registry.ResolveAssets(ctx, lp.Assets)
	if err != nil {
		return core.PriceSource{}, err
	}

	if containsInfo(poolAssets, info) {
		return core.PriceSource{}, fmt.Errorf("LP token %s can not be one of its pool assets: %w", entry, core.ErrInvalidPriceSource)
	}

	ref, err := s.lastPoolReference(ctx, lp.Pairing())
	if err != nil {
		return core.PriceSource{}, err
	}

	return core.PriceSource{
		Type:       core.PriceSourceLiquidityToken,
		Address:    ref.PoolAddress,
		PoolAssets: poolAssets,
	}, nil
}

func (s *service) checkValueAs(ctx context.Context, entry core.AssetEntry, info core.AssetInfo, source core.UncheckedPriceSource) (core.PriceSource, error) {
	if source.Asset == "" || source.Asset == entry {
		return core.PriceSource{}, fmt.Errorf("%s can not be valued as %q: %w", entry, source.Asset, core.ErrInvalidPriceSource)
	}

	if source.Multiplier.IsNegative() {
		return core.PriceSource{}, fmt.Errorf("negative multiplier %s: %w", source.Multiplier, core.ErrInvalidPriceSource)
	}

	asset, err := s.registry.ResolveAsset(ctx, source.Asset)
	if err != nil {
		return core.PriceSource{}, err
	}

	if asset == info {
		return core.PriceSource{}, fmt.Errorf("%s resolves to itself: %w", source.Asset, core.ErrInvalidPriceSource)
	}

	return core.PriceSource{
		Type:       core.PriceSourceValueAs,
		Asset:      asset,
		Multiplier: number.Rate(source.Multiplier),
	}, nil
}

func (s *service) lastPoolReference(ctx context.Context, pairing core.DexAssetPairing) (*core.PoolReference, error) {
	refs, err := s.registry.PoolReferences(ctx, pairing)
	if err != nil {
		return nil, err
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("no pool registered for pairing %s: %w", pairing, core.ErrInvalidPriceSource)
	}

	ref := refs[len(refs)-1]
	return &ref, nil
}

// conversionRates rates converting one unit of asset into its dependencies.
// Empty for the base asset.
func (s *service) conversionRates(ctx context.Context, source core.PriceSource, asset core.AssetInfo) ([]core.AssetConversion, error) {
	switch source.Type {
	case core.PriceSourceNone:
		return nil, nil
	case core.PriceSourcePool:
		address, err := source.Address.ExpectContract()
		if err != nil {
			return nil, err
		}

		rate, err := s.tradePairPrice(ctx, asset, address, source.Pair)
		if err != nil {
			return nil, err
		}

		return []core.AssetConversion{rate}, nil
	case core.PriceSourceLiquidityToken:
		address, err := source.Address.ExpectContract()
		if err != nil {
			return nil, err
		}

		return s.lpConversion(ctx, asset, address, source.PoolAssets)
	case core.PriceSourceValueAs:
		return []core.AssetConversion{core.NewAssetConversion(source.Asset, source.Multiplier)}, nil
	default:
		return nil, fmt.Errorf("unknown price source %q: %w", source.Type, core.ErrInvalidPriceSource)
	}
}

// tradePairPrice price of asset in the other pool asset, pool_other / pool_this
func (s *service) tradePairPrice(ctx context.Context, asset core.AssetInfo, pool string, pair []core.AssetInfo) (core.AssetConversion, error) {
	var other *core.AssetInfo
	for idx := range pair {
		if pair[idx] != asset {
			other = &pair[idx]
			break
		}
	}

	if other == nil {
		return core.AssetConversion{}, fmt.Errorf("pool %s has no counter asset for %s: %w", pool, asset, core.ErrInvalidPriceSource)
	}

	otherBalance, err := s.balances.Balance(ctx, *other, pool)
	if err != nil {
		return core.AssetConversion{}, err
	}

	balance, err := s.balances.Balance(ctx, asset, pool)
	if err != nil {
		return core.AssetConversion{}, err
	}

	ratio, err := number.Ratio(otherBalance, balance)
	if err != nil {
		return core.AssetConversion{}, fmt.Errorf("pool %s holds no %s: %w", pool, asset, core.ErrInvalidPrice)
	}

	return core.NewAssetConversion(*other, ratio), nil
}

// lpConversion share of every pool asset backing one lp token
func (s *service) lpConversion(ctx context.Context, lp core.AssetInfo, pool string, poolAssets []core.AssetInfo) ([]core.AssetConversion, error) {
	if !lp.IsCw20() {
		return nil, fmt.Errorf("can't have a native LP token: %w", core.ErrInvalidPriceSource)
	}

	supply, err := s.balances.TotalSupply(ctx, lp)
	if err != nil {
		return nil, err
	}

	rates := make([]core.AssetConversion, 0, len(poolAssets))
	for _, asset := range poolAssets {
		balance, err := s.balances.Balance(ctx, asset, pool)
		if err != nil {
			return nil, err
		}

		ratio := decimal.Zero
		if !supply.IsZero() {
			if ratio, err = number.Ratio(balance, supply); err != nil {
				return nil, err
			}
		}

		rates = append(rates, core.NewAssetConversion(asset, ratio))
	}

	return rates, nil
}

// convert split an amount into its dependencies, rounding down
func convert(rates []core.AssetConversion, amount decimal.Decimal) []core.Asset {
	assets := make([]core.Asset, len(rates))
	for idx, rate := range rates {
		assets[idx] = core.NewAsset(rate.Into, number.MulFloor(amount, rate.Ratio))
	}

	return assets
}
