package oracle

import (
	"context"
	"fmt"

	"oracle/core"
	"oracle/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// AssetValue value of a single asset by recursive conversion into the base asset.
// Does not use the conversion cache.
func (s *service) AssetValue(ctx context.Context, asset core.Asset) (decimal.Decimal, error) {
	if !number.IsAmount(asset.Amount) {
		return decimal.Zero, fmt.Errorf("amount %s: %w", asset.Amount, core.ErrInvalidAmount)
	}

	return s.assetValue(ctx, asset)
}

func (s *service) assetValue(ctx context.Context, asset core.Asset) (decimal.Decimal, error) {
	record, found, err := s.store.FindAsset(ctx, asset.Info)
	if err != nil {
		return decimal.Zero, err
	}

	if !found {
		return decimal.Zero, fmt.Errorf("asset %s not registered on oracle: %w", asset.Info, core.ErrUnknownAsset)
	}

	if len(record.PriceSource.Dependencies(asset.Info)) == 0 {
		if record.Complexity != 0 {
			return decimal.Zero, fmt.Errorf("asset %s at complexity %d has no dependencies: %w", asset.Info, record.Complexity, core.ErrCorruptState)
		}

		return asset.Amount, nil
	}

	rates, err := s.conversionRates(ctx, record.PriceSource, asset.Info)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, converted := range convert(rates, asset.Amount) {
		value, err := s.assetValue(ctx, converted)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(value)
	}

	return total, nil
}

// AccountValue total value of the account holdings.
//
//  1. take the assets of the highest complexity not visited yet
//  2. add every asset balance to the amounts already converted into it
//  3. convert those amounts into the asset dependencies and cache them there
//  4. repeat down to the base asset, whose cached amounts sum to the total
func (s *service) AccountValue(ctx context.Context, account string) (*core.AccountValue, error) {
	log := logger.FromContext(ctx).WithField("account", account)

	layers, err := s.store.Layers(ctx)
	if err != nil {
		return nil, err
	}

	if len(layers) == 0 {
		return nil, fmt.Errorf("no complexity layer registered: %w", core.ErrCorruptState)
	}

	log.Debugln("start complexity:", layers[len(layers)-1])

	var cache valueCache
	for idx := len(layers) - 1; idx >= 0; idx-- {
		complexity := layers[idx]
		assets, found, err := s.store.FindLayer(ctx, complexity)
		if err != nil {
			return nil, err
		}

		if !found {
			return nil, fmt.Errorf("complexity layer %d missing: %w", complexity, core.ErrCorruptState)
		}

		for _, info := range assets {
			record, found, err := s.store.FindAsset(ctx, info)
			if err != nil {
				return nil, err
			}

			if !found {
				return nil, fmt.Errorf("asset %s indexed at complexity %d has no record: %w", info, complexity, core.ErrCorruptState)
			}

			balance, err := s.balances.Balance(ctx, info, account)
			if err != nil {
				return nil, err
			}

			balances := append(cache.take(info), core.NewAsset(info, balance))
			log.Debugf("%s: %s, cached: %d", info, balance, len(balances)-1)

			if len(record.PriceSource.Dependencies(info)) == 0 {
				if complexity != 0 || record.Complexity != 0 {
					return nil, fmt.Errorf("asset %s at complexity %d has no dependencies: %w", info, complexity, core.ErrCorruptState)
				}

				total := decimal.Zero
				for _, b := range balances {
					total = total.Add(b.Amount)
				}

				return &core.AccountValue{
					TotalValue: core.NewAsset(info, total),
					Breakdown:  balances,
				}, nil
			}

			rates, err := s.conversionRates(ctx, record.PriceSource, info)
			if err != nil {
				return nil, err
			}

			cache.add(balances, rates)
		}
	}

	return nil, fmt.Errorf("base asset never reached: %w", core.ErrCorruptState)
}

// TokenValue value of amount of the entry, defaults to the account holding
func (s *service) TokenValue(ctx context.Context, account string, entry core.AssetEntry, amount *decimal.Decimal) (decimal.Decimal, error) {
	info, err := s.registry.ResolveAsset(ctx, entry)
	if err != nil {
		return decimal.Zero, err
	}

	var value decimal.Decimal
	if amount != nil {
		value = *amount
	} else if value, err = s.balances.Balance(ctx, info, account); err != nil {
		return decimal.Zero, err
	}

	return s.AssetValue(ctx, core.NewAsset(info, value))
}

// HoldingAmount live balance of the entry held by account
func (s *service) HoldingAmount(ctx context.Context, account string, entry core.AssetEntry) (decimal.Decimal, error) {
	info, err := s.registry.ResolveAsset(ctx, entry)
	if err != nil {
		return decimal.Zero, err
	}

	return s.balances.Balance(ctx, info, account)
}

// valueCache amounts already converted into a not yet visited asset, keyed by target asset.
// Lives for a single AccountValue call.
type valueCache []cachedValues

type cachedValues struct {
	target   core.AssetInfo
	balances []core.Asset
}

// take remove and return the amounts waiting for target
func (c *valueCache) take(target core.AssetInfo) []core.Asset {
	entries := *c
	for idx := range entries {
		if entries[idx].target == target {
			balances := entries[idx].balances
			last := len(entries) - 1
			entries[idx] = entries[last]
			*c = entries[:last]
			return balances
		}
	}

	return nil
}

// add convert every source balance with rates and queue the results at their targets
func (c *valueCache) add(balances []core.Asset, rates []core.AssetConversion) {
	for _, source := range balances {
		for _, converted := range convert(rates, source.Amount) {
			c.push(converted.Info, core.NewAsset(source.Info, converted.Amount))
		}
	}
}

func (c *valueCache) push(target core.AssetInfo, value core.Asset) {
	for idx := range *c {
		if (*c)[idx].target == target {
			(*c)[idx].balances = append((*c)[idx].balances, value)
			return
		}
	}

	*c = append(*c, cachedValues{target: target, balances: []core.Asset{value}})
}
