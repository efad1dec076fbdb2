package oracle

import (
	"context"
	"fmt"

	"oracle/core"
)

func (s *service) PagedAssetInfo(ctx context.Context, after *core.AssetInfo, limit *int) ([]*core.OracleAsset, error) {
	return s.store.ListAssets(ctx, after, pageLimit(limit))
}

func (s *service) PagedAssetConfig(ctx context.Context, after core.AssetEntry, limit *int) ([]*core.AssetConfig, error) {
	return s.store.ListConfigs(ctx, after, pageLimit(limit))
}

func (s *service) AssetConfig(ctx context.Context, entry core.AssetEntry) (*core.UncheckedPriceSource, error) {
	config, found, err := s.store.FindConfig(ctx, entry)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, fmt.Errorf("asset %s not registered on oracle: %w", entry, core.ErrUnknownAsset)
	}

	return &config.Source, nil
}

func (s *service) BaseAsset(ctx context.Context) (core.AssetInfo, error) {
	return baseAsset(ctx, s.store)
}

// pageLimit an absent limit falls back to the default page size
func pageLimit(limit *int) int {
	switch {
	case limit == nil:
		return core.DefaultPageLimit
	case *limit < 1:
		return 1
	case *limit > core.ListSizeLimit:
		return core.ListSizeLimit
	default:
		return *limit
	}
}

func baseAsset(ctx context.Context, store core.OracleStore) (core.AssetInfo, error) {
	assets, found, err := store.FindLayer(ctx, 0)
	if err != nil {
		return core.AssetInfo{}, err
	}

	if !found || len(assets) == 0 {
		return core.AssetInfo{}, fmt.Errorf("no base asset registered: %w", core.ErrValidationFailed)
	}

	if len(assets) != 1 {
		return core.AssetInfo{}, fmt.Errorf("%d base assets registered, must be 1: %w", len(assets), core.ErrValidationFailed)
	}

	return assets[0], nil
}

func highestComplexity(ctx context.Context, store core.OracleStore) (core.Complexity, error) {
	layers, err := store.Layers(ctx)
	if err != nil {
		return 0, err
	}

	if len(layers) == 0 {
		return 0, fmt.Errorf("no complexity layer registered: %w", core.ErrCorruptState)
	}

	return layers[len(layers)-1], nil
}
