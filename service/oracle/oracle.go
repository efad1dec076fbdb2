package oracle

import (
	"context"
	"fmt"

	"oracle/core"

	"github.com/fox-one/pkg/logger"
)

type service struct {
	store    core.OracleStore
	registry core.IAssetRegistry
	balances core.IBalanceReader
}

// New new oracle service
func New(store core.OracleStore, registry core.IAssetRegistry, balances core.IBalanceReader) core.IOracleService {
	return &service{
		store:    store,
		registry: registry,
		balances: balances,
	}
}

// UpdateAssets remove then add assets and validate the resulting configuration.
// Nothing is persisted unless every step succeeds.
func (s *service) UpdateAssets(ctx context.Context, toAdd []*core.AssetConfig, toRemove []core.AssetEntry) error {
	log := logger.FromContext(ctx).WithField("service", "oracle")

	current, err := s.store.CountConfigs(ctx)
	if err != nil {
		return err
	}

	if current+len(toAdd)-len(toRemove) > core.ListSizeLimit {
		return fmt.Errorf("oracle list size limit exceeded (%d + %d - %d > %d): %w",
			current, len(toAdd), len(toRemove), core.ListSizeLimit, core.ErrCapacityExceeded)
	}

	err = s.store.Tx(ctx, func(tx core.OracleStore) error {
		if err := s.removeAssets(ctx, tx, toRemove); err != nil {
			return err
		}

		if err := s.addAssets(ctx, tx, toAdd); err != nil {
			return err
		}

		return validate(ctx, tx)
	})
	if err != nil {
		log.WithError(err).Debugln("update assets rejected")
		return err
	}

	log.Infof("oracle assets updated, %d added, %d removed", len(toAdd), len(toRemove))
	return nil
}

// Validate check the stored configuration
func (s *service) Validate(ctx context.Context) error {
	return validate(ctx, s.store)
}

// addAssets registers assets in the given order, dependencies must be registered first
func (s *service) addAssets(ctx context.Context, tx core.OracleStore, assets []*core.AssetConfig) error {
	if len(assets) == 0 {
		return nil
	}

	// optimistic, the whole configuration is validated afterwards
	for _, c := range assets {
		if err := tx.SaveConfig(ctx, c); err != nil {
			return err
		}
	}

	entries := make([]core.AssetEntry, len(assets))
	for idx, c := range assets {
		entries[idx] = c.Entry
	}

	infos, err := s.registry.ResolveAssets(ctx, entries)
	if err != nil {
		return err
	}

	if len(infos) != len(entries) {
		return fmt.Errorf("resolved %d of %d assets: %w", len(infos), len(entries), core.ErrUnknownAsset)
	}

	sources := make([]core.PriceSource, len(assets))
	for idx, c := range assets {
		source, err := s.checkPriceSource(ctx, c.Entry, infos[idx], c.Source)
		if err != nil {
			return err
		}
		sources[idx] = source
	}

	for idx, info := range infos {
		source := sources[idx]
		dependencies := source.Dependencies(info)
		if err := assertDependenciesExist(ctx, tx, dependencies); err != nil {
			return err
		}

		complexity, err := assetComplexity(ctx, tx, source, dependencies)
		if err != nil {
			return err
		}

		layer, _, err := tx.FindLayer(ctx, complexity)
		if err != nil {
			return err
		}

		if containsInfo(layer, info) {
			return fmt.Errorf("asset %s already registered: %w", info, core.ErrDuplicateAsset)
		}

		if err := tx.SaveLayer(ctx, complexity, append(layer, info)); err != nil {
			return err
		}

		if _, found, err := tx.FindAsset(ctx, info); err != nil {
			return err
		} else if found {
			return fmt.Errorf("asset %s already registered: %w", info, core.ErrDuplicateAsset)
		}

		if err := tx.SaveAsset(ctx, &core.OracleAsset{
			Info:        info,
			PriceSource: source,
			Complexity:  complexity,
		}); err != nil {
			return err
		}
	}

	return nil
}

// removeAssets does not cascade, dangling dependents are caught by validate
func (s *service) removeAssets(ctx context.Context, tx core.OracleStore, entries []core.AssetEntry) error {
	for _, entry := range entries {
		_, found, err := tx.FindConfig(ctx, entry)
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("asset %s not registered on oracle: %w", entry, core.ErrUnknownAsset)
		}

		if err := tx.DeleteConfig(ctx, entry); err != nil {
			return err
		}

		info, err := s.registry.ResolveAsset(ctx, entry)
		if err != nil {
			return err
		}

		asset, found, err := tx.FindAsset(ctx, info)
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("asset %s has no oracle record: %w", info, core.ErrUnknownAsset)
		}

		if err := tx.DeleteAsset(ctx, info); err != nil {
			return err
		}

		layer, _, err := tx.FindLayer(ctx, asset.Complexity)
		if err != nil {
			return err
		}

		remaining := make([]core.AssetInfo, 0, len(layer))
		for _, a := range layer {
			if a != info {
				remaining = append(remaining, a)
			}
		}

		if err := tx.SaveLayer(ctx, asset.Complexity, remaining); err != nil {
			return err
		}
	}

	return nil
}

func assertDependenciesExist(ctx context.Context, store core.OracleStore, dependencies []core.AssetInfo) error {
	for _, dependency := range dependencies {
		_, found, err := store.FindAsset(ctx, dependency)
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("asset %s not registered on oracle: %w", dependency, core.ErrUnknownAsset)
		}
	}

	return nil
}

// assetComplexity
//
//	base: 0
//	pool: paired asset + 1
//	lp: highest pool asset + 1
//	value as: referenced asset + 1
func assetComplexity(ctx context.Context, store core.OracleStore, source core.PriceSource, dependencies []core.AssetInfo) (core.Complexity, error) {
	if source.Type == core.PriceSourceNone {
		return 0, nil
	}

	if len(dependencies) == 0 {
		return 0, fmt.Errorf("%s price source without dependencies: %w", source.Type, core.ErrInvalidPriceSource)
	}

	switch source.Type {
	case core.PriceSourcePool, core.PriceSourceValueAs:
		dependencies = dependencies[:1]
	case core.PriceSourceLiquidityToken:
	default:
		return 0, fmt.Errorf("unknown price source %q: %w", source.Type, core.ErrInvalidPriceSource)
	}

	var highest core.Complexity
	for _, dependency := range dependencies {
		asset, found, err := store.FindAsset(ctx, dependency)
		if err != nil {
			return 0, err
		}

		if !found {
			return 0, fmt.Errorf("asset %s not registered on oracle: %w", dependency, core.ErrUnknownAsset)
		}

		if asset.Complexity > highest {
			highest = asset.Complexity
		}
	}

	if highest == core.Complexity(255) {
		return 0, fmt.Errorf("complexity overflow: %w", core.ErrInvalidPriceSource)
	}

	return highest + 1, nil
}

// validate walks the layers in increasing complexity and requires every dependency
// to be encountered before the assets depending on it.
func validate(ctx context.Context, store core.OracleStore) error {
	base, err := baseAsset(ctx, store)
	if err != nil {
		return err
	}

	highest, err := highestComplexity(ctx, store)
	if err != nil {
		return err
	}

	encountered := map[core.AssetInfo]bool{base: true}
	for complexity := 1; complexity <= int(highest); complexity++ {
		assets, _, err := store.FindLayer(ctx, core.Complexity(complexity))
		if err != nil {
			return err
		}

		for _, info := range assets {
			asset, found, err := store.FindAsset(ctx, info)
			if err != nil {
				return err
			}

			if !found {
				return fmt.Errorf("asset %s indexed at complexity %d has no record: %w", info, complexity, core.ErrCorruptState)
			}

			for _, dependency := range asset.PriceSource.Dependencies(info) {
				if !encountered[dependency] {
					return fmt.Errorf("asset %s is an oracle dependency but is not registered: %w", dependency, core.ErrValidationFailed)
				}
			}

			if encountered[info] {
				return fmt.Errorf("asset %s is registered twice: %w", info, core.ErrValidationFailed)
			}
			encountered[info] = true
		}
	}

	return nil
}

func containsInfo(infos []core.AssetInfo, info core.AssetInfo) bool {
	for _, a := range infos {
		if a == info {
			return true
		}
	}

	return false
}
