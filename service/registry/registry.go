package registry

import (
	"context"
	"fmt"
	"os"

	"oracle/core"

	"gopkg.in/yaml.v3"
)

// Pool dex pool as written in the registry file
type Pool struct {
	UniqueID uint64   `yaml:"unique_id"`
	Dex      string   `yaml:"dex"`
	PoolType string   `yaml:"pool_type"`
	Contract string   `yaml:"contract"`
	ID       uint64   `yaml:"id"`
	Assets   []string `yaml:"assets"`
}

// File registry file layout
type File struct {
	// Assets entry name -> asset info key, e.g. "usd: native:uusd"
	Assets map[string]string `yaml:"assets"`
	Pools  []*Pool           `yaml:"pools"`
}

type registry struct {
	assets   map[core.AssetEntry]core.AssetInfo
	pairings map[core.DexAssetPairing][]core.PoolReference
	pools    map[uint64]*core.PoolMetadata
}

// Load load registry from a yaml file
func Load(filename string) (core.IAssetRegistry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", filename, err)
	}

	return New(&f)
}

// New new static registry
func New(f *File) (core.IAssetRegistry, error) {
	r := &registry{
		assets:   make(map[core.AssetEntry]core.AssetInfo, len(f.Assets)),
		pairings: map[core.DexAssetPairing][]core.PoolReference{},
		pools:    make(map[uint64]*core.PoolMetadata, len(f.Pools)),
	}

	for name, key := range f.Assets {
		info, err := core.ParseAssetInfo(key)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", name, err)
		}
		r.assets[core.NewAssetEntry(name)] = info
	}

	for _, p := range f.Pools {
		if _, ok := r.pools[p.UniqueID]; ok {
			return nil, fmt.Errorf("pool %d registered twice", p.UniqueID)
		}

		metadata := &core.PoolMetadata{
			Dex:      p.Dex,
			PoolType: p.PoolType,
		}
		for _, name := range p.Assets {
			metadata.Assets = append(metadata.Assets, core.NewAssetEntry(name))
		}
		r.pools[p.UniqueID] = metadata

		ref := core.PoolReference{
			UniqueID:    p.UniqueID,
			PoolAddress: core.PoolAddress{Contract: p.Contract, ID: p.ID},
		}

		// pairings are registered in both directions
		for _, x := range metadata.Assets {
			for _, y := range metadata.Assets {
				if x == y {
					continue
				}

				pairing := core.NewDexAssetPairing(x, y, p.Dex)
				r.pairings[pairing] = append(r.pairings[pairing], ref)
			}
		}
	}

	return r, nil
}

func (r *registry) ResolveAssets(ctx context.Context, entries []core.AssetEntry) ([]core.AssetInfo, error) {
	infos := make([]core.AssetInfo, len(entries))
	for idx, entry := range entries {
		info, err := r.ResolveAsset(ctx, entry)
		if err != nil {
			return nil, err
		}
		infos[idx] = info
	}

	return infos, nil
}

func (r *registry) ResolveAsset(ctx context.Context, entry core.AssetEntry) (core.AssetInfo, error) {
	info, ok := r.assets[entry]
	if !ok {
		return core.AssetInfo{}, fmt.Errorf("asset %s not found in registry: %w", entry, core.ErrUnknownAsset)
	}

	return info, nil
}

func (r *registry) PoolReferences(ctx context.Context, pairing core.DexAssetPairing) ([]core.PoolReference, error) {
	refs, ok := r.pairings[pairing]
	if !ok {
		return nil, fmt.Errorf("pairing %s not found in registry: %w", pairing, core.ErrInvalidPriceSource)
	}

	out := make([]core.PoolReference, len(refs))
	copy(out, refs)
	return out, nil
}

func (r *registry) PoolMetadata(ctx context.Context, uniqueID uint64) (*core.PoolMetadata, error) {
	metadata, ok := r.pools[uniqueID]
	if !ok {
		return nil, fmt.Errorf("pool %d not found in registry: %w", uniqueID, core.ErrInvalidPriceSource)
	}

	m := *metadata
	m.Assets = append([]core.AssetEntry(nil), metadata.Assets...)
	return &m, nil
}
