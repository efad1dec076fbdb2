package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AssetEntry human readable asset name, e.g. "eur" or "junoswap/crab,junox"
type AssetEntry string

// NewAssetEntry normalize a name into an asset entry
func NewAssetEntry(name string) AssetEntry {
	return AssetEntry(strings.ToLower(strings.TrimSpace(name)))
}

func (e AssetEntry) String() string {
	return string(e)
}

// AssetKind kind of on-chain asset
type AssetKind string

const (
	// AssetKindNative bank denom
	AssetKindNative AssetKind = "native"
	// AssetKindCw20 token contract
	AssetKindCw20 AssetKind = "cw20"
)

// AssetInfo canonical asset identity
type AssetInfo struct {
	Kind AssetKind `json:"kind"`
	// Ref denom for native assets, contract address for cw20 tokens
	Ref string `json:"ref"`
}

// NativeAsset native asset info
func NativeAsset(denom string) AssetInfo {
	return AssetInfo{Kind: AssetKindNative, Ref: denom}
}

// Cw20Asset cw20 token info
func Cw20Asset(address string) AssetInfo {
	return AssetInfo{Kind: AssetKindCw20, Ref: address}
}

// ParseAssetInfo parse the key form produced by AssetInfo.Key
func ParseAssetInfo(key string) (AssetInfo, error) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return AssetInfo{}, fmt.Errorf("invalid asset info %q", key)
	}

	info := AssetInfo{Kind: AssetKind(parts[0]), Ref: parts[1]}
	if !info.Valid() {
		return AssetInfo{}, fmt.Errorf("invalid asset kind %q", parts[0])
	}

	return info, nil
}

// Valid check the kind and reference
func (a AssetInfo) Valid() bool {
	switch a.Kind {
	case AssetKindNative, AssetKindCw20:
		return a.Ref != ""
	default:
		return false
	}
}

// IsCw20 is a token contract
func (a AssetInfo) IsCw20() bool {
	return a.Kind == AssetKindCw20
}

// Key storage and ordering key
func (a AssetInfo) Key() string {
	return string(a.Kind) + ":" + a.Ref
}

func (a AssetInfo) String() string {
	return a.Key()
}

// Asset an amount of some asset
type Asset struct {
	Info   AssetInfo       `json:"info"`
	Amount decimal.Decimal `json:"amount"`
}

// NewAsset new asset
func NewAsset(info AssetInfo, amount decimal.Decimal) Asset {
	return Asset{Info: info, Amount: amount}
}

func (a Asset) String() string {
	return fmt.Sprintf("%s:%s", a.Info, a.Amount)
}

// DexAssetPairing the key of an asset pairing on a dex
type DexAssetPairing struct {
	AssetX AssetEntry `json:"asset_x"`
	AssetY AssetEntry `json:"asset_y"`
	Dex    string     `json:"dex"`
}

// NewDexAssetPairing new pairing, dex names are case insensitive
func NewDexAssetPairing(x, y AssetEntry, dex string) DexAssetPairing {
	return DexAssetPairing{
		AssetX: x,
		AssetY: y,
		Dex:    strings.ToLower(dex),
	}
}

// Contains is the entry one of the paired assets
func (p DexAssetPairing) Contains(entry AssetEntry) bool {
	return p.AssetX == entry || p.AssetY == entry
}

func (p DexAssetPairing) String() string {
	return fmt.Sprintf("%s:%s-%s", p.Dex, p.AssetX, p.AssetY)
}

// PoolAddress either a contract address or a numeric pool id
type PoolAddress struct {
	Contract string `json:"contract,omitempty"`
	ID       uint64 `json:"id,omitempty"`
}

// ExpectContract the contract address, fails for id pools
func (p PoolAddress) ExpectContract() (string, error) {
	if p.Contract == "" {
		return "", fmt.Errorf("pool %d is not a contract: %w", p.ID, ErrInvalidPriceSource)
	}

	return p.Contract, nil
}

func (p PoolAddress) String() string {
	if p.Contract != "" {
		return p.Contract
	}

	return fmt.Sprintf("pool:%d", p.ID)
}

// PoolReference pool registered for a pairing
type PoolReference struct {
	UniqueID    uint64      `json:"unique_id" yaml:"unique_id"`
	PoolAddress PoolAddress `json:"pool_address" yaml:"pool_address"`
}

// PoolMetadata pool metadata
type PoolMetadata struct {
	Dex      string       `json:"dex"`
	PoolType string       `json:"pool_type"`
	Assets   []AssetEntry `json:"assets"`
}

// LpToken liquidity token name, formatted as "<dex>/<asset>,<asset>"
type LpToken struct {
	Dex    string
	Assets []AssetEntry
}

// ParseLpToken parse an lp token entry
func ParseLpToken(entry AssetEntry) (*LpToken, error) {
	parts := strings.SplitN(entry.String(), "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("entry %s is not a valid LP token: %w", entry, ErrInvalidPriceSource)
	}

	names := strings.Split(parts[1], ",")
	if len(names) < 2 {
		return nil, fmt.Errorf("LP token %s must contain at least two assets: %w", entry, ErrInvalidPriceSource)
	}

	lp := &LpToken{Dex: parts[0]}
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("LP token %s has an empty asset name: %w", entry, ErrInvalidPriceSource)
		}
		lp.Assets = append(lp.Assets, NewAssetEntry(name))
	}

	return lp, nil
}

// Pairing pairing of the first two assets of the token in sorted order
func (lp *LpToken) Pairing() DexAssetPairing {
	assets := make([]AssetEntry, len(lp.Assets))
	copy(assets, lp.Assets)
	sort.Slice(assets, func(i, j int) bool { return assets[i] < assets[j] })

	return NewDexAssetPairing(assets[0], assets[1], lp.Dex)
}

func (lp *LpToken) String() string {
	names := make([]string, len(lp.Assets))
	for idx, a := range lp.Assets {
		names[idx] = a.String()
	}

	return lp.Dex + "/" + strings.Join(names, ",")
}
