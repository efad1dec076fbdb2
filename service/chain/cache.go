package chain

import (
	"context"
	"fmt"
	"time"

	"oracle/core"

	"github.com/bluele/gcache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Cache keeps balances read from the chain for exp, concurrent reads of the same key share one query
func Cache(reader core.IBalanceReader, exp time.Duration) core.IBalanceReader {
	if exp <= 0 {
		return reader
	}

	return &cacheBalanceReader{
		IBalanceReader: reader,
		cache:          gcache.New(2048).LRU().Expiration(exp).Build(),
		sf:             &singleflight.Group{},
	}
}

type cacheBalanceReader struct {
	core.IBalanceReader
	cache gcache.Cache
	sf    *singleflight.Group
}

func (r *cacheBalanceReader) Balance(ctx context.Context, asset core.AssetInfo, address string) (decimal.Decimal, error) {
	return r.load(r.balanceKey(asset, address), func() (decimal.Decimal, error) {
		return r.IBalanceReader.Balance(ctx, asset, address)
	})
}

func (r *cacheBalanceReader) TotalSupply(ctx context.Context, asset core.AssetInfo) (decimal.Decimal, error) {
	return r.load(r.supplyKey(asset), func() (decimal.Decimal, error) {
		return r.IBalanceReader.TotalSupply(ctx, asset)
	})
}

func (r *cacheBalanceReader) load(key string, fn func() (decimal.Decimal, error)) (decimal.Decimal, error) {
	if v, err := r.cache.Get(key); err == nil {
		if amount, ok := v.(decimal.Decimal); ok {
			return amount, nil
		}
	}

	v, err, _ := r.sf.Do(key, func() (interface{}, error) {
		amount, err := fn()
		if err != nil {
			return nil, err
		}

		_ = r.cache.Set(key, amount)
		return amount, nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return v.(decimal.Decimal), nil
}

func (r *cacheBalanceReader) balanceKey(asset core.AssetInfo, address string) string {
	return fmt.Sprintf("balance:%s:%s", address, asset.Key())
}

func (r *cacheBalanceReader) supplyKey(asset core.AssetInfo) string {
	return fmt.Sprintf("supply:%s", asset.Key())
}
