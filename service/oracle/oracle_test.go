package oracle

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"oracle/core"
	"oracle/service/registry"
	storeoracle "oracle/store/oracle"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccount = "juno1account"
	testPool    = "juno1pool"
	testLpEntry = "junoswap/crab,juno"
)

var (
	usd  = core.NativeAsset("uusd")
	eur  = core.NativeAsset("ueur")
	juno = core.NativeAsset("ujuno")
	crab = core.Cw20Asset("juno1crab")
	lp   = core.Cw20Asset("juno1lp")
)

type balanceReader struct {
	balances map[string]decimal.Decimal
	supplies map[core.AssetInfo]decimal.Decimal
}

func newBalanceReader() *balanceReader {
	return &balanceReader{
		balances: map[string]decimal.Decimal{},
		supplies: map[core.AssetInfo]decimal.Decimal{},
	}
}

func (b *balanceReader) set(address string, info core.AssetInfo, amount int64) {
	b.balances[address+"/"+info.Key()] = decimal.NewFromInt(amount)
}

func (b *balanceReader) Balance(_ context.Context, asset core.AssetInfo, address string) (decimal.Decimal, error) {
	return b.balances[address+"/"+asset.Key()], nil
}

func (b *balanceReader) TotalSupply(_ context.Context, asset core.AssetInfo) (decimal.Decimal, error) {
	return b.supplies[asset], nil
}

type testOracle struct {
	*service
	store    core.OracleStore
	balances *balanceReader
}

func newSQLStore(t *testing.T) core.OracleStore {
	conn, err := db.Open(db.Config{
		Dialect: "sqlite3",
		Host:    filepath.Join(t.TempDir(), "oracle.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(conn))
	return storeoracle.New(conn)
}

// forEachStore runs fn against every oracle store implementation
func forEachStore(t *testing.T, fn func(t *testing.T, store core.OracleStore)) {
	t.Run("kv", func(t *testing.T) {
		fn(t, storeoracle.NewMemory())
	})

	t.Run("sql", func(t *testing.T) {
		fn(t, newSQLStore(t))
	})
}

func newTestOracle(t *testing.T, store core.OracleStore) *testOracle {
	f := &registry.File{
		Assets: map[string]string{
			"usd":       usd.Key(),
			"eur":       eur.Key(),
			"juno":      juno.Key(),
			"crab":      crab.Key(),
			testLpEntry: lp.Key(),
		},
		Pools: []*registry.Pool{
			{
				UniqueID: 1,
				Dex:      "junoswap",
				PoolType: "constant_product",
				Contract: testPool,
				Assets:   []string{"crab", "juno"},
			},
		},
	}

	for idx := 1; idx <= core.ListSizeLimit; idx++ {
		name := fmt.Sprintf("a%02d", idx)
		f.Assets[name] = core.NativeAsset("u" + name).Key()
	}

	r, err := registry.New(f)
	require.NoError(t, err)

	balances := newBalanceReader()

	return &testOracle{
		service:  New(store, r, balances).(*service),
		store:    store,
		balances: balances,
	}
}

func pageSize(n int) *int {
	return &n
}

func base() *core.AssetConfig {
	return &core.AssetConfig{Entry: "usd", Source: core.NoneSource()}
}

func valueAs(entry, asset core.AssetEntry, multiplier string) *core.AssetConfig {
	return &core.AssetConfig{
		Entry:  entry,
		Source: core.ValueAsSource(asset, decimal.RequireFromString(multiplier)),
	}
}

func (o *testOracle) configCount(t *testing.T) int {
	count, err := o.store.CountConfigs(context.Background())
	require.NoError(t, err)
	return count
}

func TestValidateBaseAsset(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		// empty oracle
		assert.ErrorIs(t, o.Validate(ctx), core.ErrValidationFailed)

		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{base()}, nil))
		require.NoError(t, o.Validate(ctx))

		info, err := o.BaseAsset(ctx)
		require.NoError(t, err)
		assert.Equal(t, usd, info)

		// a second base asset is rejected and nothing is persisted
		err = o.UpdateAssets(ctx, []*core.AssetConfig{{Entry: "eur", Source: core.NoneSource()}}, nil)
		assert.ErrorIs(t, err, core.ErrValidationFailed)
		assert.Equal(t, 1, o.configCount(t))

		_, err = o.AssetConfig(ctx, "eur")
		assert.ErrorIs(t, err, core.ErrUnknownAsset)
	})
}

func TestUpdateAssetsDependencyOrder(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		// dependency listed after its dependent in the same batch
		err := o.UpdateAssets(ctx, []*core.AssetConfig{valueAs("eur", "usd", "0.5"), base()}, nil)
		assert.ErrorIs(t, err, core.ErrUnknownAsset)
		assert.Equal(t, 0, o.configCount(t))

		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{base(), valueAs("eur", "usd", "0.5")}, nil))

		asset, found, err := o.store.FindAsset(ctx, eur)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, core.Complexity(1), asset.Complexity)
		assert.Equal(t, []core.AssetInfo{usd}, asset.PriceSource.Dependencies(eur))
	})
}

func TestUpdateAssetsDuplicate(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		// same batch
		err := o.UpdateAssets(ctx, []*core.AssetConfig{base(), valueAs("eur", "usd", "0.5"), valueAs("eur", "usd", "0.5")}, nil)
		assert.ErrorIs(t, err, core.ErrDuplicateAsset)
		assert.Equal(t, 0, o.configCount(t))

		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{base(), valueAs("eur", "usd", "0.5")}, nil))

		// across calls
		err = o.UpdateAssets(ctx, []*core.AssetConfig{valueAs("eur", "usd", "0.7")}, nil)
		assert.ErrorIs(t, err, core.ErrDuplicateAsset)

		source, err := o.AssetConfig(ctx, "eur")
		require.NoError(t, err)
		assert.True(t, source.Equal(core.ValueAsSource("usd", decimal.RequireFromString("0.5"))))
	})
}

func TestUpdateAssetsCapacity(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		configs := []*core.AssetConfig{base()}
		for idx := 1; idx < core.ListSizeLimit; idx++ {
			configs = append(configs, valueAs(core.AssetEntry(fmt.Sprintf("a%02d", idx)), "usd", "1"))
		}
		require.NoError(t, o.UpdateAssets(ctx, configs, nil))
		require.Equal(t, core.ListSizeLimit, o.configCount(t))

		before, err := o.PagedAssetConfig(ctx, "", pageSize(core.ListSizeLimit))
		require.NoError(t, err)

		err = o.UpdateAssets(ctx, []*core.AssetConfig{valueAs("a15", "usd", "1")}, nil)
		assert.ErrorIs(t, err, core.ErrCapacityExceeded)

		after, err := o.PagedAssetConfig(ctx, "", pageSize(core.ListSizeLimit))
		require.NoError(t, err)
		assert.Equal(t, before, after)

		// replacing keeps the oracle within the limit
		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{valueAs("a15", "usd", "1")}, []core.AssetEntry{"a14"}))
		assert.Equal(t, core.ListSizeLimit, o.configCount(t))
	})
}

func TestRemoveAssets(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{base(), valueAs("eur", "usd", "0.5")}, nil))

		err := o.UpdateAssets(ctx, nil, []core.AssetEntry{"juno"})
		assert.ErrorIs(t, err, core.ErrUnknownAsset)

		// eur still depends on usd
		err = o.UpdateAssets(ctx, nil, []core.AssetEntry{"usd"})
		assert.ErrorIs(t, err, core.ErrValidationFailed)
		assert.Equal(t, 2, o.configCount(t))

		require.NoError(t, o.UpdateAssets(ctx, nil, []core.AssetEntry{"eur"}))

		_, found, err := o.store.FindAsset(ctx, eur)
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = o.store.FindLayer(ctx, 1)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRemoveThenReAdd(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{
			base(),
			valueAs("eur", "usd", "0.5"),
			valueAs("a01", "usd", "2"),
		}, nil))

		snapshot := func() ([]*core.AssetConfig, []*core.OracleAsset, []core.AssetInfo) {
			configs, err := o.PagedAssetConfig(ctx, "", pageSize(core.ListSizeLimit))
			require.NoError(t, err)
			assets, err := o.PagedAssetInfo(ctx, nil, pageSize(core.ListSizeLimit))
			require.NoError(t, err)
			layer, _, err := o.store.FindLayer(ctx, 1)
			require.NoError(t, err)
			return configs, assets, layer
		}

		configs, assets, layer := snapshot()

		require.NoError(t, o.UpdateAssets(ctx, nil, []core.AssetEntry{"eur"}))
		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{valueAs("eur", "usd", "0.5")}, nil))

		configs2, assets2, layer2 := snapshot()
		assert.Equal(t, configs, configs2)
		assert.Equal(t, assets, assets2)
		assert.ElementsMatch(t, layer, layer2)
	})
}

func TestInvalidPriceSources(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{base()}, nil))

		for name, config := range map[string]*core.AssetConfig{
			"value as itself": valueAs("eur", "eur", "1"),
			"negative":        valueAs("eur", "usd", "-1"),
			"pair without entry": {
				Entry:  "eur",
				Source: core.PairSource(core.NewDexAssetPairing("crab", "juno", "junoswap")),
			},
			"unknown pairing": {
				Entry:  "eur",
				Source: core.PairSource(core.NewDexAssetPairing("eur", "usd", "junoswap")),
			},
			"lp without pool": {
				Entry:  "crab",
				Source: core.LiquidityTokenSource(),
			},
		} {
			t.Run(name, func(t *testing.T) {
				err := o.UpdateAssets(ctx, []*core.AssetConfig{config}, nil)
				assert.ErrorIs(t, err, core.ErrInvalidPriceSource)
				assert.Equal(t, 1, o.configCount(t))
			})
		}
	})
}

func TestPagedAssetInfo(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		configs := []*core.AssetConfig{base()}
		for idx := 1; idx <= 6; idx++ {
			configs = append(configs, valueAs(core.AssetEntry(fmt.Sprintf("a%02d", idx)), "usd", "1"))
		}
		require.NoError(t, o.UpdateAssets(ctx, configs, nil))

		var (
			keys  []string
			after *core.AssetInfo
		)
		for {
			page, err := o.PagedAssetInfo(ctx, after, pageSize(1))
			require.NoError(t, err)
			if len(page) == 0 {
				break
			}

			require.Len(t, page, 1)
			keys = append(keys, page[0].Info.Key())
			after = &page[0].Info
		}

		assert.Equal(t, []string{
			"native:ua01",
			"native:ua02",
			"native:ua03",
			"native:ua04",
			"native:ua05",
			"native:ua06",
			"native:uusd",
		}, keys)

		// default and maximum page sizes
		page, err := o.PagedAssetInfo(ctx, nil, nil)
		require.NoError(t, err)
		assert.Len(t, page, core.DefaultPageLimit)

		// explicit limits below one are raised to one
		for _, limit := range []int{0, -3} {
			page, err = o.PagedAssetInfo(ctx, nil, pageSize(limit))
			require.NoError(t, err)
			assert.Len(t, page, 1)
		}

		page, err = o.PagedAssetInfo(ctx, nil, pageSize(100))
		require.NoError(t, err)
		assert.Len(t, page, 7)

		entries, err := o.PagedAssetConfig(ctx, "a05", pageSize(100))
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, core.AssetEntry("a06"), entries[0].Entry)
		assert.Equal(t, core.AssetEntry("usd"), entries[1].Entry)
	})
}
