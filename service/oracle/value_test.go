package oracle

import (
	"context"
	"testing"

	"oracle/core"
	storeoracle "oracle/store/oracle"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumBreakdown(value *core.AccountValue) decimal.Decimal {
	total := decimal.Zero
	for _, b := range value.Breakdown {
		total = total.Add(b.Amount)
	}

	return total
}

func TestAccountValueBaseOnly(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{base()}, nil))
		o.balances.set(testAccount, usd, 1234)

		value, err := o.AccountValue(ctx, testAccount)
		require.NoError(t, err)
		assert.Equal(t, usd, value.TotalValue.Info)
		assert.Equal(t, "1234", value.TotalValue.Amount.String())
		require.Len(t, value.Breakdown, 1)
		assert.Equal(t, usd, value.Breakdown[0].Info)
		assert.Equal(t, "1234", value.Breakdown[0].Amount.String())
	})
}

func TestAccountValueOneHop(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{base(), valueAs("eur", "usd", "0.5")}, nil))
		o.balances.set(testAccount, eur, 1000)

		value, err := o.AccountValue(ctx, testAccount)
		require.NoError(t, err)
		assert.Equal(t, "500", value.TotalValue.Amount.String())

		single, err := o.AssetValue(ctx, core.NewAsset(eur, decimal.NewFromInt(1000)))
		require.NoError(t, err)
		assert.Equal(t, "500", single.String())
	})
}

func TestAccountValueEndToEnd(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{base()}, nil))
		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{valueAs("eur", "usd", "0.5")}, nil))

		o.balances.set(testAccount, eur, 1000)
		o.balances.set(testAccount, usd, 1000)

		value, err := o.AccountValue(ctx, testAccount)
		require.NoError(t, err)
		assert.Equal(t, core.NewAsset(usd, decimal.NewFromInt(1500)).String(), value.TotalValue.String())
		assert.Equal(t, "1500", sumBreakdown(value).String())

		contributions := map[core.AssetInfo]string{}
		for _, b := range value.Breakdown {
			contributions[b.Info] = b.Amount.String()
		}
		assert.Equal(t, map[core.AssetInfo]string{eur: "500", usd: "1000"}, contributions)
	})
}

func TestAccountValueFloors(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newTestOracle(t, store)

		require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{base(), valueAs("eur", "usd", "0.3333")}, nil))
		o.balances.set(testAccount, eur, 10)

		value, err := o.AccountValue(ctx, testAccount)
		require.NoError(t, err)
		assert.Equal(t, "3", value.TotalValue.Amount.String())
	})
}

// usd <- juno (value as 2) <- crab (pool) <- lp
func newDexOracle(t *testing.T, store core.OracleStore) *testOracle {
	ctx := context.Background()
	o := newTestOracle(t, store)

	require.NoError(t, o.UpdateAssets(ctx, []*core.AssetConfig{
		base(),
		valueAs("juno", "usd", "2"),
		{Entry: "crab", Source: core.PairSource(core.NewDexAssetPairing("crab", "juno", "junoswap"))},
		{Entry: testLpEntry, Source: core.LiquidityTokenSource()},
	}, nil))

	o.balances.set(testPool, crab, 4000)
	o.balances.set(testPool, juno, 1000)
	o.balances.supplies[lp] = decimal.NewFromInt(100)

	return o
}

func TestDexPriceSources(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newDexOracle(t, store)

		for info, complexity := range map[core.AssetInfo]core.Complexity{usd: 0, juno: 1, crab: 2, lp: 3} {
			asset, found, err := o.store.FindAsset(ctx, info)
			require.NoError(t, err)
			require.True(t, found, info.String())
			assert.Equal(t, complexity, asset.Complexity, info.String())
		}

		crabAsset, _, err := o.store.FindAsset(ctx, crab)
		require.NoError(t, err)
		assert.Equal(t, core.PriceSourcePool, crabAsset.PriceSource.Type)
		assert.Equal(t, testPool, crabAsset.PriceSource.Address.Contract)
		assert.Equal(t, []core.AssetInfo{juno}, crabAsset.PriceSource.Dependencies(crab))

		// 100 crab -> 25 juno -> 50 usd
		value, err := o.AssetValue(ctx, core.NewAsset(crab, decimal.NewFromInt(100)))
		require.NoError(t, err)
		assert.Equal(t, "50", value.String())

		// 10 lp -> 400 crab + 100 juno -> 100 juno + 100 juno -> 400 usd
		value, err = o.AssetValue(ctx, core.NewAsset(lp, decimal.NewFromInt(10)))
		require.NoError(t, err)
		assert.Equal(t, "400", value.String())
	})
}

func TestAccountValueMatchesAssetValue(t *testing.T) {
	ctx := context.Background()

	for _, holding := range []core.Asset{
		core.NewAsset(usd, decimal.NewFromInt(777)),
		core.NewAsset(juno, decimal.NewFromInt(333)),
		core.NewAsset(crab, decimal.NewFromInt(1001)),
		core.NewAsset(lp, decimal.NewFromInt(37)),
	} {
		t.Run(holding.Info.String(), func(t *testing.T) {
			o := newDexOracle(t, storeoracle.NewMemory())
			o.balances.set(testAccount, holding.Info, holding.Amount.IntPart())

			expected, err := o.AssetValue(ctx, holding)
			require.NoError(t, err)

			value, err := o.AccountValue(ctx, testAccount)
			require.NoError(t, err)
			assert.Equal(t, expected.String(), value.TotalValue.Amount.String())
		})
	}
}

func TestAccountValueDexHoldings(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newDexOracle(t, store)

		o.balances.set(testAccount, lp, 10)
		o.balances.set(testAccount, crab, 100)

		value, err := o.AccountValue(ctx, testAccount)
		require.NoError(t, err)
		assert.Equal(t, usd, value.TotalValue.Info)
		assert.Equal(t, "450", value.TotalValue.Amount.String())
		assert.Equal(t, "450", sumBreakdown(value).String())

		holding, err := o.HoldingAmount(ctx, testAccount, "crab")
		require.NoError(t, err)
		assert.Equal(t, "100", holding.String())

		tokenValue, err := o.TokenValue(ctx, testAccount, testLpEntry, nil)
		require.NoError(t, err)
		assert.Equal(t, "400", tokenValue.String())

		amount := decimal.NewFromInt(20)
		tokenValue, err = o.TokenValue(ctx, testAccount, testLpEntry, &amount)
		require.NoError(t, err)
		assert.Equal(t, "800", tokenValue.String())
	})
}

func TestAssetValueErrors(t *testing.T) {
	forEachStore(t, func(t *testing.T, store core.OracleStore) {
		ctx := context.Background()
		o := newDexOracle(t, store)

		_, err := o.AssetValue(ctx, core.NewAsset(eur, decimal.NewFromInt(1)))
		assert.ErrorIs(t, err, core.ErrUnknownAsset)

		_, err = o.AssetValue(ctx, core.NewAsset(usd, decimal.RequireFromString("1.5")))
		assert.ErrorIs(t, err, core.ErrInvalidAmount)

		// drained pool
		o.balances.set(testPool, crab, 0)
		_, err = o.AssetValue(ctx, core.NewAsset(crab, decimal.NewFromInt(1)))
		assert.ErrorIs(t, err, core.ErrInvalidPrice)

		// lp without supply is worth nothing
		o.balances.set(testPool, crab, 4000)
		o.balances.supplies[lp] = decimal.Zero
		value, err := o.AssetValue(ctx, core.NewAsset(lp, decimal.NewFromInt(10)))
		require.NoError(t, err)
		assert.True(t, value.IsZero())
	})
}

func TestValueCache(t *testing.T) {
	var cache valueCache

	cache.add([]core.Asset{core.NewAsset(lp, decimal.NewFromInt(10))}, []core.AssetConversion{
		core.NewAssetConversion(crab, decimal.NewFromInt(40)),
		core.NewAssetConversion(juno, decimal.NewFromInt(10)),
	})
	cache.push(juno, core.NewAsset(crab, decimal.NewFromInt(25)))

	assert.Nil(t, cache.take(usd))

	values := cache.take(juno)
	require.Len(t, values, 2)
	assert.Equal(t, lp, values[0].Info)
	assert.Equal(t, "100", values[0].Amount.String())
	assert.Equal(t, crab, values[1].Info)

	// taken values are removed
	assert.Nil(t, cache.take(juno))
	require.Len(t, cache, 1)
	assert.Equal(t, "400", cache.take(crab)[0].Amount.String())
}
