package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"oracle/core"
	"oracle/service/oracle"
	"oracle/service/registry"
	storeoracle "oracle/store/oracle"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminToken = "secret"

type balances map[string]int64

func (b balances) Balance(_ context.Context, asset core.AssetInfo, address string) (decimal.Decimal, error) {
	return decimal.NewFromInt(b[address+"/"+asset.Key()]), nil
}

func (b balances) TotalSupply(_ context.Context, _ core.AssetInfo) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type snapshotStore struct {
	snapshots []*core.AccountSnapshot
}

func (s *snapshotStore) Save(_ context.Context, snapshot *core.AccountSnapshot) error {
	snapshot.ID = int64(len(s.snapshots) + 1)
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

func (s *snapshotStore) List(_ context.Context, account string, fromID int64, limit int) ([]*core.AccountSnapshot, error) {
	var out []*core.AccountSnapshot
	for _, snapshot := range s.snapshots {
		if snapshot.Account == account && snapshot.ID > fromID && len(out) < limit {
			out = append(out, snapshot)
		}
	}

	return out, nil
}

func (s *snapshotStore) DeleteByTime(_ context.Context, _ time.Time) error {
	return nil
}

type response struct {
	Data json.RawMessage `json:"data"`
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
}

func newTestServer(t *testing.T) (*httptest.Server, *snapshotStore) {
	r, err := registry.New(&registry.File{
		Assets: map[string]string{
			"usd": "native:uusd",
			"eur": "native:ueur",
		},
	})
	require.NoError(t, err)

	oracleService := oracle.New(storeoracle.NewMemory(), r, balances{
		"juno1account/native:uusd": 1000,
		"juno1account/native:ueur": 1000,
	})

	snapshots := &snapshotStore{}
	server := New(&core.Config{Admins: []string{adminToken}}, oracleService, snapshots)
	return httptest.NewServer(server.HandleRestAPI()), snapshots
}

func do(t *testing.T, method, url, token string, body interface{}) (int, *response) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, &out
}

func TestRestAPI(t *testing.T) {
	server, snapshots := newTestServer(t)
	defer server.Close()

	update := map[string]interface{}{
		"to_add": []map[string]interface{}{
			{"entry": "usd", "price_source": map[string]interface{}{"type": "none"}},
			{"entry": "eur", "price_source": map[string]interface{}{"type": "value_as", "asset": "usd", "multiplier": "0.5"}},
		},
	}

	status, _ := do(t, http.MethodPost, server.URL+"/assets", "", update)
	assert.Equal(t, http.StatusForbidden, status)

	status, resp := do(t, http.MethodPost, server.URL+"/assets", adminToken, update)
	require.Equal(t, http.StatusOK, status, resp.Msg)

	// registering usd again
	status, resp = do(t, http.MethodPost, server.URL+"/assets", adminToken, map[string]interface{}{
		"to_add": []map[string]interface{}{{"entry": "usd", "price_source": map[string]interface{}{"type": "none"}}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, int(core.ErrDuplicateAsset), resp.Code)

	status, resp = do(t, http.MethodGet, server.URL+"/base-asset", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"key":"native:uusd","asset_info":{"kind":"native","ref":"uusd"}}`, string(resp.Data))

	status, resp = do(t, http.MethodGet, server.URL+"/assets?limit=1&start_after=native:ueur", "", nil)
	require.Equal(t, http.StatusOK, status)
	var assets []struct {
		Key        string `json:"key"`
		Complexity int    `json:"complexity"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &assets))
	require.Len(t, assets, 1)
	assert.Equal(t, "native:uusd", assets[0].Key)
	assert.Equal(t, 0, assets[0].Complexity)

	// an explicit zero limit still returns one item, an absent one the default page
	status, resp = do(t, http.MethodGet, server.URL+"/assets?limit=0", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &assets))
	assert.Len(t, assets, 1)

	status, resp = do(t, http.MethodGet, server.URL+"/configs", "", nil)
	require.Equal(t, http.StatusOK, status)
	var configs []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &configs))
	assert.Len(t, configs, 2)

	status, resp = do(t, http.MethodGet, server.URL+"/configs/eur", "", nil)
	require.Equal(t, http.StatusOK, status)
	var config struct {
		PriceSource core.UncheckedPriceSource `json:"price_source"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &config))
	assert.Equal(t, core.PriceSourceValueAs, config.PriceSource.Type)

	status, resp = do(t, http.MethodGet, server.URL+"/configs/gbp", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, int(core.ErrUnknownAsset), resp.Code)

	status, resp = do(t, http.MethodGet, server.URL+"/value?asset=native:ueur&amount=1000", "", nil)
	require.Equal(t, http.StatusOK, status)
	var value struct {
		Value decimal.Decimal `json:"value"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &value))
	assert.Equal(t, "500", value.Value.String())

	status, _ = do(t, http.MethodGet, server.URL+"/value?asset=native:ueur&amount=1.5", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = do(t, http.MethodGet, server.URL+"/accounts/juno1account/value", "", nil)
	require.Equal(t, http.StatusOK, status)
	var accountValue struct {
		TotalValue core.Asset   `json:"total_value"`
		Breakdown  []core.Asset `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &accountValue))
	assert.Equal(t, "1500", accountValue.TotalValue.Amount.String())
	assert.Len(t, accountValue.Breakdown, 2)

	status, resp = do(t, http.MethodGet, server.URL+"/accounts/juno1account/holdings/eur", "", nil)
	require.Equal(t, http.StatusOK, status)
	var holding struct {
		Amount decimal.Decimal `json:"amount"`
		Value  decimal.Decimal `json:"value"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &holding))
	assert.Equal(t, "1000", holding.Amount.String())
	assert.Equal(t, "500", holding.Value.String())

	require.NoError(t, snapshots.Save(context.Background(), &core.AccountSnapshot{
		Account:    "juno1account",
		BaseAsset:  "native:uusd",
		TotalValue: decimal.NewFromInt(1500),
		Breakdown:  []byte(`[]`),
	}))
	status, resp = do(t, http.MethodGet, server.URL+"/accounts/juno1account/snapshots", "", nil)
	require.Equal(t, http.StatusOK, status)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	assert.Len(t, items, 1)
}
