package chain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"oracle/core"
	"oracle/pkg/id"
	"oracle/pkg/number"
	"oracle/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const (
	bankBalancePath = "/cosmos/bank/v1beta1/balances/{address}/by_denom"
	bankSupplyPath  = "/cosmos/bank/v1beta1/supply/by_denom"
	wasmSmartPath   = "/cosmwasm/wasm/v1/contract/{contract}/smart/{query}"
)

type (
	coin struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	}

	balanceResponse struct {
		Balance coin `json:"balance"`
	}

	supplyResponse struct {
		Amount coin `json:"amount"`
	}

	smartResponse struct {
		Data json.RawMessage `json:"data"`
	}

	cw20Balance struct {
		Balance string `json:"balance"`
	}

	cw20TokenInfo struct {
		Name        string `json:"name"`
		Symbol      string `json:"symbol"`
		Decimals    int    `json:"decimals"`
		TotalSupply string `json:"total_supply"`
	}
)

type balanceReader struct {
	client *resty.Client
}

// New balance reader against a cosmos lcd endpoint
func New(cfg core.Chain) core.IBalanceReader {
	return &balanceReader{
		client: resthttp.New(cfg.EndPoint, time.Duration(cfg.Timeout)*time.Second),
	}
}

func (b *balanceReader) request(ctx context.Context) *resty.Request {
	return resthttp.WithRequestID(ctx, b.client, id.GenTraceID())
}

func (b *balanceReader) Balance(ctx context.Context, asset core.AssetInfo, address string) (decimal.Decimal, error) {
	switch asset.Kind {
	case core.AssetKindNative:
		var resp balanceResponse
		request := b.request(ctx).
			SetPathParam("address", address).
			SetQueryParam("denom", asset.Ref)
		if _, err := resthttp.Execute(request, "GET", bankBalancePath, nil, &resp); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("query bank balance", asset, address)
			return decimal.Zero, err
		}

		return parseAmount(resp.Balance.Amount)
	case core.AssetKindCw20:
		var resp cw20Balance
		if err := b.smartQuery(ctx, asset.Ref, map[string]interface{}{
			"balance": map[string]string{"address": address},
		}, &resp); err != nil {
			return decimal.Zero, err
		}

		return parseAmount(resp.Balance)
	default:
		return decimal.Zero, fmt.Errorf("unknown asset kind %q", asset.Kind)
	}
}

func (b *balanceReader) TotalSupply(ctx context.Context, asset core.AssetInfo) (decimal.Decimal, error) {
	switch asset.Kind {
	case core.AssetKindNative:
		var resp supplyResponse
		request := b.request(ctx).SetQueryParam("denom", asset.Ref)
		if _, err := resthttp.Execute(request, "GET", bankSupplyPath, nil, &resp); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("query bank supply", asset)
			return decimal.Zero, err
		}

		return parseAmount(resp.Amount.Amount)
	case core.AssetKindCw20:
		var resp cw20TokenInfo
		if err := b.smartQuery(ctx, asset.Ref, map[string]interface{}{
			"token_info": struct{}{},
		}, &resp); err != nil {
			return decimal.Zero, err
		}

		return parseAmount(resp.TotalSupply)
	default:
		return decimal.Zero, fmt.Errorf("unknown asset kind %q", asset.Kind)
	}
}

func (b *balanceReader) smartQuery(ctx context.Context, contract string, query, out interface{}) error {
	msg, err := json.Marshal(query)
	if err != nil {
		return err
	}

	var resp smartResponse
	request := b.request(ctx).SetPathParams(map[string]string{
		"contract": contract,
		"query":    base64.StdEncoding.EncodeToString(msg),
	})
	if _, err := resthttp.Execute(request, "GET", wasmSmartPath, nil, &resp); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("smart query", contract, string(msg))
		return err
	}

	return json.Unmarshal(resp.Data, out)
}

func parseAmount(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}

	amount, err := number.Amount(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", v, core.ErrInvalidAmount)
	}

	return amount, nil
}
