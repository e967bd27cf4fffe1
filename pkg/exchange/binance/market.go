package binance

import (
	"context"

	"nakula/pkg/core"
	"nakula/pkg/exchange"
)

// DefaultTradeLimit is sent when no limit is given to the trade and kline endpoints.
const DefaultTradeLimit = 500

func limitOrDefault(o *exchange.Options) int {
	if o.Limit != nil {
		return *o.Limit
	}
	return DefaultTradeLimit
}

// Ping tests connectivity to the REST API.
func (c *Client) Ping(ctx context.Context) error {
	_, err := call[core.Empty](ctx, c, core.NewRequest(core.OpPing), signing{})
	return err
}

func (c *Client) ServerTime(ctx context.Context) (*core.ServerTime, error) {
	return callPtr[core.ServerTime](ctx, c, core.NewRequest(core.OpServerTime), signing{})
}

// ExchangeInfo returns trading rules for the given symbols, or for every
// symbol when none are given.
func (c *Client) ExchangeInfo(ctx context.Context, symbols ...string) (*core.ExchangeInfo, error) {
	req := core.NewRequest(core.OpExchangeInfo)
	switch len(symbols) {
	case 0:
	case 1:
		req.SetQuery("symbol", symbols[0])
	default:
		req.SetQuery("symbols", symbols)
	}
	return callPtr[core.ExchangeInfo](ctx, c, req, signing{})
}

// OrderBook returns the depth of symbol. A zero limit means 100.
func (c *Client) OrderBook(ctx context.Context, symbol string, limit core.OrderBookLimit) (*core.OrderBook, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = core.DefaultOrderBookLimit
	}
	if !limit.IsValid() {
		return nil, core.NewValidationError(core.ErrCodeInvalidParameter,
			"'limit' must be one of 5, 10, 20, 50, 100, 500, 1000 or 5000, got %d", limit)
	}

	req := core.NewRequest(core.OpOrderBook).
		SetQuery("symbol", symbol).
		SetQuery("limit", int(limit)).
		SetWeight(limit.Weight())
	return callPtr[core.OrderBook](ctx, c, req, signing{})
}

// RecentTrades returns the latest trades. Accepts WithLimit.
func (c *Client) RecentTrades(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.Trade, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	options := exchange.ApplyOptions(opts...)

	req := core.NewRequest(core.OpRecentTrades).
		SetQuery("symbol", symbol).
		SetQuery("limit", limitOrDefault(options))
	return call[[]core.Trade](ctx, c, req, signing{})
}

// HistoricalTrades returns older trades. Accepts WithLimit and WithFromID.
// It needs an API key but no signature.
func (c *Client) HistoricalTrades(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.Trade, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	options := exchange.ApplyOptions(opts...)

	req := core.NewRequest(core.OpHistoricalTrades).
		SetQuery("symbol", symbol).
		SetQuery("limit", limitOrDefault(options)).
		SetQuery("fromId", options.FromID)
	return call[[]core.Trade](ctx, c, req, signing{})
}

// AggregateTrades returns compressed trades. Accepts WithLimit, WithFromID
// and a time range.
func (c *Client) AggregateTrades(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.AggTrade, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	options := exchange.ApplyOptions(opts...)

	req := core.NewRequest(core.OpAggTrades).
		SetQuery("symbol", symbol).
		SetQuery("limit", limitOrDefault(options)).
		SetQuery("fromId", options.FromID).
		SetQuery("startTime", options.StartTime).
		SetQuery("endTime", options.EndTime)
	return call[[]core.AggTrade](ctx, c, req, signing{})
}

// Klines returns candlesticks. Accepts WithLimit and a time range.
func (c *Client) Klines(ctx context.Context, symbol string, interval core.KlineInterval, opts ...exchange.Option) ([]core.Kline, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if !interval.IsValid() {
		return nil, core.NewValidationError(core.ErrCodeInvalidParameter, "invalid kline interval %q", interval)
	}
	options := exchange.ApplyOptions(opts...)

	req := core.NewRequest(core.OpKlines).
		SetQuery("symbol", symbol).
		SetQuery("interval", interval).
		SetQuery("limit", limitOrDefault(options)).
		SetQuery("startTime", options.StartTime).
		SetQuery("endTime", options.EndTime)
	return call[[]core.Kline](ctx, c, req, signing{})
}

func (c *Client) AveragePrice(ctx context.Context, symbol string) (*core.AveragePrice, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	req := core.NewRequest(core.OpAvgPrice).SetQuery("symbol", symbol)
	return callPtr[core.AveragePrice](ctx, c, req, signing{})
}

func (c *Client) Ticker24h(ctx context.Context, symbol string) (*core.Ticker24h, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	req := core.NewRequest(core.OpTicker24h).SetQuery("symbol", symbol)
	return callPtr[core.Ticker24h](ctx, c, req, signing{})
}

// Tickers24h returns 24 hour statistics for every symbol.
func (c *Client) Tickers24h(ctx context.Context) ([]core.Ticker24h, error) {
	req := core.NewRequest(core.OpTicker24h).SetWeight(40)
	return call[[]core.Ticker24h](ctx, c, req, signing{})
}

func (c *Client) TickerPrice(ctx context.Context, symbol string) (*core.PriceTicker, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	req := core.NewRequest(core.OpTickerPrice).SetQuery("symbol", symbol)
	return callPtr[core.PriceTicker](ctx, c, req, signing{})
}

func (c *Client) TickerPrices(ctx context.Context) ([]core.PriceTicker, error) {
	req := core.NewRequest(core.OpTickerPrice).SetWeight(2)
	return call[[]core.PriceTicker](ctx, c, req, signing{})
}

func (c *Client) BookTicker(ctx context.Context, symbol string) (*core.BookTicker, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	req := core.NewRequest(core.OpBookTicker).SetQuery("symbol", symbol)
	return callPtr[core.BookTicker](ctx, c, req, signing{})
}

func (c *Client) BookTickers(ctx context.Context) ([]core.BookTicker, error) {
	req := core.NewRequest(core.OpBookTicker).SetWeight(2)
	return call[[]core.BookTicker](ctx, c, req, signing{})
}
